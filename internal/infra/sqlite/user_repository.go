package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"

	"quizdesk/internal/domain"
)

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64  `bun:"id,pk,autoincrement"`
	Username     string `bun:"username"`
	Email        string `bun:"email"`
	PasswordHash string `bun:"password_hash"`
	Age          int    `bun:"age"`
	Gender       string `bun:"gender"`
	Category     string `bun:"category"`
	CreatedAt    string `bun:"created_at"`
}

// UserRepository persists users in the embedded sqlite store.
type UserRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. The UNIQUE constraints on username and email are the
// duplicate check; violations surface as domain.ErrDuplicateIdentity.
func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	row := userRow{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Age:          user.Age,
		Gender:       user.Gender,
		Category:     string(user.Category),
		CreatedAt:    formatTime(user.CreatedAt),
	}
	if _, err := r.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return domain.User{}, mapWriteErr("insert user", err)
	}
	user.ID = row.ID
	return user, nil
}

// FindByIdentifier matches the identifier against either username or email.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	var row userRow
	err := r.db.NewSelect().Model(&row).
		Where("username = ? OR email = ?", identifier, identifier).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("%w: find user: %v", domain.ErrStorageUnavailable, err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var row userRow
	err := r.db.NewSelect().Model(&row).Where("email = ?", email).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("%w: find user: %v", domain.ErrStorageUnavailable, err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	res, err := r.db.NewUpdate().Model((*userRow)(nil)).
		Set("password_hash = ?", hash).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return mapWriteErr("update password", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (row userRow) toDomain() domain.User {
	return domain.User{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Age:          row.Age,
		Gender:       row.Gender,
		Category:     domain.Category(row.Category),
		CreatedAt:    parseTime(row.CreatedAt),
	}
}

// mapWriteErr translates driver errors into the domain taxonomy.
func mapWriteErr(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return domain.ErrDuplicateIdentity
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, op, err)
}

// Timestamps are stored as ISO-8601 strings, matching the legacy schema.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	t, _ := time.Parse("2006-01-02T15:04:05.999999", s)
	return t
}
