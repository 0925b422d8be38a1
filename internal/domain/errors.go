package domain

import "errors"

var (
	// ErrValidation is returned for missing or malformed input before any
	// storage access happens.
	ErrValidation = errors.New("invalid input")
	// ErrDuplicateIdentity is returned when a username or email is already
	// taken; the storage layer's uniqueness constraints are the source of truth.
	ErrDuplicateIdentity = errors.New("username or email already exists")
	// ErrUserNotFound is returned when no user matches the identifier.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when the password does not match.
	// Kept distinct from ErrUserNotFound on purpose.
	ErrInvalidCredentials = errors.New("incorrect password")
	// ErrNoQuestions is returned when a session holds no questions to score.
	ErrNoQuestions = errors.New("no questions available")
	// ErrQuizSubmitted is returned for any mutation after submission.
	ErrQuizSubmitted = errors.New("quiz already submitted")
	// ErrStorageUnavailable wraps fatal storage I/O failures.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
