package usecase

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Error kinds. Every error returned by a usecase for a rejected request wraps exactly
// one of these, so callers branch with errors.Is on the kind.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidState      = errors.New("invalid state")
	ErrConflict          = errors.New("conflict")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrDoctorNotAccepted = errors.New("doctor has not been accepted yet")
)

// kindError is a specific error carrying its kind
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

var (
	ErrUserNotFound      = newError(ErrNotFound, "user not found")
	ErrDoctorNotFound    = newError(ErrNotFound, "doctor not found")
	ErrDoctorRecordEmpty = newError(ErrNotFound, "no doctor record is linked to this account")
	ErrRoleNotAllowed    = newError(ErrForbidden, "your role is not allowed to perform this operation")

	ErrInvalidDate = newError(ErrInvalidArgument, "invalid date format, use YYYY-MM-DD")
	ErrInvalidTime = newError(ErrInvalidArgument, "invalid time format, use HH:MM")
	ErrInvalidDay  = newError(ErrNotFound, "unknown day, use MONDAY..SUNDAY")
)

// isDuplicateKeyError reports whether err is a unique violation of the named constraint.
// With TranslateError enabled gorm reports the violation as gorm.ErrDuplicatedKey and drops
// the constraint name, so that form matches any constraint.
func isDuplicateKeyError(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		return pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// sqlite reports "UNIQUE constraint failed: <table>.<columns>"
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
