package custom_error

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
)

type CustomError interface {
	Error() string
}

type ForeignKeyViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23503")
}

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

func WrapDBError(message, code string) CustomError {
	switch code {
	case codeUniqueViolation, codeSerializationFailure:
		return &ConflictError{
			Message: message,
			code:    code,
		}
	case codeForeignKeyViolation:
		return &ForeignKeyViolationError{
			message: "Value is referenced by other resources: " + message,
			code:    code,
		}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}

// FromDB translates driver errors at the repository edge. Errors that did not come
// from postgres are wrapped with message and returned as is.
func FromDB(err error, message string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return WrapDBError(message, string(pqErr.Code))
	}
	return fmt.Errorf("%s: %w", message, err)
}

func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
