// errors.go translates store-level failures into the save result the
// admin API reports. This is the only place in the engine that inspects
// driver-specific error shapes.
package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SaveErrorKind classifies a failed save.
type SaveErrorKind string

const (
	// KindDuplicate means a uniqueness constraint (typically a slug) was
	// violated. The caller can recover by prompting for a different value.
	KindDuplicate SaveErrorKind = "DUPLICATE"
	// KindInternal covers every other failure. The transaction has been
	// rolled back and the underlying cause is carried for host logging only.
	KindInternal SaveErrorKind = "INTERNAL"
)

// SaveError is the structured failure a save returns after translation.
type SaveError struct {
	Kind    SaveErrorKind
	Field   string // the conflicting field for duplicates, empty otherwise
	Message string // safe to show to the editor
	cause   error
}

func (e *SaveError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying store error for logging.
func (e *SaveError) Unwrap() error { return e.cause }

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// TranslateError converts a store error into a *SaveError. A unique
// violation becomes a field-aware duplicate error; anything else becomes an
// internal error with a generic message. A nil error stays nil.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var saveErr *SaveError
	if errors.As(err, &saveErr) {
		return saveErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		field := constraintField(pgErr.ConstraintName)
		return &SaveError{
			Kind:    KindDuplicate,
			Field:   field,
			Message: duplicateMessage(field),
			cause:   err,
		}
	}

	return &SaveError{
		Kind:    KindInternal,
		Message: "Something went wrong while saving. Please try again.",
		cause:   err,
	}
}

// constraintField extracts the column a unique constraint protects from
// PostgreSQL's conventional <table>_<column>_key constraint names.
func constraintField(constraint string) string {
	name := strings.TrimSuffix(constraint, "_key")
	if i := strings.LastIndex(name, "_"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func duplicateMessage(field string) string {
	if field == "" {
		return "A record with these values already exists."
	}
	return fmt.Sprintf("A record with this %s already exists. Please choose another.", field)
}

// IsDuplicate reports whether err is a translated duplicate save error.
func IsDuplicate(err error) bool {
	var saveErr *SaveError
	return errors.As(err, &saveErr) && saveErr.Kind == KindDuplicate
}
