package remote

import (
	"context"
	"errors"
	"fmt"

	"fitmarket/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sony/gobreaker"
	"gorm.io/gorm"
)

var (
	// ErrNotConfigured means no remote backend is set up. Callers treat it as
	// local-only mode, not as a failure.
	ErrNotConfigured = errors.New("remote backend not configured")
	// ErrTransient covers network, timeout and availability failures.
	ErrTransient = errors.New("remote backend unavailable")
	// ErrRejected means the backend refused the data (constraint or validation).
	ErrRejected = errors.New("remote backend rejected request")
)

// Error is returned by every Table call that fails. It matches both its Kind
// and the underlying cause with errors.Is.
type Error struct {
	Op         string
	Collection domain.Collection
	Kind       error
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil || e.Err == e.Kind {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Collection, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Postgres SQLSTATE classes.
const (
	pgClassConnection    = "08"
	pgClassResources     = "53"
	pgClassOperator      = "57"
	pgClassData          = "22"
	pgClassIntegrity     = "23"
	pgClassSyntaxOrRules = "42"
)

// Classify maps a backend error to ErrNotConfigured, ErrTransient or
// ErrRejected. Anything unrecognized is treated as transient so the next
// pull gets a chance to fix it.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrNotConfigured):
		return ErrNotConfigured
	case errors.Is(err, ErrRejected):
		return ErrRejected
	case errors.Is(err, ErrTransient):
		return ErrTransient
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return ErrTransient
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrTransient
	case errors.Is(err, gorm.ErrInvalidData),
		errors.Is(err, gorm.ErrInvalidField),
		errors.Is(err, gorm.ErrInvalidValue),
		errors.Is(err, gorm.ErrPrimaryKeyRequired),
		errors.Is(err, gorm.ErrMissingWhereClause),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrRejected
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case pgClassConnection, pgClassResources, pgClassOperator:
			return ErrTransient
		case pgClassData, pgClassIntegrity, pgClassSyntaxOrRules:
			return ErrRejected
		}
	}
	// network errors land here too
	return ErrTransient
}

func wrap(op string, c domain.Collection, err error) error {
	if err == nil {
		return nil
	}
	var re *Error
	if errors.As(err, &re) {
		return err
	}
	return &Error{Op: op, Collection: c, Kind: Classify(err), Err: err}
}
