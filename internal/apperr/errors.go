// Package apperr defines the error taxonomy shared by the service layer and
// the HTTP handlers. Services wrap failures with one of the sentinels below;
// handlers translate them to status codes without inspecting the cause.
package apperr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound covers missing tenants, missing user-tenant associations
	// and lookups that return no row.
	ErrNotFound = errors.New("not found")

	// ErrValidation covers input rejected before it reaches the store.
	ErrValidation = errors.New("validation failed")

	// ErrConstraint covers database uniqueness and foreign-key violations.
	ErrConstraint = errors.New("constraint violation")

	// ErrUpstream covers failures of external collaborators (LLM API).
	ErrUpstream = errors.New("upstream failure")
)

func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

func Upstream(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrUpstream)
}

// Postgres error codes the service layer reacts to.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// FromPg maps low-level pgx errors onto the taxonomy. Unique and foreign-key
// violations become ErrConstraint; everything else passes through unchanged.
func FromPg(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, ErrConstraint)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsUniqueViolation reports whether err is specifically a unique-index
// violation, used by the requisition-number retry loop.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
