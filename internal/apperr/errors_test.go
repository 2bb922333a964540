package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqline/reqline/internal/apperr"
)

func TestFromPgMapsForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "requisitions_level_id_fkey"}

	err := apperr.FromPg("insert requisition", pgErr)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConstraint)
	assert.NotErrorIs(t, err, apperr.ErrNotFound)
}

func TestFromPgMapsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "requisitions_company_number"}

	err := apperr.FromPg("insert requisition", pgErr)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConstraint)
}

func TestFromPgLeavesOtherErrorsAlone(t *testing.T) {
	plain := errors.New("connection reset")

	err := apperr.FromPg("insert requisition", plain)

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrConstraint)
	assert.ErrorIs(t, err, plain)
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, apperr.IsUniqueViolation(unique))
	assert.False(t, apperr.IsUniqueViolation(fk))
	assert.False(t, apperr.IsUniqueViolation(errors.New("boom")))
	assert.False(t, apperr.IsUniqueViolation(nil))
}

func TestIsUniqueViolationThroughWrapping(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	wrapped := fmt.Errorf("insert requisition: %w", pgErr)

	assert.True(t, apperr.IsUniqueViolation(wrapped))
}
