package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	pgxErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
	assert.True(t, IsUniqueViolation(pgxErr, "idx_users_email"))
	assert.True(t, IsUniqueViolation(pgxErr, ""))
	assert.False(t, IsUniqueViolation(pgxErr, "idx_products_slug"))
	assert.True(t, IsUniqueViolation(fmt.Errorf("create: %w", pgxErr), "idx_users_email"))

	pqErr := &pq.Error{Code: "23505", Constraint: "idx_products_slug"}
	assert.True(t, IsUniqueViolation(pqErr, "idx_products_slug"))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}, ""))

	flattened := errors.New(`duplicate key value violates unique constraint "idx_products_slug"`)
	assert.True(t, IsUniqueViolation(flattened, "idx_products_slug"))
	assert.False(t, IsUniqueViolation(flattened, "idx_users_email"))

	assert.False(t, IsUniqueViolation(nil, "idx_users_email"))
	assert.False(t, IsUniqueViolation(errors.New("connection refused"), ""))
}
