package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorCodes(t *testing.T) {
	unique := fmt.Errorf("insert equipamento: %w", &pgconn.PgError{Code: "23505", ConstraintName: "equipamentos_num_serie_key"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isFKViolation(unique))
	assert.True(t, isFKViolation(fk))
	assert.False(t, isUniqueViolation(errors.New("connection reset")))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%dell%", likePattern("dell"))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "x", deref(nullIfEmpty("x")))
	assert.Equal(t, "", deref(nil))
}
