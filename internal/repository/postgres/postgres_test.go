package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coaching-backend/internal/models"
	"coaching-backend/internal/repository"
)

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(pgx.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, notFound(fmt.Errorf("scan: %w", pgx.ErrNoRows)), repository.ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, notFound(other))
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isDuplicateKey(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isDuplicateKey(errors.New("duplicate key")))
}

func TestJSONBRoundTrip(t *testing.T) {
	raw, err := toJSONB([]models.Installment{{Amount: 120, Paid: true}})
	require.NoError(t, err)

	var rates []models.Installment
	require.NoError(t, fromJSONB(raw, &rates))
	require.Len(t, rates, 1)
	assert.True(t, rates[0].Paid)

	var untouched map[string]float64
	require.NoError(t, fromJSONB(nil, &untouched))
	assert.Nil(t, untouched)

	assert.Error(t, fromJSONB([]byte("{"), &untouched))
}
