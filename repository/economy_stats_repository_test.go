package repository

import (
	"context"
	"testing"

	"dinks/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEconomyStatsRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewEconomyStatsRepository(testDB.DB)
	ctx := context.Background()

	value, err := repo.Get(ctx, "total_lost")
	require.NoError(t, err)
	assert.True(t, value.IsZero())

	require.NoError(t, repo.Increment(ctx, "total_lost", dec("12.50")))
	require.NoError(t, repo.Increment(ctx, "total_lost", dec("0.25")))
	value, err = repo.Get(ctx, "total_lost")
	require.NoError(t, err)
	assert.Equal(t, "12.75", value.StringFixed(2))

	value, err = repo.Get(ctx, "never_used")
	require.NoError(t, err)
	assert.True(t, value.IsZero())

	require.NoError(t, repo.Increment(ctx, "never_used", dec("1")))
	value, err = repo.Get(ctx, "never_used")
	require.NoError(t, err)
	assert.Equal(t, "1.00", value.StringFixed(2))
}
