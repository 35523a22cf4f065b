package repository

import (
	"context"
	"testing"

	"dinks/repository/testutil"
	"dinks/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrisonRepository_Lifecycle(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB, 1)
	repo := NewPrisonRepository(testDB.DB)
	ctx := context.Background()

	for _, id := range []int64{1, 2} {
		_, _, err := accounts.GetOrCreate(ctx, id)
		require.NoError(t, err)
	}

	t.Run("free user has no record", func(t *testing.T) {
		record, err := repo.Get(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("create and reject a second sentence", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, testutil.CreateTestPrisonRecord(1)))

		err := repo.Create(ctx, testutil.CreateTestPrisonRecord(1))
		assert.ErrorIs(t, err, service.ErrAlreadyImprisoned)

		record, err := repo.Get(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, 2, record.DaysRemaining)
		assert.Equal(t, "100.00", record.Debt.StringFixed(2))
	})

	t.Run("daily decrement and release", func(t *testing.T) {
		long := testutil.CreateTestPrisonRecord(2)
		long.DaysRemaining = 5
		require.NoError(t, repo.Create(ctx, long))

		n, err := repo.DecrementAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		released, err := repo.ReleaseServed(ctx)
		require.NoError(t, err)
		assert.Empty(t, released)

		_, err = repo.DecrementAll(ctx)
		require.NoError(t, err)
		released, err = repo.ReleaseServed(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, released)

		remaining, err := repo.List(ctx, 10)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, int64(2), remaining[0].UserID)
		assert.Equal(t, 3, remaining[0].DaysRemaining)
		assert.True(t, remaining[0].Debt.IsZero(), "debt never goes below zero")
	})

	t.Run("delete reports whether a record existed", func(t *testing.T) {
		removed, err := repo.Delete(ctx, 2)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = repo.Delete(ctx, 2)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}
