package locations

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

// countingRepository counts calls that reach the backend.
type countingRepository struct {
	Repository
	calls atomic.Int32
	fail  bool
}

func (c *countingRepository) All(ctx context.Context) ([]types.Location, error) {
	c.calls.Add(1)
	if c.fail {
		return nil, errors.New("backend down")
	}
	return c.Repository.All(ctx)
}

func (c *countingRepository) ByCategory(ctx context.Context, category string) ([]types.Location, error) {
	c.calls.Add(1)
	return c.Repository.ByCategory(ctx, category)
}

func TestCachedRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("serves repeated reads from cache", func(t *testing.T) {
		backend := &countingRepository{Repository: setupMemoryRepositoryTest(t)}
		repo := NewCachedRepository(backend, time.Minute, testLogger())

		first, err := repo.All(ctx)
		require.NoError(t, err)
		second, err := repo.All(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.EqualValues(t, 1, backend.calls.Load())
	})

	t.Run("keys ignore case", func(t *testing.T) {
		backend := &countingRepository{Repository: setupMemoryRepositoryTest(t)}
		repo := NewCachedRepository(backend, time.Minute, testLogger())

		_, err := repo.ByCategory(ctx, "Natural")
		require.NoError(t, err)
		locs, err := repo.ByCategory(ctx, "natural")
		require.NoError(t, err)

		assert.Equal(t, []string{"sundarbans"}, idsOf(locs))
		assert.EqualValues(t, 1, backend.calls.Load())
	})

	t.Run("errors are not cached", func(t *testing.T) {
		backend := &countingRepository{Repository: setupMemoryRepositoryTest(t), fail: true}
		repo := NewCachedRepository(backend, time.Minute, testLogger())

		_, err := repo.All(ctx)
		require.Error(t, err)
		backend.fail = false
		locs, err := repo.All(ctx)
		require.NoError(t, err)

		assert.Len(t, locs, 35)
		assert.EqualValues(t, 2, backend.calls.Load())
	})

	t.Run("flush forces a reload", func(t *testing.T) {
		backend := &countingRepository{Repository: setupMemoryRepositoryTest(t)}
		repo := NewCachedRepository(backend, time.Minute, testLogger())

		_, err := repo.All(ctx)
		require.NoError(t, err)
		repo.Flush()
		_, err = repo.All(ctx)
		require.NoError(t, err)

		assert.EqualValues(t, 2, backend.calls.Load())
	})
}
