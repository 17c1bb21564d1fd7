package social

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chirp/backend/internal/model"
	"chirp/backend/pkg/errors"
)

func TestUserLoader_CachesRepeatedLoads(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	_, err := store.EnsureUser(ctx, "alice")
	require.NoError(t, err)

	loader := NewUserLoader(store)
	for i := 0; i < 5; i++ {
		user, err := loader.Load(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.UID)
	}

	assert.Equal(t, 1, store.getUserCnt["alice"])
}

func TestUserLoader_MissesAreNotCached(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	loader := NewUserLoader(store)

	var notFound *errors.ErrUserNotFound
	_, err := loader.Load(ctx, "ghost")
	assert.ErrorAs(t, err, &notFound)

	// The uid becomes loadable once the user exists
	_, err = store.EnsureUser(ctx, "ghost")
	require.NoError(t, err)
	user, err := loader.Load(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, "ghost", user.UID)
}

func TestUserLoader_PrimeSkipsStore(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	_, err := store.EnsureUser(ctx, "alice")
	require.NoError(t, err)
	_, err = store.EnsureUser(ctx, "bob")
	require.NoError(t, err)

	loader := NewUserLoader(store)
	alice, err := store.GetUser(ctx, "alice")
	require.NoError(t, err)
	bob, err := store.GetUser(ctx, "bob")
	require.NoError(t, err)
	loader.Prime(alice, bob, nil)

	got, err := loader.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice, got)
	_, err = loader.Load(ctx, "bob")
	require.NoError(t, err)

	// One GetUser each from the explicit fetches, none from the loader
	assert.Equal(t, 1, store.getUserCnt["alice"])
	assert.Equal(t, 1, store.getUserCnt["bob"])
}

func TestUserLoader_ConcurrentLoadsShareOneFetch(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	_, err := store.EnsureUser(ctx, "alice")
	require.NoError(t, err)

	loader := NewUserLoader(store)

	var wg sync.WaitGroup
	results := make([]*model.User, 20)
	for i := 0; i < len(results); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := loader.Load(ctx, "alice")
			assert.NoError(t, err)
			results[i] = user
		}(i)
	}
	wg.Wait()

	for _, user := range results {
		require.NotNil(t, user)
		assert.Equal(t, "alice", user.UID)
	}
	// Concurrency makes the exact count racy in theory, but cache plus
	// singleflight keeps it far below the number of callers
	assert.LessOrEqual(t, store.getUserCnt["alice"], 2)
}
