package social

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"chirp/backend/internal/model"
)

// UserLoader is a request-scoped cache over user fetches. It dedupes repeated
// loads of the same uid within one request; concurrent loads of one uid share
// a single store call. Create one per incoming request and discard it with
// the request — it has no invalidation.
type UserLoader struct {
	store Store

	mu    sync.Mutex
	cache map[string]*model.User
	group singleflight.Group
}

// NewUserLoader creates a loader bound to one request's lifetime
func NewUserLoader(store Store) *UserLoader {
	return &UserLoader{
		store: store,
		cache: make(map[string]*model.User),
	}
}

// Load fetches a user by uid, hitting the store at most once per uid
func (l *UserLoader) Load(ctx context.Context, uid string) (*model.User, error) {
	l.mu.Lock()
	if user, ok := l.cache[uid]; ok {
		l.mu.Unlock()
		return user, nil
	}
	l.mu.Unlock()

	val, err, _ := l.group.Do(uid, func() (interface{}, error) {
		user, err := l.store.GetUser(ctx, uid)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[uid] = user
		l.mu.Unlock()
		return user, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.User), nil
}

// Prime seeds the cache with users already fetched by another query, so
// follow-up Loads for them skip the store
func (l *UserLoader) Prime(users ...*model.User) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, user := range users {
		if user != nil {
			l.cache[user.UID] = user
		}
	}
}
