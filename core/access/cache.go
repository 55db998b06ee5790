package access

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/relabs-tech/todoapp/core/api"
)

// DefaultUserCacheSize is the maximum number of api keys held by a UserCache
const DefaultUserCacheSize = 4096

// UserCache is an in-memory cache for resolved API keys. It wraps an
// AuthService and remembers positive answers for ttl, which saves a round
// trip to the authentication service for every single request.
//
// Negative answers and failures are never cached.
type UserCache struct {
	next  AuthService
	cache *expirable.LRU[string, api.User]
}

// NewUserCache creates a new user cache in front of next
func NewUserCache(next AuthService, ttl time.Duration) *UserCache {
	return &UserCache{
		next:  next,
		cache: expirable.NewLRU[string, api.User](DefaultUserCacheSize, nil, ttl),
	}
}

// UserByAPIKey implements AuthService. This function is go-routine safe
func (c *UserCache) UserByAPIKey(ctx context.Context, apiKey string) (api.User, error) {
	if user, ok := c.cache.Get(apiKey); ok {
		return user, nil
	}
	user, err := c.next.UserByAPIKey(ctx, apiKey)
	if err != nil {
		return user, err
	}
	c.cache.Add(apiKey, user)
	return user, nil
}
