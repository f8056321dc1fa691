package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// A disabled Cache (no client) and a nil Cache must both be safe no-ops.

func TestDisabledCacheNoOps(t *testing.T) {
	ctx := context.Background()

	for name, c := range map[string]*Cache{"disabled": {}, "nil": nil} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, c.Enabled())

			_, ok := c.GetCachedAuth(ctx, "a@b.c", "pw")
			assert.False(t, ok)

			_, ok = c.GetCached(ctx, ItemListKey)
			assert.False(t, ok)

			// These must not panic
			c.CacheAuth(ctx, "a@b.c", "pw", 1)
			c.InvalidateAuth(ctx, "a@b.c", "pw")
			c.SetCached(ctx, ItemListKey, []byte("[]"), 30*time.Second)
			c.InvalidateKeys(ctx, ItemListKey)
			c.InvalidateItemCaches(ctx)
		})
	}
}

func TestHashCredentialsIsStableAndDistinct(t *testing.T) {
	a := hashCredentials("a@b.c", "pw")
	assert.Equal(t, a, hashCredentials("a@b.c", "pw"))
	assert.NotEqual(t, a, hashCredentials("a@b.c", "other"))
	assert.NotEqual(t, a, hashCredentials("x@b.c", "pw"))
	assert.Contains(t, a, "auth:")
}
