package instancetab

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// RenderCache memoizes rendered tab markup.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// MarkupCache is an in-memory TTL cache for rendered markup.
type MarkupCache struct {
	cache *gocache.Cache
}

// NewMarkupCache builds a cache with the provided TTL. A non-positive TTL
// disables caching.
func NewMarkupCache(ttl time.Duration) *MarkupCache {
	if ttl <= 0 {
		return &MarkupCache{}
	}
	return &MarkupCache{cache: gocache.New(ttl, 2*ttl)}
}

// GetOrRender returns a cached entry or renders and stores a new one. Failed
// renders are never cached.
func (c *MarkupCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if c == nil || c.cache == nil || key == "" {
		return render()
	}
	if cached, ok := c.cache.Get(key); ok {
		if markup, ok := cached.(string); ok {
			return markup, nil
		}
	}
	markup, err := render()
	if err != nil {
		return "", err
	}
	c.cache.SetDefault(key, markup)
	return markup, nil
}

// Len reports the number of cached entries, expired ones included.
func (c *MarkupCache) Len() int {
	if c == nil || c.cache == nil {
		return 0
	}
	return c.cache.ItemCount()
}

type noopRenderCache struct{}

func (noopRenderCache) GetOrRender(_ string, render func() (string, error)) (string, error) {
	return render()
}

// renderCacheKey derives a deterministic key for a tab render. It returns an
// empty key when the instance cannot be hashed.
func renderCacheKey(code, template string, instance *Instance) string {
	b, err := json.Marshal(instance)
	if err != nil {
		return ""
	}
	sum := sha1.Sum(b)
	return code + "|" + template + "|" + hex.EncodeToString(sum[:])
}
