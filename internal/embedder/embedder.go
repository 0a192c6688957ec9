package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Sentinel errors for the provider failure taxonomy. Wrapped errors carry
// the endpoint and remediation guidance.
var (
	ErrProviderUnreachable = errors.New("embedding provider unreachable")
	ErrModelNotFound       = errors.New("embedding model not found")
	ErrProviderFailed      = errors.New("embedding provider failed")
	ErrUnsupportedProvider = errors.New("unsupported embedding provider")
)

// Embedder converts text into fixed-length vectors via an external
// provider.
type Embedder interface {
	// Embed returns the vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per input text, in input order. An
	// empty input yields an empty output without a provider call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the provider's declared vector length.
	Dimensions() int

	// HealthCheck verifies the provider is reachable and the configured
	// model is available.
	HealthCheck(ctx context.Context) error
}

// Cache is an LRU cache of embedding vectors keyed by content hash. Hits
// are returned as copies so callers cannot mutate cached vectors.
type Cache struct {
	cache *lru.Cache[string, []float32]
}

// DefaultCacheSize is the number of embeddings kept when no size is
// configured.
const DefaultCacheSize = 10000

// NewCache creates an embedding cache with LRU eviction.
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = DefaultCacheSize
	}
	cache, err := lru.New[string, []float32](maxLen)
	if err != nil {
		// lru.New only fails on non-positive sizes.
		cache, _ = lru.New[string, []float32](DefaultCacheSize)
	}
	return &Cache{cache: cache}
}

// Get returns a copy of the cached vector for the given content hash.
func (c *Cache) Get(hash string) ([]float32, bool) {
	vec, ok := c.cache.Get(hash)
	if !ok {
		return nil, false
	}
	out := make([]float32, len(vec))
	copy(out, vec)
	return out, true
}

// Set stores a vector under the given content hash.
func (c *Cache) Set(hash string, vec []float32) {
	c.cache.Add(hash, vec)
}

// Len returns the current number of cached embeddings.
func (c *Cache) Len() int {
	return c.cache.Len()
}

// ComputeHash returns the cache key for a text.
func ComputeHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
