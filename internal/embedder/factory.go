package embedder

import (
	"fmt"
	"strings"
)

// Provider names accepted by New.
const (
	ProviderOllama = "ollama"
)

// Config selects and parameterizes an embedding provider.
type Config struct {
	Provider   string
	Endpoint   string
	Model      string
	Dimensions int
	CacheSize  int
}

// DefaultConfig returns the local Ollama setup.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderOllama,
		Endpoint:   DefaultEndpoint,
		Model:      DefaultModel,
		Dimensions: DefaultDimensions,
		CacheSize:  DefaultCacheSize,
	}
}

// New creates an Embedder from configuration.
func New(cfg Config) (Embedder, error) {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	dimensions := cfg.Dimensions
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}

	var cache *Cache
	if cfg.CacheSize > 0 {
		cache = NewCache(cfg.CacheSize)
	}

	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOllama:
		return NewOllamaProvider(cfg.Endpoint, model, dimensions, cache), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}
