// Package config loads agentlens settings from defaults, an optional
// .agentlens.yaml file, environment variables, and CLI flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agentlens/agentlens/internal/embedder"
)

// DefaultOutputDir is the directory under the project root that holds
// the index snapshot.
const DefaultOutputDir = ".agentlens"

// IndexFileName is the snapshot file inside the output directory.
const IndexFileName = "index.json"

// EmbedderSettings configures the embedding provider.
type EmbedderSettings struct {
	Provider   string `mapstructure:"provider"`
	Endpoint   string `mapstructure:"endpoint"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
	CacheSize  int    `mapstructure:"cache_size"`
}

// ChunkingSettings configures chunk sizing in tokens.
type ChunkingSettings struct {
	MaxTokens     int `mapstructure:"max_tokens"`
	OverlapTokens int `mapstructure:"overlap_tokens"`
}

// SearchSettings configures query ranking.
type SearchSettings struct {
	Hybrid  bool    `mapstructure:"hybrid"`
	HybridK float32 `mapstructure:"hybrid_k"`
	Limit   int     `mapstructure:"limit"`
}

// ScannerSettings configures file enumeration.
type ScannerSettings struct {
	MaxFileSizeKB    int64    `mapstructure:"max_file_size_kb"`
	RespectGitignore bool     `mapstructure:"respect_gitignore"`
	ExcludeGlobs     []string `mapstructure:"exclude_globs"`
}

// StoreSettings configures persistence.
type StoreSettings struct {
	// Backend is "file" or "sqlite".
	Backend   string `mapstructure:"backend"`
	OutputDir string `mapstructure:"output_dir"`
}

// Settings is the resolved application configuration.
type Settings struct {
	Embedder EmbedderSettings `mapstructure:"embedder"`
	Chunking ChunkingSettings `mapstructure:"chunking"`
	Search   SearchSettings   `mapstructure:"search"`
	Scanner  ScannerSettings  `mapstructure:"scanner"`
	Store    StoreSettings    `mapstructure:"store"`
	Workers  int              `mapstructure:"workers"`
}

// IndexPath returns the snapshot location for a project root.
func (s *Settings) IndexPath(root string) string {
	return filepath.Join(root, s.Store.OutputDir, IndexFileName)
}

// Validate checks cross-field constraints.
func (s *Settings) Validate() error {
	if s.Embedder.Provider == "" {
		return errors.New("embedder.provider is required")
	}
	if s.Embedder.Dimensions <= 0 {
		return errors.New("embedder.dimensions must be positive")
	}
	if s.Chunking.MaxTokens <= 0 {
		return errors.New("chunking.max_tokens must be positive")
	}
	if s.Chunking.OverlapTokens < 0 || s.Chunking.OverlapTokens >= s.Chunking.MaxTokens {
		return errors.New("chunking.overlap_tokens must be smaller than chunking.max_tokens")
	}
	if s.Search.Limit <= 0 {
		return errors.New("search.limit must be positive")
	}
	switch s.Store.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("store.backend must be file or sqlite, got %q", s.Store.Backend)
	}
	return nil
}

// LoadSettings loads settings from environment variables, an optional
// .agentlens.yaml in the working directory, and defaults.
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > config file > defaults.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("embedder.provider", embedder.ProviderOllama)
	v.SetDefault("embedder.endpoint", embedder.DefaultEndpoint)
	v.SetDefault("embedder.model", embedder.DefaultModel)
	v.SetDefault("embedder.dimensions", embedder.DefaultDimensions)
	v.SetDefault("embedder.cache_size", embedder.DefaultCacheSize)
	v.SetDefault("chunking.max_tokens", 512)
	v.SetDefault("chunking.overlap_tokens", 50)
	v.SetDefault("search.hybrid", true)
	v.SetDefault("search.hybrid_k", 60)
	v.SetDefault("search.limit", 10)
	v.SetDefault("scanner.max_file_size_kb", 500)
	v.SetDefault("scanner.respect_gitignore", true)
	v.SetDefault("store.backend", "file")
	v.SetDefault("store.output_dir", DefaultOutputDir)
	v.SetDefault("workers", 0)

	// Environment variables
	v.SetEnvPrefix("AGENTLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific env vars for nested config
	_ = v.BindEnv("embedder.provider", "AGENTLENS_EMBEDDER_PROVIDER")
	_ = v.BindEnv("embedder.endpoint", "AGENTLENS_EMBEDDER_ENDPOINT")
	_ = v.BindEnv("embedder.model", "AGENTLENS_EMBEDDER_MODEL")
	_ = v.BindEnv("embedder.dimensions", "AGENTLENS_EMBEDDER_DIMENSIONS")
	_ = v.BindEnv("search.hybrid", "AGENTLENS_SEARCH_HYBRID")
	_ = v.BindEnv("search.limit", "AGENTLENS_SEARCH_LIMIT")
	_ = v.BindEnv("scanner.respect_gitignore", "AGENTLENS_SCANNER_RESPECT_GITIGNORE")
	_ = v.BindEnv("store.backend", "AGENTLENS_STORE_BACKEND")
	_ = v.BindEnv("store.output_dir", "AGENTLENS_STORE_OUTPUT_DIR")
	_ = v.BindEnv("workers", "AGENTLENS_WORKERS")

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		_ = v.BindPFlag("embedder.endpoint", flags.Lookup("endpoint"))
		_ = v.BindPFlag("embedder.model", flags.Lookup("model"))
		_ = v.BindPFlag("search.hybrid", flags.Lookup("hybrid"))
		_ = v.BindPFlag("search.limit", flags.Lookup("limit"))
		_ = v.BindPFlag("workers", flags.Lookup("workers"))
	}

	// Optional project config file
	v.SetConfigName(".agentlens")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // missing config file is fine

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}
