// Package app wires the configured components for a project root: store,
// embedder, indexer, and searcher. Both the CLI and the MCP server build
// their entry points on top of it.
package app

import (
	"fmt"
	"path/filepath"

	"github.com/agentlens/agentlens/internal/chunker"
	"github.com/agentlens/agentlens/internal/config"
	"github.com/agentlens/agentlens/internal/embedder"
	"github.com/agentlens/agentlens/internal/indexer"
	"github.com/agentlens/agentlens/internal/scanner"
	"github.com/agentlens/agentlens/internal/searcher"
	"github.com/agentlens/agentlens/internal/store"
)

// App bundles the components operating on one project root.
type App struct {
	Root     string
	Settings *config.Settings
	Store    store.Store
	Embedder embedder.Embedder
	Indexer  *indexer.Indexer
	Searcher *searcher.Searcher
}

// New builds an App for the given root from resolved settings.
func New(root string, settings *config.Settings) (*App, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	st, err := openStore(abs, settings)
	if err != nil {
		return nil, err
	}

	emb, err := embedder.New(embedder.Config{
		Provider:   settings.Embedder.Provider,
		Endpoint:   settings.Embedder.Endpoint,
		Model:      settings.Embedder.Model,
		Dimensions: settings.Embedder.Dimensions,
		CacheSize:  settings.Embedder.CacheSize,
	})
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	idx := indexer.New(st, emb, indexer.Options{
		Workers: settings.Workers,
		Chunker: chunker.FromTokens(settings.Chunking.MaxTokens, settings.Chunking.OverlapTokens),
	})
	srch := searcher.New(st, emb, searcher.Options{
		HybridEnabled: settings.Search.Hybrid,
		HybridK:       settings.Search.HybridK,
	})

	return &App{
		Root:     abs,
		Settings: settings,
		Store:    st,
		Embedder: emb,
		Indexer:  idx,
		Searcher: srch,
	}, nil
}

// Scanner creates a file scanner for the app's root.
func (a *App) Scanner() (*scanner.Scanner, error) {
	return scanner.New(a.Root, scanner.Options{
		MaxFileSizeKB:    a.Settings.Scanner.MaxFileSizeKB,
		RespectGitignore: a.Settings.Scanner.RespectGitignore,
		ExcludeGlobs:     a.Settings.Scanner.ExcludeGlobs,
	})
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

func openStore(root string, settings *config.Settings) (store.Store, error) {
	switch settings.Store.Backend {
	case "sqlite":
		dbPath := filepath.Join(root, settings.Store.OutputDir, "index.db")
		st, err := store.NewSQLiteStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return st, nil
	default:
		return store.NewFileStore(settings.IndexPath(root)), nil
	}
}
