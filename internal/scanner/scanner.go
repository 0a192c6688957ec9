// Package scanner enumerates the source files of a project tree, applying
// built-in ignore defaults, .gitignore rules, and user exclude globs.
package scanner

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"

	"github.com/agentlens/agentlens/pkg/types"
)

// DefaultMaxFileSizeKB is the size threshold above which a file is flagged
// as oversized. Oversized files are still returned; callers decide what to
// do with them.
const DefaultMaxFileSizeKB = 500

// Options configures a scan.
type Options struct {
	// MaxFileSizeKB flags files larger than this as oversized.
	// Zero means DefaultMaxFileSizeKB.
	MaxFileSizeKB int64
	// RespectGitignore loads .gitignore from the root when true.
	RespectGitignore bool
	// ExcludeGlobs are doublestar patterns matched against the relative
	// path; matching files are dropped.
	ExcludeGlobs []string
}

// Scanner walks a root directory and returns the code files under it.
type Scanner struct {
	root      string
	opts      Options
	gitIgnore gitignore.GitIgnore
}

// New creates a scanner for root. The .gitignore file, if requested and
// present, is loaded once at construction.
func New(root string, opts Options) (*Scanner, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	if opts.MaxFileSizeKB <= 0 {
		opts.MaxFileSizeKB = DefaultMaxFileSizeKB
	}

	for _, pattern := range opts.ExcludeGlobs {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	s := &Scanner{root: abs, opts: opts}
	if opts.RespectGitignore {
		s.gitIgnore = loadGitignore(filepath.Join(abs, ".gitignore"), abs)
	}
	return s, nil
}

// Root returns the absolute scan root.
func (s *Scanner) Root() string {
	return s.root
}

// Scan walks the tree and returns the files to index in lexical walk
// order. Each entry carries the byte size, line count, and an oversized
// flag for files above the size threshold.
func (s *Scanner) Scan() ([]types.FileEntry, error) {
	var entries []types.FileEntry
	maxBytes := s.opts.MaxFileSizeKB * 1024

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == s.root {
				return nil
			}
			if s.shouldSkipDir(d.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !IsCodeFile(strings.ToLower(filepath.Ext(path))) {
			return nil
		}
		if s.isIgnored(rel, false) || s.isExcluded(rel) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}

		lines, lineErr := countLines(path)
		if lineErr != nil {
			return lineErr
		}

		entries = append(entries, types.FileEntry{
			Path:         path,
			RelativePath: rel,
			Size:         info.Size(),
			Lines:        lines,
			Oversized:    info.Size() > maxBytes,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", s.root, err)
	}
	return entries, nil
}

func (s *Scanner) shouldSkipDir(name, rel string) bool {
	if _, ok := defaultIgnoreDirs[name]; ok {
		return true
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	return s.isIgnored(rel, true) || s.isExcluded(rel)
}

func (s *Scanner) isIgnored(rel string, isDir bool) bool {
	if s.gitIgnore == nil {
		return false
	}
	match := s.gitIgnore.Relative(rel, isDir)
	return match != nil && match.Ignore()
}

func (s *Scanner) isExcluded(rel string) bool {
	for _, pattern := range s.opts.ExcludeGlobs {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// loadGitignore reads an ignore file, returning nil when it is absent.
func loadGitignore(path, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	return gitignore.New(f, baseDir, nil)
}

// countLines counts newline-terminated lines; a trailing partial line counts.
func countLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, nil
	}
	n := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		n++
	}
	return n, nil
}
