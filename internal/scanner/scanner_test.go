package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanFindsCodeFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")
	writeFile(t, root, "lib/util.py", "def util():\n    pass\n")
	writeFile(t, root, "README.md", "# readme\n")
	writeFile(t, root, "image.png", "not code")

	s, err := New(root, Options{})
	require.NoError(t, err)

	entries, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var rels []string
	for _, e := range entries {
		rels = append(rels, e.RelativePath)
	}
	assert.Contains(t, rels, "main.go")
	assert.Contains(t, rels, "lib/util.py")
}

func TestScanSkipsDefaultDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "node_modules/dep/index.js", "module.exports = {}\n")
	writeFile(t, root, "vendor/lib/lib.go", "package lib\n")
	writeFile(t, root, ".git/hooks/pre-commit.sh", "#!/bin/sh\n")
	writeFile(t, root, ".agentlens/index.json", "{}")

	s, err := New(root, Options{})
	require.NoError(t, err)

	entries, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "main.go", entries[0].RelativePath)
}

func TestScanRespectsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "generated/\nsecret.go\n")
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "secret.go", "package main\n")
	writeFile(t, root, "generated/gen.go", "package generated\n")

	s, err := New(root, Options{RespectGitignore: true})
	require.NoError(t, err)

	entries, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "main.go", entries[0].RelativePath)
}

func TestScanGitignoreDisabled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "secret.go\n")
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "secret.go", "package main\n")

	s, err := New(root, Options{RespectGitignore: false})
	require.NoError(t, err)

	entries, err := s.Scan()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestScanExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "main_test.go", "package main\n")
	writeFile(t, root, "pkg/deep/gen.go", "package deep\n")

	s, err := New(root, Options{ExcludeGlobs: []string{"*_test.go", "pkg/**"}})
	require.NoError(t, err)

	entries, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "main.go", entries[0].RelativePath)
}

func TestScanInvalidExcludeGlob(t *testing.T) {
	_, err := New(t.TempDir(), Options{ExcludeGlobs: []string{"[unclosed"}})
	require.Error(t, err)
}

func TestScanFlagsOversized(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.go", "package main\n")
	writeFile(t, root, "big.go", "package main\n"+strings.Repeat("// padding line\n", 200))

	s, err := New(root, Options{MaxFileSizeKB: 1})
	require.NoError(t, err)

	entries, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := map[string]bool{}
	for _, e := range entries {
		byName[e.RelativePath] = e.Oversized
	}
	assert.False(t, byName["small.go"])
	assert.True(t, byName["big.go"])
}

func TestScanCountsLines(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package main\nfunc a() {}\n")
	writeFile(t, root, "b.go", "package main\nfunc b() {}") // no trailing newline

	s, err := New(root, Options{})
	require.NoError(t, err)

	entries, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, 2, e.Lines, e.RelativePath)
		assert.Positive(t, e.Size)
		assert.True(t, filepath.IsAbs(e.Path))
	}
}

func TestIsCodeFile(t *testing.T) {
	assert.True(t, IsCodeFile(".go"))
	assert.True(t, IsCodeFile(".py"))
	assert.False(t, IsCodeFile(".md"))
	assert.False(t, IsCodeFile(""))
}
