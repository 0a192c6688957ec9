package analyzer

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentlens/agentlens/pkg/types"
)

// LanguageParser extracts symbols from source content of one language.
type LanguageParser interface {
	ParseSymbols(content string) []types.Symbol
}

// Analyzer dispatches to a language parser based on file extension.
// Files in unsupported languages yield no symbols; the chunker falls back
// to window chunking for those.
type Analyzer struct {
	parsers map[string]LanguageParser
}

// New creates an analyzer with all built-in language parsers registered.
func New() *Analyzer {
	return &Analyzer{
		parsers: map[string]LanguageParser{
			".go":   NewGoParser(),
			".java": NewJavaParser(),
			".py":   NewPythonParser(),
		},
	}
}

// Supports reports whether symbols can be extracted for a path.
func (a *Analyzer) Supports(path string) bool {
	_, ok := a.parsers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ParseSymbols extracts the symbols of a file, sorted by start line.
// An unsupported extension returns nil.
func (a *Analyzer) ParseSymbols(path, content string) []types.Symbol {
	parser, ok := a.parsers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil
	}

	symbols := parser.ParseSymbols(content)
	sort.SliceStable(symbols, func(i, j int) bool {
		return symbols[i].StartLine < symbols[j].StartLine
	})
	return symbols
}

// lineNumberAt returns the 1-based line of a byte offset.
func lineNumberAt(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	return strings.Count(content[:offset], "\n") + 1
}

// findBraceEnd scans forward from start for the closing brace that balances
// the first opening brace, skipping string literals. Returns -1 when the
// body never closes.
func findBraceEnd(content string, start int) int {
	depth := 0
	inString := false
	var stringChar byte

	for i := start; i < len(content); i++ {
		b := content[i]

		if inString {
			if b == stringChar && (i == 0 || content[i-1] != '\\') {
				inString = false
			}
			continue
		}

		switch b {
		case '"', '\'':
			inString = true
			stringChar = b
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
