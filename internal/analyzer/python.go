package analyzer

import (
	"regexp"
	"strings"

	"github.com/agentlens/agentlens/pkg/types"
)

// PythonParser extracts def and class declarations. Bodies are delimited
// by indentation, so the end line is the last line indented deeper than
// the declaration.
type PythonParser struct {
	defPattern   *regexp.Regexp
	classPattern *regexp.Regexp
}

// NewPythonParser compiles the Python patterns once.
func NewPythonParser() *PythonParser {
	return &PythonParser{
		defPattern:   regexp.MustCompile(`^(\s*)(?:async\s+)?def\s+(\w+)\s*\(`),
		classPattern: regexp.MustCompile(`^(\s*)class\s+(\w+)`),
	}
}

// ParseSymbols extracts Python symbols from content.
func (p *PythonParser) ParseSymbols(content string) []types.Symbol {
	lines := strings.Split(content, "\n")
	var symbols []types.Symbol

	for i, line := range lines {
		if m := p.classPattern.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{
				Kind:       types.KindClass,
				Name:       m[2],
				Visibility: pythonVisibility(m[2]),
				Signature:  strings.TrimSpace(line),
				StartLine:  i + 1,
				EndLine:    findIndentEnd(lines, i, len(m[1])),
			})
			continue
		}
		if m := p.defPattern.FindStringSubmatch(line); m != nil {
			indent := len(m[1])
			kind := types.KindFunction
			if indent > 0 {
				kind = types.KindMethod
			}
			symbols = append(symbols, types.Symbol{
				Kind:       kind,
				Name:       m[2],
				Visibility: pythonVisibility(m[2]),
				Signature:  strings.TrimSuffix(strings.TrimSpace(line), ":"),
				StartLine:  i + 1,
				EndLine:    findIndentEnd(lines, i, indent),
			})
		}
	}
	return symbols
}

// findIndentEnd returns the 1-based last line of a block starting at
// declLine with the given indent. Blank lines inside the block don't end
// it; the block ends at the last non-blank line indented deeper.
func findIndentEnd(lines []string, declLine, indent int) int {
	end := declLine + 1
	for i := declLine + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if lineIndent(lines[i]) <= indent {
			break
		}
		end = i + 1
	}
	return end
}

func lineIndent(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func pythonVisibility(name string) types.Visibility {
	if strings.HasPrefix(name, "__") && !strings.HasSuffix(name, "__") {
		return types.VisibilityPrivate
	}
	if strings.HasPrefix(name, "_") {
		return types.VisibilityInternal
	}
	return types.VisibilityPublic
}
