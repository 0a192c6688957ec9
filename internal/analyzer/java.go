package analyzer

import (
	"regexp"
	"strings"

	"github.com/agentlens/agentlens/pkg/types"
)

// JavaParser extracts classes, interfaces, enums, and methods from Java
// source with line-anchored patterns. Body end lines come from brace
// matching.
type JavaParser struct {
	classPattern      *regexp.Regexp
	methodPattern     *regexp.Regexp
	annotationPattern *regexp.Regexp
}

// NewJavaParser compiles the Java patterns once.
func NewJavaParser() *JavaParser {
	return &JavaParser{
		classPattern: regexp.MustCompile(
			`(?m)^\s*(public|private|protected)?\s*(abstract|final)?\s*(class|interface|enum)\s+(\w+)`),
		methodPattern: regexp.MustCompile(
			`(?m)^\s*(public|private|protected)?\s*(static)?\s*(final)?\s*(abstract)?\s*(\w+(?:<[^>]+>)?)\s+(\w+)\s*\(`),
		annotationPattern: regexp.MustCompile(`(?m)^\s*@interface\s+(\w+)`),
	}
}

// ParseSymbols extracts Java symbols from content.
func (p *JavaParser) ParseSymbols(content string) []types.Symbol {
	var symbols []types.Symbol

	for _, m := range p.classPattern.FindAllStringSubmatchIndex(content, -1) {
		visibility := javaVisibility(group(content, m, 1))
		kindStr := group(content, m, 3)
		name := group(content, m, 4)
		line := lineNumberAt(content, m[0])

		kind := types.KindClass
		switch kindStr {
		case "interface":
			kind = types.KindInterface
		case "enum":
			kind = types.KindEnum
		}

		endLine := line
		if end := findBraceEnd(content, m[1]); end >= 0 {
			endLine = lineNumberAt(content, end)
		}

		symbols = append(symbols, types.Symbol{
			Kind:       kind,
			Name:       name,
			Visibility: visibility,
			Signature:  strings.TrimSpace(content[m[0]:m[1]]),
			StartLine:  line,
			EndLine:    endLine,
		})
	}

	for _, m := range p.methodPattern.FindAllStringSubmatchIndex(content, -1) {
		returnType := group(content, m, 5)
		name := group(content, m, 6)
		line := lineNumberAt(content, m[0])

		// Control-flow keywords match the method shape; drop them.
		switch name {
		case "if", "for", "while", "switch", "catch":
			continue
		}
		switch returnType {
		case "class", "interface", "enum", "new":
			continue
		}

		endLine := line
		if end := findBraceEnd(content, m[1]); end >= 0 {
			endLine = lineNumberAt(content, end)
		}

		signature := strings.TrimSuffix(strings.TrimSpace(content[m[0]:m[1]]), "(") + "(...)"
		symbols = append(symbols, types.Symbol{
			Kind:       types.KindMethod,
			Name:       name,
			Visibility: javaVisibility(group(content, m, 1)),
			Signature:  signature,
			StartLine:  line,
			EndLine:    endLine,
		})
	}

	for _, m := range p.annotationPattern.FindAllStringSubmatchIndex(content, -1) {
		name := group(content, m, 1)
		line := lineNumberAt(content, m[0])
		symbols = append(symbols, types.Symbol{
			Kind:       types.KindInterface,
			Name:       name,
			Visibility: types.VisibilityPublic,
			StartLine:  line,
			EndLine:    line,
		})
	}

	return symbols
}

func javaVisibility(keyword string) types.Visibility {
	switch keyword {
	case "private":
		return types.VisibilityPrivate
	case "protected":
		return types.VisibilityProtected
	case "public":
		return types.VisibilityPublic
	default:
		return types.VisibilityInternal
	}
}

// group returns the text of a submatch from FindAllStringSubmatchIndex
// output, or "" when the group did not participate.
func group(content string, m []int, n int) string {
	start, end := m[2*n], m[2*n+1]
	if start < 0 {
		return ""
	}
	return content[start:end]
}
