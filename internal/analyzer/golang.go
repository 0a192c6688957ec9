package analyzer

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/agentlens/agentlens/pkg/types"
)

// GoParser extracts symbols from Go source using the standard AST.
type GoParser struct{}

// NewGoParser creates a Go symbol parser.
func NewGoParser() *GoParser {
	return &GoParser{}
}

// ParseSymbols parses the content and returns its top-level declarations.
// Content that fails to parse yields whatever symbols the partial AST has.
func (p *GoParser) ParseSymbols(content string) []types.Symbol {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "src.go", content, 0)
	if file == nil {
		_ = err // syntax errors are non-fatal; no AST means no symbols
		return nil
	}

	var symbols []types.Symbol
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			symbols = append(symbols, p.funcSymbol(fset, d))
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				// Use the enclosing decl positions so doc-less grouped
				// types still cover their full source range.
				symbols = append(symbols, p.typeSymbol(fset, d, ts))
			}
		}
	}
	return symbols
}

func (p *GoParser) funcSymbol(fset *token.FileSet, d *ast.FuncDecl) types.Symbol {
	sym := types.Symbol{
		Kind:       types.KindFunction,
		Name:       d.Name.Name,
		Visibility: goVisibility(d.Name.Name),
		Signature:  funcSignature(d),
		StartLine:  fset.Position(d.Pos()).Line,
		EndLine:    fset.Position(d.End()).Line,
	}
	if d.Recv != nil && len(d.Recv.List) > 0 {
		sym.Kind = types.KindMethod
	}
	return sym
}

func (p *GoParser) typeSymbol(fset *token.FileSet, d *ast.GenDecl, ts *ast.TypeSpec) types.Symbol {
	sym := types.Symbol{
		Name:       ts.Name.Name,
		Visibility: goVisibility(ts.Name.Name),
		StartLine:  fset.Position(ts.Pos()).Line,
		EndLine:    fset.Position(ts.End()).Line,
	}

	switch ts.Type.(type) {
	case *ast.StructType:
		sym.Kind = types.KindStruct
		sym.Signature = fmt.Sprintf("type %s struct", ts.Name.Name)
	case *ast.InterfaceType:
		sym.Kind = types.KindInterface
		sym.Signature = fmt.Sprintf("type %s interface", ts.Name.Name)
	default:
		sym.Kind = types.KindModule
		sym.Signature = fmt.Sprintf("type %s", ts.Name.Name)
	}

	// Non-grouped declarations start at the type keyword.
	if len(d.Specs) == 1 {
		sym.StartLine = fset.Position(d.Pos()).Line
	}
	return sym
}

func goVisibility(name string) types.Visibility {
	if name == "" {
		return types.VisibilityPrivate
	}
	first := name[:1]
	if first == strings.ToUpper(first) && first != strings.ToLower(first) {
		return types.VisibilityPublic
	}
	return types.VisibilityPrivate
}

func funcSignature(d *ast.FuncDecl) string {
	var b strings.Builder
	b.WriteString("func ")
	if d.Recv != nil && len(d.Recv.List) > 0 {
		b.WriteString("(")
		b.WriteString(exprString(d.Recv.List[0].Type))
		b.WriteString(") ")
	}
	b.WriteString(d.Name.Name)
	b.WriteString("(...)")
	return b.String()
}

func exprString(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return "*" + exprString(e.X)
	case *ast.IndexExpr:
		return exprString(e.X)
	case *ast.IndexListExpr:
		return exprString(e.X)
	default:
		return ""
	}
}
