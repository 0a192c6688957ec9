package types

// SymbolKind identifies the language construct a symbol represents.
type SymbolKind string

const (
	KindFunction  SymbolKind = "function"
	KindMethod    SymbolKind = "method"
	KindClass     SymbolKind = "class"
	KindStruct    SymbolKind = "struct"
	KindInterface SymbolKind = "interface"
	KindEnum      SymbolKind = "enum"
	KindModule    SymbolKind = "module"
)

// Visibility is the access level of a symbol.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityInternal  Visibility = "internal"
	VisibilityPrivate   Visibility = "private"
)

// Symbol is one extracted code symbol with its inclusive 1-based line range.
type Symbol struct {
	Kind       SymbolKind
	Name       string
	Visibility Visibility
	Signature  string
	StartLine  int
	EndLine    int
}

// IsChunkable reports whether the symbol kind maps to a standalone chunk.
func (s *Symbol) IsChunkable() bool {
	switch s.Kind {
	case KindFunction, KindMethod, KindClass, KindStruct:
		return true
	default:
		return false
	}
}
