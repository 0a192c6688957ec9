package scanner

// defaultIgnoreDirs are directory names that are never useful for code
// search and are skipped without consulting ignore files.
var defaultIgnoreDirs = map[string]struct{}{
	".git":         {},
	".svn":         {},
	".hg":          {},
	"node_modules": {},
	"vendor":       {},
	"target":       {},
	"dist":         {},
	"build":        {},
	"out":          {},
	"__pycache__":  {},
	".venv":        {},
	"venv":         {},
	".idea":        {},
	".vscode":      {},
	".cache":       {},
	".next":        {},
	"coverage":     {},
	".agentlens":   {},
}

// codeExtensions lists the file extensions the index considers source code.
var codeExtensions = map[string]struct{}{
	".go":    {},
	".py":    {},
	".java":  {},
	".js":    {},
	".jsx":   {},
	".ts":    {},
	".tsx":   {},
	".rs":    {},
	".rb":    {},
	".c":     {},
	".h":     {},
	".cpp":   {},
	".hpp":   {},
	".cc":    {},
	".cs":    {},
	".kt":    {},
	".swift": {},
	".scala": {},
	".php":   {},
	".sh":    {},
	".sql":   {},
	".proto": {},
}

// IsCodeFile reports whether the extension (including the dot) is indexed.
func IsCodeFile(ext string) bool {
	_, ok := codeExtensions[ext]
	return ok
}
