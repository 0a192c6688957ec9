// Package analyzer extracts symbol declarations from source files so the
// chunker can cut along symbol boundaries. Go is parsed with go/ast;
// Java and Python use line-anchored regular expressions with end-of-body
// scanning, which is good enough for chunk alignment.
package analyzer
