// Package mcp exposes the index over the Model Context Protocol on
// stdio, so editor agents can build and query the index as tools.
package mcp
