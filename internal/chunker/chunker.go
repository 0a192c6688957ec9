package chunker

import (
	"fmt"
	"strings"

	"github.com/agentlens/agentlens/pkg/types"
)

const (
	// DefaultMaxChars is the character budget per chunk.
	DefaultMaxChars = 2048

	// DefaultOverlapChars is the backward overlap between adjacent window
	// chunks.
	DefaultOverlapChars = 200

	// charsPerToken converts a token budget into characters.
	charsPerToken = 4

	// assumedLineLen approximates characters per line when converting the
	// overlap budget into a line count for window chunking.
	assumedLineLen = 80
)

// Chunker splits file text into retrieval-sized fragments, preferring
// symbol boundaries and falling back to a sliding line window.
type Chunker struct {
	maxChars     int
	overlapChars int
}

// New creates a Chunker with explicit character budgets.
func New(maxChars, overlapChars int) *Chunker {
	return &Chunker{maxChars: maxChars, overlapChars: overlapChars}
}

// Default returns a Chunker with the default budgets.
func Default() *Chunker {
	return New(DefaultMaxChars, DefaultOverlapChars)
}

// FromTokens creates a Chunker from token budgets, using the rough
// conversion of one token to four characters.
func FromTokens(maxTokens, overlapTokens int) *Chunker {
	return New(maxTokens*charsPerToken, overlapTokens*charsPerToken)
}

// ChunkBySymbols cuts one chunk per function/method/class/struct symbol.
// Symbols past the end of the file or with empty ranges are skipped;
// oversized symbols are sub-split by lines. When no symbol yields a chunk
// the whole file is chunked by window instead.
func (c *Chunker) ChunkBySymbols(file types.FileEntry, content string, symbols []types.Symbol) []types.Chunk {
	lines := splitLines(content)
	var chunks []types.Chunk

	for i := range symbols {
		sym := &symbols[i]
		if !sym.IsChunkable() {
			continue
		}

		startIdx := sym.StartLine - 1
		if startIdx < 0 {
			startIdx = 0
		}
		endIdx := sym.EndLine
		if endIdx > len(lines) {
			endIdx = len(lines)
		}
		if startIdx >= len(lines) || startIdx >= endIdx {
			continue
		}

		excerpt := strings.Join(lines[startIdx:endIdx], "\n")
		if strings.TrimSpace(excerpt) == "" {
			continue
		}

		chunkType := symbolChunkType(sym.Kind)

		if len(excerpt) > c.maxChars {
			chunks = append(chunks, c.splitLargeChunk(file.RelativePath, excerpt, startIdx+1, chunkType)...)
			continue
		}

		header := fmt.Sprintf("File: %s\nSymbol: %s (%s)\nLines: %d-%d\n\n",
			file.RelativePath, sym.Name, sym.Kind, startIdx+1, endIdx)

		chunks = append(chunks, types.Chunk{
			ID:        fmt.Sprintf("%s:%s:%d", file.RelativePath, sym.Name, sym.StartLine),
			FilePath:  file.RelativePath,
			StartLine: startIdx + 1,
			EndLine:   endIdx,
			Content:   header + excerpt,
			Hash:      types.HashContent(excerpt),
			ChunkType: chunkType,
		})
	}

	if len(chunks) == 0 {
		return c.ChunkByWindow(file, content)
	}
	return chunks
}

// ChunkByWindow greedily accumulates whole lines until the character budget
// is exceeded, then restarts the next chunk backed up by the overlap window.
func (c *Chunker) ChunkByWindow(file types.FileEntry, content string) []types.Chunk {
	lines := splitLines(content)
	if len(lines) == 0 {
		return nil
	}

	var chunks []types.Chunk
	start := 0

	for start < len(lines) {
		curLen := 0
		end := start
		for end < len(lines) && curLen < c.maxChars {
			curLen += len(lines[end]) + 1
			end++
		}

		excerpt := strings.Join(lines[start:end], "\n")
		if strings.TrimSpace(excerpt) != "" {
			header := fmt.Sprintf("File: %s\nLines: %d-%d\n\n", file.RelativePath, start+1, end)
			chunks = append(chunks, types.Chunk{
				ID:        fmt.Sprintf("%s:block:%d", file.RelativePath, start+1),
				FilePath:  file.RelativePath,
				StartLine: start + 1,
				EndLine:   end,
				Content:   header + excerpt,
				Hash:      types.HashContent(excerpt),
				ChunkType: types.ChunkBlock,
			})
		}

		next := end - c.overlapLines()
		if next <= start {
			// guarantee forward progress even when the overlap window
			// covers the whole previous chunk
			next = end
		}
		start = next
		if start >= len(lines) || end >= len(lines) {
			break
		}
	}

	return chunks
}

// splitLargeChunk splits an oversized symbol excerpt by lines, keeping the
// symbol's chunk type and emitting absolute file line numbers.
func (c *Chunker) splitLargeChunk(filePath, content string, baseLine int, chunkType types.ChunkType) []types.Chunk {
	lines := splitLines(content)
	var chunks []types.Chunk
	start := 0

	for start < len(lines) {
		curLen := 0
		end := start
		for end < len(lines) && curLen < c.maxChars {
			curLen += len(lines[end]) + 1
			end++
		}

		excerpt := strings.Join(lines[start:end], "\n")
		if strings.TrimSpace(excerpt) != "" {
			startLine := baseLine + start
			endLine := baseLine + end - 1
			header := fmt.Sprintf("File: %s\nLines: %d-%d\n\n", filePath, startLine, endLine)
			chunks = append(chunks, types.Chunk{
				ID:        fmt.Sprintf("%s:split:%d", filePath, startLine),
				FilePath:  filePath,
				StartLine: startLine,
				EndLine:   endLine,
				Content:   header + excerpt,
				Hash:      types.HashContent(excerpt),
				ChunkType: chunkType,
			})
		}

		next := end - c.overlapLines()
		if next <= start {
			next = end
		}
		start = next
		if start >= len(lines) {
			break
		}
	}

	return chunks
}

func (c *Chunker) overlapLines() int {
	return c.overlapChars / assumedLineLen
}

func symbolChunkType(kind types.SymbolKind) types.ChunkType {
	switch kind {
	case types.KindFunction:
		return types.ChunkFunction
	case types.KindMethod:
		return types.ChunkMethod
	case types.KindClass, types.KindStruct:
		return types.ChunkClass
	case types.KindModule:
		return types.ChunkModule
	default:
		return types.ChunkBlock
	}
}

// splitLines splits content the way a line-oriented reader sees it: a
// trailing newline does not produce a final empty line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}
