package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agentlens/agentlens/internal/indexer"
	"github.com/agentlens/agentlens/pkg/types"
)

// maxReportedErrors caps the per-file error lines in the index report.
const maxReportedErrors = 10

// previewHeaderLines is the number of metadata lines prepended to each
// chunk's content; previews skip them.
const previewHeaderLines = 3

// previewMaxLines and previewMaxChars bound the search result preview.
const (
	previewMaxLines = 5
	previewMaxChars = 200
)

var (
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleAccent  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stylePath    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleQuery   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// renderIndexReport formats the outcome of an index run.
func renderIndexReport(result *indexer.Result, pruned int) string {
	var b strings.Builder

	b.WriteString(styleSuccess.Render("Indexing complete!"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  Files processed: %s\n", styleSuccess.Render(fmt.Sprintf("%d", result.FilesProcessed)))
	fmt.Fprintf(&b, "  Chunks created:  %s\n", styleAccent.Render(fmt.Sprintf("%d", result.ChunksCreated)))
	fmt.Fprintf(&b, "  Files skipped:   %s\n", styleMuted.Render(fmt.Sprintf("%d (unchanged)", result.FilesSkipped)))

	if len(result.Errors) > 0 {
		fmt.Fprintf(&b, "\n%s\n", styleError.Render(fmt.Sprintf("Errors (%d):", len(result.Errors))))
		for i, msg := range result.Errors {
			if i == maxReportedErrors {
				fmt.Fprintf(&b, "  ... and %d more\n", len(result.Errors)-maxReportedErrors)
				break
			}
			fmt.Fprintf(&b, "  - %s\n", styleError.Render(msg))
		}
	}

	if pruned > 0 {
		fmt.Fprintf(&b, "\n  Pruned:          %s\n",
			styleWarn.Render(fmt.Sprintf("%d (deleted files removed from index)", pruned)))
	}
	return b.String()
}

// renderSearchResults formats ranked results for a terminal reader.
func renderSearchResults(query string, results []types.SearchResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for: %s\n", styleQuery.Render(query))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %s results for: %s\n\n",
		styleAccent.Render(fmt.Sprintf("%d", len(results))), styleQuery.Render(query))

	for i, r := range results {
		fmt.Fprintf(&b, "%s %s %s\n",
			styleMuted.Render(fmt.Sprintf("%d.", i+1)),
			stylePath.Render(r.Chunk.FilePath),
			styleMuted.Render(fmt.Sprintf("(L%d-%d)", r.Chunk.StartLine, r.Chunk.EndLine)))
		fmt.Fprintf(&b, "   Score: %s | Type: %s\n",
			styleAccent.Render(fmt.Sprintf("%.3f", r.Score)), r.Chunk.ChunkType)

		if preview := chunkPreview(r.Chunk.Content); preview != "" {
			fmt.Fprintf(&b, "   %s\n", styleMuted.Render(preview))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// chunkPreview returns the first lines of a chunk's code, skipping the
// metadata header and truncating long previews.
func chunkPreview(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) <= previewHeaderLines {
		return ""
	}

	body := lines[previewHeaderLines:]
	if len(body) > previewMaxLines {
		body = body[:previewMaxLines]
	}
	preview := strings.TrimRight(strings.Join(body, "\n"), "\n")
	if len(preview) > previewMaxChars {
		preview = preview[:previewMaxChars] + "..."
	}
	return preview
}

// renderStats formats index statistics.
func renderStats(root string, stats *types.IndexStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Index status for %s\n\n", stylePath.Render(root))
	fmt.Fprintf(&b, "  Files:   %d\n", stats.TotalFiles)
	fmt.Fprintf(&b, "  Chunks:  %d\n", stats.TotalChunks)
	fmt.Fprintf(&b, "  Size:    %s\n", formatBytes(stats.IndexSizeBytes))
	if stats.LastUpdated != nil {
		fmt.Fprintf(&b, "  Updated: %s\n", stats.LastUpdated.Format("2006-01-02 15:04:05"))
	}
	return b.String()
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
