package types

// FileEntry describes one candidate file produced by the scanner.
type FileEntry struct {
	Path         string // absolute path on disk
	RelativePath string // path relative to the scan root, slash-separated
	Size         int64
	Lines        int
	Oversized    bool // larger than the scanner's size threshold
}
