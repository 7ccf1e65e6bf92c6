package scanner

import "errors"

// ErrProjectNotFound is returned by Run when the project root is missing or not a directory.
var ErrProjectNotFound = errors.New("project directory not found")

// SectionHeader is the marker written before each file's content.
const SectionHeader = "\n\n===== Datei: %s =====\n\n"

// Section is one relevant file, ready to be written.
type Section struct {
	DisplayPath string // Path relative to the project root, or absolute.
	Content     string // Decoded file content, unmodified.
	Encoding    string // Name of the decoder that accepted the content.
}

// Stats counts what a scan saw.
type Stats struct {
	Directories int // Directories descended, including the root.
	Pruned      int // Directories skipped without descending.
	Files       int // Files classified.
	Included    int // Files emitted.
	Excluded    int // Files rejected by the relevance rules.
	Failed      int // Relevant files omitted because they could not be read or decoded.
}

// Result describes a completed run.
type Result struct {
	Output   string // Absolute path of the artifact.
	Sections int    // Number of sections written.
	Bytes    int64  // Size of the artifact.
	Stats    Stats
}
