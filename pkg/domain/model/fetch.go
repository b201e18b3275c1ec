package model

// FetchResult represents the outcome of fetching a single source
type FetchResult struct {
	Source  Source
	Folder  string   // Absolute path of the extracted folder
	Skipped bool     // True when the folder already existed and nothing was done
	Files   []string // Extracted archive entries
	Size    int64    // Total uncompressed size in bytes
}

// Extraction represents the entries written by an extractor
type Extraction struct {
	Files []string
	Size  int64
}

// SourceStatus reports whether a source has already been extracted
type SourceStatus struct {
	Source  Source
	Folder  string
	Present bool
}
