package interfaces

import (
	"context"

	"github.com/m-mizutani/externfetch/pkg/domain/model"
)

// Downloader copies a remote archive to a local file
type Downloader interface {
	// Validate checks that rawURL can be served by this downloader without performing I/O
	Validate(rawURL string) error

	// Download writes the resource at rawURL to dst, replacing any existing file
	Download(ctx context.Context, rawURL, dst string) error
}

// Extractor unpacks an archive file
type Extractor interface {
	// Extract writes every entry of the archive at src under destDir, preserving relative paths
	Extract(ctx context.Context, src, destDir string) (*model.Extraction, error)
}
