package model

import (
	"path"
	"strings"

	"github.com/m-mizutani/externfetch/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ArchiveExt is the only archive format handled
const ArchiveExt = ".zip"

// Source describes one archive to fetch into the extern directory
type Source struct {
	URL    string `toml:"url"`    // Archive location, http(s):// or gs://
	Folder string `toml:"folder"` // Extracted folder name; derived from URL when empty
}

// ArchiveName returns everything after the last "/" of the URL, taken verbatim
func (s Source) ArchiveName() string {
	return s.URL[strings.LastIndex(s.URL, "/")+1:]
}

// ExtractedFolder returns the explicit folder name, or the archive name without its extension
func (s Source) ExtractedFolder() string {
	if s.Folder != "" {
		return s.Folder
	}
	return strings.TrimSuffix(s.ArchiveName(), ArchiveExt)
}

// Validate checks the source before any network or file system access
func (s Source) Validate() error {
	archive := s.ArchiveName()
	if !strings.HasSuffix(s.URL, ArchiveExt) {
		return goerr.New("URL must end with "+ArchiveExt,
			goerr.V("url", s.URL),
			goerr.V("archive", archive),
			goerr.T(types.ErrTagInvalidInput))
	}

	folder := s.ExtractedFolder()
	if folder == "" || folder == "." || folder == ".." ||
		strings.ContainsAny(folder, `/\`) || path.Clean(folder) != folder {
		return goerr.New("extracted folder must be a single path element",
			goerr.V("url", s.URL),
			goerr.V("folder", folder),
			goerr.T(types.ErrTagInvalidInput))
	}

	return nil
}
