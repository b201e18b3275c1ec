package archive

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/externfetch/pkg/domain/model"
	"github.com/m-mizutani/externfetch/pkg/domain/types"
	"github.com/m-mizutani/externfetch/pkg/utils/fileio"
	"github.com/m-mizutani/goerr/v2"
)

// Zip extracts zip archives
type Zip struct{}

// NewZip creates a zip extractor
func NewZip() *Zip {
	return &Zip{}
}

// Extract unpacks every entry of the zip file at src into destDir
func (x *Zip) Extract(ctx context.Context, src, destDir string) (*model.Extraction, error) {
	logger := ctxlog.From(ctx)

	r, err := zip.OpenReader(src)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open zip archive",
			goerr.V("archive", src),
			goerr.T(types.ErrTagExtractionFailed))
	}
	defer r.Close()

	result := &model.Extraction{}
	for _, file := range r.File {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "extraction interrupted", goerr.V("archive", src))
		}

		if err := extractFile(file, destDir); err != nil {
			return nil, goerr.Wrap(err, "failed to extract file",
				goerr.V("archive", src),
				goerr.V("entry", file.Name),
				goerr.T(types.ErrTagExtractionFailed))
		}

		result.Files = append(result.Files, file.Name)
		result.Size += int64(file.UncompressedSize64)
	}

	logger.Debug("Extracted archive",
		"archive", src,
		"dest", destDir,
		"file_count", len(result.Files),
		"total_size_bytes", result.Size,
	)

	return result, nil
}

// extractFile writes a single zip entry below destDir
func extractFile(file *zip.File, destDir string) error {
	// Reject entries escaping destDir ("zip slip")
	destPath := filepath.Join(destDir, file.Name)
	if destPath == filepath.Clean(destDir) && file.FileInfo().IsDir() {
		return nil
	}
	if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return goerr.New("invalid file path detected",
			goerr.V("file", file.Name),
			goerr.V("dest", destPath))
	}

	if file.FileInfo().IsDir() {
		return os.MkdirAll(destPath, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return goerr.Wrap(err, "failed to create parent directories", goerr.V("dir", filepath.Dir(destPath)))
	}

	rc, err := file.Open()
	if err != nil {
		return goerr.Wrap(err, "failed to open file in zip", goerr.V("file", file.Name))
	}
	defer rc.Close()

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	if _, err := fileio.Write(destPath, rc, mode); err != nil {
		return goerr.Wrap(err, "failed to extract file", goerr.V("file", file.Name))
	}

	return nil
}
