package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/externfetch/pkg/domain/interfaces"
	"github.com/m-mizutani/externfetch/pkg/domain/model"
	"github.com/m-mizutani/externfetch/pkg/domain/types"
	"github.com/m-mizutani/externfetch/pkg/utils/console"
	"github.com/m-mizutani/goerr/v2"
)

type fetchUseCase struct {
	downloader interfaces.Downloader
	extractor  interfaces.Extractor
	printer    *console.Printer
}

// FetchOption is a functional option for the fetch use case
type FetchOption func(*fetchUseCase)

// WithPrinter sets where progress lines are printed. Nothing is printed by default.
func WithPrinter(p *console.Printer) FetchOption {
	return func(uc *fetchUseCase) {
		uc.printer = p
	}
}

// NewFetch creates a new instance of FetchUseCase
func NewFetch(downloader interfaces.Downloader, extractor interfaces.Extractor, opts ...FetchOption) interfaces.FetchUseCase {
	uc := &fetchUseCase{
		downloader: downloader,
		extractor:  extractor,
		printer:    console.Discard(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Fetch downloads and extracts src into workDir unless its folder already exists there.
// A failure leaves any downloaded archive or partially extracted folder in place.
func (uc *fetchUseCase) Fetch(ctx context.Context, workDir string, src model.Source) (*model.FetchResult, error) {
	logger := ctxlog.From(ctx)

	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := uc.downloader.Validate(src.URL); err != nil {
		return nil, err
	}

	archiveName := src.ArchiveName()
	folder := src.ExtractedFolder()
	archivePath := filepath.Join(workDir, archiveName)
	folderPath := filepath.Join(workDir, folder)

	result := &model.FetchResult{
		Source: src,
		Folder: folderPath,
	}

	if isDir(folderPath) {
		logger.Debug("Folder already exists, skipping", "folder", folderPath, "url", src.URL)
		result.Skipped = true
		return result, nil
	}

	uc.printer.Downloading(archiveName)
	logger.Info("Downloading archive", "url", src.URL, "archive", archivePath)
	if err := uc.downloader.Download(ctx, src.URL, archivePath); err != nil {
		return nil, goerr.Wrap(err, "failed to download archive",
			goerr.V("url", src.URL),
			goerr.V("archive", archivePath))
	}

	uc.printer.Extracting(folder)
	extraction, err := uc.extractor.Extract(ctx, archivePath, workDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to extract archive",
			goerr.V("archive", archivePath),
			goerr.V("folder", folderPath))
	}

	if err := os.Remove(archivePath); err != nil {
		return nil, goerr.Wrap(err, "failed to remove archive", goerr.V("archive", archivePath))
	}

	if !isDir(folderPath) {
		return nil, goerr.New("extracted folder not found",
			goerr.V("url", src.URL),
			goerr.V("folder", folderPath),
			goerr.T(types.ErrTagExtractionFailed))
	}

	result.Files = extraction.Files
	result.Size = extraction.Size

	logger.Info("Extracted archive",
		"folder", folderPath,
		"file_count", len(result.Files),
		"total_size_bytes", result.Size,
	)

	return result, nil
}

// FetchAll creates workDir and fetches sources one after another. The first failure
// aborts the run and no result is returned.
func (uc *fetchUseCase) FetchAll(ctx context.Context, workDir string, sources []model.Source) ([]*model.FetchResult, error) {
	logger := ctxlog.From(ctx)

	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create working directory", goerr.V("dir", workDir))
	}

	results := make([]*model.FetchResult, 0, len(sources))
	for i, src := range sources {
		result, err := uc.Fetch(ctx, workDir, src)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to fetch source",
				goerr.V("index", i),
				goerr.V("url", src.URL))
		}
		results = append(results, result)
	}

	var fetched int
	for _, r := range results {
		if !r.Skipped {
			fetched++
		}
	}
	logger.Info("Extern directory is ready",
		"dir", workDir,
		"sources", len(results),
		"fetched", fetched,
	)

	return results, nil
}

// Status reports whether the folder of each source exists in workDir
func (uc *fetchUseCase) Status(ctx context.Context, workDir string, sources []model.Source) ([]*model.SourceStatus, error) {
	statuses := make([]*model.SourceStatus, 0, len(sources))
	for i, src := range sources {
		if err := src.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid source", goerr.V("index", i))
		}

		folderPath := filepath.Join(workDir, src.ExtractedFolder())
		statuses = append(statuses, &model.SourceStatus{
			Source:  src,
			Folder:  folderPath,
			Present: isDir(folderPath),
		})
	}
	return statuses, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
