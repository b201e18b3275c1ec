package interfaces

import (
	"context"

	"github.com/m-mizutani/externfetch/pkg/domain/model"
)

// FetchUseCase defines operations for populating the extern directory
type FetchUseCase interface {
	// Fetch downloads and extracts a single source into workDir unless it is already present
	Fetch(ctx context.Context, workDir string, src model.Source) (*model.FetchResult, error)

	// FetchAll creates workDir and fetches every source in order, stopping at the first error
	FetchAll(ctx context.Context, workDir string, sources []model.Source) ([]*model.FetchResult, error)

	// Status reports which sources are already extracted in workDir
	Status(ctx context.Context, workDir string, sources []model.Source) ([]*model.SourceStatus, error)
}
