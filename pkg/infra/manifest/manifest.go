package manifest

import (
	"bytes"
	"os"

	"github.com/m-mizutani/externfetch/pkg/domain/model"
	"github.com/m-mizutani/externfetch/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

type document struct {
	Sources []model.Source `toml:"source"`
}

// Default returns the built-in sources: SDL2 and SDL2_image development libraries
func Default() []model.Source {
	return []model.Source{
		{
			URL:    "https://www.libsdl.org/release/SDL2-devel-2.0.10-VC.zip",
			Folder: "SDL2-2.0.10",
		},
		{
			URL:    "https://www.libsdl.org/projects/SDL_image/release/SDL2_image-devel-2.0.5-VC.zip",
			Folder: "SDL2_image-2.0.5",
		},
	}
}

// Load reads a TOML manifest file
func Load(path string) ([]model.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read manifest",
			goerr.V("path", path),
			goerr.T(types.ErrTagInvalidInput))
	}

	sources, err := Parse(data)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid manifest", goerr.V("path", path))
	}
	return sources, nil
}

// Parse decodes manifest content. Every source is validated.
func Parse(data []byte) ([]model.Source, error) {
	var doc document
	if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode manifest", goerr.T(types.ErrTagInvalidInput))
	}

	if len(doc.Sources) == 0 {
		return nil, goerr.New("manifest has no source", goerr.T(types.ErrTagInvalidInput))
	}

	seen := make(map[string]int, len(doc.Sources))
	for i, src := range doc.Sources {
		if err := src.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid source", goerr.V("index", i))
		}

		folder := src.ExtractedFolder()
		if prev, ok := seen[folder]; ok {
			return nil, goerr.New("duplicated extracted folder",
				goerr.V("folder", folder),
				goerr.V("index", i),
				goerr.V("previous", prev),
				goerr.T(types.ErrTagInvalidInput))
		}
		seen[folder] = i
	}

	return doc.Sources, nil
}
