package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/externfetch/pkg/cli/config"
	"github.com/m-mizutani/externfetch/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestManifest_Sources_Default(t *testing.T) {
	cfg := &config.Manifest{}

	sources, err := cfg.Sources()
	gt.NoError(t, err)
	gt.Number(t, len(sources)).Equal(2)
	gt.Equal(t, sources[0].ExtractedFolder(), "SDL2-2.0.10")
	gt.Equal(t, sources[1].ExtractedFolder(), "SDL2_image-2.0.5")
}

func TestManifest_Sources_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extern.toml")
	gt.NoError(t, os.WriteFile(path, []byte(`
[[source]]
url = "https://host/path/Foo-1.2.3.zip"
`), 0644))

	cfg := &config.Manifest{Path: path}
	sources, err := cfg.Sources()
	gt.NoError(t, err)
	gt.Number(t, len(sources)).Equal(1)
	gt.Equal(t, sources[0].ExtractedFolder(), "Foo-1.2.3")
}

func TestManifest_Sources_Missing(t *testing.T) {
	cfg := &config.Manifest{Path: filepath.Join(t.TempDir(), "none.toml")}

	_, err := cfg.Sources()
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagInvalidInput))
}
