package config

import (
	"github.com/m-mizutani/externfetch/pkg/domain/model"
	"github.com/m-mizutani/externfetch/pkg/infra/manifest"
	"github.com/urfave/cli/v3"
)

// Manifest holds the source list configuration
type Manifest struct {
	Path string
}

// Flags returns CLI flags for manifest configuration
func (c *Manifest) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "manifest",
			Aliases:     []string{"m"},
			Usage:       "TOML file listing [[source]] entries (default: built-in SDL2 sources)",
			Destination: &c.Path,
			Sources:     cli.EnvVars("EXTERNFETCH_MANIFEST"),
		},
	}
}

// Sources returns the configured sources
func (c *Manifest) Sources() ([]model.Source, error) {
	if c.Path == "" {
		return manifest.Default(), nil
	}
	return manifest.Load(c.Path)
}
