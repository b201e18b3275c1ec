package config

import (
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// ExternDirName is the name of the default working directory
const ExternDirName = "extern"

// Workdir holds the location of the extern directory
type Workdir struct {
	ExternDir string
}

// Flags returns CLI flags for working directory configuration
func (c *Workdir) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "extern-dir",
			Usage:       "Directory receiving extracted archives (default: \"extern\" next to the executable)",
			Destination: &c.ExternDir,
			Sources:     cli.EnvVars("EXTERNFETCH_EXTERN_DIR"),
		},
	}
}

// Resolve returns the absolute path of the extern directory. It does not create it.
func (c *Workdir) Resolve() (string, error) {
	if c.ExternDir != "" {
		dir, err := filepath.Abs(c.ExternDir)
		if err != nil {
			return "", goerr.Wrap(err, "failed to resolve extern directory", goerr.V("dir", c.ExternDir))
		}
		return dir, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", goerr.Wrap(err, "failed to locate executable")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Join(filepath.Dir(exe), ExternDirName), nil
}
