package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/m-mizutani/externfetch/pkg/cli/config"
	"github.com/m-mizutani/externfetch/pkg/infra/archive"
	"github.com/m-mizutani/externfetch/pkg/infra/download"
	"github.com/m-mizutani/externfetch/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdList(workdirCfg *config.Workdir, manifestCfg *config.Manifest) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "Show configured sources and whether they are already extracted",
		Action: func(ctx context.Context, c *cli.Command) error {
			workDir, err := workdirCfg.Resolve()
			if err != nil {
				return err
			}
			sources, err := manifestCfg.Sources()
			if err != nil {
				return err
			}

			uc := usecase.NewFetch(download.NewRouter(), archive.NewZip())
			statuses, err := uc.Status(ctx, workDir, sources)
			if err != nil {
				return err
			}

			out := c.Root().Writer
			presentColor := color.New(color.FgGreen)
			missingColor := color.New(color.FgYellow)
			if f, ok := out.(*os.File); !ok || f != os.Stdout {
				presentColor.DisableColor()
				missingColor.DisableColor()
			}
			present := presentColor.SprintFunc()
			missing := missingColor.SprintFunc()

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "FOLDER\tSTATUS\tURL\n")
			for _, st := range statuses {
				state := missing("missing")
				if st.Present {
					state = present("present")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", st.Source.ExtractedFolder(), state, st.Source.URL)
			}
			if err := w.Flush(); err != nil {
				return goerr.Wrap(err, "failed to write source list")
			}
			return nil
		},
	}
}
