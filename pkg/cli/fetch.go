package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/externfetch/pkg/cli/config"
	"github.com/m-mizutani/externfetch/pkg/domain/types"
	"github.com/m-mizutani/externfetch/pkg/infra/archive"
	"github.com/m-mizutani/externfetch/pkg/usecase"
	"github.com/m-mizutani/externfetch/pkg/utils/console"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func runFetch(ctx context.Context, c *cli.Command, workdirCfg *config.Workdir, manifestCfg *config.Manifest, downloadCfg *config.Download) error {
	if c.Args().Present() {
		return goerr.New("unexpected arguments",
			goerr.V("args", c.Args().Slice()),
			goerr.T(types.ErrTagInvalidInput))
	}

	logger := ctxlog.From(ctx)

	workDir, err := workdirCfg.Resolve()
	if err != nil {
		return err
	}
	sources, err := manifestCfg.Sources()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if downloadCfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, downloadCfg.Timeout)
		defer cancel()
	}

	router, gcs, err := downloadCfg.NewRouter()
	if err != nil {
		return err
	}
	defer func() {
		if err := gcs.Close(); err != nil {
			logger.Warn("Failed to close Cloud Storage client", slog.Any("error", err))
		}
	}()

	logger.Debug("Starting fetch",
		slog.String("extern_dir", workDir),
		slog.Int("sources", len(sources)),
	)

	uc := usecase.NewFetch(router, archive.NewZip(), usecase.WithPrinter(console.New(c.Root().Writer)))
	if _, err := uc.FetchAll(ctx, workDir, sources); err != nil {
		return err
	}

	return nil
}
