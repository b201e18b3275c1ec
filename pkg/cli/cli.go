package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/externfetch/pkg/cli/config"
	"github.com/m-mizutani/externfetch/pkg/domain/types"
	"github.com/m-mizutani/externfetch/pkg/utils/errs"
	"github.com/urfave/cli/v3"
)

// Option customizes Run
type Option func(*cli.Command)

// WithWriter sets where progress lines and command output are written. Default is stdout.
func WithWriter(w io.Writer) Option {
	return func(cmd *cli.Command) {
		cmd.Writer = w
	}
}

// Run runs the CLI application
func Run(ctx context.Context, args []string, opts ...Option) error {
	var (
		loggerCfg   config.Logger
		sentryCfg   config.Sentry
		workdirCfg  config.Workdir
		manifestCfg config.Manifest
		downloadCfg config.Download
		logger      *slog.Logger
	)

	var flags []cli.Flag
	flags = append(flags, loggerCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, workdirCfg.Flags()...)
	flags = append(flags, manifestCfg.Flags()...)
	flags = append(flags, downloadCfg.Flags()...)

	app := &cli.Command{
		Name:    "externfetch",
		Usage:   "Download and extract third-party archives into the extern directory",
		Version: types.Version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}
			logger = logger.With(slog.String("run_id", uuid.NewString()))

			if enabled, err := sentryCfg.Configure(); err != nil {
				return nil, err
			} else if enabled {
				logger.Debug("Sentry enabled", slog.String("env", sentryCfg.Env))
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runFetch(ctx, c, &workdirCfg, &manifestCfg, &downloadCfg)
		},
		Commands: []*cli.Command{
			cmdList(&workdirCfg, &manifestCfg),
		},
	}
	for _, opt := range opts {
		opt(app)
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		errs.Handle(ctxlog.With(ctx, logger), err)
		return err
	}

	return nil
}
