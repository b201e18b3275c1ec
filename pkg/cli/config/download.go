package config

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/externfetch/pkg/domain/types"
	"github.com/m-mizutani/externfetch/pkg/infra/download"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// Download holds transport configuration
type Download struct {
	Timeout        time.Duration
	Progress       bool
	GCSCredentials string
	Headers        []string
}

// Flags returns CLI flags for download configuration
func (c *Download) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Abort the whole run after this duration (0 means no timeout)",
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("EXTERNFETCH_TIMEOUT"),
		},
		&cli.BoolFlag{
			Name:        "progress",
			Usage:       "Show a progress bar on stderr while downloading over HTTP",
			Value:       true,
			Destination: &c.Progress,
			Sources:     cli.EnvVars("EXTERNFETCH_PROGRESS"),
		},
		&cli.StringFlag{
			Name:        "gcs-credentials",
			Usage:       "Service account JSON file for gs:// sources (default: application default credentials)",
			Destination: &c.GCSCredentials,
			Sources:     cli.EnvVars("EXTERNFETCH_GCS_CREDENTIALS"),
		},
		&cli.StringSliceFlag{
			Name:        "header",
			Aliases:     []string{"H"},
			Usage:       "Extra HTTP request header as 'Name: value' (repeatable)",
			Destination: &c.Headers,
			Sources:     cli.EnvVars("EXTERNFETCH_HEADER"),
		},
	}
}

// NewRouter builds the downloader serving http, https and gs URLs
func (c *Download) NewRouter() (*download.Router, *download.GCS, error) {
	httpOpts := []download.HTTPOption{
		download.WithHTTPClient(&http.Client{}),
	}
	for _, h := range c.Headers {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, nil, goerr.New("header must be 'Name: value'",
				goerr.V("header", h),
				goerr.T(types.ErrTagInvalidInput))
		}
		httpOpts = append(httpOpts, download.WithHeader(name, strings.TrimSpace(value)))
	}
	if c.Progress {
		httpOpts = append(httpOpts, download.WithProgress(os.Stderr))
	}

	var gcsOpts []option.ClientOption
	if c.GCSCredentials != "" {
		gcsOpts = append(gcsOpts, option.WithCredentialsFile(c.GCSCredentials))
	}
	gcs := download.NewGCS(gcsOpts...)

	router := download.NewRouter(
		download.WithTransport(download.NewHTTP(httpOpts...), "http", "https"),
		download.WithTransport(gcs, "gs"),
	)
	return router, gcs, nil
}
