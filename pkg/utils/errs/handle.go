package errs

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/externfetch/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Kind returns the name of the failure cause carried by err, or "unknown"
func Kind(err error) string {
	switch {
	case goerr.HasTag(err, types.ErrTagInvalidInput):
		return "invalid_input"
	case goerr.HasTag(err, types.ErrTagNetworkFailure):
		return "network_failure"
	case goerr.HasTag(err, types.ErrTagExtractionFailed):
		return "extraction_failed"
	default:
		return "unknown"
	}
}

// Handle logs err and sends it to Sentry when a client has been initialized
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	ctxlog.From(ctx).Error("Fetch failed",
		slog.String("kind", Kind(err)),
		slog.Any("error", err),
	)

	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("kind", Kind(err))
			if goErr := goerr.Unwrap(err); goErr != nil {
				scope.SetContext("values", sentry.Context(goErr.Values()))
			}
			hub.CaptureException(err)
		})
		hub.Flush(2 * time.Second)
	}
}
