package types

import "github.com/m-mizutani/goerr/v2"

// Error tags distinguish failure causes. Test them with goerr.HasTag.
var (
	// ErrTagInvalidInput marks a source rejected before any I/O happened
	ErrTagInvalidInput = goerr.NewTag("invalid_input")

	// ErrTagNetworkFailure marks a transport error or an unexpected response
	ErrTagNetworkFailure = goerr.NewTag("network_failure")

	// ErrTagExtractionFailed marks a broken archive or a missing extracted folder
	ErrTagExtractionFailed = goerr.NewTag("extraction_failed")
)
