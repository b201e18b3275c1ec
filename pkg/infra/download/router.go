package download

import (
	"context"
	"net/url"
	"strings"

	"github.com/m-mizutani/externfetch/pkg/domain/interfaces"
	"github.com/m-mizutani/externfetch/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Router dispatches downloads to a transport by URL scheme
type Router struct {
	transports map[string]interfaces.Downloader
}

// RouterOption is a functional option for Router
type RouterOption func(*Router)

// WithTransport registers d for the given URL schemes
func WithTransport(d interfaces.Downloader, schemes ...string) RouterOption {
	return func(r *Router) {
		for _, scheme := range schemes {
			r.transports[strings.ToLower(scheme)] = d
		}
	}
}

// NewRouter creates a scheme router
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		transports: make(map[string]interfaces.Downloader),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) lookup(rawURL string) (interfaces.Downloader, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse URL",
			goerr.V("url", rawURL),
			goerr.T(types.ErrTagInvalidInput))
	}

	d, ok := r.transports[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, goerr.New("unsupported URL scheme",
			goerr.V("url", rawURL),
			goerr.V("scheme", u.Scheme),
			goerr.T(types.ErrTagInvalidInput))
	}

	return d, nil
}

// Validate checks that a transport is registered for rawURL and that it accepts the URL
func (r *Router) Validate(rawURL string) error {
	d, err := r.lookup(rawURL)
	if err != nil {
		return err
	}
	return d.Validate(rawURL)
}

// Download forwards to the transport registered for the scheme of rawURL
func (r *Router) Download(ctx context.Context, rawURL, dst string) error {
	d, err := r.lookup(rawURL)
	if err != nil {
		return err
	}
	return d.Download(ctx, rawURL, dst)
}
