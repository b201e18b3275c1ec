package download

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/externfetch/pkg/domain/types"
	"github.com/m-mizutani/externfetch/pkg/utils/fileio"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

// GCS downloads archives stored in Cloud Storage, addressed as gs://bucket/object
type GCS struct {
	opts []option.ClientOption

	once   sync.Once
	client *storage.Client
	err    error
}

// NewGCS creates a Cloud Storage transport. The client is created on first use so
// that credentials are only required when a gs:// source is configured.
func NewGCS(opts ...option.ClientOption) *GCS {
	return &GCS{opts: opts}
}

// ParseGCSURL splits gs://bucket/path/to/object into bucket and object names
func ParseGCSURL(rawURL string) (bucket, object string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", goerr.Wrap(err, "failed to parse URL",
			goerr.V("url", rawURL),
			goerr.T(types.ErrTagInvalidInput))
	}

	bucket = u.Host
	object = strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "gs" || bucket == "" || object == "" {
		return "", "", goerr.New("invalid Cloud Storage URL",
			goerr.V("url", rawURL),
			goerr.T(types.ErrTagInvalidInput))
	}

	return bucket, object, nil
}

// Validate checks that rawURL names a bucket and an object
func (x *GCS) Validate(rawURL string) error {
	_, _, err := ParseGCSURL(rawURL)
	return err
}

// Download copies the object into dst
func (x *GCS) Download(ctx context.Context, rawURL, dst string) error {
	bucket, object, err := ParseGCSURL(rawURL)
	if err != nil {
		return err
	}

	client, err := x.getClient(ctx)
	if err != nil {
		return err
	}

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return goerr.Wrap(err, "object not found",
				goerr.V("bucket", bucket),
				goerr.V("object", object),
				goerr.T(types.ErrTagNetworkFailure))
		}
		return goerr.Wrap(err, "failed to open object",
			goerr.V("bucket", bucket),
			goerr.V("object", object),
			goerr.T(types.ErrTagNetworkFailure))
	}
	defer r.Close()

	n, err := fileio.Write(dst, r, 0644)
	if err != nil {
		return goerr.Wrap(err, "failed to download object",
			goerr.V("bucket", bucket),
			goerr.V("object", object),
			goerr.T(types.ErrTagNetworkFailure))
	}

	ctxlog.From(ctx).Debug("Downloaded object",
		"bucket", bucket,
		"object", object,
		"bytes", n,
	)

	return nil
}

func (x *GCS) getClient(ctx context.Context) (*storage.Client, error) {
	x.once.Do(func() {
		client, err := storage.NewClient(ctx, x.opts...)
		if err != nil {
			x.err = goerr.Wrap(err, "failed to create Cloud Storage client",
				goerr.T(types.ErrTagNetworkFailure))
			return
		}
		x.client = client
	})
	return x.client, x.err
}

// Close releases the Cloud Storage client if it was created
func (x *GCS) Close() error {
	if x.client == nil {
		return nil
	}
	return x.client.Close()
}
