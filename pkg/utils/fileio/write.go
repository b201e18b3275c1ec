package fileio

import (
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
)

// Write copies r into a new or truncated file at path and closes it. A failure to close is
// reported like a failure to write, so a short flush never passes as success.
func Write(path string, r io.Reader, perm os.FileMode) (int64, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create file", goerr.V("path", path))
	}

	n, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		return n, goerr.Wrap(err, "failed to write file",
			goerr.V("path", path),
			goerr.V("written", n))
	}

	if err := f.Close(); err != nil {
		return n, goerr.Wrap(err, "failed to close file", goerr.V("path", path))
	}

	return n, nil
}
