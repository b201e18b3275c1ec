package cli_test

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/externfetch/pkg/cli"
	"github.com/m-mizutani/externfetch/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func createTestZip(t *testing.T, topDir string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range []string{"README.txt", "include/SDL.h", "lib/x64/SDL2.dll"} {
		fw, err := w.Create(topDir + "/" + name)
		gt.NoError(t, err)
		_, err = fw.Write([]byte(name))
		gt.NoError(t, err)
	}
	gt.NoError(t, w.Close())
	return buf.Bytes()
}

// newReleaseServer mimics the layout of the SDL release site
func newReleaseServer(t *testing.T, gets *atomic.Int32) *httptest.Server {
	t.Helper()

	archives := map[string][]byte{
		"SDL2-devel-2.0.10-VC.zip":      createTestZip(t, "SDL2-2.0.10"),
		"SDL2_image-devel-2.0.5-VC.zip": createTestZip(t, "SDL2_image-2.0.5"),
	}

	router := chi.NewRouter()
	router.Use(middleware.GetHead)
	router.Get("/release/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		data, ok := archives[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if r.Method == http.MethodGet {
			gets.Add(1)
		}
		http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(data))
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func writeManifest(t *testing.T, baseURL string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "extern.toml")
	content := fmt.Sprintf(`
[[source]]
url = "%[1]s/release/SDL2-devel-2.0.10-VC.zip"
folder = "SDL2-2.0.10"

[[source]]
url = "%[1]s/release/SDL2_image-devel-2.0.5-VC.zip"
folder = "SDL2_image-2.0.5"
`, baseURL)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_Fetch(t *testing.T) {
	ctx := context.Background()

	var gets atomic.Int32
	server := newReleaseServer(t, &gets)
	manifestPath := writeManifest(t, server.URL)
	externDir := filepath.Join(t.TempDir(), "extern")

	args := []string{"externfetch",
		"--extern-dir", externDir,
		"--manifest", manifestPath,
		"--progress=false",
		"--log-level", "debug",
	}

	var out bytes.Buffer
	gt.NoError(t, cli.Run(ctx, args, cli.WithWriter(&out)))
	gt.Number(t, gets.Load()).Equal(int32(2))
	gt.Equal(t, out.String(), "Downloading SDL2-devel-2.0.10-VC.zip\n"+
		"Extracting folder SDL2-2.0.10\n"+
		"Downloading SDL2_image-devel-2.0.5-VC.zip\n"+
		"Extracting folder SDL2_image-2.0.5\n")

	entries, err := os.ReadDir(externDir)
	gt.NoError(t, err)
	gt.Number(t, len(entries)).Equal(2)
	gt.Equal(t, entries[0].Name(), "SDL2-2.0.10")
	gt.Equal(t, entries[1].Name(), "SDL2_image-2.0.5")

	_, err = os.Stat(filepath.Join(externDir, "SDL2-2.0.10", "include", "SDL.h"))
	gt.NoError(t, err)

	// Second run finds both folders and performs no download
	out.Reset()
	gt.NoError(t, cli.Run(ctx, args, cli.WithWriter(&out)))
	gt.Number(t, gets.Load()).Equal(int32(2))
	gt.String(t, out.String()).IsEmpty()

	entries, err = os.ReadDir(externDir)
	gt.NoError(t, err)
	gt.Number(t, len(entries)).Equal(2)
}

func TestRun_Fetch_NotFound(t *testing.T) {
	ctx := context.Background()

	var gets atomic.Int32
	server := newReleaseServer(t, &gets)

	manifestPath := filepath.Join(t.TempDir(), "extern.toml")
	gt.NoError(t, os.WriteFile(manifestPath, []byte(fmt.Sprintf(`
[[source]]
url = "%s/release/SDL2-devel-9.9.9-VC.zip"
`, server.URL)), 0644))

	err := cli.Run(ctx, []string{"externfetch",
		"--extern-dir", t.TempDir(),
		"--manifest", manifestPath,
		"--progress=false",
	})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagNetworkFailure))
	gt.Number(t, gets.Load()).Equal(int32(0))
}

func TestRun_Fetch_InvalidManifest(t *testing.T) {
	ctx := context.Background()

	manifestPath := filepath.Join(t.TempDir(), "extern.toml")
	gt.NoError(t, os.WriteFile(manifestPath, []byte(`
[[source]]
url = "https://host/path/Foo-1.2.3.tar.gz"
`), 0644))
	externDir := filepath.Join(t.TempDir(), "extern")

	err := cli.Run(ctx, []string{"externfetch",
		"--extern-dir", externDir,
		"--manifest", manifestPath,
	})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagInvalidInput))

	// Rejected before touching the file system
	_, err = os.Stat(externDir)
	gt.True(t, os.IsNotExist(err))
}

func TestRun_InvalidHeader(t *testing.T) {
	err := cli.Run(context.Background(), []string{"externfetch",
		"--extern-dir", t.TempDir(),
		"--header", "missing-separator",
	})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagInvalidInput))
}

func TestRun_UnexpectedArguments(t *testing.T) {
	err := cli.Run(context.Background(), []string{"externfetch",
		"--extern-dir", t.TempDir(),
		"--", "SDL2",
	})
	gt.Error(t, err)
}

func TestRun_InvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"externfetch", "--log-level", "verbose", "list"})
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("invalid log level")
}

func TestRun_List(t *testing.T) {
	externDir := t.TempDir()
	gt.NoError(t, os.Mkdir(filepath.Join(externDir, "SDL2-2.0.10"), 0755))

	var out bytes.Buffer
	err := cli.Run(context.Background(), []string{"externfetch",
		"--extern-dir", externDir,
		"list",
	}, cli.WithWriter(&out))
	gt.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	gt.A(t, lines).Length(3)
	gt.String(t, lines[0]).HasPrefix("FOLDER")
	gt.String(t, lines[1]).HasPrefix("SDL2-2.0.10 ").Contains("present").Contains("SDL2-devel-2.0.10-VC.zip")
	gt.String(t, lines[2]).HasPrefix("SDL2_image-2.0.5 ").Contains("missing").Contains("SDL2_image-devel-2.0.5-VC.zip")

	// list never creates or downloads anything
	entries, err := os.ReadDir(externDir)
	gt.NoError(t, err)
	gt.Number(t, len(entries)).Equal(1)
}
