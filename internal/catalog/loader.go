package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Loader fetches the raw bytes of a named catalog file.
type Loader interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

//go:embed defaults/*.yaml
var defaultFiles embed.FS

// fileLoader implements Loader for files under a base directory.
type fileLoader struct {
	dir    string
	logger zerolog.Logger
}

// NewFileLoader creates a loader reading catalog files relative to dir.
func NewFileLoader(dir string, logger zerolog.Logger) Loader {
	return &fileLoader{
		dir:    dir,
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a catalog file. Names ending in .gz are decompressed.
func (l *fileLoader) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(l.dir, name)
	l.logger.Debug().Str("file", path).Msg("loading catalog file")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file %s: %w", path, err)
	}
	defer file.Close()

	data, err := readMaybeGzip(file, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return data, nil
}

// embeddedLoader serves the catalog compiled into the binary.
type embeddedLoader struct{}

// NewEmbeddedLoader returns a loader over the built-in default catalog.
func NewEmbeddedLoader() Loader {
	return embeddedLoader{}
}

func (embeddedLoader) Load(_ context.Context, name string) ([]byte, error) {
	data, err := defaultFiles.ReadFile("defaults/" + name)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded catalog file %s: %w", name, err)
	}
	return data, nil
}

func readMaybeGzip(r io.Reader, name string) ([]byte, error) {
	if !strings.HasSuffix(name, ".gz") {
		return io.ReadAll(r)
	}

	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, gz); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
