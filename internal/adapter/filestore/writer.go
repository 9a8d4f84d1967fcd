// Package filestore exports a compound table to a JSON or YAML file.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/jmdict-compounds/internal/config"
	"github.com/heartmarshall/jmdict-compounds/internal/domain"
)

// defaultPerm is the mode of a newly created output file.
const defaultPerm os.FileMode = 0o644

// Supported output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Writer writes the table to a single file. The destination is replaced
// atomically: on failure an existing file is left as it was.
type Writer struct {
	path   string
	format string
}

// New creates a Writer for cfg. An unknown format returns an error wrapping
// domain.ErrUnsupportedFormat.
func New(cfg config.OutputConfig) (*Writer, error) {
	switch cfg.Format {
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("filestore: format %q: %w", cfg.Format, domain.ErrUnsupportedFormat)
	}
	return &Writer{path: cfg.Path, format: cfg.Format}, nil
}

// Path returns the destination file.
func (w *Writer) Path() string {
	return w.path
}

// Export encodes table into a temp file next to the destination and renames it
// into place. A replaced file keeps its permissions; a new one gets 0644.
func (w *Writer) Export(ctx context.Context, table domain.CompoundTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(w.path), "."+filepath.Base(w.path)+".*")
	if err != nil {
		return fmt.Errorf("filestore: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(w.perm()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("filestore: chmod temp file: %w", err)
	}
	if err := w.encode(tmp, table); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("filestore: encode %s: %w", w.format, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("filestore: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("filestore: rename to %s: %w", w.path, err)
	}
	return nil
}

func (w *Writer) perm() os.FileMode {
	if fi, err := os.Stat(w.path); err == nil && fi.Mode().IsRegular() {
		return fi.Mode().Perm()
	}
	return defaultPerm
}

func (w *Writer) encode(out io.Writer, table domain.CompoundTable) error {
	switch w.format {
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		if err := enc.Encode(table); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		return enc.Encode(table)
	}
}

// Load reads a table previously written by a Writer of the given format.
func Load(path, format string) (domain.CompoundTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("filestore: open %s: %w", path, err)
	}
	defer f.Close()

	table := make(domain.CompoundTable)
	switch format {
	case FormatJSON:
		err = json.NewDecoder(f).Decode(&table)
	case FormatYAML:
		err = yaml.NewDecoder(f).Decode(&table)
	default:
		return nil, fmt.Errorf("filestore: format %q: %w", format, domain.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: decode %s: %w", path, err)
	}
	return table, nil
}
