package writer

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"go.uber.org/multierr"

	domainerrors "github.com/leengari/csvindex/internal/domain/errors"
	"github.com/leengari/csvindex/internal/domain/schema"
)

const defaultFileMode fs.FileMode = 0644

// Options controls how tables are serialized
type Options struct {
	Comma rune // field delimiter (default: ',')
}

// SaveTable writes the table as CSV (header first, then rows in order) to dest.
// The data goes to a temp file in dest's directory which is then renamed over
// dest, so dest is either fully replaced or left as it was. A symlinked dest
// is written through: the link target is replaced, the link stays.
func SaveTable(t *schema.Table, dest string, opts Options, logger *slog.Logger) error {
	if t == nil || dest == "" {
		return fmt.Errorf("cannot save table: nil or missing destination")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := writeAtomic(dest, func(w io.Writer) error {
		return EncodeCSV(w, t, opts)
	}); err != nil {
		return err
	}

	logger.Debug("table saved",
		slog.String("table", t.Name),
		slog.String("path", dest),
		slog.Int("columns", len(t.Columns)),
		slog.Int("row_count", t.Len()),
	)

	return nil
}

// EncodeCSV serializes t to w. No row-label column is emitted.
func EncodeCSV(w io.Writer, t *schema.Table, opts Options) error {
	if opts.Comma == 0 {
		opts.Comma = ','
	}

	cw := csv.NewWriter(w)
	cw.Comma = opts.Comma

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, col := range t.Columns {
			v, _ := row.Get(col)
			s, err := cast.ToStringE(v)
			if err != nil {
				return fmt.Errorf("row %d column %s: %w", i+1, col, err)
			}
			record[j] = s
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes v as 2-space indented JSON to path, atomically
func WriteJSON(path string, v interface{}, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	if err := writeAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		return err
	}

	logger.Debug("json saved",
		slog.String("path", path),
		slog.Int("bytes", len(data)),
	)
	return nil
}

// writeAtomic streams content into a temp file next to path and renames it
// over path. The temp file is removed on any failure.
func writeAtomic(path string, write func(io.Writer) error) (err error) {
	path, err = resolveTarget(path)
	if err != nil {
		return err
	}

	mode := defaultFileMode
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return &domainerrors.WriteError{Path: path, Op: "create", Err: err}
	}
	tmpPath := tmp.Name()
	closed := false

	defer func() {
		if err == nil {
			return
		}
		if !closed {
			err = multierr.Append(err, tmp.Close())
		}
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			err = multierr.Append(err, rmErr)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return &domainerrors.WriteError{Path: path, Op: "write", Err: err}
	}
	if err := bw.Flush(); err != nil {
		return &domainerrors.WriteError{Path: path, Op: "write", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &domainerrors.WriteError{Path: path, Op: "sync", Err: err}
	}

	closed = true
	if err := tmp.Close(); err != nil {
		return &domainerrors.WriteError{Path: path, Op: "close", Err: err}
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return &domainerrors.WriteError{Path: path, Op: "chmod", Err: err}
	}

	// Atomic replace
	if err := os.Rename(tmpPath, path); err != nil {
		return &domainerrors.WriteError{Path: path, Op: "rename", Err: err}
	}

	return nil
}

// resolveTarget follows symlinks so the rename replaces the file the link
// points at instead of the link itself. A path that does not exist yet is
// returned unchanged.
func resolveTarget(path string) (string, error) {
	if _, err := os.Lstat(path); err != nil {
		return path, nil
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", &domainerrors.WriteError{Path: path, Op: "resolve", Err: err}
	}
	return resolved, nil
}
