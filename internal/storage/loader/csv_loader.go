package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leengari/csvindex/internal/domain/data"
	domainerrors "github.com/leengari/csvindex/internal/domain/errors"
	"github.com/leengari/csvindex/internal/domain/schema"
)

const byteOrderMark = '\uFEFF'

// Options controls how CSV text is parsed
type Options struct {
	Comma rune // field delimiter (default: ',')
}

// LoadTable reads the CSV file at path into memory.
// The file handle is released before LoadTable returns.
func LoadTable(path string, opts Options, logger *slog.Logger) (*schema.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domainerrors.SourceError{Path: path, Err: err}
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	table, err := Read(f, name, path, opts)
	if err != nil {
		return nil, err
	}

	logger.Debug("table loaded",
		slog.String("table", table.Name),
		slog.String("path", path),
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", table.Len()),
	)

	return table, nil
}

// Read parses CSV text from r. The first record is the header; every cell
// is kept as the exact string the csv layer produced.
func Read(r io.Reader, name, path string, opts Options) (*schema.Table, error) {
	if opts.Comma == 0 {
		opts.Comma = ','
	}

	br := bufio.NewReader(r)
	// Skip a UTF-8 byte order mark
	ch, _, err := br.ReadRune()
	switch {
	case err == io.EOF:
		return nil, &domainerrors.ParseError{Path: path, Reason: "missing header row"}
	case err != nil:
		return nil, &domainerrors.SourceError{Path: path, Err: err}
	case ch != byteOrderMark:
		_ = br.UnreadRune()
	}

	cr := csv.NewReader(br)
	cr.Comma = opts.Comma

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &domainerrors.ParseError{Path: path, Reason: "missing header row"}
	}
	if err != nil {
		return nil, wrapReadError(path, err)
	}

	seen := make(map[string]bool, len(header))
	for _, col := range header {
		if seen[col] {
			return nil, &domainerrors.ParseError{
				Path:   path,
				Line:   1,
				Reason: fmt.Sprintf("duplicate column name %q", col),
			}
		}
		seen[col] = true
	}

	table := schema.NewTable(name, path, header)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapReadError(path, err)
		}

		row := make(map[string]interface{}, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		table.Append(data.NewRow(row))
	}
	return table, nil
}

func wrapReadError(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &domainerrors.ParseError{Path: path, Line: pe.StartLine, Err: pe.Err}
	}
	return &domainerrors.SourceError{Path: path, Err: err}
}
