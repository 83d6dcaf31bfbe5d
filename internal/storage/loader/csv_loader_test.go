package loader

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	tfs "gotest.tools/v3/fs"

	domainerrors "github.com/leengari/csvindex/internal/domain/errors"
	"github.com/leengari/csvindex/internal/domain/schema"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readString(t *testing.T, text string, opts Options) (*schema.Table, error) {
	t.Helper()
	return Read(strings.NewReader(text), "test", "test.csv", opts)
}

// cells flattens a table back to records for comparison
func cells(table *schema.Table) [][]string {
	out := make([][]string, 0, table.Len())
	for _, row := range table.Rows {
		rec := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			v, _ := row.Get(col)
			rec[i] = v.(string)
		}
		out = append(out, rec)
	}
	return out
}

func TestReadPreservesOrderAndText(t *testing.T) {
	table, err := readString(t, "name,score\nA,10\nB,20.0\nC,007\n", Options{})
	assert.NilError(t, err)

	assert.DeepEqual(t, table.Columns, []string{"name", "score"})
	assert.DeepEqual(t, cells(table), [][]string{
		{"A", "10"},
		{"B", "20.0"},
		{"C", "007"},
	})
}

func TestReadQuotedFields(t *testing.T) {
	text := "name,note\n\"Smith, J\",\"line one\nline two\"\n\"Q\",\"say \"\"hi\"\"\"\n"

	table, err := readString(t, text, Options{})
	assert.NilError(t, err)
	assert.DeepEqual(t, cells(table), [][]string{
		{"Smith, J", "line one\nline two"},
		{"Q", `say "hi"`},
	})
}

func TestReadSkipsByteOrderMark(t *testing.T) {
	table, err := readString(t, "\uFEFFname,score\nA,1\n", Options{})
	assert.NilError(t, err)
	assert.Equal(t, table.Columns[0], "name")
}

func TestReadCustomDelimiter(t *testing.T) {
	table, err := readString(t, "name;score\nA;1,5\n", Options{Comma: ';'})
	assert.NilError(t, err)
	assert.DeepEqual(t, cells(table), [][]string{{"A", "1,5"}})
}

func TestReadHeaderOnly(t *testing.T) {
	table, err := readString(t, "name,score\n", Options{})
	assert.NilError(t, err)
	assert.Equal(t, table.Len(), 0)
	assert.DeepEqual(t, table.Columns, []string{"name", "score"})
}

func TestReadParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		line   int
		reason string
	}{
		{name: "empty input", text: "", reason: "missing header row"},
		{name: "bom only", text: "\uFEFF", reason: "missing header row"},
		{name: "ragged row", text: "a,b\n1,2\n3\n", line: 3},
		{name: "bare quote", text: "a,b\n1,x\"y\n", line: 2},
		{name: "duplicate header", text: "a,b,a\n1,2,3\n", line: 1, reason: `duplicate column name "a"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readString(t, tt.text, Options{})

			var pe *domainerrors.ParseError
			assert.Assert(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, pe.Line, tt.line)
			if tt.reason != "" {
				assert.Equal(t, pe.Reason, tt.reason)
			}
		})
	}
}

func TestLoadTable(t *testing.T) {
	dir := tfs.NewDir(t, "loader", tfs.WithFile("seq.d3.csv", "name,score\nA,10\n"))

	table, err := LoadTable(dir.Join("seq.d3.csv"), Options{}, discardLogger())
	assert.NilError(t, err)
	assert.Equal(t, table.Name, "seq.d3")
	assert.Equal(t, table.Path, dir.Join("seq.d3.csv"))
	assert.Equal(t, table.Len(), 1)
}

func TestLoadTableMissingFile(t *testing.T) {
	dir := tfs.NewDir(t, "loader")

	_, err := LoadTable(dir.Join("absent.csv"), Options{}, discardLogger())

	assert.Assert(t, errors.Is(err, fs.ErrNotExist))
	var se *domainerrors.SourceError
	assert.Assert(t, errors.As(err, &se))
	assert.Equal(t, se.Path, dir.Join("absent.csv"))
}
