package engine

import (
	"fmt"
	"strconv"

	"github.com/leengari/csvindex/internal/domain/errors"
	"github.com/leengari/csvindex/internal/domain/schema"
)

// DefaultIndexColumn is the name of the column added when none is configured
const DefaultIndexColumn = "index"

// ConflictPolicy decides what happens when the index column already exists
type ConflictPolicy string

const (
	// ConflictReplace overwrites the existing column in place
	ConflictReplace ConflictPolicy = "replace"
	// ConflictError refuses to touch the table
	ConflictError ConflictPolicy = "error"
	// ConflictSuffix appends a new column named <column>_<n>
	ConflictSuffix ConflictPolicy = "suffix"
)

// ParseConflictPolicy validates a policy name
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch p := ConflictPolicy(s); p {
	case ConflictReplace, ConflictError, ConflictSuffix:
		return p, nil
	case "":
		return ConflictReplace, nil
	default:
		return "", fmt.Errorf("unknown conflict policy %q (want replace, error or suffix)", s)
	}
}

// IndexOptions configures the index column
type IndexOptions struct {
	Column     string         // column name (default: "index")
	Start      int            // value given to the first row
	OnConflict ConflictPolicy // behavior when Column already exists
}

// DefaultIndexOptions returns a 1-based "index" column that replaces any existing one
func DefaultIndexOptions() IndexOptions {
	return IndexOptions{
		Column:     DefaultIndexColumn,
		Start:      1,
		OnConflict: ConflictReplace,
	}
}

// AddIndexColumn fills a column with opts.Start, opts.Start+1, ... in row order.
// A new column goes to the end of the header. It returns the name of the
// column that was written.
func AddIndexColumn(t *schema.Table, opts IndexOptions) (string, error) {
	column := opts.Column
	if column == "" {
		column = DefaultIndexColumn
	}
	policy := opts.OnConflict
	if policy == "" {
		policy = ConflictReplace
	}

	if t.HasColumn(column) {
		switch policy {
		case ConflictReplace:
			// keep position, overwrite values below
		case ConflictError:
			return "", &errors.ColumnExistsError{TableName: t.Name, ColumnName: column}
		case ConflictSuffix:
			column = freeColumnName(t, column)
			if err := t.AddColumn(column); err != nil {
				return "", err
			}
		default:
			return "", fmt.Errorf("unknown conflict policy %q", policy)
		}
	} else if err := t.AddColumn(column); err != nil {
		return "", err
	}

	values := make([]interface{}, t.Len())
	for i := range values {
		values[i] = opts.Start + i
	}

	if err := t.SetColumn(column, values); err != nil {
		return "", err
	}
	return column, nil
}

// freeColumnName returns base_1, base_2, ... whichever is first unused
func freeColumnName(t *schema.Table, base string) string {
	for n := 1; ; n++ {
		name := base + "_" + strconv.Itoa(n)
		if !t.HasColumn(name) {
			return name
		}
	}
}
