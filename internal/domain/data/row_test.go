package data

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestNewRowNilData(t *testing.T) {
	row := NewRow(nil)
	row.Set("index", 1)

	v, ok := row.Get("index")
	assert.Assert(t, ok)
	assert.Equal(t, v, 1)

	_, ok = row.Get("name")
	assert.Assert(t, !ok)
}
