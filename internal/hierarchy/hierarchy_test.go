package hierarchy

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/golden"

	domainerrors "github.com/leengari/csvindex/internal/domain/errors"
	"github.com/leengari/csvindex/internal/domain/schema"
	"github.com/leengari/csvindex/internal/storage/loader"
)

const diseases = `Category,Chakra,Disease,Gene,Promoter
Neuro,Crown,Disease A,GENE1,P1
Blood,Root,Disease B,GENE2,P2
Neuro,Crown,Disease C,GENE3,P3
Neuro,Throat,Disease D,GENE4,P4
`

func loadString(t *testing.T, text string) *schema.Table {
	t.Helper()
	table, err := loader.Read(strings.NewReader(text), "diseases", "diseases.csv", loader.Options{})
	assert.NilError(t, err)
	return table
}

func testSpec() Spec {
	return Spec{
		RootName:          "Root",
		GroupColumn:       "Category",
		GroupDetailColumn: "Chakra",
		LeafColumn:        "Disease",
		Attributes:        []string{"Gene", "Promoter"},
		LabeledAttributes: []string{"Promoter"},
		LeafValue:         100,
	}
}

// shape reduces a tree to group -> leaf names for easy comparison
func shape(root *Node) map[string][]string {
	out := make(map[string][]string)
	for _, g := range root.Children {
		for _, leaf := range g.Children {
			out[g.Name] = append(out[g.Name], leaf.Name)
		}
	}
	return out
}

func TestStratifyGroupsRowsInFirstSeenOrder(t *testing.T) {
	root, err := Stratify(loadString(t, diseases), testSpec())
	assert.NilError(t, err)

	assert.Equal(t, root.Name, "Root")
	groups := make([]string, 0, len(root.Children))
	for _, g := range root.Children {
		groups = append(groups, g.Name)
	}
	assert.DeepEqual(t, groups, []string{"Neuro (Crown)", "Blood (Root)", "Neuro (Throat)"})

	want := map[string][]string{
		"Neuro (Crown)":  {"Disease A", "Disease C"},
		"Blood (Root)":   {"Disease B"},
		"Neuro (Throat)": {"Disease D"},
	}
	if diff := cmp.Diff(want, shape(root)); diff != "" {
		t.Errorf("tree shape mismatch (-want +got):\n%s", diff)
	}
}

func TestStratifyAttributes(t *testing.T) {
	root, err := Stratify(loadString(t, diseases), testSpec())
	assert.NilError(t, err)

	leaf := root.Child("Blood (Root)").Child("Disease B")
	assert.Assert(t, leaf != nil)
	assert.Equal(t, len(leaf.Children), 2)

	gene, promoter := leaf.Children[0], leaf.Children[1]
	assert.Assert(t, gene.attribute)
	assert.Equal(t, gene.Name, "'Gene': GENE2")
	assert.Equal(t, gene.Value, 100)
	assert.Equal(t, gene.Label, "")
	assert.Equal(t, promoter.Label, "Promoter: hover for details")
}

func TestStratifyWithoutDetailColumn(t *testing.T) {
	spec := testSpec()
	spec.GroupDetailColumn = ""

	root, err := Stratify(loadString(t, diseases), spec)
	assert.NilError(t, err)
	assert.Equal(t, len(root.Children), 2)
	assert.Equal(t, root.Children[0].Name, "Neuro")
}

func TestStratifyMissingColumn(t *testing.T) {
	spec := testSpec()
	spec.Attributes = append(spec.Attributes, "Malacards")

	_, err := Stratify(loadString(t, diseases), spec)

	var notFound *domainerrors.ColumnNotFoundError
	assert.Assert(t, errors.As(err, &notFound))
	assert.Equal(t, notFound.ColumnName, "Malacards")
}

func TestStratifyRequiresGroupAndLeaf(t *testing.T) {
	_, err := Stratify(loadString(t, diseases), Spec{LeafColumn: "Disease"})
	assert.ErrorContains(t, err, "needs both a group column and a leaf column")
}

func TestStratifyEmptyTableJSON(t *testing.T) {
	root, err := Stratify(loadString(t, "Category,Chakra,Disease,Gene,Promoter\n"), testSpec())
	assert.NilError(t, err)

	b, err := json.Marshal(root)
	assert.NilError(t, err)
	assert.Equal(t, string(b), `{"name":"Root","children":[]}`)
}

func TestStratifyJSON(t *testing.T) {
	text := "Category,Chakra,Disease,Gene,Promoter\nNeuro,Crown,Disease A,GENE1,P1\nNeuro,Crown,Disease C,GENE3,P3\n"
	root, err := Stratify(loadString(t, text), testSpec())
	assert.NilError(t, err)

	b, err := json.MarshalIndent(root, "", "  ")
	assert.NilError(t, err)
	golden.Assert(t, string(b)+"\n", "neuro.golden.json")
}
