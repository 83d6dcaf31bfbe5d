// Package hierarchy turns a flat table into a three-level tree
// (group -> leaf -> attribute) suitable for sunburst-style charts.
package hierarchy

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"

	"github.com/leengari/csvindex/internal/domain/data"
	"github.com/leengari/csvindex/internal/domain/errors"
	"github.com/leengari/csvindex/internal/domain/schema"
)

// Spec names the columns that drive the tree shape
type Spec struct {
	RootName          string
	GroupColumn       string
	GroupDetailColumn string // optional; rendered as "<group> (<detail>)"
	LeafColumn        string
	Attributes        []string
	LabeledAttributes []string // subset of Attributes that carry a hover label
	LeafValue         int
}

// DefaultSpec returns the layout used by the rare disease dataset
func DefaultSpec() Spec {
	return Spec{
		RootName:          "Root",
		GroupColumn:       "Category",
		GroupDetailColumn: "Chakra",
		LeafColumn:        "Disease",
		Attributes: []string{
			"Nphenotype", "Ngenes", "Elite", "Inheritance", "Nvariants",
			"Phenotype", "Gene", "Promoter", "Malacards",
		},
		LabeledAttributes: []string{"Promoter", "Malacards"},
		LeafValue:         100,
	}
}

// Node is one element of the tree. Branch nodes always serialize a
// children array (possibly empty); attribute nodes carry value and label.
type Node struct {
	Name     string
	Children []*Node
	Value    int
	Label    string

	attribute bool
}

func newBranch(name string) *Node {
	return &Node{Name: name, Children: make([]*Node, 0)}
}

// Child returns the direct child called name, or nil
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type nodeJSON struct {
	Name     string   `json:"name"`
	Children *[]*Node `json:"children,omitempty"`
	Value    *int     `json:"value,omitempty"`
	Label    string   `json:"label,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (n *Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{Name: n.Name, Label: n.Label}
	if n.attribute {
		v := n.Value
		out.Value = &v
	} else {
		children := n.Children
		if children == nil {
			children = make([]*Node, 0)
		}
		out.Children = &children
	}
	return json.Marshal(out)
}

// Stratify builds the tree from t. Groups appear in first-seen order and
// leaves keep row order inside their group.
func Stratify(t *schema.Table, spec Spec) (*Node, error) {
	if err := checkColumns(t, spec); err != nil {
		return nil, err
	}

	labeled := make(map[string]bool, len(spec.LabeledAttributes))
	for _, a := range spec.LabeledAttributes {
		labeled[a] = true
	}

	root := newBranch(spec.RootName)
	for _, row := range t.Rows {
		name := groupName(row, spec)
		group := root.Child(name)
		if group == nil {
			group = newBranch(name)
			root.Children = append(root.Children, group)
		}

		leaf := newBranch(cell(row, spec.LeafColumn))
		for _, attr := range spec.Attributes {
			n := &Node{
				Name:      fmt.Sprintf("'%s': %s", attr, cell(row, attr)),
				Value:     spec.LeafValue,
				attribute: true,
			}
			if labeled[attr] {
				n.Label = attr + ": hover for details"
			}
			leaf.Children = append(leaf.Children, n)
		}
		group.Children = append(group.Children, leaf)
	}

	return root, nil
}

func checkColumns(t *schema.Table, spec Spec) error {
	if spec.GroupColumn == "" || spec.LeafColumn == "" {
		return fmt.Errorf("hierarchy needs both a group column and a leaf column")
	}

	required := []string{spec.GroupColumn, spec.LeafColumn}
	if spec.GroupDetailColumn != "" {
		required = append(required, spec.GroupDetailColumn)
	}
	required = append(required, spec.Attributes...)

	for _, col := range required {
		if !t.HasColumn(col) {
			return &errors.ColumnNotFoundError{TableName: t.Name, ColumnName: col}
		}
	}
	return nil
}

func groupName(row data.Row, spec Spec) string {
	name := cell(row, spec.GroupColumn)
	if spec.GroupDetailColumn == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, cell(row, spec.GroupDetailColumn))
}

func cell(row data.Row, column string) string {
	v, _ := row.Get(column)
	return cast.ToString(v)
}
