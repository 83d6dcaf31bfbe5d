package main

import (
	"github.com/spf13/cobra"

	"github.com/leengari/csvindex/internal/engine"
)

type hierarchyFlags struct {
	output            string
	rootName          string
	group             string
	groupDetail       string
	leaf              string
	attributes        []string
	labeledAttributes []string
	leafValue         int
}

func newHierarchyCmd(c *cli) *cobra.Command {
	f := &hierarchyFlags{}

	cmd := &cobra.Command{
		Use:   "hierarchy [flags] <source.csv>",
		Short: "Convert a CSV file into a nested JSON hierarchy",
		Long: `Groups rows by a group column (optionally qualified by a detail column),
places one node per row under its group, and gives each row node one child
per attribute column. The result is written as indented JSON.

Example:
  csvindex hierarchy --group Category --group-detail Chakra --leaf Disease \
    --attributes Gene,Promoter -o hierarchy.json seq.d3.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer c.closeLogger()
			return c.runHierarchy(cmd, args, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "hierarchy.json", "destination JSON file")
	fl.StringVar(&f.rootName, "root-name", "", "name of the root node")
	fl.StringVar(&f.group, "group", "", "column that defines the first level")
	fl.StringVar(&f.groupDetail, "group-detail", "", "column appended in parentheses to group names")
	fl.StringVar(&f.leaf, "leaf", "", "column naming the second level")
	fl.StringSliceVar(&f.attributes, "attributes", nil, "columns rendered as third-level nodes")
	fl.StringSliceVar(&f.labeledAttributes, "labeled", nil, "attributes that get a hover label")
	fl.IntVar(&f.leafValue, "leaf-value", 0, "value assigned to every attribute node")

	return cmd
}

func (c *cli) runHierarchy(cmd *cobra.Command, args []string, f *hierarchyFlags) error {
	h := &c.cfg.Hierarchy
	flags := cmd.Flags()
	if flags.Changed("root-name") {
		h.RootName = f.rootName
	}
	if flags.Changed("group") {
		h.GroupColumn = f.group
	}
	if flags.Changed("group-detail") {
		h.GroupDetailColumn = f.groupDetail
	}
	if flags.Changed("leaf") {
		h.LeafColumn = f.leaf
	}
	if flags.Changed("attributes") {
		h.Attributes = f.attributes
	}
	if flags.Changed("labeled") {
		h.LabeledAttributes = f.labeledAttributes
	}
	if flags.Changed("leaf-value") {
		h.LeafValue = f.leafValue
	}

	eng, err := c.newEngine()
	if err != nil {
		return err
	}

	_, err = eng.ExportHierarchy(cmd.Context(), engine.Job{
		Source:      args[0],
		Destination: f.output,
	}, c.cfg.HierarchySpec())
	return err
}
