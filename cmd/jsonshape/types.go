package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reoring/jsonshape"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the types declared in the model file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadModel()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tKIND\tDETAIL")
		for _, name := range reg.Names() {
			t, _ := reg.Lookup(name)
			kind, detail := describe(t)
			fmt.Fprintf(w, "%s\t%s\t%s\n", name, kind, detail)
		}
		return w.Flush()
	},
}

func describe(t jsonshape.Type) (kind, detail string) {
	switch tt := t.(type) {
	case *jsonshape.ObjectType:
		detail = fmt.Sprintf("%d attribute(s)", len(tt.Attributes()))
		if b := tt.Base(); b != nil {
			detail += ", extends " + b.Name()
		}
		return "object", detail
	case *jsonshape.EnumType:
		return "enum", fmt.Sprintf("%d member(s)", len(tt.Members()))
	case *jsonshape.ContainerType:
		return "container", tt.Parent().Name()
	}
	return "other", t.Name()
}
