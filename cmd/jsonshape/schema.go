package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/jsonshape"
	"github.com/reoring/jsonshape/jsontext"
)

var schemaType string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of a declared type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadModel()
		if err != nil {
			return err
		}
		t, err := lookupType(reg, schemaType)
		if err != nil {
			return err
		}
		s, err := jsonshape.Schema(t)
		if err != nil {
			return err
		}
		out, err := jsontext.EncodeIndent(s)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	schemaCmd.Flags().StringVarP(&schemaType, "type", "t", "", "type name")
}
