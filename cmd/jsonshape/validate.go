package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/jsonshape"
	"github.com/reoring/jsonshape/jsontext"
)

var (
	validateType    string
	maxDepth        int
	allowDuplicates bool
	quiet           bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|->",
	Short: "Validate a JSON document against a declared type",
	Long: `Validate decodes the document, deserializes it into the type and prints
the normalized document. Problems are listed one per line as
"<path>: <code>: <message>" and make the command fail.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadModel()
		if err != nil {
			return err
		}
		t, err := lookupType(reg, validateType)
		if err != nil {
			return err
		}
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		logger.Debug().Str("type", t.Name()).Int("bytes", len(data)).Msg("validating")

		opt := jsontext.Options{MaxDepth: maxDepth, AllowDuplicateKeys: allowDuplicates}
		v, err := jsontext.Unmarshal(data, t, opt)
		if err != nil {
			iss, ok := jsonshape.AsIssues(err)
			if !ok {
				return err
			}
			for _, it := range iss {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s: %s\n", it.Path, it.Code, it.Message)
			}
			logger.Info().Str("type", t.Name()).Int("issues", len(iss)).Msg("document rejected")
			return fmt.Errorf("%d issue(s) found", len(iss))
		}
		if quiet {
			return nil
		}
		normalized, err := jsonshape.Serialize(v)
		if err != nil {
			return err
		}
		out, err := jsontext.EncodeIndent(normalized)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateType, "type", "t", "", "type name")
	validateCmd.Flags().IntVar(&maxDepth, "max-depth", jsontext.DefaultMaxDepth, "maximum nesting depth (negative disables)")
	validateCmd.Flags().BoolVar(&allowDuplicates, "allow-duplicate-keys", false, "keep the last value of repeated object keys")
	validateCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the normalized document")
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
