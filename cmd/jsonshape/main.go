package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reoring/jsonshape"
	"github.com/reoring/jsonshape/i18n"
	"github.com/reoring/jsonshape/modelfile"
)

var (
	modelPath string
	verbose   bool
	lang      string

	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "jsonshape",
	Short:         "Inspect and validate documents against YAML-declared JSON shapes",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).
			Level(level).With().Timestamp().Logger()
		if lang != "" {
			i18n.SetLanguage(lang)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&modelPath, "model", "m", "", "model file declaring the types (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "issue message language (en, ja)")

	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(typesCmd)
}

// loadModel reads --model; every subcommand needs it.
func loadModel() (*modelfile.Registry, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("--model is required")
	}
	reg, err := modelfile.LoadFile(modelPath)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("model", modelPath).Strs("types", reg.Names()).Msg("model loaded")
	return reg, nil
}

func lookupType(reg *modelfile.Registry, name string) (jsonshape.Type, error) {
	if name == "" {
		return nil, fmt.Errorf("--type is required")
	}
	t, ok := reg.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("type %q is not declared in %s", name, modelPath)
	}
	return t, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
