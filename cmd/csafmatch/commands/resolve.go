package commands

import (
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/csafmatch/csafmatch/cmd/csafmatch/internal/format"
	"github.com/csafmatch/csafmatch/pkg/synonym"
)

func newResolveCommand() *cobra.Command {
	var (
		scope  string
		output string
	)

	cmd := &cobra.Command{
		Use:     "resolve TOKEN",
		Short:   "Look up a token in the synonym dictionary",
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := format.ValidateMode(output); err != nil {
				return err
			}
			cfg := currentConfig(cmd)
			f := format.New(os.Stdout, os.Stderr, format.ParseMode(output), false, !color.NoColor)

			store, err := openCorpus(cfg)
			if err != nil {
				return err
			}
			snap := store.Get()

			token := args[0]
			resolved := synonym.NewResolver(snap.Dictionary, log.Logger).Resolve(token, scope)

			if format.ParseMode(output) == format.ModeJSON {
				return f.PrintJSON(map[string]any{
					"token":    token,
					"scope":    scope,
					"resolved": resolved,
					"found":    resolved != "",
				})
			}
			if resolved == "" {
				return f.PrintSummary("no synonym entry for " + token)
			}
			return f.PrintSummary(token + " -> " + resolved)
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "vendor", "Dictionary scope to search (vendor, product, or a column name)")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: json | table")

	return cmd
}
