package commands

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/csafmatch/csafmatch/cmd/csafmatch/internal/format"
	"github.com/csafmatch/csafmatch/pkg/version"
)

func newVersionCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the version of csafmatch",
		GroupID: "core",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := format.ValidateMode(output); err != nil {
				return err
			}
			if format.ParseMode(output) == format.ModeJSON {
				f := format.New(os.Stdout, os.Stderr, format.ModeJSON, false, !color.NoColor)
				info := version.Get()
				return f.PrintJSON(map[string]string{
					"version":    info.Version,
					"commit":     info.Commit,
					"build_date": info.BuildDate,
					"go_version": runtime.Version(),
					"os_arch":    runtime.GOOS + "/" + runtime.GOARCH,
				})
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Info())
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: json | table")

	return cmd
}
