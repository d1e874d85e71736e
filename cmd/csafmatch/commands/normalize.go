package commands

import (
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/csafmatch/csafmatch/cmd/csafmatch/internal/bind"
	"github.com/csafmatch/csafmatch/cmd/csafmatch/internal/format"
	"github.com/csafmatch/csafmatch/pkg/csaf"
	"github.com/csafmatch/csafmatch/pkg/inventory"
	"github.com/csafmatch/csafmatch/pkg/normalize"
	"github.com/csafmatch/csafmatch/pkg/record"
)

func newNormalizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "normalize",
		Short:   "Run the cleaning pipeline only and report per-stage changes",
		GroupID: "pipeline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := bind.BindNormalizeOptions(cmd)
			if err != nil {
				return err
			}
			return runNormalize(cmd, opts)
		},
	}

	cmd.Flags().String("csaf", "", "Directory of CSAF advisory JSON files")
	cmd.Flags().String("inventory", "", "Asset inventory YAML file")
	cmd.Flags().StringP("output", "o", "table", "Stage report format: json | table")
	cmd.Flags().Bool("watch", false, "Stay alive and rerun when a corpus file changes")

	return cmd
}

func runNormalize(cmd *cobra.Command, opts bind.NormalizeOptions) error {
	cfg := currentConfig(cmd)

	store, err := openCorpus(cfg)
	if err != nil {
		return err
	}

	runOnce := func() error {
		f := format.New(os.Stdout, os.Stderr, opts.Output, false, !color.NoColor)
		snap := store.Get()

		var table *record.Table
		var err error
		if opts.CSAFDir != "" {
			table, _, err = csaf.NewLoader(log.Logger).LoadDirectory(opts.CSAFDir)
		} else {
			table, err = inventory.NewLoader(log.Logger).Load(opts.InventoryPath)
		}
		if err != nil {
			return err
		}

		changes := normalize.NewPipeline(snap.Patterns, snap.Dictionary, log.Logger).Run(table)
		auditPath := writeAuditLog(cmd, changes)

		if err := f.PrintTable(stageReport(changes)); err != nil {
			return err
		}
		if auditPath != "" {
			return f.PrintSummary("audit log: " + auditPath)
		}
		return nil
	}

	if err := runOnce(); err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}
	return watchAndRerun(cmd.Context(), store, runOnce)
}

// stageReport counts change-log entries per pipeline stage, in pipeline
// order.
func stageReport(changes *normalize.ChangeLog) ([]string, [][]string) {
	counts := make(map[string]int)
	for _, c := range changes.Changes {
		counts[c.Stage]++
	}

	headers := []string{"stage", "changes"}
	var rows [][]string
	for _, stage := range []string{
		normalize.StageSplit,
		normalize.StagePreclean,
		normalize.StagePhrases,
		normalize.StagePostclean,
		normalize.StageSynonym,
		normalize.StageConsolidate,
	} {
		rows = append(rows, []string{stage, strconv.Itoa(counts[stage])})
	}
	return headers, rows
}
