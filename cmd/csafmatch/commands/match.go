package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/csafmatch/csafmatch/cmd/csafmatch/internal/bind"
	"github.com/csafmatch/csafmatch/cmd/csafmatch/internal/format"
	"github.com/csafmatch/csafmatch/pkg/appctx"
	"github.com/csafmatch/csafmatch/pkg/audit"
	"github.com/csafmatch/csafmatch/pkg/config"
	"github.com/csafmatch/csafmatch/pkg/corpuswatch"
	"github.com/csafmatch/csafmatch/pkg/csaf"
	"github.com/csafmatch/csafmatch/pkg/inventory"
	"github.com/csafmatch/csafmatch/pkg/match"
	"github.com/csafmatch/csafmatch/pkg/normalize"
	"github.com/csafmatch/csafmatch/pkg/record"
	"github.com/csafmatch/csafmatch/pkg/workspace"
)

func newMatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "match",
		Short:   "Run the full advisory-to-inventory matching pipeline",
		GroupID: "pipeline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := bind.BindMatchOptions(cmd)
			if err != nil {
				return err
			}
			return runMatch(cmd, opts)
		},
	}

	cmd.Flags().String("csaf", "", "Directory of CSAF advisory JSON files")
	cmd.Flags().String("inventory", "", "Asset inventory YAML file")
	cmd.Flags().String("out", "", "Result CSV destination (default: workspace results directory)")
	cmd.Flags().StringP("output", "o", "table", "Summary format: json | table")
	cmd.Flags().BoolP("quiet", "q", false, "Suppress the run summary")
	cmd.Flags().Bool("watch", false, "Stay alive and rerun when a corpus file changes")

	return cmd
}

func runMatch(cmd *cobra.Command, opts bind.MatchOptions) error {
	cfg := currentConfig(cmd)

	store, err := openCorpus(cfg)
	if err != nil {
		return err
	}

	// Inputs are re-read from disk on every iteration so --watch picks
	// up both corpus and input edits between runs.
	runOnce := func() error {
		f := format.New(os.Stdout, os.Stderr, opts.Output, opts.Quiet, !color.NoColor)
		snap := store.Get()

		assets, err := inventory.NewLoader(log.Logger).Load(opts.InventoryPath)
		if err != nil {
			return err
		}
		advisories, stats, err := csaf.NewLoader(log.Logger).LoadDirectory(opts.CSAFDir)
		if err != nil {
			return err
		}

		pipeline := normalize.NewPipeline(snap.Patterns, snap.Dictionary, log.Logger)
		changes := pipeline.Run(assets)
		changes.Merge(pipeline.Run(advisories))

		auditPath := writeAuditLog(cmd, changes)

		engine := match.NewEngine(cfg.Match.Thresholds, log.Logger)
		engine.SetWeights(cfg.Match.NameWeights, cfg.Match.FamilyWeights)
		results, runStats, err := engine.MatchAll(cmd.Context(), assets, advisories)
		if err != nil {
			return err
		}

		resultsPath, err := exportResults(cmd, opts, results)
		if err != nil {
			return err
		}

		if headers, rows := format.MatchTable(results); len(rows) > 0 {
			if err := f.PrintTable(headers, rows); err != nil {
				return err
			}
		}

		return f.PrintRunSummary(format.RunSummary{
			AdvisoryFiles:   stats.Processed,
			AdvisorySkipped: stats.Skipped,
			AdvisoryRows:    advisories.Len(),
			AssetRows:       assets.Len(),
			Stats:           runStats,
			Warnings:        changes.Warnings + runStats.Warnings,
			AuditLog:        auditPath,
			ResultsPath:     resultsPath,
		})
	}

	if err := runOnce(); err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}
	return watchAndRerun(cmd.Context(), store, runOnce)
}

// currentConfig pulls the loaded configuration from context, falling
// back to defaults so the command still works under bare test harnesses.
func currentConfig(cmd *cobra.Command) config.Config {
	if manager, ok := appctx.Config(cmd.Context()); ok {
		return manager.Get()
	}
	return config.DefaultConfig()
}

// openCorpus loads the cleaning corpus once. The returned store hands
// out immutable snapshots and can reload them under --watch.
func openCorpus(cfg config.Config) (*corpuswatch.Store, error) {
	store := corpuswatch.NewStore(cfg.Corpus.Synonyms, cfg.Corpus.Patterns, log.Logger)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("load cleaning corpus: %w", err)
	}
	return store, nil
}

// writeAuditLog persists the normalization change log when a workspace
// is available. Audit failures warn and never fail the run.
func writeAuditLog(cmd *cobra.Command, changes *normalize.ChangeLog) string {
	ws, ok := workspace.FromContext(cmd.Context())
	if !ok {
		return ""
	}
	writer, err := audit.NewWriter(workspace.AuditDir(ws), log.Logger)
	if err != nil {
		log.Warn().Err(err).Msg("audit log unavailable, continuing without it")
		return ""
	}
	path, err := writer.Write(changes)
	if err != nil {
		log.Warn().Err(err).Msg("audit log write failed, continuing without it")
		return ""
	}
	return path
}

// exportResults writes the full result table as CSV. Without --out and
// without a workspace there is nowhere to write, so export is skipped.
func exportResults(cmd *cobra.Command, opts bind.MatchOptions, results []record.MatchResult) (string, error) {
	path := opts.OutPath
	if path == "" {
		ws, ok := workspace.FromContext(cmd.Context())
		if !ok {
			log.Debug().Msg("no workspace and no --out, skipping CSV export")
			return "", nil
		}
		path = filepath.Join(workspace.ResultsDir(ws), fmt.Sprintf("results-%s.csv", time.Now().Format("20060102-150405")))
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create result file: %w", err)
	}
	defer file.Close()

	if err := match.WriteResultsCSV(file, results); err != nil {
		return "", fmt.Errorf("write result file: %w", err)
	}
	return path, nil
}
