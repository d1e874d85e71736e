// Copyright 2025 CSAFMatch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package format

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/csafmatch/csafmatch/pkg/match"
	"github.com/csafmatch/csafmatch/pkg/record"
	"github.com/csafmatch/csafmatch/pkg/stringutil"
)

// RunSummary carries everything the end-of-run report prints after a
// matching batch.
type RunSummary struct {
	AdvisoryFiles   int         `json:"advisory_files"`
	AdvisorySkipped int         `json:"advisory_skipped"`
	AdvisoryRows    int         `json:"advisory_rows"`
	AssetRows       int         `json:"asset_rows"`
	Stats           match.Stats `json:"stats"`
	// Warnings is the total WARN count of the whole run, normalization
	// included, not just the engine's own counter.
	Warnings    int    `json:"warnings"`
	AuditLog    string `json:"audit_log,omitempty"`
	ResultsPath string `json:"results_path,omitempty"`
}

const maxCellWidth = 40

// PrintRunSummary renders the matching report. JSON mode emits the raw
// RunSummary; table mode prints a short human-readable block.
func (f *formatter) PrintRunSummary(summary RunSummary) error {
	if f.quiet {
		return nil
	}

	if f.mode == ModeJSON {
		return f.PrintJSON(summary)
	}

	var sb strings.Builder
	sb.WriteString("\nSummary:\n")
	fmt.Fprintf(&sb, "  advisory files   %d processed, %d skipped\n", summary.AdvisoryFiles, summary.AdvisorySkipped)
	fmt.Fprintf(&sb, "  product records  %d advisory, %d asset\n", summary.AdvisoryRows, summary.AssetRows)
	fmt.Fprintf(&sb, "  pairs scored     %d (%d skipped by vendor pre-filter)\n", summary.Stats.PairsScored, summary.Stats.PairsSkipped)

	matchLine := fmt.Sprintf("  matches          %d of %d scored pairs\n", summary.Stats.Matches, summary.Stats.PairsScored)
	if f.color && summary.Stats.Matches > 0 {
		matchLine = color.New(color.FgYellow).Sprint(matchLine)
	}
	sb.WriteString(matchLine)

	warnLine := fmt.Sprintf("  warnings         %d\n", summary.Warnings)
	if f.color && summary.Warnings > 0 {
		warnLine = color.New(color.FgRed).Sprint(warnLine)
	}
	sb.WriteString(warnLine)

	if summary.AuditLog != "" {
		fmt.Fprintf(&sb, "  audit log        %s\n", summary.AuditLog)
	}
	if summary.ResultsPath != "" {
		fmt.Fprintf(&sb, "  results          %s\n", summary.ResultsPath)
	}

	_, err := fmt.Fprint(f.stdout, sb.String())
	return err
}

// MatchTable converts the matched subset of a result slice into table
// headers and rows for PrintTable. Long cells are shortened so one pair
// stays on one terminal line.
func MatchTable(results []record.MatchResult) ([]string, [][]string) {
	headers := []string{"asset", "advisory product", "vendor", "name", "version", "source"}

	var rows [][]string
	for i := range results {
		r := &results[i]
		if r.Verdict != 1 {
			continue
		}
		rows = append(rows, []string{
			stringutil.Ellipsis(r.ProductName1, maxCellWidth),
			stringutil.Ellipsis(r.ProductName2, maxCellWidth),
			r.VendorScore.String(),
			r.ProductNameScore.String(),
			r.VersionScore.String(),
			stringutil.Ellipsis(r.Source2, maxCellWidth),
		})
	}
	return headers, rows
}
