// Copyright 2025 CSAFMatch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package bind

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/csafmatch/csafmatch/cmd/csafmatch/internal/format"
)

// MatchOptions holds the validated flag values for the match command.
type MatchOptions struct {
	CSAFDir       string
	InventoryPath string
	OutPath       string
	Output        format.OutputMode
	Quiet         bool
	Watch         bool
}

// BindMatchOptions extracts and validates match command flags.
//
// Flags read:
//   - --csaf: directory of CSAF advisory JSON files
//   - --inventory: asset inventory YAML file
//   - --out: result CSV destination (default: workspace results dir)
//   - --output, -o: summary format, json or table
//   - --quiet, -q: suppress the run summary
//   - --watch: stay alive and rerun when a corpus file changes
//
// Returns an error if validation fails.
func BindMatchOptions(cmd *cobra.Command) (MatchOptions, error) {
	csafDir, _ := cmd.Flags().GetString("csaf")
	inventoryPath, _ := cmd.Flags().GetString("inventory")
	outPath, _ := cmd.Flags().GetString("out")
	output, _ := cmd.Flags().GetString("output")
	quiet, _ := cmd.Flags().GetBool("quiet")
	watch, _ := cmd.Flags().GetBool("watch")

	opts := MatchOptions{
		CSAFDir:       csafDir,
		InventoryPath: inventoryPath,
		OutPath:       outPath,
		Output:        format.ParseMode(output),
		Quiet:         quiet,
		Watch:         watch,
	}

	if csafDir == "" {
		return opts, errors.New("--csaf directory is required")
	}
	if inventoryPath == "" {
		return opts, errors.New("--inventory file is required")
	}
	if err := format.ValidateMode(output); err != nil {
		return opts, err
	}

	return opts, nil
}

// NormalizeOptions holds the validated flag values for the normalize
// command. Exactly one input source must be named.
type NormalizeOptions struct {
	CSAFDir       string
	InventoryPath string
	Output        format.OutputMode
	Watch         bool
}

// BindNormalizeOptions extracts and validates normalize command flags.
func BindNormalizeOptions(cmd *cobra.Command) (NormalizeOptions, error) {
	csafDir, _ := cmd.Flags().GetString("csaf")
	inventoryPath, _ := cmd.Flags().GetString("inventory")
	output, _ := cmd.Flags().GetString("output")
	watch, _ := cmd.Flags().GetBool("watch")

	opts := NormalizeOptions{
		CSAFDir:       csafDir,
		InventoryPath: inventoryPath,
		Output:        format.ParseMode(output),
		Watch:         watch,
	}

	if csafDir == "" && inventoryPath == "" {
		return opts, errors.New("either --csaf or --inventory must be provided")
	}
	if csafDir != "" && inventoryPath != "" {
		return opts, errors.New("only one of --csaf or --inventory may be provided at a time")
	}
	if err := format.ValidateMode(output); err != nil {
		return opts, err
	}

	return opts, nil
}
