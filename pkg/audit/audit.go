// Copyright 2025 CSAFMatch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package audit persists the per-run normalization change log as a
// timestamped artifact, one file per run.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/csafmatch/csafmatch/pkg/normalize"
)

// Writer appends change-log artifacts to an audit directory. The
// directory is shared between runs, so writes take a file lock to keep
// concurrent invocations from interleaving.
type Writer struct {
	dir    string
	logger zerolog.Logger
}

// NewWriter builds a writer rooted at dir, creating it if needed.
func NewWriter(dir string, logger zerolog.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating audit directory: %w", err)
	}
	return &Writer{
		dir:    dir,
		logger: logger.With().Str("component", "audit.writer").Logger(),
	}, nil
}

// Write stores one run's change log and returns the artifact path. The
// file name carries the run timestamp and a short run id so repeated
// runs in the same second never collide.
func (w *Writer) Write(log *normalize.ChangeLog) (string, error) {
	runID := uuid.NewString()[:8]
	name := fmt.Sprintf("changes-%s-%s.log", time.Now().Format("20060102-150405"), runID)
	path := filepath.Join(w.dir, name)

	lock := flock.New(filepath.Join(w.dir, ".audit.lock"))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("locking audit directory: %w", err)
	}
	defer lock.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating audit file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, c := range log.Changes {
		if err := enc.Encode(c); err != nil {
			return "", fmt.Errorf("writing audit entry: %w", err)
		}
	}
	w.logger.Info().Str("path", path).Int("changes", len(log.Changes)).Msg("audit artifact written")
	return path, nil
}
