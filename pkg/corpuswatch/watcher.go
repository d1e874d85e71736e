// Copyright 2025 CSAFMatch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package corpuswatch reloads the cleaning corpus when its files change
// on disk, so long-lived callers pick up edits between runs. Each run
// still operates on one immutable corpus snapshot.
package corpuswatch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ReloadFunc is called after the debounce delay once any watched corpus
// file has been written.
type ReloadFunc func() error

// Watcher watches corpus files (synonym dictionary, vendor patterns)
// for changes and triggers a reload when modifications are detected.
type Watcher struct {
	// paths are the corpus files to watch, keyed by base name per
	// watched directory
	paths []string

	// reload is invoked debounced after changes
	reload ReloadFunc

	// watcher is the fsnotify file watcher
	watcher *fsnotify.Watcher

	// debounceDelay is the time to wait before reloading after a change
	// (prevents multiple reloads for rapid successive writes)
	debounceDelay time.Duration

	logger zerolog.Logger

	// mu protects the debounce timer
	mu            sync.Mutex
	debounceTimer *time.Timer
}

// NewWatcher creates a corpus watcher over the given files.
//
// Changes are debounced so rapid successive writes coalesce into a
// single reload. Default debounce delay is 100ms.
func NewWatcher(paths []string, reload ReloadFunc, logger zerolog.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		paths:         paths,
		reload:        reload,
		watcher:       watcher,
		debounceDelay: 100 * time.Millisecond,
		logger:        logger.With().Str("component", "corpuswatch").Logger(),
	}, nil
}

// Start begins watching the corpus files for changes.
//
// This method blocks until the context is canceled. It should be run
// in a separate goroutine:
//
//	go watcher.Start(ctx)
func (w *Watcher) Start(ctx context.Context) error {
	// fsnotify requires watching directories, not files directly.
	watched := make(map[string]struct{})
	dirs := make(map[string]struct{})
	for _, p := range w.paths {
		watched[filepath.Base(p)] = struct{}{}
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Error().
				Err(err).
				Str("dir", dir).
				Msg("Failed to watch corpus directory")
			return err
		}
	}

	w.logger.Info().
		Strs("files", w.paths).
		Dur("debounce", w.debounceDelay).
		Msg("Started watching corpus files")

	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn().Err(err).Msg("Error closing watcher")
		}
		w.logger.Info().Msg("Stopped watching corpus files")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			// Ignore other files in the watched directories.
			if _, ok := watched[filepath.Base(event.Name)]; !ok {
				continue
			}

			// Only react to write/create events (remove is handled by
			// create on next write).
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				w.logger.Debug().
					Str("op", event.Op.String()).
					Str("file", event.Name).
					Msg("Detected corpus file change")

				w.scheduleReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			w.logger.Warn().
				Err(err).
				Msg("File watcher error")
		}
	}
}

// scheduleReload schedules a corpus reload after the debounce delay.
// If a reload is already scheduled, the timer is reset.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		if err := w.reload(); err != nil {
			w.logger.Error().
				Err(err).
				Msg("Failed to reload corpus")
		} else {
			w.logger.Info().
				Msg("Corpus reloaded successfully")
		}
	})
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
