// Copyright 2025 CSAFMatch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package corpuswatch

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/csafmatch/csafmatch/pkg/normalize"
	"github.com/csafmatch/csafmatch/pkg/synonym"
)

// Snapshot is one immutable view of the cleaning corpus. Runs hold a
// snapshot for their whole duration; reloads swap in a new one without
// touching snapshots already handed out.
type Snapshot struct {
	Dictionary *synonym.Dictionary
	Patterns   *normalize.Config
}

// Store loads and caches the corpus, serving snapshots to runs. Empty
// paths fall back to the corpora compiled into the binary.
type Store struct {
	synonymsPath string
	patternsPath string
	logger       zerolog.Logger

	mu       sync.RWMutex
	current  *Snapshot
	onReload func()
}

// NewStore builds an unloaded store. Call Load before Get.
func NewStore(synonymsPath, patternsPath string, logger zerolog.Logger) *Store {
	return &Store{
		synonymsPath: synonymsPath,
		patternsPath: patternsPath,
		logger:       logger.With().Str("component", "corpuswatch.store").Logger(),
	}
}

// Load reads the corpus files and swaps the current snapshot. On error
// the previous snapshot stays in place.
func (s *Store) Load() error {
	var (
		dict *synonym.Dictionary
		err  error
	)
	if s.synonymsPath != "" {
		dict, err = synonym.LoadFile(s.synonymsPath)
	} else {
		dict, err = synonym.LoadEmbedded()
	}
	if err != nil {
		return err
	}

	var patterns *normalize.Config
	if s.patternsPath != "" {
		patterns, err = normalize.LoadPatternsFile(s.patternsPath)
	} else {
		patterns, err = normalize.LoadEmbeddedPatterns()
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = &Snapshot{Dictionary: dict, Patterns: patterns}
	s.mu.Unlock()
	s.logger.Debug().
		Str("synonyms", s.synonymsPath).
		Str("patterns", s.patternsPath).
		Msg("corpus snapshot loaded")
	return nil
}

// Get returns the current snapshot.
func (s *Store) Get() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// OnReload registers fn to run after every successful watch-triggered
// reload, so a caller blocked on Watch can rerun its work on the new
// snapshot. Must be called before Watch.
func (s *Store) OnReload(fn func()) {
	s.mu.Lock()
	s.onReload = fn
	s.mu.Unlock()
}

// Watchable reports whether any external corpus file is configured.
// An embedded-only store has nothing to watch.
func (s *Store) Watchable() bool {
	return s.synonymsPath != "" || s.patternsPath != ""
}

// Watch starts a file watcher that reloads the store when any external
// corpus file changes. With no external files configured there is
// nothing to watch and Watch returns immediately.
func (s *Store) Watch(ctx context.Context) error {
	var paths []string
	if s.synonymsPath != "" {
		paths = append(paths, s.synonymsPath)
	}
	if s.patternsPath != "" {
		paths = append(paths, s.patternsPath)
	}
	if len(paths) == 0 {
		s.logger.Debug().Msg("embedded corpus only, nothing to watch")
		return nil
	}

	w, err := NewWatcher(paths, s.reload, s.logger)
	if err != nil {
		return err
	}
	return w.Start(ctx)
}

// reload is the watcher callback: swap the snapshot, then notify.
func (s *Store) reload() error {
	if err := s.Load(); err != nil {
		return err
	}
	s.mu.RLock()
	fn := s.onReload
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
	return nil
}
