// Copyright 2025 CSAFMatch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package corpuswatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadEmbedded(t *testing.T) {
	s := NewStore("", "", zerolog.Nop())
	require.NoError(t, s.Load())

	snap := s.Get()
	require.NotNil(t, snap)
	assert.False(t, snap.Dictionary.Empty())
	assert.NotEmpty(t, snap.Patterns.FunctionKeywords)
}

func TestStore_LoadExternalFiles(t *testing.T) {
	dir := t.TempDir()
	synPath := filepath.Join(dir, "synonyms.yaml")
	patPath := filepath.Join(dir, "patterns.yaml")
	require.NoError(t, os.WriteFile(synPath, []byte("Manufacturer:\n  alias: [vendor]\n  Acme: [ACME Corp]\n"), 0o644))
	require.NoError(t, os.WriteFile(patPath, []byte("function_keywords: [firewall]\n"), 0o644))

	s := NewStore(synPath, patPath, zerolog.Nop())
	require.NoError(t, s.Load())

	snap := s.Get()
	assert.Equal(t, []string{"Manufacturer"}, snap.Dictionary.Columns())
	assert.Equal(t, []string{"firewall"}, snap.Patterns.FunctionKeywords)
}

func TestStore_BadPatternsKeepsPreviousSnapshot(t *testing.T) {
	dir := t.TempDir()
	patPath := filepath.Join(dir, "patterns.yaml")
	require.NoError(t, os.WriteFile(patPath, []byte("function_keywords: [switch]\n"), 0o644))

	s := NewStore("", patPath, zerolog.Nop())
	require.NoError(t, s.Load())
	before := s.Get()

	require.NoError(t, os.WriteFile(patPath, []byte("phrase_deletions: ['[unclosed']\n"), 0o644))
	assert.Error(t, s.Load())
	assert.Same(t, before, s.Get(), "failed reload must keep the old snapshot")
}

func TestStore_WatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	patPath := filepath.Join(dir, "patterns.yaml")
	require.NoError(t, os.WriteFile(patPath, []byte("function_keywords: [firewall]\n"), 0o644))

	s := NewStore("", patPath, zerolog.Nop())
	require.NoError(t, s.Load())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(patPath, []byte("function_keywords: [firewall, switch]\n"), 0o644))

	require.Eventually(t, func() bool {
		return len(s.Get().Patterns.FunctionKeywords) == 2
	}, 5*time.Second, 50*time.Millisecond, "watcher should reload the corpus after a write")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestStore_WatchWithoutExternalFilesReturns(t *testing.T) {
	s := NewStore("", "", zerolog.Nop())
	require.NoError(t, s.Load())
	assert.NoError(t, s.Watch(context.Background()))
}

func TestStore_Watchable(t *testing.T) {
	assert.False(t, NewStore("", "", zerolog.Nop()).Watchable())
	assert.True(t, NewStore("synonyms.yaml", "", zerolog.Nop()).Watchable())
	assert.True(t, NewStore("", "patterns.yaml", zerolog.Nop()).Watchable())
}

func TestStore_OnReloadNotifies(t *testing.T) {
	dir := t.TempDir()
	patPath := filepath.Join(dir, "patterns.yaml")
	require.NoError(t, os.WriteFile(patPath, []byte("function_keywords: [firewall]\n"), 0o644))

	s := NewStore("", patPath, zerolog.Nop())
	require.NoError(t, s.Load())

	reloaded := make(chan struct{}, 1)
	s.OnReload(func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(patPath, []byte("function_keywords: [firewall, router]\n"), 0o644))

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback should fire after a corpus write")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
