package csaf

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/csafmatch/csafmatch/pkg/record"
)

// Source is one CSAF file found during discovery.
type Source struct {
	Path string
	Name string
}

// LoadStats summarizes a directory load.
type LoadStats struct {
	Discovered int
	Processed  int
	Skipped    int
	Records    int
}

// Loader reads CSAF directories into record tables. Files that fail any
// validation step are excluded with a log entry, never failing the
// batch.
type Loader struct {
	logger zerolog.Logger
}

// NewLoader builds a directory loader.
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{logger: logger.With().Str("component", "csaf.loader").Logger()}
}

// DiscoverSources walks a directory tree and returns every file that
// parses as a CSAF document. Non-JSON files, empty files, malformed
// JSON, and JSON missing the CSAF sections are excluded with logs.
func (l *Loader) DiscoverSources(dir string) ([]Source, error) {
	var sources []Source
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".json") {
			l.logger.Debug().Str("file", d.Name()).Msg("not a json file, excluded")
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() == 0 {
			l.logger.Debug().Str("path", path).Msg("empty json file, excluded")
			return nil
		}
		if _, err := ReadDocument(path); err != nil {
			switch {
			case errors.Is(err, ErrNotCSAF):
				l.logger.Info().Str("path", path).Msg("file fits not the CSAF standard, excluded")
			case isJSONError(err):
				l.logger.Error().Err(err).Str("path", path).Msg("malformed json file, excluded")
			default:
				l.logger.Error().Err(err).Str("path", path).Msg("unreadable file, excluded")
			}
			return nil
		}
		sources = append(sources, Source{Path: path, Name: d.Name()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering CSAF sources in %s: %w", dir, err)
	}
	return sources, nil
}

// LoadDirectory discovers and flattens every CSAF document under dir
// into one table. Per-file failures are isolated and counted.
func (l *Loader) LoadDirectory(dir string) (*record.Table, LoadStats, error) {
	sources, err := l.DiscoverSources(dir)
	if err != nil {
		return nil, LoadStats{}, err
	}

	stats := LoadStats{Discovered: len(sources)}
	table := &record.Table{Source: dir}
	progressStep := len(sources)/30 + 1
	for i, src := range sources {
		if i > 0 && i%progressStep == 0 {
			l.logger.Debug().
				Int("processed", i).
				Int("total", len(sources)).
				Msg("loading CSAF sources")
		}
		doc, err := ReadDocument(src.Path)
		if err != nil {
			l.logger.Warn().Err(err).Str("path", src.Path).Msg("skipping CSAF source")
			stats.Skipped++
			continue
		}
		rows := FlattenProductTree(doc)
		table.Rows = append(table.Rows, rows...)
		stats.Processed++
		stats.Records += len(rows)
	}
	l.logger.Info().
		Int("discovered", stats.Discovered).
		Int("processed", stats.Processed).
		Int("skipped", stats.Skipped).
		Int("records", stats.Records).
		Msg("CSAF directory loaded")
	return table, stats, nil
}

func isJSONError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
