package commands

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/csafmatch/csafmatch/pkg/corpuswatch"
)

// watchAndRerun blocks until ctx is cancelled, rerunning the pipeline
// after every successful corpus reload. A failed rerun is logged and
// watching continues, so a bad edit can be fixed in place.
func watchAndRerun(ctx context.Context, store *corpuswatch.Store, run func() error) error {
	if !store.Watchable() {
		return errors.New("--watch needs an external corpus file (corpus.synonyms or corpus.patterns)")
	}

	rerun := make(chan struct{}, 1)
	store.OnReload(func() {
		select {
		case rerun <- struct{}{}:
		default:
		}
	})

	watchErr := make(chan error, 1)
	go func() { watchErr <- store.Watch(ctx) }()

	log.Info().Msg("watching corpus files, interrupt to stop")
	for {
		select {
		case err := <-watchErr:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case <-rerun:
			if err := run(); err != nil {
				log.Error().Err(err).Msg("rerun after corpus reload failed")
			}
		}
	}
}
