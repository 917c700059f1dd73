package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/swibrow/recall/internal/history"
)

// Indexer owns the current Snapshot built from a history Source. Every build
// replaces the snapshot as a whole.
type Indexer struct {
	source history.Source
	logger zerolog.Logger

	mu   sync.RWMutex
	snap *Snapshot
}

type Option func(*Indexer)

// WithLogger sets the logger used for build and lookup diagnostics.
// The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(ix *Indexer) {
		ix.logger = logger
	}
}

// NewIndexer returns an indexer with an empty snapshot. A nil source is an
// empty history.
func NewIndexer(source history.Source, opts ...Option) *Indexer {
	ix := &Indexer{
		source: source,
		logger: zerolog.Nop(),
		snap:   emptySnapshot(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// BuildIndex loads every record from the source and installs a fresh
// snapshot. When the source fails the previous snapshot stays in place.
func (ix *Indexer) BuildIndex(ctx context.Context) error {
	var records []history.Record
	if ix.source != nil {
		var err error
		records, err = ix.source.Records(ctx)
		if err != nil {
			ix.logger.Error().Err(err).Msg("loading history failed, keeping previous index")
			return fmt.Errorf("loading history: %w", err)
		}
	}

	ix.Rebuild(records)
	return nil
}

// Rebuild installs a snapshot built from records.
func (ix *Indexer) Rebuild(records []history.Record) {
	start := time.Now()
	ix.logger.Info().Int("records", len(records)).Msg("building conversation index")

	snap := build(records, ix.logger)

	ix.mu.Lock()
	ix.snap = snap
	ix.mu.Unlock()

	st := snap.Stats()
	ix.logger.Info().
		Int("sessions", st.Sessions).
		Int("keywords", st.Keywords).
		Int("entries", st.Entries).
		Dur("duration", time.Since(start)).
		Msg("conversation index built")
}

// Snapshot returns the current snapshot.
func (ix *Indexer) Snapshot() *Snapshot {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.snap
}

// Match looks query up in the current snapshot.
func (ix *Indexer) Match(query string) (Match, bool) {
	ix.logger.Info().Str("query", query).Msg("searching for related answer")

	m, ok := ix.Snapshot().Match(query)

	ix.logger.Debug().Strs("keywords", m.Keywords).Msg("keywords extracted")
	for _, k := range m.Keywords {
		if n, hit := m.Hits[k]; hit {
			ix.logger.Debug().Str("keyword", k).Int("matches", n).Msg("keyword found in index")
		}
	}

	if !ok {
		ix.logger.Info().Msg("no relevant historical answer found")
		return m, false
	}
	ix.logger.Info().Str("matched_query", m.Entry.Query).Int("score", m.Score).Msg("found best matching answer")
	return m, true
}

// FindRelatedAnswer is Match rendered as "FINAL_ANSWER: <answer>". It returns
// "" and false when nothing matched.
func (ix *Indexer) FindRelatedAnswer(query string) (string, bool) {
	m, ok := ix.Match(query)
	if !ok {
		return "", false
	}
	return m.Answer(), true
}
