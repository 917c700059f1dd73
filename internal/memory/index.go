package memory

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/swibrow/recall/internal/history"
)

// AnswerEntry is a final answer indexed under each keyword of the question
// that produced it. Query is stored lowercased.
type AnswerEntry struct {
	Query     string
	Answer    string
	Timestamp string
}

// SessionIndex groups records by session id in input order.
type SessionIndex map[string][]history.Record

// KeywordIndex maps a keyword to the answers whose question contained it, in
// input order. A question that repeats a keyword contributes one entry per
// occurrence.
type KeywordIndex map[string][]AnswerEntry

// Snapshot is one complete build of both indices. It is never modified after
// Build returns.
type Snapshot struct {
	sessions SessionIndex
	keywords KeywordIndex
	records  int
}

// Stats summarizes a snapshot.
type Stats struct {
	Records  int
	Sessions int
	Keywords int
	Entries  int
}

// Build indexes records from scratch.
func Build(records []history.Record) *Snapshot {
	return build(records, zerolog.Nop())
}

func build(records []history.Record, logger zerolog.Logger) *Snapshot {
	s := &Snapshot{
		sessions: make(SessionIndex),
		keywords: make(KeywordIndex),
		records:  len(records),
	}

	for _, rec := range records {
		if rec.SessionID != "" {
			s.sessions[rec.SessionID] = append(s.sessions[rec.SessionID], rec)
		}

		if IsToolExecution(rec.Query) {
			continue
		}

		answer, ok := FinalAnswer(rec.Response)
		if !ok {
			continue
		}

		query := strings.ToLower(rec.Query)
		entry := AnswerEntry{Query: query, Answer: answer, Timestamp: rec.Timestamp}
		for _, keyword := range ExtractKeywords(query) {
			s.keywords[keyword] = append(s.keywords[keyword], entry)
		}
		logger.Debug().Str("query", query).Msg("indexed final answer")
	}

	return s
}

func emptySnapshot() *Snapshot {
	return &Snapshot{sessions: SessionIndex{}, keywords: KeywordIndex{}}
}

// SessionIndex returns a copy of the session index.
func (s *Snapshot) SessionIndex() SessionIndex {
	out := make(SessionIndex, len(s.sessions))
	for id, recs := range s.sessions {
		out[id] = append([]history.Record(nil), recs...)
	}
	return out
}

// KeywordIndex returns a copy of the keyword index.
func (s *Snapshot) KeywordIndex() KeywordIndex {
	out := make(KeywordIndex, len(s.keywords))
	for k, entries := range s.keywords {
		out[k] = append([]AnswerEntry(nil), entries...)
	}
	return out
}

// Session returns the records of one session in input order.
func (s *Snapshot) Session(id string) []history.Record {
	return append([]history.Record(nil), s.sessions[id]...)
}

// Entries returns the answers indexed under keyword in input order.
func (s *Snapshot) Entries(keyword string) []AnswerEntry {
	return append([]AnswerEntry(nil), s.keywords[keyword]...)
}

// Sessions returns the session ids, sorted.
func (s *Snapshot) Sessions() []string {
	return sortedKeys(s.sessions)
}

// Keywords returns the indexed keywords, sorted.
func (s *Snapshot) Keywords() []string {
	return sortedKeys(s.keywords)
}

func (s *Snapshot) Stats() Stats {
	st := Stats{
		Records:  s.records,
		Sessions: len(s.sessions),
		Keywords: len(s.keywords),
	}
	for _, entries := range s.keywords {
		st.Entries += len(entries)
	}
	return st
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
