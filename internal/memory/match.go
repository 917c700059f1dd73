package memory

// Match is the outcome of a lookup. Keywords and Hits are filled in even when
// nothing matched.
type Match struct {
	Entry AnswerEntry
	// Score is the number of distinct keywords Entry's question shares with
	// the query.
	Score    int
	Keywords []string
	// Hits is the bucket size of every query keyword present in the index.
	Hits map[string]int
}

// Answer renders the matched answer with its marker.
func (m Match) Answer() string {
	return FormatAnswer(m.Entry.Answer)
}

// Match finds the indexed answer whose question shares the most keywords with
// query. Candidates are visited keyword by keyword in query order, then in
// bucket order; only a strictly higher score replaces the current best, so the
// earliest candidate wins a tie.
func (s *Snapshot) Match(query string) (Match, bool) {
	m := Match{
		Keywords: ExtractKeywords(query),
		Hits:     make(map[string]int),
	}
	querySet := keywordSet(m.Keywords)

	found := false
	visited := make(map[string]bool, len(querySet))
	for _, keyword := range m.Keywords {
		if visited[keyword] {
			continue
		}
		visited[keyword] = true

		entries, ok := s.keywords[keyword]
		if !ok {
			continue
		}
		m.Hits[keyword] = len(entries)

		for _, entry := range entries {
			score := overlap(querySet, ExtractKeywords(entry.Query))
			if score > m.Score {
				m.Score = score
				m.Entry = entry
				found = true
			}
		}
	}

	return m, found
}

// FindRelatedAnswer returns the best answer for query prefixed with
// FinalAnswerMarker, or "" and false when no indexed question shares a
// keyword with it.
func (s *Snapshot) FindRelatedAnswer(query string) (string, bool) {
	m, ok := s.Match(query)
	if !ok {
		return "", false
	}
	return m.Answer(), true
}
