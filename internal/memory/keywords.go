// Package memory indexes past answers by keyword and finds the one whose
// original question best overlaps a new query.
package memory

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var stopWords = map[string]bool{
	"the": true, "is": true, "at": true, "which": true, "on": true, "what": true,
}

// Tokens shorter than this are never keywords.
const minKeywordLen = 4

// ExtractKeywords lowercases text, splits it into runs of letters, digits and
// underscores, and keeps tokens longer than three characters that are not stop
// words. Order of appearance is kept and duplicates are not removed.
func ExtractKeywords(text string) []string {
	lower := strings.ToLower(text)

	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	var keywords []string
	for _, w := range words {
		if utf8.RuneCountInString(w) < minKeywordLen || stopWords[w] {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}

// keywordSet collapses keywords into a set for overlap counting.
func keywordSet(keywords []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		set[k] = struct{}{}
	}
	return set
}

// overlap counts the distinct keywords shared by set and keywords.
func overlap(set map[string]struct{}, keywords []string) int {
	n := 0
	for k := range keywordSet(keywords) {
		if _, ok := set[k]; ok {
			n++
		}
	}
	return n
}
