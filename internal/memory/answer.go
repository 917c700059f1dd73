package memory

import "strings"

// FinalAnswerMarker introduces the final answer inside an agent response.
const FinalAnswerMarker = "FINAL_ANSWER:"

// toolExecutionPrefix marks lowercased queries that record a tool call rather
// than a question.
const toolExecutionPrefix = "tool execution"

// FinalAnswer returns the trimmed text after the first FinalAnswerMarker in
// response, and false when the marker is absent.
func FinalAnswer(response string) (string, bool) {
	_, after, found := strings.Cut(response, FinalAnswerMarker)
	if !found {
		return "", false
	}
	return strings.TrimSpace(after), true
}

// IsToolExecution reports whether query records a tool call rather than a
// question. Such records are never answer-indexed.
func IsToolExecution(query string) bool {
	return strings.HasPrefix(strings.ToLower(query), toolExecutionPrefix)
}

// FormatAnswer renders a stored answer the way it is handed back to callers.
func FormatAnswer(answer string) string {
	return FinalAnswerMarker + " " + answer
}
