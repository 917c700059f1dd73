package prompt

import (
	"strings"

	"github.com/swibrow/recall/internal/history"
	"github.com/swibrow/recall/internal/llm"
	"github.com/swibrow/recall/internal/memory"
)

const baseSystemPrompt = `You are a concise assistant. Answer the user's question directly.

You MUST end your response with exactly one line in this format:

FINAL_ANSWER: <the answer>

Rules:
- Put the complete answer on the FINAL_ANSWER line; anything before it is treated as working notes
- Keep the answer short and self-contained so it can be reused for similar questions later
- Do not write FINAL_ANSWER anywhere else in the response
- If earlier turns of the conversation are included, stay consistent with them`

// SystemPrompt returns the fallback system prompt. If customPrompt is
// non-empty it replaces the default, and the FINAL_ANSWER instruction is
// appended when the custom prompt does not mention the marker itself.
func SystemPrompt(customPrompt string) string {
	if customPrompt == "" {
		return baseSystemPrompt
	}
	if strings.Contains(customPrompt, memory.FinalAnswerMarker) {
		return customPrompt
	}
	return customPrompt + "\n\nEnd your response with a line of the form: " + memory.FinalAnswerMarker + " <the answer>"
}

// SessionTurns replays a session's earlier records as model turns. Tool
// execution records are kept out of the transcript.
func SessionTurns(records []history.Record) []llm.Turn {
	var turns []llm.Turn
	for _, r := range records {
		if memory.IsToolExecution(r.Query) {
			continue
		}
		turns = append(turns, llm.Turn{Query: r.Query, Response: r.Response})
	}
	return turns
}
