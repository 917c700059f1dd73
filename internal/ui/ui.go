package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"golang.org/x/term"

	"github.com/swibrow/recall/internal/history"
	"github.com/swibrow/recall/internal/memory"
)

// Catppuccin Mocha palette
var (
	answerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a6e3a1")) // Green
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))            // Subtext0
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f5c2e7")) // Pink
	keywordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa"))            // Blue
	hintStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9e2af")) // Yellow
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f38ba8")) // Red
)

// Printer writes results to a terminal, styling them only when the output is
// a TTY.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	styled bool
}

// New returns a Printer for the given files, styled if stdout is a terminal.
func New(out, errOut *os.File) *Printer {
	return &Printer{out: out, errOut: errOut, styled: IsTerminal(out)}
}

// NewPlain returns a Printer that never emits escape sequences.
func NewPlain(out, errOut io.Writer) *Printer {
	return &Printer{out: out, errOut: errOut}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

// Answer shows a matched answer and the question it was stored for.
func (p *Printer) Answer(m memory.Match) {
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "  %s\n", p.render(answerStyle, m.Answer()))
	fmt.Fprintf(p.out, "  %s %s\n", p.render(labelStyle, "from:"), p.render(mutedStyle, m.Entry.Query))
	fmt.Fprintln(p.out)
}

// AnswerQuiet prints only the answer line (for piping).
func (p *Printer) AnswerQuiet(answer string) {
	fmt.Fprintln(p.out, answer)
}

// Generated shows an answer produced by the fallback model.
func (p *Printer) Generated(answer, provider string) {
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "  %s\n", p.render(answerStyle, memory.FormatAnswer(answer)))
	fmt.Fprintf(p.out, "  %s %s\n", p.render(labelStyle, "from:"), p.render(mutedStyle, provider+" (not in history)"))
	fmt.Fprintln(p.out)
}

// NoMatch reports that history holds nothing related.
func (p *Printer) NoMatch() {
	fmt.Fprintf(p.out, "\n  %s\n\n", p.render(hintStyle, "No relevant historical answer found."))
}

// Keywords lists the query keywords and how many indexed answers each hit.
func (p *Printer) Keywords(m memory.Match) {
	if len(m.Keywords) == 0 {
		fmt.Fprintf(p.out, "  %s %s\n", p.render(labelStyle, "keywords:"), p.render(mutedStyle, "(none)"))
		return
	}

	parts := make([]string, 0, len(m.Keywords))
	for _, k := range m.Keywords {
		if n, ok := m.Hits[k]; ok {
			parts = append(parts, fmt.Sprintf("%s (%d)", p.render(keywordStyle, k), n))
		} else {
			parts = append(parts, p.render(mutedStyle, k))
		}
	}
	fmt.Fprintf(p.out, "  %s %s\n", p.render(labelStyle, "keywords:"), strings.Join(parts, ", "))
	if m.Score > 0 {
		fmt.Fprintf(p.out, "  %s %d\n", p.render(labelStyle, "overlap:"), m.Score)
	}
}

// Index summarizes a snapshot. With detail it also lists every keyword with
// its bucket size and every session with its record count.
func (p *Printer) Index(snap *memory.Snapshot, detail bool) {
	st := snap.Stats()
	fmt.Fprintf(p.out, "  %s %d\n", p.render(labelStyle, "records: "), st.Records)
	fmt.Fprintf(p.out, "  %s %d\n", p.render(labelStyle, "sessions:"), st.Sessions)
	fmt.Fprintf(p.out, "  %s %d\n", p.render(labelStyle, "keywords:"), st.Keywords)
	fmt.Fprintf(p.out, "  %s %d\n", p.render(labelStyle, "entries: "), st.Entries)

	if !detail {
		return
	}

	if keywords := snap.Keywords(); len(keywords) > 0 {
		fmt.Fprintf(p.out, "\n  %s\n", p.render(labelStyle, "Keywords"))
		for _, k := range keywords {
			fmt.Fprintf(p.out, "    %s %d\n", p.render(keywordStyle, k), len(snap.Entries(k)))
		}
	}
	if sessions := snap.Sessions(); len(sessions) > 0 {
		fmt.Fprintf(p.out, "\n  %s\n", p.render(labelStyle, "Sessions"))
		for _, id := range sessions {
			fmt.Fprintf(p.out, "    %s %d\n", p.render(keywordStyle, id), len(snap.Session(id)))
		}
	}
}

// Records lists stored history records.
func (p *Printer) Records(records []history.Record) {
	for _, r := range records {
		fmt.Fprintf(p.out, "  Q: %s\n", r.Query)
		if answer, ok := memory.FinalAnswer(r.Response); ok {
			fmt.Fprintf(p.out, "  %s\n", p.render(answerStyle, memory.FormatAnswer(answer)))
		}
		var meta []string
		if r.SessionID != "" {
			meta = append(meta, "session "+r.SessionID)
		}
		if r.Timestamp != "" {
			meta = append(meta, r.Timestamp)
		}
		if len(meta) > 0 {
			fmt.Fprintf(p.out, "  %s\n", p.render(mutedStyle, "("+strings.Join(meta, ", ")+")"))
		}
		fmt.Fprintln(p.out)
	}
}

// Error shows a formatted error message.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.errOut, "\n  %s %s\n\n", p.render(errorStyle, "Error:"), msg)
}
