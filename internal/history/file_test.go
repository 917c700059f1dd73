package history

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func writeHistory(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing history: %v", err)
	}
	return path
}

func TestFileRecords(t *testing.T) {
	path := writeHistory(t, `{
		"conversations": [
			{"session_id": "s1", "query": "What is the capital of France?", "response": "FINAL_ANSWER: Paris", "timestamp": "2024-01-01T10:00:00"},
			{"query": "tool execution: search", "response": "done"}
		]
	}`)

	records, err := NewFile(path, zerolog.Nop()).Records(context.Background())
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	want := Record{
		SessionID: "s1",
		Query:     "What is the capital of France?",
		Response:  "FINAL_ANSWER: Paris",
		Timestamp: "2024-01-01T10:00:00",
	}
	if records[0] != want {
		t.Errorf("record 0: got %+v, want %+v", records[0], want)
	}
	if records[1].SessionID != "" || records[1].Timestamp != "" {
		t.Errorf("record 1: expected empty session and timestamp, got %+v", records[1])
	}
}

func TestFileMissingIsEmpty(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	path := filepath.Join(t.TempDir(), "nope.json")
	records, err := NewFile(path, logger).Records(context.Background())
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Errorf("expected a warning to be logged, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "history file not found") {
		t.Errorf("expected not-found message, got: %s", buf.String())
	}
}

func TestFileMalformed(t *testing.T) {
	path := writeHistory(t, `{"conversations": [`)

	_, err := NewFile(path, zerolog.Nop()).Records(context.Background())
	if !errors.Is(err, ErrMalformedHistory) {
		t.Fatalf("expected ErrMalformedHistory, got: %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("expected path in error, got: %v", err)
	}
}

func TestParsePermissive(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []Record
	}{
		{
			name: "no conversations key",
			doc:  `{"other": 1}`,
			want: nil,
		},
		{
			name: "null conversations",
			doc:  `{"conversations": null}`,
			want: nil,
		},
		{
			name: "numeric timestamp keeps raw text",
			doc:  `{"conversations": [{"query": "q", "response": "r", "timestamp": 1700000000}]}`,
			want: []Record{{Query: "q", Response: "r", Timestamp: "1700000000"}},
		},
		{
			name: "null fields are empty",
			doc:  `{"conversations": [{"session_id": null, "query": null, "response": "r"}]}`,
			want: []Record{{Response: "r"}},
		},
		{
			name: "non-object entries are skipped",
			doc:  `{"conversations": ["junk", 3, {"query": "kept"}]}`,
			want: []Record{{Query: "kept"}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse([]byte(tc.doc))
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("Parse(%s) = %+v, want %+v", tc.doc, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("record %d: got %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, doc := range []string{``, `not json`, `[1, 2]`, `{"conversations": {"a": 1}}`} {
		t.Run(doc, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); !errors.Is(err, ErrMalformedHistory) {
				t.Errorf("Parse(%q): expected ErrMalformedHistory, got %v", doc, err)
			}
		})
	}
}

func TestExportRoundTrip(t *testing.T) {
	records := []Record{
		{SessionID: "s1", Query: "What is \"quoted\"?", Response: "FINAL_ANSWER: yes\nline two", Timestamp: "t1"},
		{Query: "no session", Response: "plain"},
	}

	data, err := Export(records)
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(got))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Errorf("record %d: got %+v, want %+v", i, got[i], records[i])
		}
	}
	if strings.Contains(string(data), `"session_id": ""`) {
		t.Errorf("empty session ids should be omitted:\n%s", data)
	}
}

func TestExportEmpty(t *testing.T) {
	data, err := Export(nil)
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no records, got %d", len(got))
	}
}

func TestStaticRecords(t *testing.T) {
	src := Static{{Query: "a"}, {Query: "b"}}
	got, err := src.Records(context.Background())
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(got) != 2 || got[1].Query != "b" {
		t.Errorf("unexpected records: %+v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Records(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
