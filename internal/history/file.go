package history

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// ErrMalformedHistory is returned when a history document is not a JSON
// object with an optional "conversations" array.
var ErrMalformedHistory = errors.New("malformed history document")

// File reads records from a JSON history document of the form
// {"conversations": [{"session_id", "query", "response", "timestamp"}, ...]}.
type File struct {
	Path   string
	Logger zerolog.Logger
}

func NewFile(path string, logger zerolog.Logger) *File {
	return &File{Path: path, Logger: logger}
}

// Records reads and parses the history file. A missing file is an empty
// history, not an error.
func (f *File) Records(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.Logger.Warn().Str("path", f.Path).Msg("history file not found")
			return nil, nil
		}
		return nil, fmt.Errorf("reading history: %w", err)
	}

	records, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}

	f.Logger.Info().Str("path", f.Path).Int("count", len(records)).Msg("loaded conversations from history")
	return records, nil
}

// Parse decodes a history document. Fields are read permissively: a missing
// or null field is empty, and a non-string value keeps its raw JSON text.
// Entries that are not objects are skipped.
func Parse(data []byte) ([]Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedHistory)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformedHistory)
	}

	convs := root.Get("conversations")
	if !convs.Exists() || convs.Type == gjson.Null {
		return nil, nil
	}
	if !convs.IsArray() {
		return nil, fmt.Errorf("%w: conversations is not an array", ErrMalformedHistory)
	}

	var records []Record
	convs.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		records = append(records, Record{
			SessionID: field(v, "session_id"),
			Query:     field(v, "query"),
			Response:  field(v, "response"),
			Timestamp: field(v, "timestamp"),
		})
		return true
	})
	return records, nil
}

func field(v gjson.Result, name string) string {
	r := v.Get(name)
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Null:
		return ""
	default:
		return r.Raw
	}
}
