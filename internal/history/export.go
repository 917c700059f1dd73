package history

import (
	"fmt"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Export encodes records as a history document that Parse reads back.
// Empty session ids and timestamps are omitted.
func Export(records []Record) ([]byte, error) {
	doc := []byte(`{"conversations":[]}`)

	for i, r := range records {
		elem, err := encodeRecord(r)
		if err != nil {
			return nil, fmt.Errorf("encoding record %d: %w", i, err)
		}
		doc, err = sjson.SetRawBytes(doc, "conversations.-1", elem)
		if err != nil {
			return nil, fmt.Errorf("appending record %d: %w", i, err)
		}
	}

	return pretty.Pretty(doc), nil
}

func encodeRecord(r Record) ([]byte, error) {
	elem := []byte(`{}`)
	var err error

	if r.SessionID != "" {
		if elem, err = sjson.SetBytes(elem, "session_id", r.SessionID); err != nil {
			return nil, err
		}
	}
	if elem, err = sjson.SetBytes(elem, "query", r.Query); err != nil {
		return nil, err
	}
	if elem, err = sjson.SetBytes(elem, "response", r.Response); err != nil {
		return nil, err
	}
	if r.Timestamp != "" {
		if elem, err = sjson.SetBytes(elem, "timestamp", r.Timestamp); err != nil {
			return nil, err
		}
	}
	return elem, nil
}
