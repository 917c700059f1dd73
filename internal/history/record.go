// Package history loads the conversation records that the retrieval index is
// built from.
package history

import "context"

// Record is one past query/response exchange. Timestamp is opaque: it is kept
// as the text it was stored with and only ever compared or echoed back.
type Record struct {
	SessionID string
	Query     string
	Response  string
	Timestamp string
}

// Source yields the records an index is built from, in processing order.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
}

// Static is a Source backed by records already held in memory.
type Static []Record

func (s Static) Records(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s, nil
}
