package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := OpenStore(dir)
	if err != nil {
		t.Fatalf("OpenStore(%q) error: %v", dir, err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenStoreCreatesDB(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenStore(dir)
	if err != nil {
		t.Fatalf("OpenStore error: %v", err)
	}
	defer store.Close()

	dbPath := filepath.Join(dir, "history.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("expected database file at %s", dbPath)
	}
}

func TestStoreAppendAndRecords(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := Record{SessionID: "s1", Query: "capital of France", Response: "FINAL_ANSWER: Paris", Timestamp: "1"}
	second := Record{Query: "capital of Spain", Response: "FINAL_ANSWER: Madrid"}

	if err := store.Append(ctx, first); err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if err := store.Append(ctx, second); err != nil {
		t.Fatalf("Append error: %v", err)
	}

	records, err := store.Records(ctx)
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0] != first {
		t.Errorf("record 0: got %+v, want %+v", records[0], first)
	}
	if records[1] != second {
		t.Errorf("record 1: got %+v, want %+v", records[1], second)
	}
}

func TestStoreImportPreservesOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	in := []Record{{Query: "one"}, {Query: "two"}, {Query: "three"}}
	n, err := store.Import(ctx, in)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if n != 3 {
		t.Errorf("imported: got %d, want 3", n)
	}

	out, err := store.Records(ctx)
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	for i := range in {
		if out[i].Query != in[i].Query {
			t.Errorf("record %d: got %q, want %q", i, out[i].Query, in[i].Query)
		}
	}
}

func TestStoreList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, _ = store.Import(ctx, []Record{{Query: "one"}, {Query: "two"}, {Query: "three"}})

	results, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results with limit 2, got %d", len(results))
	}
	if results[0].Query != "three" {
		t.Errorf("expected newest first, got %q", results[0].Query)
	}
}

func TestStoreCountAndClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, _ = store.Import(ctx, []Record{{Query: "one"}, {Query: "two"}})

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if n != 2 {
		t.Errorf("count: got %d, want 2", n)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	records, err := store.Records(ctx)
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected 0 records after clear, got %d", len(records))
	}
}
