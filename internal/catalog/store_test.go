package catalog_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"glyphcast/internal/catalog"
)

func openStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(filepath.Join(t.TempDir(), "nested", "catalog.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	entries := []catalog.Entry{
		{Path: "/tmp/a.cast", GridWidth: 40, GridHeight: 20, FrameRate: 5, FrameCount: 50, Charset: "█▓▒░", CreatedAt: base},
		{Path: "/tmp/b.cast", GridWidth: 10, GridHeight: 5, FrameRate: 3, FrameCount: 12, Charset: " .:#", CreatedAt: base.Add(time.Hour)},
	}
	for _, entry := range entries {
		if _, err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	listed, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(listed))
	}
	if listed[0].Path != "/tmp/b.cast" {
		t.Fatalf("expected newest first, got %q", listed[0].Path)
	}
	if listed[1].FrameCount != 50 || listed[1].Charset != "█▓▒░" {
		t.Fatalf("unexpected entry: %+v", listed[1])
	}
}

func TestRecordReplacesSamePath(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	entry := catalog.Entry{Path: "/tmp/a.cast", GridWidth: 40, GridHeight: 20, FrameRate: 5, FrameCount: 50, Charset: "ab"}
	if _, err := store.Record(ctx, entry); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	entry.FrameCount = 25
	if _, err := store.Record(ctx, entry); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	listed, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected single entry after re-record, got %d", len(listed))
	}
	if listed[0].FrameCount != 25 {
		t.Fatalf("expected updated frame count, got %d", listed[0].FrameCount)
	}
}

func TestRemove(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.Record(ctx, catalog.Entry{Path: "/tmp/a.cast", GridWidth: 4, GridHeight: 2, FrameRate: 1, FrameCount: 1, Charset: "ab"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	removed, err := store.Remove(ctx, "/tmp/a.cast")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed {
		t.Fatal("expected removal of existing entry")
	}
	removed, err = store.Remove(ctx, "/tmp/a.cast")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed {
		t.Fatal("expected second removal to report no row")
	}
}
