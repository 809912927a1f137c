package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_LoadMissingIsEmpty(t *testing.T) {
	s := NewFileStore(t.TempDir())

	payload, err := s.Load(context.Background(), "events")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload != nil {
		t.Errorf("expected nil payload, got %q", payload)
	}
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	want := []byte(`[{"id":"hot-1"}]`)

	if err := s.Save(context.Background(), "hot_trends", want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(context.Background(), "hot_trends")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("got %q, want %q", got, want)
	}

	if _, err := os.Stat(filepath.Join(dir, "data_hot_trends.json")); err != nil {
		t.Errorf("expected data_hot_trends.json on disk: %v", err)
	}
}

func TestFileStore_SaveReplacesWholeDocument(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()

	s.Save(ctx, "events", []byte(`[{"id":"a"},{"id":"b"}]`))
	s.Save(ctx, "events", []byte(`[]`))

	got, err := s.Load(ctx, "events")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("got %q, want []", got)
	}
}

func TestFileStore_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	s.Save(context.Background(), "strategies", []byte(`[]`))

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s := NewFileStore(dir)

	if err := s.Save(context.Background(), "events", []byte(`[]`)); err != nil {
		t.Fatalf("save into missing dir: %v", err)
	}
}
