package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newLocalStore(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(LocalConfig{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("new local storage: %v", err)
	}
	return store
}

func mustWrite(t *testing.T, store *LocalStorage, key, content string) {
	t.Helper()
	err := store.Write(context.Background(), key, strings.NewReader(content), int64(len(content)), "application/octet-stream")
	if err != nil {
		t.Fatalf("write %s: %v", key, err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	mustWrite(t, store, "sponsors/a.png", "sponsor bytes")

	rc, err := store.Read(ctx, "sponsors/a.png")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if string(data) != "sponsor bytes" {
		t.Fatalf("content mismatch: %q", data)
	}

	if ok, err := store.Exists(ctx, "sponsors/a.png"); err != nil || !ok {
		t.Fatalf("exists: %v %v", ok, err)
	}
	if ok, err := store.Exists(ctx, "sponsors/missing.png"); err != nil || ok {
		t.Fatalf("missing file reported present: %v %v", ok, err)
	}
}

func TestWriteReplacesExisting(t *testing.T) {
	store := newLocalStore(t)

	mustWrite(t, store, "sponsors/a.png", "first")
	mustWrite(t, store, "sponsors/a.png", "second")

	rc, err := store.Read(context.Background(), "sponsors/a.png")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	defer rc.Close()
	if data, _ := io.ReadAll(rc); string(data) != "second" {
		t.Fatalf("overwrite lost: %q", data)
	}
}

func TestWriteRejectsTraversal(t *testing.T) {
	parent := t.TempDir()
	store, err := NewLocalStorage(LocalConfig{BasePath: filepath.Join(parent, "data")})
	if err != nil {
		t.Fatalf("new local storage: %v", err)
	}

	writeErr := store.Write(context.Background(), "../escape.txt", strings.NewReader("x"), 1, "text/plain")
	if writeErr == nil {
		t.Fatalf("expected traversal write to fail")
	}
	if _, statErr := os.Stat(filepath.Join(parent, "escape.txt")); !os.IsNotExist(statErr) {
		t.Fatalf("file escaped the base path: %v", statErr)
	}
}

func TestListFiltersByPrefix(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	mustWrite(t, store, "sponsors/a.png", "a")
	mustWrite(t, store, "sponsors/b.png", "b")
	mustWrite(t, store, "other/c.txt", "c")

	files, err := store.List(ctx, "sponsors/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected two files, got %#v", files)
	}
	keys := map[string]bool{}
	for _, f := range files {
		keys[f.Key] = true
		if f.Size == 0 {
			t.Fatalf("size missing for %s", f.Key)
		}
	}
	if !keys["sponsors/a.png"] || !keys["sponsors/b.png"] {
		t.Fatalf("unexpected keys: %v", keys)
	}

	if files, err := store.List(ctx, "nothing/"); err != nil || len(files) != 0 {
		t.Fatalf("empty prefix should list nothing: %v %v", files, err)
	}
}

func TestDelete(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	mustWrite(t, store, "sponsors/a.png", "a")
	if err := store.Delete(ctx, "sponsors/a.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ok, _ := store.Exists(ctx, "sponsors/a.png"); ok {
		t.Fatalf("file survived delete")
	}

	// Deleting a missing key is not an error.
	if err := store.Delete(ctx, "sponsors/a.png"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestGetURL(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	mustWrite(t, store, "sponsors/a.png", "a")

	url, err := store.GetURL(ctx, "sponsors/a.png", 0)
	if err != nil {
		t.Fatalf("get url: %v", err)
	}
	if url != "/sponsors/a.png" {
		t.Fatalf("unexpected url: %q", url)
	}

	if _, err := store.GetURL(ctx, "sponsors/missing.png", 0); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
