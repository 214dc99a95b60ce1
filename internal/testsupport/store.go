package testsupport

import (
	"context"
	"fmt"
	"testing"

	"curator/internal/config"
	"curator/internal/library"
)

// MustOpenStore opens a library.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddItem inserts a minimal item for the given source and returns it.
func AddItem(t testing.TB, store *library.Store, source library.Source, title string) *library.Item {
	t.Helper()

	item, err := store.Add(context.Background(), &library.Item{
		Source: source,
		URL:    fmt.Sprintf("https://example.com/watch/%s", title),
		Title:  title,
	})
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return item
}
