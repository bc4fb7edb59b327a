package linear

import (
	"context"
	"encoding/json"
	"testing"
)

type memStore struct {
	entries map[string]json.RawMessage
	sets    int
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]json.RawMessage)}
}

func (m *memStore) Get(key string) (json.RawMessage, bool) {
	v, ok := m.entries[key]
	return v, ok
}

func (m *memStore) Set(key string, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	m.entries[key] = data
	m.sets++
	return true
}

func TestClient_CacheHitSkipsFetch(t *testing.T) {
	opts := NewQueryOptions("ROI", "", "", 250, false, false)
	store := newMemStore()
	store.Set(opts.CacheKey(), []RawIssue{{ID: "cached"}})
	store.sets = 0

	poster := &scriptedPoster{responses: []*HTTPResponse{pageBody([]string{"fresh"}, false, "")}}
	client := NewClient(poster, store)

	issues, err := client.FetchIssues(context.Background(), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 1 || issues[0].ID != "cached" {
		t.Errorf("expected the cached issue, got %v", issues)
	}
	if poster.calls != 0 {
		t.Errorf("cache hit must not reach the transport, saw %d calls", poster.calls)
	}
}

func TestClient_MissFetchesAndWritesBack(t *testing.T) {
	opts := NewQueryOptions("ROI", "", "", 250, false, false)
	store := newMemStore()
	poster := &scriptedPoster{responses: []*HTTPResponse{pageBody([]string{"fresh"}, false, "")}}
	client := NewClient(poster, store)

	issues, err := client.FetchIssues(context.Background(), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 1 || issues[0].ID != "fresh" {
		t.Errorf("expected the fetched issue, got %v", issues)
	}
	if store.sets != 1 {
		t.Errorf("expected one cache write, got %d", store.sets)
	}
}

func TestClient_NoCacheBypassesStore(t *testing.T) {
	opts := NewQueryOptions("ROI", "", "", 250, true, false)
	store := newMemStore()
	store.Set(opts.CacheKey(), []RawIssue{{ID: "stale"}})
	store.sets = 0

	poster := &scriptedPoster{responses: []*HTTPResponse{pageBody([]string{"fresh"}, false, "")}}
	client := NewClient(poster, store)

	issues, err := client.FetchIssues(context.Background(), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 1 || issues[0].ID != "fresh" {
		t.Errorf("no-cache run must refetch, got %v", issues)
	}
	if store.sets != 0 {
		t.Errorf("no-cache run must not write back, got %d writes", store.sets)
	}
}

func TestClient_CorruptCachedPayloadRefetches(t *testing.T) {
	opts := NewQueryOptions("ROI", "", "", 250, false, false)
	store := newMemStore()
	store.entries[opts.CacheKey()] = json.RawMessage(`{"not":"a list"}`)

	poster := &scriptedPoster{responses: []*HTTPResponse{pageBody([]string{"fresh"}, false, "")}}
	client := NewClient(poster, store)

	issues, err := client.FetchIssues(context.Background(), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 1 || issues[0].ID != "fresh" {
		t.Errorf("undecodable cache payload should fall through to a fetch, got %v", issues)
	}
}
