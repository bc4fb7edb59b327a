package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRoundTrip(t *testing.T) {
	store := NewWithDir(t.TempDir())
	payload := map[string]string{"hello": "world"}

	if !store.Set("key1", payload) {
		t.Fatal("Set should succeed")
	}

	data, ok := store.Get("key1")
	if !ok {
		t.Fatal("expected a same-day cache hit")
	}

	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("payload not decodable: %v", err)
	}
	if got["hello"] != "world" {
		t.Errorf("payload mismatch: %v", got)
	}
}

func TestGet_MissingFile(t *testing.T) {
	store := NewWithDir(t.TempDir())
	if _, ok := store.Get("nope"); ok {
		t.Error("absent file should be a miss")
	}
}

func TestGet_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := NewWithDir(dir)
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{corrupt"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, ok := store.Get("bad"); ok {
		t.Error("corrupt entry should be a miss")
	}
}

func writeEntry(t *testing.T, dir, key string, raw string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, key+".json"), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestGet_ExpiredYesterday(t *testing.T) {
	dir := t.TempDir()
	store := NewWithDir(dir)

	yesterday := time.Now().AddDate(0, 0, -1)
	writeEntry(t, dir, "old", fmt.Sprintf(`{"data":[1,2,3],"cached_at":%d}`, yesterday.Unix()))

	if _, ok := store.Get("old"); ok {
		t.Error("entry cached yesterday must be expired today")
	}
}

func TestGet_ExplicitExpiryWins(t *testing.T) {
	dir := t.TempDir()
	store := NewWithDir(dir)

	// cached_at long ago but expires_at in the future: still valid
	future := time.Now().Add(time.Hour)
	writeEntry(t, dir, "fut", fmt.Sprintf(`{"data":[1],"cached_at":%d,"expires_at":%d}`,
		time.Now().AddDate(0, 0, -7).Unix(), future.Unix()))

	if _, ok := store.Get("fut"); !ok {
		t.Error("explicit future expires_at should keep the entry valid")
	}

	// expires_at in the past: expired even though cached_at is today
	past := time.Now().Add(-time.Hour)
	writeEntry(t, dir, "past", fmt.Sprintf(`{"data":[1],"cached_at":%d,"expires_at":%d}`,
		time.Now().Unix(), past.Unix()))

	if _, ok := store.Get("past"); ok {
		t.Error("explicit past expires_at should expire the entry")
	}
}

func TestGet_NoTimestampsIsExpired(t *testing.T) {
	dir := t.TempDir()
	store := NewWithDir(dir)
	writeEntry(t, dir, "bare", `{"data":[1]}`)

	if _, ok := store.Get("bare"); ok {
		t.Error("entry without timestamps must be treated as expired")
	}
}

func TestGet_LegacyFormat(t *testing.T) {
	dir := t.TempDir()
	store := NewWithDir(dir)

	// Legacy entry written today: valid until end of day
	today := time.Now().Format(time.RFC3339)
	writeEntry(t, dir, "legacy", fmt.Sprintf(`{"issues":[{"id":"a"}],"timestamp":%q}`, today))

	data, ok := store.Get("legacy")
	if !ok {
		t.Fatal("same-day legacy entry should be a hit")
	}
	var issues []map[string]string
	if err := json.Unmarshal(data, &issues); err != nil || len(issues) != 1 {
		t.Errorf("legacy payload mismatch: %s", data)
	}

	// Legacy entry from yesterday: expired
	yesterday := time.Now().AddDate(0, 0, -1).Format(time.RFC3339)
	writeEntry(t, dir, "legacy-old", fmt.Sprintf(`{"issues":[],"timestamp":%q}`, yesterday))

	if _, ok := store.Get("legacy-old"); ok {
		t.Error("legacy entry from yesterday must be expired")
	}
}

func TestSet_CreatesDirectory(t *testing.T) {
	root := t.TempDir()
	store := New(root, "test")

	if !store.Set("k", []int{1}) {
		t.Fatal("Set should create the directory and succeed")
	}
	if store.Dir() != filepath.Join(root, "test") {
		t.Errorf("environment scoping missing: %s", store.Dir())
	}
	if _, err := os.Stat(filepath.Join(root, "test", "k.json")); err != nil {
		t.Errorf("expected cache file: %v", err)
	}
}

func TestSet_UnwritableDirectoryIsNoOp(t *testing.T) {
	store := NewWithDir(filepath.Join(string(os.PathSeparator), "proc", "linearflow-no-write"))
	if store.Set("k", []int{1}) {
		t.Error("Set into an unwritable directory should report failure, not panic")
	}
}

func TestEnvironmentsDoNotCollide(t *testing.T) {
	root := t.TempDir()
	dev := New(root, "development")
	test := New(root, "test")

	dev.Set("k", "dev-data")
	if _, ok := test.Get("k"); ok {
		t.Error("test environment must not see development entries")
	}
}
