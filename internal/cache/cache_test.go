package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()

	c, err := New(filepath.Join(tmpDir, "cache"), 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !c.enabled {
		t.Error("cache should be enabled")
	}

	c, err = New("", 0, false)
	if err != nil {
		t.Fatalf("New() error for disabled cache: %v", err)
	}
	if c.enabled {
		t.Error("cache should be disabled")
	}
}

func TestHashBytes(t *testing.T) {
	a := HashBytes([]byte("content"))
	b := HashBytes([]byte("content"))
	c := HashBytes([]byte("different"))

	if a != b {
		t.Error("same content should hash identically")
	}
	if a == c {
		t.Error("different content should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestHashFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "f.rs")
	if err := os.WriteFile(path, []byte("fn main() {}"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	h, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() error: %v", err)
	}
	if h != HashBytes([]byte("fn main() {}")) {
		t.Error("HashFile should match HashBytes of the content")
	}

	if _, err := HashFile(filepath.Join(tmpDir, "missing")); err == nil {
		t.Error("HashFile should fail for a missing file")
	}
}

func TestGetSetWithHash(t *testing.T) {
	c, err := New(t.TempDir(), 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	hash := HashBytes([]byte("source"))
	if err := c.SetWithHash("src/lib.rs", hash, []byte(`["json"]`)); err != nil {
		t.Fatalf("SetWithHash() error: %v", err)
	}

	data, ok := c.GetWithHash("src/lib.rs", hash)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != `["json"]` {
		t.Errorf("cached data = %q", data)
	}

	// A different content hash misses.
	if _, ok := c.GetWithHash("src/lib.rs", HashBytes([]byte("changed"))); ok {
		t.Error("stale hash should miss")
	}

	// An unknown key misses.
	if _, ok := c.GetWithHash("src/other.rs", hash); ok {
		t.Error("unknown key should miss")
	}
}

func TestExpiredEntry(t *testing.T) {
	c, err := New(t.TempDir(), 0, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	hash := HashBytes([]byte("x"))
	if err := c.SetWithHash("k", hash, []byte("v")); err != nil {
		t.Fatalf("SetWithHash() error: %v", err)
	}

	// TTL of zero hours expires entries immediately.
	if _, ok := c.GetWithHash("k", hash); ok {
		t.Error("expired entry should miss")
	}
}

func TestInvalidate(t *testing.T) {
	c, err := New(t.TempDir(), 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	hash := HashBytes([]byte("x"))
	if err := c.SetWithHash("k", hash, []byte("v")); err != nil {
		t.Fatalf("SetWithHash() error: %v", err)
	}
	if err := c.Invalidate("k"); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}
	if _, ok := c.GetWithHash("k", hash); ok {
		t.Error("invalidated entry should miss")
	}

	// Invalidating a missing key is not an error.
	if err := c.Invalidate("never-set"); err != nil {
		t.Errorf("Invalidate() of missing key: %v", err)
	}
}

func TestClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := New(dir, 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	hash := HashBytes([]byte("x"))
	if err := c.SetWithHash("k", hash, []byte("v")); err != nil {
		t.Fatalf("SetWithHash() error: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, ok := c.GetWithHash("k", hash); ok {
		t.Error("cleared entry should miss")
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	c, err := New("", 0, false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := c.SetWithHash("k", "h", []byte("v")); err != nil {
		t.Errorf("SetWithHash() on disabled cache: %v", err)
	}
	if _, ok := c.GetWithHash("k", "h"); ok {
		t.Error("disabled cache should never hit")
	}
	if err := c.Invalidate("k"); err != nil {
		t.Errorf("Invalidate() on disabled cache: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Errorf("Clear() on disabled cache: %v", err)
	}
}
