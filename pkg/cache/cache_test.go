package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/adforge/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v, want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Error("Get on empty cache hit")
	}
	if err := c.Set(ctx, "layout:abc", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:abc")
	if err != nil || !hit || string(data) != "payload" {
		t.Errorf("Get = %q, %v, %v, want payload hit", data, hit, err)
	}

	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Error("Get after Delete hit")
	}
	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Errorf("Delete of missing key = %v, want nil", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry hit")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Errorf("expired entry file still present: %v", err)
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl entry missed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v, want miss", data, hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("entries after Clear = %d, want 0", len(entries))
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets map[string]int
}

func (h *countingHooks) OnCacheHit(_ context.Context, k string)        { h.hits[k]++ }
func (h *countingHooks) OnCacheMiss(_ context.Context, k string)       { h.misses[k]++ }
func (h *countingHooks) OnCacheSet(_ context.Context, k string, _ int) { h.sets[k]++ }

func TestFileCacheHooks(t *testing.T) {
	h := &countingHooks{hits: map[string]int{}, misses: map[string]int{}, sets: map[string]int{}}
	observability.SetCacheHooks(h)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	key := NewScopedKeyer(nil, "session:1:").LayoutKey(LayoutKeyOpts{Ratio: "1:1"})

	c.Get(ctx, key)
	c.Set(ctx, key, []byte("x"), 0)
	c.Get(ctx, key)

	if h.misses["layout"] != 1 || h.sets["layout"] != 1 || h.hits["layout"] != 1 {
		t.Errorf("hooks hits=%v misses=%v sets=%v, want one each for layout", h.hits, h.misses, h.sets)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash is not deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs gave the same hash")
	}
	if len(h1) != 64 {
		t.Errorf("len(Hash) = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := LayoutKeyOpts{Ratio: "1:1", Template: "clean-minimal", Palette: "#3B82F6"}
	lk := k.LayoutKey(base)
	if !strings.HasPrefix(lk, "layout:") || len(lk) != len("layout:")+64 {
		t.Errorf("LayoutKey = %q", lk)
	}
	if lk != k.LayoutKey(base) {
		t.Error("LayoutKey is not deterministic")
	}
	other := base
	other.Ratio = "9:16"
	if lk == k.LayoutKey(other) {
		t.Error("different ratios gave the same layout key")
	}
	other = base
	other.Assets = Hash([]byte("emoji"))
	if lk == k.LayoutKey(other) {
		t.Error("different assets gave the same layout key")
	}

	a1 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "png"})
	a2 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "jpeg"})
	a3 := k.ArtifactKey("h2", ArtifactKeyOpts{Format: "png"})
	if a1 == a2 || a1 == a3 {
		t.Error("ArtifactKey does not depend on all inputs")
	}
	if !strings.HasPrefix(a1, "artifact:") {
		t.Errorf("ArtifactKey = %q", a1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "session:123:")

	opts := LayoutKeyOpts{Ratio: "1:1"}
	if got, want := scoped.LayoutKey(opts), "session:123:"+inner.LayoutKey(opts); got != want {
		t.Errorf("LayoutKey = %q, want %q", got, want)
	}
	if got := NewScopedKeyer(nil, "p:").ArtifactKey("h", ArtifactKeyOpts{}); !strings.HasPrefix(got, "p:artifact:") {
		t.Errorf("nil inner ArtifactKey = %q", got)
	}
}

func TestKeyType(t *testing.T) {
	tests := []struct{ key, want string }{
		{"layout:abc", "layout"},
		{"session:1:artifact:abc", "artifact"},
		{"plain", "unknown"},
	}
	for _, tt := range tests {
		if got := keyType(tt.key); got != tt.want {
			t.Errorf("keyType(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	if err != nil || dir != filepath.Join("/tmp/xdg", "adforge") {
		t.Errorf("DefaultDir() = %q, %v", dir, err)
	}
}
