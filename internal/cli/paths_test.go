package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		layout string
		ext    string
		want   string
	}{
		{"out/creative-1-1.layout.json", "png", "out/creative-1-1.png"},
		{"out/creative-9-16.layout.yaml", "jpg", "out/creative-9-16.jpg"},
		{"banner.json", "png", "banner.png"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.layout, tt.ext); got != tt.want {
			t.Errorf("outputPath(%q, %q) = %q, want %q", tt.layout, tt.ext, got, tt.want)
		}
	}
}

func TestCacheUsage(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "ab")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"one.json", "two.json"} {
		if err := os.WriteFile(filepath.Join(sub, name), []byte(strings.Repeat("x", 10)), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	count, size := cacheUsage(dir)
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if size != 20 {
		t.Errorf("size = %d, want 20", size)
	}
}
