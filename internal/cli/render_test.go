package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	home, _ := os.UserHomeDir()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	dir, _ = cacheDir()
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestRenderSVGUsesCache(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("place", "server-2u", "10")
	out := filepath.Join(env.dir, "rack.svg")

	first := env.mustRun("render", "-o", out)
	if !strings.Contains(first, "fresh") {
		t.Errorf("first render was not computed:\n%s", first)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("output is not an SVG")
	}

	if second := env.mustRun("render", "-o", out); !strings.Contains(second, "cached") {
		t.Errorf("second render missed the cache:\n%s", second)
	}
	if third := env.mustRun("render", "-o", out, "--no-cache"); !strings.Contains(third, "fresh") {
		t.Errorf("--no-cache render used the cache:\n%s", third)
	}

	assertContains(t, env.mustRun("cache", "clear"), "Cleared render cache")
	if again := env.mustRun("render", "-o", out); !strings.Contains(again, "fresh") {
		t.Errorf("render after cache clear was cached:\n%s", again)
	}
}
