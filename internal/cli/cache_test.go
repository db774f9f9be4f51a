package cli

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheCommands(t *testing.T) {
	isolate(t)
	buf := captureOutput(t)

	if _, err := execute(t, nil, "cache", "stats"); err != nil {
		t.Fatalf("cache stats on a fresh cache: %v", err)
	}
	if !strings.Contains(buf.String(), "Cache is empty") {
		t.Errorf("fresh cache output = %q", buf.String())
	}

	output := filepath.Join(t.TempDir(), "k4")
	if _, err := execute(t, nil, "render", "C~", "-o", output, "-f", "svg,json"); err != nil {
		t.Fatalf("render: %v", err)
	}

	buf.Reset()
	if _, err := execute(t, nil, "cache", "stats"); err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	// One layout plus one artifact per format.
	if !strings.Contains(buf.String(), "3 entries") {
		t.Errorf("stats output = %q, want 3 entries", buf.String())
	}

	buf.Reset()
	if _, err := execute(t, nil, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(buf.String(), "Cleared 3 cached entries") {
		t.Errorf("clear output = %q", buf.String())
	}

	path, err := execute(t, nil, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want, _ := cacheDir(); strings.TrimSpace(path) != want {
		t.Errorf("cache path = %q, want %q", path, want)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
