package texcat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFallbackCellMetrics(t *testing.T) {
	m := FallbackCellMetrics()
	if m.CellWidth != 10 || m.CellHeight != 20 {
		t.Fatalf("fallback cell size = %vx%v, want 10x20", m.CellWidth, m.CellHeight)
	}
	if m.Cols != 80 || m.Rows != 24 {
		t.Fatalf("fallback grid = %dx%d, want 80x24", m.Cols, m.Rows)
	}
}

func TestSystemProberDegradesOnRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-tty")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open temp file: %v", err)
	}
	defer f.Close()

	m := NewSystemProber(f).Probe()
	if m != FallbackCellMetrics() {
		t.Fatalf("probe on a regular file should fall back, got %+v", m)
	}
}
