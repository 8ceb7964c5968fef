//go:build !unix

package texcat

import "os"

type systemProber struct{}

// NewSystemProber returns a prober for the terminal attached to f. On
// platforms without TIOCGWINSZ pixel reporting it always returns the
// fallback geometry.
func NewSystemProber(f *os.File) MetricsProber {
	return systemProber{}
}

func (systemProber) Probe() CellMetrics {
	return FallbackCellMetrics()
}
