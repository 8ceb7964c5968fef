//go:build unix

package texcat

import (
	"os"

	"golang.org/x/sys/unix"
)

type systemProber struct {
	fd int
}

// NewSystemProber returns a prober that queries the terminal attached to f
// via TIOCGWINSZ. When f is nil, stdout is probed.
func NewSystemProber(f *os.File) MetricsProber {
	if f == nil {
		f = os.Stdout
	}
	return systemProber{fd: int(f.Fd())}
}

func (p systemProber) Probe() CellMetrics {
	ws, err := unix.IoctlGetWinsize(p.fd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 || ws.Xpixel == 0 || ws.Ypixel == 0 {
		return FallbackCellMetrics()
	}
	return CellMetrics{
		CellWidth:  float64(ws.Xpixel) / float64(ws.Col),
		CellHeight: float64(ws.Ypixel) / float64(ws.Row),
		Cols:       int(ws.Col),
		Rows:       int(ws.Row),
	}
}
