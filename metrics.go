package texcat

// CellMetrics describes the terminal's character grid: the pixel size of one
// cell and the grid dimensions. Queried once at startup and treated as
// constant for the run.
type CellMetrics struct {
	CellWidth  float64
	CellHeight float64
	Cols       int
	Rows       int
}

// Fallback geometry used when the terminal cannot be queried.
const (
	fallbackCellWidth  = 10
	fallbackCellHeight = 20
	fallbackCols       = 80
	fallbackRows       = 24
)

// FallbackCellMetrics returns the documented default geometry. Probing never
// fails; it degrades to these values.
func FallbackCellMetrics() CellMetrics {
	return CellMetrics{
		CellWidth:  fallbackCellWidth,
		CellHeight: fallbackCellHeight,
		Cols:       fallbackCols,
		Rows:       fallbackRows,
	}
}

// MetricsProber reports terminal cell geometry.
type MetricsProber interface {
	Probe() CellMetrics
}
