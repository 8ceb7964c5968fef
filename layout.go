package texcat

import (
	"image"
	"math"

	"github.com/nfnt/resize"
)

const (
	// Overflow beyond the text line tolerated before extra lines are
	// reserved, as a fraction of the cell height.
	inlineOverflowFrac = 0.2
	// Smallest downscale applied to tall inline spans before reserving
	// additional lines instead.
	minInlineScale = 0.5
)

// Placement describes where a rendered image sits in the character grid.
// SpanCells is the horizontal reservation, RowOffsetLines the signed shift
// from the text baseline row (negative is up), ExtraLines the blank lines
// reserved beyond the baseline row. Image is the raster scaled for
// transmission.
type Placement struct {
	SpanCells      int
	RowOffsetLines int
	ExtraLines     int
	LeftPadCells   int
	YOffsetPx      int
	Image          *RasterImage
}

// RowSpan returns the number of terminal rows the image occupies.
func (p Placement) RowSpan() int { return p.ExtraLines + 1 }

// LayoutInline computes the placement for a math span flowing within a text
// line. Images no taller than the line (plus a small tolerated overflow)
// keep their natural size and are centered vertically on the cell. Taller
// images are downscaled to the line height; when that would shrink them
// below the minimum legible scale they are scaled to the smallest integer
// number of line heights instead, centered on the baseline row with the odd
// blank line going below.
func LayoutInline(img *RasterImage, m CellMetrics) Placement {
	w, h := img.Width(), img.Height()

	if float64(h) <= m.CellHeight*(1+inlineOverflowFrac) {
		return Placement{
			SpanCells: cellSpan(float64(w), m.CellWidth),
			YOffsetPx: (int(m.CellHeight) - h) / 2,
			Image:     img,
		}
	}

	k := 1
	if m.CellHeight/float64(h) < minInlineScale {
		k = int(math.Ceil(float64(h) * minInlineScale / m.CellHeight))
	}
	targetH := int(math.Round(float64(k) * m.CellHeight))
	scaled := scaleToHeight(img, targetH)

	above := (k - 1) / 2
	return Placement{
		SpanCells:      cellSpan(float64(scaled.Width()), m.CellWidth),
		RowOffsetLines: -above,
		ExtraLines:     k - 1,
		Image:          scaled,
	}
}

// LayoutBlock computes the placement for display math on its own rows. The
// image is scaled to fit within widthFrac of the terminal width, centered
// horizontally by left padding. It is never truncated: if cell rounding
// still passes the grid edge the image is downscaled further.
func LayoutBlock(img *RasterImage, m CellMetrics, widthFrac float64) Placement {
	if widthFrac <= 0 || widthFrac > 1 {
		widthFrac = 1
	}
	maxW := float64(m.Cols) * m.CellWidth * widthFrac

	scaled := img
	if float64(img.Width()) > maxW {
		scaled = scaleToWidth(img, int(maxW))
	}
	span := cellSpan(float64(scaled.Width()), m.CellWidth)
	if span > m.Cols {
		scaled = scaleToWidth(scaled, int(float64(m.Cols)*m.CellWidth))
		span = m.Cols
	}

	rows := cellSpan(float64(scaled.Height()), m.CellHeight)
	return Placement{
		SpanCells:    span,
		ExtraLines:   rows - 1,
		LeftPadCells: (m.Cols - span) / 2,
		Image:        scaled,
	}
}

// cellSpan returns the number of cells needed to cover px pixels, rounded
// up so the image never overflows its reservation.
func cellSpan(px, cellPx float64) int {
	span := int(math.Ceil(px/cellPx - 1e-9))
	if span < 1 {
		span = 1
	}
	return span
}

func scaleToHeight(img *RasterImage, h int) *RasterImage {
	if h < 1 {
		h = 1
	}
	w := int(math.Round(float64(img.Width()) * float64(h) / float64(img.Height())))
	return scaleRaster(img, w, h)
}

func scaleToWidth(img *RasterImage, w int) *RasterImage {
	if w < 1 {
		w = 1
	}
	h := int(math.Round(float64(img.Height()) * float64(w) / float64(img.Width())))
	return scaleRaster(img, w, h)
}

func scaleRaster(img *RasterImage, w, h int) *RasterImage {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if w == img.Width() && h == img.Height() {
		return img
	}
	var out image.Image = resize.Resize(uint(w), uint(h), img.Image, resize.Lanczos3)
	return &RasterImage{Image: toNRGBA(out), DPI: img.DPI}
}
