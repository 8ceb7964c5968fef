package texcat

import (
	"fmt"
	"image"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// Style carries the rasterization parameters for one math span.
type Style struct {
	FontSizePt float64
	DPI        float64
	PaddingPx  int
	Color      string // foreground as #rrggbb
}

// RasterImage is one rendered math expression: an RGBA raster with
// transparent background, plus the resolution it was produced at.
type RasterImage struct {
	Image *image.NRGBA
	DPI   float64
}

// Width returns the raster width in pixels.
func (r *RasterImage) Width() int { return r.Image.Bounds().Dx() }

// Height returns the raster height in pixels.
func (r *RasterImage) Height() int { return r.Image.Bounds().Dy() }

// RenderError reports a failed rasterization. It is recoverable: the
// composer substitutes the original delimited source text.
type RenderError struct {
	Source string
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render %q: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("render %q: %s", e.Source, e.Reason)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Rasterizer converts math source into a raster image.
type Rasterizer interface {
	Rasterize(source string, style Style) (*RasterImage, error)
}

// Adapter wraps a primary toolchain with sanitization, uniform padding, and
// a one-shot retry through an optional system LaTeX fallback. Expressions
// using symbols the primary is known to mangle go to the fallback first.
type Adapter struct {
	Primary  Rasterizer
	Fallback Rasterizer
}

// NewRasterizer returns the default toolchain: latex+dvipng as primary with
// a pdflatex+ImageMagick fallback for environments dvipng cannot handle.
func NewRasterizer() *Adapter {
	return &Adapter{
		Primary:  &dvipngRasterizer{},
		Fallback: &pdflatexRasterizer{},
	}
}

// Rasterize renders source with style, applying the fallback policy. The
// returned image carries PaddingPx of transparent border on all sides.
func (a *Adapter) Rasterize(source string, style Style) (*RasterImage, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &RenderError{Source: source, Reason: "empty math body"}
	}
	clean := sanitizeMath(source)

	if a.Fallback != nil && requiresSystemFallback(clean) {
		if img, err := a.Fallback.Rasterize(clean, style); err == nil {
			return padRaster(img, style.PaddingPx), nil
		}
	}

	img, err := a.Primary.Rasterize(clean, style)
	if err == nil {
		return padRaster(img, style.PaddingPx), nil
	}
	if a.Fallback != nil {
		if img, ferr := a.Fallback.Rasterize(clean, style); ferr == nil {
			return padRaster(img, style.PaddingPx), nil
		}
	}
	return nil, err
}

// padRaster normalizes img to NRGBA with px transparent pixels added on
// every side.
func padRaster(img *RasterImage, px int) *RasterImage {
	if px < 0 {
		px = 0
	}
	b := img.Image.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()+2*px, b.Dy()+2*px))
	xdraw.Draw(dst, image.Rect(px, px, px+b.Dx(), px+b.Dy()), img.Image, b.Min, xdraw.Src)
	return &RasterImage{Image: dst, DPI: img.DPI}
}

// toNRGBA converts any decoded image to NRGBA without extra copies when the
// source already is one.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}
