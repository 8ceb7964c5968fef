package texcat

import (
	"errors"
	"image"
	"testing"
)

type sizedRasterizer struct {
	w, h  int
	fail  bool
	calls []string
}

func (s *sizedRasterizer) Rasterize(source string, style Style) (*RasterImage, error) {
	s.calls = append(s.calls, source)
	if s.fail {
		return nil, &RenderError{Source: source, Reason: "toolchain unavailable"}
	}
	return &RasterImage{Image: image.NewNRGBA(image.Rect(0, 0, s.w, s.h)), DPI: style.DPI}, nil
}

func TestAdapterUsesPrimary(t *testing.T) {
	primary := &sizedRasterizer{w: 10, h: 10}
	fallback := &sizedRasterizer{w: 20, h: 20}
	a := &Adapter{Primary: primary, Fallback: fallback}

	img, err := a.Rasterize("x", Style{DPI: 200})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if img.Width() != 10 {
		t.Fatalf("expected primary output, got %dx%d", img.Width(), img.Height())
	}
	if len(fallback.calls) != 0 {
		t.Fatalf("fallback should be untouched, calls = %v", fallback.calls)
	}
}

func TestAdapterRetriesThroughFallback(t *testing.T) {
	primary := &sizedRasterizer{fail: true}
	fallback := &sizedRasterizer{w: 20, h: 20}
	a := &Adapter{Primary: primary, Fallback: fallback}

	img, err := a.Rasterize("x", Style{DPI: 200})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if img.Width() != 20 {
		t.Fatalf("expected fallback output, got %dx%d", img.Width(), img.Height())
	}
	if len(primary.calls) != 1 || len(fallback.calls) != 1 {
		t.Fatalf("expected one call each, got %v / %v", primary.calls, fallback.calls)
	}
}

func TestAdapterRoutesForcedSymbolsToFallbackFirst(t *testing.T) {
	primary := &sizedRasterizer{w: 10, h: 10}
	fallback := &sizedRasterizer{w: 20, h: 20}
	a := &Adapter{Primary: primary, Fallback: fallback}

	img, err := a.Rasterize(`a \implies b`, Style{DPI: 200})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if img.Width() != 20 {
		t.Fatalf("expected fallback output for \\implies, got %d", img.Width())
	}
	if len(primary.calls) != 0 {
		t.Fatalf("primary should be skipped, calls = %v", primary.calls)
	}
}

func TestAdapterEmptySourceFails(t *testing.T) {
	a := &Adapter{Primary: &sizedRasterizer{w: 10, h: 10}}
	_, err := a.Rasterize("   ", Style{DPI: 200})
	var rerr *RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RenderError, got %v", err)
	}
}

func TestAdapterBothToolchainsFailing(t *testing.T) {
	a := &Adapter{Primary: &sizedRasterizer{fail: true}, Fallback: &sizedRasterizer{fail: true}}
	_, err := a.Rasterize("x", Style{DPI: 200})
	var rerr *RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RenderError, got %v", err)
	}
}

func TestAdapterAppliesPadding(t *testing.T) {
	a := &Adapter{Primary: &sizedRasterizer{w: 10, h: 6}}
	img, err := a.Rasterize("x", Style{DPI: 200, PaddingPx: 3})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if img.Width() != 16 || img.Height() != 12 {
		t.Fatalf("padded size = %dx%d, want 16x12", img.Width(), img.Height())
	}
}

func TestPadRasterKeepsPixelsAndBorder(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	padded := padRaster(&RasterImage{Image: src, DPI: 200}, 1)
	if padded.Width() != 4 || padded.Height() != 4 {
		t.Fatalf("padded size = %dx%d, want 4x4", padded.Width(), padded.Height())
	}
	if a := padded.Image.NRGBAAt(0, 0).A; a != 0 {
		t.Fatalf("border should be transparent, alpha = %d", a)
	}
	if c := padded.Image.NRGBAAt(1, 1); c.R != 0xff || c.A != 0xff {
		t.Fatalf("interior pixel lost: %+v", c)
	}
}

func TestParseHexColor(t *testing.T) {
	r, g, b, ok := parseHexColor("#eeeeee")
	if !ok || r != 0xee || g != 0xee || b != 0xee {
		t.Fatalf("parseHexColor(#eeeeee) = %d,%d,%d,%v", r, g, b, ok)
	}
	if _, _, _, ok := parseHexColor("nope"); ok {
		t.Fatal("expected parse failure")
	}
}

func TestDvipngColor(t *testing.T) {
	if got := dvipngColor("#ff0000"); got != "rgb 1.000 0.000 0.000" {
		t.Fatalf("dvipngColor = %q", got)
	}
	// Invalid colors use the default foreground.
	if got := dvipngColor(""); got != dvipngColor(defaultColor) {
		t.Fatalf("expected default color, got %q", got)
	}
}
