package texcat

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/muesli/reflow/ansi"
)

// GraphicsMode controls whether graphics escape sequences are emitted.
type GraphicsMode uint8

const (
	// GraphicsAuto emits graphics when the terminal supports them and
	// degrades to plain text otherwise.
	GraphicsAuto GraphicsMode = iota
	// GraphicsAlways emits graphics unconditionally.
	GraphicsAlways
	// GraphicsNever emits plain text only.
	GraphicsNever
	// GraphicsRequire fails with ErrUnsupportedTerminal when the terminal
	// lacks graphics support.
	GraphicsRequire
)

// ErrUnsupportedTerminal reports that the terminal does not speak the kitty
// graphics protocol and GraphicsRequire was requested.
var ErrUnsupportedTerminal = errors.New("terminal does not support kitty graphics")

// RenderRequest configures Render.
type RenderRequest struct {
	Reader     io.Reader
	Writer     io.Writer
	Metrics    CellMetrics
	Rasterizer Rasterizer
	Options    []RenderOption
}

// Render reads a document from the request reader and emits it to the
// writer, replacing math spans with kitty graphics placements. Per-span
// render failures fall back to the original delimited source text; only
// errors writing to the output stream abort the run.
func Render(req RenderRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("render: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("render: writer is nil")
	}
	cfg := defaultRenderConfig()
	for _, opt := range req.Options {
		if opt != nil {
			opt(&cfg)
		}
	}

	src, err := io.ReadAll(req.Reader)
	if err != nil {
		return fmt.Errorf("render: read input: %w", err)
	}
	if err := ValidateInput(src); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	metrics := req.Metrics
	if metrics.CellWidth <= 0 || metrics.CellHeight <= 0 || metrics.Cols <= 0 {
		metrics = FallbackCellMetrics()
	}

	graphics := false
	switch cfg.graphics {
	case GraphicsAlways:
		graphics = true
	case GraphicsNever:
	case GraphicsRequire:
		if !GraphicsSupported() {
			return ErrUnsupportedTerminal
		}
		graphics = true
	default:
		graphics = GraphicsSupported()
	}
	if req.Rasterizer == nil {
		graphics = false
	}

	c := &composer{
		w:        req.Writer,
		cfg:      cfg,
		metrics:  metrics,
		ras:      req.Rasterizer,
		enc:      NewEncoder(req.Writer, cfg.transport),
		graphics: graphics,
	}
	return c.run(Split(string(src)))
}

// lineItem is one run of the line currently being buffered: either literal
// text or a laid-out math placement. Lines are buffered so blank lines
// reserved above tall inline math land before the text they belong to.
type lineItem struct {
	text string
	p    *Placement
}

type composer struct {
	w        io.Writer
	cfg      renderConfig
	metrics  CellMetrics
	ras      Rasterizer
	enc      *Encoder
	graphics bool
	line     []lineItem
}

func (c *composer) run(segs []Segment) error {
	for _, seg := range segs {
		var err error
		switch seg.Kind {
		case SegmentInlineMath:
			err = c.inlineMath(seg)
		case SegmentBlockMath:
			err = c.blockMath(seg)
		default:
			err = c.text(seg.Text)
		}
		if err != nil {
			return err
		}
	}
	if len(c.line) > 0 {
		return c.flushLine()
	}
	return nil
}

func (c *composer) text(s string) error {
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			break
		}
		if i > 0 {
			c.line = append(c.line, lineItem{text: s[:i]})
		}
		if err := c.flushLine(); err != nil {
			return err
		}
		s = s[i+1:]
	}
	if s != "" {
		c.line = append(c.line, lineItem{text: s})
	}
	return nil
}

func (c *composer) inlineMath(seg Segment) error {
	if !c.graphics {
		c.line = append(c.line, lineItem{text: seg.Source()})
		return nil
	}
	style := Style{
		// Font size chosen so the rendered glyph height lands at
		// cellHeight*inlineScale pixels at the configured DPI.
		FontSizePt: c.metrics.CellHeight * c.cfg.inlineScale * 72 / c.cfg.inlineDPI,
		DPI:        c.cfg.inlineDPI,
		PaddingPx:  int(c.cfg.paddingIn * c.cfg.inlineDPI),
		Color:      c.cfg.color,
	}
	img, err := c.ras.Rasterize(seg.Text, style)
	if err != nil {
		// Recoverable: the span keeps its original textual space.
		c.line = append(c.line, lineItem{text: seg.Source()})
		return nil
	}
	p := LayoutInline(img, c.metrics)
	if c.lineWidth()+p.SpanCells > c.metrics.Cols && len(c.line) > 0 {
		if err := c.flushLine(); err != nil {
			return err
		}
	}
	c.line = append(c.line, lineItem{p: &p})
	return nil
}

func (c *composer) blockMath(seg Segment) error {
	if len(c.line) > 0 {
		if err := c.flushLine(); err != nil {
			return err
		}
	}
	if !c.graphics {
		return c.writeString(seg.Source() + "\n")
	}
	style := Style{
		FontSizePt: c.cfg.blockFontPt,
		DPI:        c.cfg.blockDPI,
		PaddingPx:  int(c.cfg.paddingIn * c.cfg.blockDPI),
		Color:      c.cfg.color,
	}
	img, err := c.ras.Rasterize(seg.Text, style)
	if err != nil {
		return c.writeString(seg.Source() + "\n")
	}
	p := LayoutBlock(img, c.metrics, c.cfg.blockWidthFrac)
	rows := p.RowSpan()

	var b strings.Builder
	b.WriteString(strings.Repeat("\n", c.cfg.blockMarginTop))
	// Reserve the image rows, then step back up to their first line.
	b.WriteString(strings.Repeat("\n", rows))
	fmt.Fprintf(&b, "\x1b[%dA\r", rows)
	if p.LeftPadCells > 0 {
		fmt.Fprintf(&b, "\x1b[%dC", p.LeftPadCells)
	}
	if err := c.writeString(b.String()); err != nil {
		return err
	}
	if _, err := c.enc.Transmit(p.Image, 0); err != nil {
		return err
	}
	trailer := fmt.Sprintf("\x1b[%dB\r", rows) + strings.Repeat("\n", c.cfg.blockMarginBot)
	return c.writeString(trailer)
}

// flushLine emits the buffered line: blank lines reserved above first, then
// the interleaved text and image placements, then the line break and any
// blank lines reserved below.
func (c *composer) flushLine() error {
	items := c.line
	c.line = c.line[:0]

	maxAbove, maxBelow := 0, 0
	for i := range items {
		p := items[i].p
		if p == nil {
			continue
		}
		if above := -p.RowOffsetLines; above > maxAbove {
			maxAbove = above
		}
		if below := p.ExtraLines + p.RowOffsetLines; below > maxBelow {
			maxBelow = below
		}
	}

	if maxAbove > 0 {
		if err := c.writeString(strings.Repeat("\n", maxAbove)); err != nil {
			return err
		}
	}
	for i := range items {
		if items[i].p == nil {
			if err := c.writeString(items[i].text); err != nil {
				return err
			}
			continue
		}
		if err := c.placeInline(items[i].p); err != nil {
			return err
		}
	}
	if err := c.writeString("\n"); err != nil {
		return err
	}
	if maxBelow > 0 {
		return c.writeString(strings.Repeat("\n", maxBelow))
	}
	return nil
}

// placeInline reserves the span with spaces, steps the cursor back over
// them, overlays the image, and moves past the reservation so text flow
// resumes immediately after it.
func (c *composer) placeInline(p *Placement) error {
	span := p.SpanCells
	if err := c.writeString(strings.Repeat(" ", span) + fmt.Sprintf("\x1b[%dD", span)); err != nil {
		return err
	}

	rowsUp := -p.RowOffsetLines
	y := p.YOffsetPx
	if y < 0 {
		// Anchor a whole number of rows up and push the image back down
		// inside that cell.
		up := int(math.Ceil(float64(-y) / c.metrics.CellHeight))
		rowsUp += up
		y += int(math.Round(float64(up) * c.metrics.CellHeight))
	}

	if rowsUp > 0 {
		if err := c.writeString(fmt.Sprintf("\x1b7\x1b[%dA", rowsUp)); err != nil {
			return err
		}
		if _, err := c.enc.Transmit(p.Image, y); err != nil {
			return err
		}
		if err := c.writeString("\x1b8"); err != nil {
			return err
		}
	} else {
		if _, err := c.enc.Transmit(p.Image, y); err != nil {
			return err
		}
	}
	return c.writeString(fmt.Sprintf("\x1b[%dC", span))
}

// lineWidth returns the visible width of the buffered line in cells.
func (c *composer) lineWidth() int {
	w := 0
	for i := range c.line {
		if c.line[i].p != nil {
			w += c.line[i].p.SpanCells
			continue
		}
		w += ansi.PrintableRuneWidth(c.line[i].text)
	}
	return w
}

func (c *composer) writeString(s string) error {
	if _, err := io.WriteString(c.w, s); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
