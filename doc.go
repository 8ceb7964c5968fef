// Package texcat renders mixed text and LaTeX math to kitty-graphics
// terminals.
//
// Input is segmented into literal text and $...$ / $$...$$ math spans. Math
// spans are rasterized through an external LaTeX toolchain, scaled against
// the terminal's measured cell geometry, and transmitted in-place over the
// kitty graphics protocol. Literal text passes through untouched, so the
// rendered document keeps its original reading order and spacing.
//
// Core properties:
//   - Inline math is aligned to the text baseline; tall expressions reserve
//     extra blank lines and are centered on the line they interrupt
//   - Block math gets its own rows, horizontally centered and downscaled to
//     the terminal width when necessary
//   - Every render failure degrades to the original delimited source text;
//     only output-stream write errors abort a run
//
// Example:
//
//	err := texcat.Render(texcat.RenderRequest{
//		Reader:     strings.NewReader("Energy: $E=mc^2$.\n"),
//		Writer:     os.Stdout,
//		Metrics:    texcat.NewSystemProber(os.Stdout).Probe(),
//		Rasterizer: texcat.NewRasterizer(),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Rendering can be customized using RenderOptions such as the graphics
// transport format or block math sizing.
package texcat
