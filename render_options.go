package texcat

// RenderOption configures rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	graphics       GraphicsMode
	transport      TransportMode
	inlineDPI      float64
	blockDPI       float64
	blockFontPt    float64
	inlineScale    float64
	paddingIn      float64
	blockWidthFrac float64
	blockMarginTop int
	blockMarginBot int
	color          string
}

// Compiled-in defaults. There is no config file; flags on the CLI override
// these per run.
func defaultRenderConfig() renderConfig {
	return renderConfig{
		graphics:       GraphicsAuto,
		transport:      TransportPNG,
		inlineDPI:      200,
		blockDPI:       200,
		blockFontPt:    24,
		inlineScale:    1.05, // slightly larger than text reads better
		paddingIn:      0.1,
		blockWidthFrac: 1.0,
		blockMarginTop: 1,
		blockMarginBot: 1,
		color:          defaultColor,
	}
}

// WithGraphicsMode sets how terminal graphics support is resolved.
func WithGraphicsMode(mode GraphicsMode) RenderOption {
	return func(cfg *renderConfig) {
		cfg.graphics = mode
	}
}

// WithTransport selects the image payload encoding.
func WithTransport(mode TransportMode) RenderOption {
	return func(cfg *renderConfig) {
		cfg.transport = mode
	}
}

// WithDPI sets the rasterization resolution for both inline and block math.
func WithDPI(dpi float64) RenderOption {
	return func(cfg *renderConfig) {
		if dpi > 0 {
			cfg.inlineDPI = dpi
			cfg.blockDPI = dpi
		}
	}
}

// WithBlockFontSize sets the base font size in points for block math.
func WithBlockFontSize(pt float64) RenderOption {
	return func(cfg *renderConfig) {
		if pt > 0 {
			cfg.blockFontPt = pt
		}
	}
}

// WithPadding sets the transparent padding around rendered math in inches.
func WithPadding(inches float64) RenderOption {
	return func(cfg *renderConfig) {
		if inches >= 0 {
			cfg.paddingIn = inches
		}
	}
}

// WithBlockWidthFraction limits block math to a fraction of the terminal
// width.
func WithBlockWidthFraction(frac float64) RenderOption {
	return func(cfg *renderConfig) {
		if frac > 0 && frac <= 1 {
			cfg.blockWidthFrac = frac
		}
	}
}

// WithColor sets the math foreground color as #rrggbb.
func WithColor(hex string) RenderOption {
	return func(cfg *renderConfig) {
		if _, _, _, ok := parseHexColor(hex); ok {
			cfg.color = hex
		}
	}
}
