package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/texcat"
	"pkt.systems/version"
)

func init() {
	version.SetDefaultModule("pkt.systems/texcat")
}

func main() {
	var (
		dpi           float64
		fontSize      float64
		padding       float64
		blockWidth    float64
		widthFlag     int
		graphicsFlag  string
		transportFlag string
		colorFlag     string
	)

	flags := pflag.NewFlagSet("texcat", pflag.ExitOnError)
	flags.Float64Var(&dpi, "dpi", 200, "Rasterization resolution")
	flags.Float64Var(&fontSize, "font-size", 24, "Block math font size in points")
	flags.Float64Var(&padding, "padding", 0.1, "Transparent padding around math in inches")
	flags.Float64Var(&blockWidth, "block-width", 1.0, "Max block math width as a fraction of terminal width")
	flags.IntVarP(&widthFlag, "width", "w", 0, "Terminal width override in cells (0 probes the terminal)")
	flags.StringVarP(&graphicsFlag, "graphics", "g", "auto", "Graphics emission: auto|always|never|require")
	flags.StringVar(&transportFlag, "transport", "png", "Image transport: png|rgba")
	flags.StringVar(&colorFlag, "color", "", "Math foreground color (#rrggbb)")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: texcat [flags] [text or file]\n")
		fmt.Fprintln(os.Stderr, "\nIf stdin is not a terminal, the document is read from stdin.")
		fmt.Fprintln(os.Stderr, "Otherwise the argument is a file path if one exists, else literal text.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	input, err := resolveInput(flags.Args(), os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "texcat: %v\n", err)
		flags.Usage()
		os.Exit(2)
	}

	graphics, err := resolveGraphics(graphicsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --graphics %q: %v\n", graphicsFlag, err)
		os.Exit(2)
	}
	transport, err := resolveTransport(transportFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --transport %q: %v\n", transportFlag, err)
		os.Exit(2)
	}

	metrics := texcat.NewSystemProber(os.Stdout).Probe()
	if widthFlag > 0 {
		metrics.Cols = widthFlag
	}

	opts := []texcat.RenderOption{
		texcat.WithDPI(dpi),
		texcat.WithBlockFontSize(fontSize),
		texcat.WithPadding(padding),
		texcat.WithBlockWidthFraction(blockWidth),
		texcat.WithGraphicsMode(graphics),
		texcat.WithTransport(transport),
	}
	if colorFlag != "" {
		opts = append(opts, texcat.WithColor(colorFlag))
	}

	if err := texcat.Render(texcat.RenderRequest{
		Reader:     strings.NewReader(input),
		Writer:     os.Stdout,
		Metrics:    metrics,
		Rasterizer: texcat.NewRasterizer(),
		Options:    opts,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
}

// resolveInput returns the document text: stdin when it is not a terminal,
// otherwise the single positional argument, read as a file when one exists
// at that path and taken as literal text when not.
func resolveInput(args []string, stdin *os.File) (string, error) {
	if stdin != nil && !term.IsTerminal(int(stdin.Fd())) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("no input provided")
	}
	if len(args) > 1 {
		return "", fmt.Errorf("expected a single input argument")
	}
	return loadArg(args[0])
}

func loadArg(arg string) (string, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		data, err := os.ReadFile(arg)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", arg, err)
		}
		return string(data), nil
	}
	return arg, nil
}

func resolveGraphics(mode string) (texcat.GraphicsMode, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return texcat.GraphicsAuto, nil
	case "always", "on":
		return texcat.GraphicsAlways, nil
	case "never", "off":
		return texcat.GraphicsNever, nil
	case "require":
		return texcat.GraphicsRequire, nil
	default:
		return texcat.GraphicsAuto, fmt.Errorf("expected auto|always|never|require")
	}
}

func resolveTransport(mode string) (texcat.TransportMode, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "png":
		return texcat.TransportPNG, nil
	case "rgba", "raw":
		return texcat.TransportRGBA, nil
	default:
		return texcat.TransportPNG, fmt.Errorf("expected png|rgba")
	}
}
