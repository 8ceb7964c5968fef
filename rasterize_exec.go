package texcat

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// defaultColor is the rendered foreground when a style omits one; chosen to
// read well on dark terminal themes.
const defaultColor = "#eeeeee"

const previewDocument = `\documentclass{article}
\usepackage{amsmath}
\usepackage{amssymb}
\usepackage[active,tightpage]{preview}
\setlength\PreviewBorder{0pt}

\begin{document}
\fontsize{%.2f}{%.2f}\selectfont
\begin{preview}
$%s$
\end{preview}
\end{document}
`

// Block environments keep their own display layout, so the fallback wraps
// them in a standalone preview instead of inline math.
const standaloneDocument = `\documentclass[preview]{standalone}
\usepackage{amsmath}
\usepackage{amssymb}
\usepackage[dvipsnames,svgnames,x11names]{xcolor}
\usepackage{graphicx}

\begin{document}
\fontsize{%.2f}{%.2f}\selectfont
\definecolor{currcolor}{HTML}{%s}
\color{currcolor}
%s
\end{document}
`

const colorPreviewDocument = `\documentclass{article}
\usepackage{amsmath}
\usepackage{amssymb}
\usepackage[dvipsnames,svgnames,x11names]{xcolor}
\usepackage{graphicx}
\usepackage[active,tightpage]{preview}
\setlength\PreviewBorder{0pt}

\begin{document}
\fontsize{%.2f}{%.2f}\selectfont
\begin{preview}
\definecolor{currcolor}{HTML}{%s}
\color{currcolor}
%s
\end{preview}
\end{document}
`

// dvipngRasterizer is the primary toolchain: latex to DVI, dvipng to a
// transparent PNG. Fast, but limited to inline math material.
type dvipngRasterizer struct{}

func (dvipngRasterizer) Rasterize(source string, style Style) (*RasterImage, error) {
	if strings.Contains(source, `\begin{`) {
		return nil, &RenderError{Source: source, Reason: "environment requires system fallback"}
	}
	if _, err := exec.LookPath("latex"); err != nil {
		return nil, &RenderError{Source: source, Reason: "latex not found", Err: err}
	}
	if _, err := exec.LookPath("dvipng"); err != nil {
		return nil, &RenderError{Source: source, Reason: "dvipng not found", Err: err}
	}

	dir, err := os.MkdirTemp("", "texcat-*")
	if err != nil {
		return nil, &RenderError{Source: source, Reason: "temp dir", Err: err}
	}
	defer os.RemoveAll(dir)

	texPath := filepath.Join(dir, "equation.tex")
	doc := fmt.Sprintf(previewDocument, style.FontSizePt, style.FontSizePt*1.2, source)
	if err := os.WriteFile(texPath, []byte(doc), 0o644); err != nil {
		return nil, &RenderError{Source: source, Reason: "write tex", Err: err}
	}

	if err := runQuiet(dir, "latex", "-interaction=nonstopmode", "-halt-on-error",
		"-output-directory", dir, texPath); err != nil {
		return nil, &RenderError{Source: source, Reason: "latex failed", Err: err}
	}
	dviPath := filepath.Join(dir, "equation.dvi")
	if _, err := os.Stat(dviPath); err != nil {
		return nil, &RenderError{Source: source, Reason: "latex produced no dvi", Err: err}
	}

	pngPath := filepath.Join(dir, "equation.png")
	if err := runQuiet(dir, "dvipng", "-D", strconv.Itoa(int(style.DPI)),
		"-T", "tight", "-bg", "Transparent", "-fg", dvipngColor(style.Color),
		"-o", pngPath, dviPath); err != nil {
		return nil, &RenderError{Source: source, Reason: "dvipng failed", Err: err}
	}

	return loadPNG(pngPath, source, style.DPI)
}

// pdflatexRasterizer is the fallback toolchain: system pdflatex plus
// ImageMagick. Slower, but it handles the full LaTeX environment set.
type pdflatexRasterizer struct{}

func (pdflatexRasterizer) Rasterize(source string, style Style) (*RasterImage, error) {
	if _, err := exec.LookPath("pdflatex"); err != nil {
		return nil, &RenderError{Source: source, Reason: "pdflatex not found", Err: err}
	}
	convert, err := findConvert()
	if err != nil {
		return nil, &RenderError{Source: source, Reason: "ImageMagick not found", Err: err}
	}

	final := sanitizeForFallback(source)
	hex := htmlColor(style.Color)
	var doc string
	if strings.HasPrefix(strings.TrimSpace(final), `\begin{`) {
		doc = fmt.Sprintf(standaloneDocument, style.FontSizePt, style.FontSizePt*1.2, hex, final)
	} else {
		doc = fmt.Sprintf(colorPreviewDocument, style.FontSizePt, style.FontSizePt*1.2, hex, "$"+final+"$")
	}

	dir, err := os.MkdirTemp("", "texcat-*")
	if err != nil {
		return nil, &RenderError{Source: source, Reason: "temp dir", Err: err}
	}
	defer os.RemoveAll(dir)

	texPath := filepath.Join(dir, "equation.tex")
	if err := os.WriteFile(texPath, []byte(doc), 0o644); err != nil {
		return nil, &RenderError{Source: source, Reason: "write tex", Err: err}
	}

	if err := runQuiet(dir, "pdflatex", "-interaction=nonstopmode",
		"-output-directory", dir, texPath); err != nil {
		return nil, &RenderError{Source: source, Reason: "pdflatex failed", Err: err}
	}
	pdfPath := filepath.Join(dir, "equation.pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, &RenderError{Source: source, Reason: "pdflatex produced no pdf", Err: err}
	}

	pngPath := filepath.Join(dir, "equation.png")
	if err := runQuiet(dir, convert, "-density", strconv.Itoa(int(style.DPI)),
		"-background", "none", pdfPath, pngPath); err != nil {
		return nil, &RenderError{Source: source, Reason: "convert failed", Err: err}
	}

	return loadPNG(pngPath, source, style.DPI)
}

func findConvert() (string, error) {
	if path, err := exec.LookPath("magick"); err == nil {
		return path, nil
	}
	return exec.LookPath("convert")
}

func runQuiet(dir, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}

func loadPNG(path, source string, dpi float64) (*RasterImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &RenderError{Source: source, Reason: "toolchain produced no image", Err: err}
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, &RenderError{Source: source, Reason: "decode png", Err: err}
	}
	return &RasterImage{Image: toNRGBA(img), DPI: dpi}, nil
}

// dvipngColor converts #rrggbb to the "rgb r g b" form dvipng expects.
func dvipngColor(hex string) string {
	r, g, b, ok := parseHexColor(hex)
	if !ok {
		r, g, b, _ = parseHexColor(defaultColor)
	}
	return fmt.Sprintf("rgb %.3f %.3f %.3f", float64(r)/255, float64(g)/255, float64(b)/255)
}

// htmlColor returns the uppercase hex digits xcolor's HTML model expects.
func htmlColor(hex string) string {
	if _, _, _, ok := parseHexColor(hex); !ok {
		hex = defaultColor
	}
	return strings.ToUpper(strings.TrimPrefix(hex, "#"))
}

func parseHexColor(s string) (r, g, b uint8, ok bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
