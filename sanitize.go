package texcat

import (
	"regexp"
	"strings"
)

// Symbols the primary toolchain is known to clip or drop. Expressions using
// them go straight to the system LaTeX fallback when one is available.
var forceFallbackSymbols = []string{
	`\Longleftarrow`, `\Longrightarrow`, `\Longleftrightarrow`,
	`\impliedby`, `\implies`, `\iff`,
}

var (
	leqRe      = regexp.MustCompile(`\\le\b`)
	geqRe      = regexp.MustCompile(`\\ge\b`)
	beginEnvRe = regexp.MustCompile(`\\begin\{(align|equation|gather|dmath|multline|eqnarray)\}`)
	endEnvRe   = regexp.MustCompile(`\\end\{(align|equation|gather|dmath|multline|eqnarray)\}`)
)

func requiresSystemFallback(src string) bool {
	for _, sym := range forceFallbackSymbols {
		if strings.Contains(src, sym) {
			return true
		}
	}
	return false
}

// sanitizeMath rewrites constructs the primary renderer handles poorly:
// newlines inside spans, the short \le / \ge forms, \lvert / \rvert
// delimiters, and long implication arrows (which get a strut so they are
// not clipped vertically).
func sanitizeMath(src string) string {
	src = strings.ReplaceAll(src, "\n", " ")

	src = leqRe.ReplaceAllString(src, `\leq`)
	src = geqRe.ReplaceAllString(src, `\geq`)

	src = strings.ReplaceAll(src, `\left\lvert`, `\left|`)
	src = strings.ReplaceAll(src, `\right\rvert`, `\right|`)
	src = strings.ReplaceAll(src, `\lvert`, `|`)
	src = strings.ReplaceAll(src, `\rvert`, `|`)

	src = strings.ReplaceAll(src, `\impliedby`, `\Longleftarrow\rule{0pt}{2.5ex}`)
	src = strings.ReplaceAll(src, `\implies`, `\Longrightarrow\rule{0pt}{2.5ex}`)
	src = strings.ReplaceAll(src, `\iff`, `\Longleftrightarrow\rule{0pt}{2.5ex}`)

	return src
}

// sanitizeForFallback prepares source for the system LaTeX toolchain:
// wrapping $ signs are stripped and numbered environments are replaced with
// their starred forms so equations come out unnumbered.
func sanitizeForFallback(src string) string {
	inner := strings.TrimSpace(src)
	for range 2 {
		if strings.HasPrefix(inner, "$") && strings.HasSuffix(inner, "$") && len(inner) >= 2 {
			inner = inner[1 : len(inner)-1]
		}
	}
	inner = beginEnvRe.ReplaceAllString(inner, `\begin{$1*}`)
	inner = endEnvRe.ReplaceAllString(inner, `\end{$1*}`)
	return inner
}
