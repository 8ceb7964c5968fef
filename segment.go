package texcat

import "strings"

// SegmentKind identifies what a segment holds.
type SegmentKind uint8

const (
	// SegmentText is a literal text run, emitted verbatim.
	SegmentText SegmentKind = iota
	// SegmentInlineMath is a $...$ span rendered within the text line.
	SegmentInlineMath
	// SegmentBlockMath is a $$...$$ span rendered on its own rows.
	SegmentBlockMath
)

// Segment is one run of the input document in reading order. For math
// segments Text holds the source without its delimiters.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Source returns the segment as it appeared in the document, delimiters
// included. Concatenating Source over a Split result reconstructs the input.
func (s Segment) Source() string {
	switch s.Kind {
	case SegmentInlineMath:
		return "$" + s.Text + "$"
	case SegmentBlockMath:
		return "$$" + s.Text + "$$"
	}
	return s.Text
}

// Split segments raw input into literal text and math spans. Block math
// ($$...$$) binds tighter than inline math ($...$). A marker with no
// matching closer is literal text from that point on; math spans are not
// nested, the first closer of the matching kind ends the span.
func Split(raw string) []Segment {
	var segs []Segment
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, Segment{Kind: SegmentText, Text: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(raw) {
		if raw[i] != '$' {
			j := strings.IndexByte(raw[i:], '$')
			if j < 0 {
				lit.WriteString(raw[i:])
				i = len(raw)
				continue
			}
			lit.WriteString(raw[i : i+j])
			i += j
			continue
		}
		if strings.HasPrefix(raw[i:], "$$") {
			if j := strings.Index(raw[i+2:], "$$"); j >= 0 {
				flush()
				segs = append(segs, Segment{Kind: SegmentBlockMath, Text: raw[i+2 : i+2+j]})
				i += j + 4
				continue
			}
		}
		if j := strings.IndexByte(raw[i+1:], '$'); j >= 0 {
			flush()
			segs = append(segs, Segment{Kind: SegmentInlineMath, Text: raw[i+1 : i+1+j]})
			i += j + 2
			continue
		}
		// Unterminated marker: everything from here is literal.
		lit.WriteString(raw[i:])
		i = len(raw)
	}
	flush()
	return segs
}
