package texcat

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitScenarios(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []Segment
	}{
		{
			name: "plain text",
			in:   "hello world",
			want: []Segment{{Kind: SegmentText, Text: "hello world"}},
		},
		{
			name: "inline math between text",
			in:   "Energy: $E=mc^2$.",
			want: []Segment{
				{Kind: SegmentText, Text: "Energy: "},
				{Kind: SegmentInlineMath, Text: "E=mc^2"},
				{Kind: SegmentText, Text: "."},
			},
		},
		{
			name: "block math",
			in:   `$$\int_0^1 x\,dx$$`,
			want: []Segment{{Kind: SegmentBlockMath, Text: `\int_0^1 x\,dx`}},
		},
		{
			name: "unterminated inline is literal",
			in:   "$x = 1",
			want: []Segment{{Kind: SegmentText, Text: "$x = 1"}},
		},
		{
			name: "unterminated after text stays one literal",
			in:   "Energy: $x = 1",
			want: []Segment{{Kind: SegmentText, Text: "Energy: $x = 1"}},
		},
		{
			name: "block binds tighter than inline",
			in:   "$$a$$b$c$",
			want: []Segment{
				{Kind: SegmentBlockMath, Text: "a"},
				{Kind: SegmentText, Text: "b"},
				{Kind: SegmentInlineMath, Text: "c"},
			},
		},
		{
			name: "empty inline",
			in:   "$$",
			want: []Segment{{Kind: SegmentInlineMath, Text: ""}},
		},
		{
			name: "empty block",
			in:   "$$$$",
			want: []Segment{{Kind: SegmentBlockMath, Text: ""}},
		},
		{
			name: "whitespace inline body",
			in:   "$ $",
			want: []Segment{{Kind: SegmentInlineMath, Text: " "}},
		},
		{
			name: "block spans newlines",
			in:   "$$a\nb$$",
			want: []Segment{{Kind: SegmentBlockMath, Text: "a\nb"}},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Split(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Split(%q) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

func TestSplitReconstructsInput(t *testing.T) {
	docs := []string{
		"plain text only",
		"Energy: $E=mc^2$.",
		"$$\\begin{align}a&=b\\\\c&=d\\end{align}$$ trailing",
		"mixed $a$ and $$b$$ and $c$ again",
		"adjacent $a$$b$",
		"line one\nline $x$ two\nline three\n",
		"$$",
		"$ $",
	}
	for _, doc := range docs {
		var out strings.Builder
		for _, seg := range Split(doc) {
			out.WriteString(seg.Source())
		}
		if out.String() != doc {
			t.Fatalf("reconstruction mismatch:\n in: %q\nout: %q", doc, out.String())
		}
	}
}

func TestSegmentSource(t *testing.T) {
	if got := (Segment{Kind: SegmentInlineMath, Text: "x"}).Source(); got != "$x$" {
		t.Fatalf("inline source = %q", got)
	}
	if got := (Segment{Kind: SegmentBlockMath, Text: "x"}).Source(); got != "$$x$$" {
		t.Fatalf("block source = %q", got)
	}
	if got := (Segment{Kind: SegmentText, Text: "x$"}).Source(); got != "x$" {
		t.Fatalf("text source = %q", got)
	}
}
