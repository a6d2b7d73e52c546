package render

import (
	"strings"
	"testing"

	"github.com/ddmoney420/moji/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trace records handler calls as a compact string: text verbatim, "<" for an
// open and ">n" for a close of n.
type trace struct {
	b     strings.Builder
	depth int
	max   int
}

func (t *trace) Text(s string) { t.b.WriteString(s) }

func (t *trace) Open(st ansi.Style) {
	t.b.WriteString("<")
	t.depth++
	if t.depth > t.max {
		t.max = t.depth
	}
}

func (t *trace) Close(n int) {
	t.b.WriteString(">" + string(rune('0'+n)))
	t.depth -= n
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		desc  string
		input string
		want  string
	}{
		{
			desc:  "plain",
			input: "plain text",
			want:  "plain text",
		},
		{
			desc:  "combined code opens one context",
			input: "\x1b[1;33mhi\x1b[0m",
			want:  "<hi>1",
		},
		{
			desc:  "separate codes nest",
			input: "\x1b[1;31ma\x1b[4mb\x1b[mc",
			want:  "<a<b>2c",
		},
		{
			desc:  "end of input closes what is open",
			input: "\x1b[38;2;10;20;30mX",
			want:  "<X>1",
		},
		{
			desc:  "reset with nothing open closes nothing",
			input: "a\x1b[0mb\x1b[mc",
			want:  "abc",
		},
		{
			desc:  "unknown code opens nothing",
			input: "a\x1b[99mb",
			want:  "ab",
		},
		{
			desc:  "reset and style in one code",
			input: "\x1b[1ma\x1b[0;32mb",
			want:  "<a>1<b>1",
		},
		{
			desc:  "unterminated tail",
			input: "\x1b[1ma\x1b[99zabc",
			want:  "<a\x1b[99zabc>1",
		},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			var tr trace
			Interpret(test.input, &tr)
			assert.Equal(t, test.want, tr.b.String())
			assert.Equal(t, 0, tr.depth)
		})
	}
}

func TestDepthGrowsByOnePerStyledCode(t *testing.T) {
	input := "\x1b[1;2;3;4;31;42ma\x1b[5mb\x1b[38;2;1;2;3;48;2;4;5;6mc\x1b[99md"
	var tr trace
	in := NewInterpreter(&tr)
	in.Interpret(input)
	assert.Equal(t, 3, tr.max)
	assert.Empty(t, in.stack, "all contexts closed at end of input")

	runs := Convert(input)
	require.Len(t, runs, 3)
	for i, r := range runs[:3] {
		assert.Equal(t, i+1, r.Depth)
	}
	assert.Equal(t, "cd", runs[2].Text)
}

func TestInterpreterReportsAnomalies(t *testing.T) {
	var got []ansi.Anomaly
	in := NewInterpreter(&trace{})
	in.Anomaly = func(a ansi.Anomaly, _ string) {
		got = append(got, a)
	}
	in.Interpret("\x1b[x;99mok\x1b[1")
	assert.Equal(t, []ansi.Anomaly{
		ansi.MalformedParameter,
		ansi.UnknownDirective,
		ansi.UnterminatedSequence,
	}, got)
}

func TestConvert(t *testing.T) {
	tests := []struct {
		desc  string
		input string
		want  []Run
	}{
		{
			desc:  "empty",
			input: "",
			want:  []Run{},
		},
		{
			desc:  "plain",
			input: "plain text",
			want:  []Run{{Text: "plain text"}},
		},
		{
			desc:  "bold yellow",
			input: "\x1b[1;33mhi\x1b[0m",
			want: []Run{{
				Text:  "hi",
				Style: ansi.Style{Bold: true, Foreground: ansi.BasicColor(3)},
				Depth: 1,
			}},
		},
		{
			desc:  "rgb foreground without reset",
			input: "\x1b[38;2;10;20;30mX",
			want: []Run{{
				Text:  "X",
				Style: ansi.Style{Foreground: ansi.RGBColor(10, 20, 30)},
				Depth: 1,
			}},
		},
		{
			desc:  "nested contexts merge",
			input: "\x1b[1;31ma\x1b[4;32mb\x1b[mc",
			want: []Run{
				{Text: "a", Style: ansi.Style{Bold: true, Foreground: ansi.BasicColor(1)}, Depth: 1},
				{Text: "b", Style: ansi.Style{Bold: true, Underline: true, Foreground: ansi.BasicColor(2)}, Depth: 2},
				{Text: "c"},
			},
		},
		{
			desc:  "inverse inside a color drops it",
			input: "\x1b[31ma\x1b[7mb",
			want: []Run{
				{Text: "a", Style: ansi.Style{Foreground: ansi.BasicColor(1)}, Depth: 1},
				{Text: "b", Style: ansi.Style{Inverse: true}, Depth: 2},
			},
		},
		{
			desc:  "color inside inverse applies",
			input: "\x1b[7ma\x1b[31mb",
			want: []Run{
				{Text: "a", Style: ansi.Style{Inverse: true}, Depth: 1},
				{Text: "b", Style: ansi.Style{Inverse: true, Foreground: ansi.BasicColor(1)}, Depth: 2},
			},
		},
		{
			desc:  "no-op codes do not split runs",
			input: "ab\x1b[99mcd\x1b[0mef",
			want:  []Run{{Text: "abcdef"}},
		},
		{
			desc:  "empty context in between",
			input: "a\x1b[1m\x1b[0mb",
			want:  []Run{{Text: "ab"}},
		},
		{
			desc:  "malformed tail is literal",
			input: "\x1b[99zabc",
			want:  []Run{{Text: "\x1b[99zabc"}},
		},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			assert.Equal(t, test.want, Convert(test.input))
		})
	}
}

func TestRunsAreNeverEmpty(t *testing.T) {
	for _, input := range []string{
		"\x1b[1m\x1b[2m\x1b[0m",
		"\x1b[m",
		"\x1b[1m",
		"x\x1b[1m\x1b[0m\x1b[3my",
	} {
		for _, r := range Convert(input) {
			assert.NotEmpty(t, r.Text, "input %q", input)
		}
	}
}

func TestPlainText(t *testing.T) {
	runs := Convert("\x1b[1mfoo\x1b[0m bar \x1b[31mbaz")
	assert.Equal(t, "foo bar baz", PlainText(runs))
}
