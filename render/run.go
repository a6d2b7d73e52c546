package render

import (
	"strings"

	"github.com/ddmoney420/moji/ansi"
)

// Run is a non-empty text fragment with the style in effect at its first
// character. Depth is the number of contexts open around it.
type Run struct {
	Text  string     `json:"text"`
	Style ansi.Style `json:"style"`
	Depth int        `json:"depth"`
}

// RunCollector is a Handler that builds the Run sequence. Text arriving under
// the same style and depth as the previous run extends it.
type RunCollector struct {
	runs []Run
	// effective[i] is the merge of contexts 0..i.
	effective []ansi.Style
}

func NewRunCollector() *RunCollector {
	return &RunCollector{
		runs:      make([]Run, 0, 8),
		effective: make([]ansi.Style, 0, 8),
	}
}

func (c *RunCollector) current() ansi.Style {
	if len(c.effective) == 0 {
		return ansi.Style{}
	}
	return c.effective[len(c.effective)-1]
}

func (c *RunCollector) Text(s string) {
	if s == "" {
		return
	}
	st, depth := c.current(), len(c.effective)
	if n := len(c.runs); n > 0 && c.runs[n-1].Style == st && c.runs[n-1].Depth == depth {
		c.runs[n-1].Text += s
		return
	}
	c.runs = append(c.runs, Run{
		Text:  s,
		Style: st,
		Depth: depth,
	})
}

func (c *RunCollector) Open(st ansi.Style) {
	c.effective = append(c.effective, c.current().Merge(st))
}

func (c *RunCollector) Close(n int) {
	if n > len(c.effective) {
		n = len(c.effective)
	}
	c.effective = c.effective[:len(c.effective)-n]
}

func (c *RunCollector) Runs() []Run {
	return c.runs
}

// Convert interprets input into its Run sequence.
func Convert(input string) []Run {
	c := NewRunCollector()
	Interpret(input, c)
	return c.Runs()
}

// PlainText concatenates the text of runs.
func PlainText(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}
