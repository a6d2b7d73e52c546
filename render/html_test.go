package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/ddmoney420/moji/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	nethtml "golang.org/x/net/html"
)

func TestHTML(t *testing.T) {
	tests := []struct {
		desc     string
		input    string
		wantHTML string
	}{
		{
			desc:     "empty",
			input:    "",
			wantHTML: "",
		},
		{
			desc:     "plain text passes through",
			input:    "plain text",
			wantHTML: "plain text",
		},
		{
			desc:     "markup is escaped",
			input:    `<b>&`,
			wantHTML: `&lt;b&gt;&amp;`,
		},
		{
			desc:     "quotes are escaped",
			input:    "say \"hi\" 'there'",
			wantHTML: `say &quot;hi&quot; 'there'`,
		},
		{
			desc:     "bold yellow",
			input:    "\x1b[1;33mhi\x1b[0m",
			wantHTML: `<span style="font-weight:bold;color:#ca0">hi</span>`,
		},
		{
			desc:     "rgb closed at end of input",
			input:    "\x1b[38;2;10;20;30mX",
			wantHTML: `<span style="color:rgb(10,20,30)">X</span>`,
		},
		{
			desc:     "nested spans close together on reset",
			input:    "\x1b[1;31ma\x1b[4mb\x1b[mc",
			wantHTML: `<span style="font-weight:bold;color:#c00">a<span style="text-decoration:underline">b</span></span>c`,
		},
		{
			desc:     "background palettes",
			input:    "\x1b[47mx\x1b[107my",
			wantHTML: `<span style="background-color:#fff">x<span style="background-color:#fff">y</span></span>`,
		},
		{
			desc:     "bright foreground",
			input:    "\x1b[90mx",
			wantHTML: `<span style="color:#555">x</span>`,
		},
		{
			desc:     "inverse substitutes",
			input:    "\x1b[7mx\x1b[m",
			wantHTML: `<span style="background-color:#e6edf3;color:#000;padding:0 2px">x</span>`,
		},
		{
			desc:     "inverse after a color replaces it",
			input:    "\x1b[31;7mx",
			wantHTML: `<span style="background-color:#e6edf3;color:#000;padding:0 2px">x</span>`,
		},
		{
			desc:     "color after inverse overrides the substitute",
			input:    "\x1b[7;31mx",
			wantHTML: `<span style="background-color:#e6edf3;color:#000;padding:0 2px;color:#c00">x</span>`,
		},
		{
			desc:     "blink faint italic strike",
			input:    "\x1b[5;2;3;9mx",
			wantHTML: `<span style="opacity:0.6;font-style:italic;text-decoration:line-through;animation:ansiBlink 1s step-end infinite">x</span>`,
		},
		{
			desc:     "underline and strike share the declaration",
			input:    "\x1b[4;9mx",
			wantHTML: `<span style="text-decoration:underline line-through">x</span>`,
		},
		{
			desc:     "unterminated tail is escaped literally",
			input:    "\x1b[99z<abc>",
			wantHTML: "\x1b[99z&lt;abc&gt;",
		},
		{
			desc:     "text inside span is escaped",
			input:    "\x1b[32m<&>\x1b[0m",
			wantHTML: `<span style="color:#0a0">&lt;&amp;&gt;</span>`,
		},
		{
			desc:     "code left open after text",
			input:    "hi\x1b[1m",
			wantHTML: `hi<span style="font-weight:bold"></span>`,
		},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			assert.Equal(t, test.wantHTML, HTML(test.input))

			var buf bytes.Buffer
			require.NoError(t, WriteHTML(&buf, test.input))
			assert.Equal(t, test.wantHTML, buf.String())
		})
	}
}

var propertyInputs = []string{
	"",
	"plain text",
	"\x1b[1;33mhi\x1b[0m there",
	"\x1b[31ma\x1b[1mb\x1b[4mc\x1b[0md\x1b[32me",
	"\x1b[38;2;255;0;128mpink\x1b[48;2;0;0;0m on black\x1b[m!",
	"\x1b[0m\x1b[0m\x1b[m<tag attr=\"v\">&amp;</tag>",
	"line one\n\x1b[7minverse\x1b[0m line two\n",
	"\x1b[90;100mbright\x1b[39;49mdefaults-ignored\x1b[m",
	"(╯°□°)╯︵ ┻━┻ \x1b[5mblink\x1b[m",
}

// The markup must be balanced and unescaping its text must give back the
// input without escape codes.
func TestHTMLIsBalancedAndLossless(t *testing.T) {
	for _, input := range propertyInputs {
		out := HTML(input)

		z := nethtml.NewTokenizer(strings.NewReader(out))
		depth, maxDepth := 0, 0
		var text strings.Builder
	loop:
		for {
			switch z.Next() {
			case nethtml.ErrorToken:
				break loop
			case nethtml.StartTagToken:
				depth++
				if depth > maxDepth {
					maxDepth = depth
				}
			case nethtml.EndTagToken:
				depth--
				require.GreaterOrEqual(t, depth, 0, "input %q", input)
			case nethtml.TextToken:
				text.Write(z.Text())
			}
		}
		assert.Equal(t, 0, depth, "input %q", input)
		assert.Equal(t, xansi.Strip(input), text.String(), "input %q", input)
		assert.Equal(t, xansi.Strip(input), html.UnescapeString(stripTags(out)), "input %q", input)
	}
}

func TestRunsReconstructInput(t *testing.T) {
	for _, input := range propertyInputs {
		assert.Equal(t, xansi.Strip(input), PlainText(Convert(input)), "input %q", input)
	}
}

type colorSpan struct {
	text   string
	fg, bg string
}

func appendColorSpan(spans []colorSpan, c colorSpan) []colorSpan {
	if c.text == "" {
		return spans
	}
	if n := len(spans); n > 0 && spans[n-1].fg == c.fg && spans[n-1].bg == c.bg {
		spans[n-1].text += c.text
		return spans
	}
	return append(spans, c)
}

func cssHex(v string) string {
	var r, g, b int
	if _, err := fmt.Sscanf(v, "rgb(%d,%d,%d)", &r, &g, &b); err == nil {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return v
}

// resolvedColors cascades markup the way a browser does: within a span the
// last color declaration wins, and nested spans inherit from their parent.
func resolvedColors(markup string) []colorSpan {
	var out []colorSpan
	stack := []colorSpan{{}}
	z := nethtml.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return out
		case nethtml.StartTagToken:
			cur := stack[len(stack)-1]
			_, more := z.TagName()
			for more {
				var key, val []byte
				key, val, more = z.TagAttr()
				if string(key) != "style" {
					continue
				}
				for _, decl := range strings.Split(string(val), ";") {
					prop, v, _ := strings.Cut(decl, ":")
					switch prop {
					case "color":
						cur.fg = cssHex(v)
					case "background-color":
						cur.bg = cssHex(v)
					}
				}
			}
			stack = append(stack, cur)
		case nethtml.EndTagToken:
			stack = stack[:len(stack)-1]
		case nethtml.TextToken:
			cur := stack[len(stack)-1]
			out = appendColorSpan(out, colorSpan{text: string(z.Text()), fg: cur.fg, bg: cur.bg})
		}
	}
}

// Nested markup, flat run markup and the painters' colors must agree on every
// character, inverse video included.
func TestColorsAgreeAcrossProjections(t *testing.T) {
	inputs := append([]string{
		"\x1b[31;7mx",
		"\x1b[7;31mx",
		"\x1b[31ma\x1b[7mb",
		"\x1b[7ma\x1b[31mb",
		"\x1b[44ma\x1b[7;32mb\x1b[1mc",
		"\x1b[38;2;1;2;3ma\x1b[7mb\x1b[48;2;9;9;9mc",
		"\x1b[7;41ma\x1b[7mb\x1b[0mc",
	}, propertyInputs...)

	for _, input := range inputs {
		runs := Convert(input)
		var want []colorSpan
		for _, r := range runs {
			fg, bg := ResolveColors(r.Style)
			want = appendColorSpan(want, colorSpan{text: r.Text, fg: fg, bg: bg})
		}
		assert.Equal(t, want, resolvedColors(HTML(input)), "nested, input %q", input)
		assert.Equal(t, want, resolvedColors(RunsHTML(runs)), "flat, input %q", input)
	}
}

func TestNestedInverseResolvesToSubstitutes(t *testing.T) {
	assert.Equal(t, []colorSpan{
		{text: "a", fg: "#c00"},
		{text: "b", fg: ansi.InverseForeground, bg: ansi.InverseBackground},
	}, resolvedColors(HTML("\x1b[31ma\x1b[7mb")))
}

func stripTags(s string) string {
	var b strings.Builder
	in := false
	for _, r := range s {
		switch {
		case r == '<':
			in = true
		case r == '>' && in:
			in = false
		case !in:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestRunsHTML(t *testing.T) {
	runs := Convert("a\x1b[1mb\x1b[31mc\x1b[0m<d>")
	assert.Equal(t,
		`a<span style="font-weight:bold">b</span><span style="font-weight:bold;color:#c00">c</span>&lt;d&gt;`,
		RunsHTML(runs))
}

func TestCSS(t *testing.T) {
	assert.Equal(t, "", CSS(ansi.Style{}))
	assert.Equal(t,
		"background-color:#e6edf3;color:#000;padding:0 2px;color:#c00",
		CSS(ansi.Style{Inverse: true, Foreground: ansi.BasicColor(1)}))
	assert.Equal(t,
		"color:#ccc;background-color:#fff",
		CSS(ansi.Style{Foreground: ansi.BasicColor(7), Background: ansi.BasicColor(7)}))
}

func TestFastWriteHtmlEscaped(t *testing.T) {
	for _, test := range []struct {
		in, want string
	}{
		{`<b>&"`, "&lt;b&gt;&amp;&quot;"},
		{"no change", "no change"},
		{"it's", "it's"},
		{"\xff<\x00", "\xff&lt;\x00"},
	} {
		var buf bytes.Buffer
		fastWriteHtmlEscaped(&buf, test.in)
		assert.Equal(t, test.want, buf.String(), "input %q", test.in)
	}
}
