package render

import (
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/ddmoney420/moji/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestTerminal(t *testing.T) {
	runs := Convert("\x1b[1;31mred\x1b[0m plain\n\x1b[38;2;1;2;3;4mrgb\nnext line\x1b[m")

	ascii := Terminal(runs, termenv.Ascii)
	assert.Equal(t, PlainText(runs), ascii)

	colored := Terminal(runs, termenv.TrueColor)
	assert.Contains(t, colored, "\x1b[")
	assert.Equal(t, PlainText(runs), xansi.Strip(colored))
}

func TestResolveColors(t *testing.T) {
	tests := []struct {
		desc   string
		style  ansi.Style
		fg, bg string
	}{
		{
			desc: "defaults",
		},
		{
			desc:  "palette",
			style: ansi.Style{Foreground: ansi.BasicColor(2), Background: ansi.BrightColor(4)},
			fg:    "#0a0",
			bg:    "#55f",
		},
		{
			desc:  "inverse substitutes",
			style: ansi.Style{Inverse: true},
			fg:    ansi.InverseForeground,
			bg:    ansi.InverseBackground,
		},
		{
			desc:  "color set after inverse wins",
			style: ansi.Style{Inverse: true, Foreground: ansi.RGBColor(255, 0, 0)},
			fg:    "#ff0000",
			bg:    ansi.InverseBackground,
		},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			fg, bg := ResolveColors(test.style)
			assert.Equal(t, test.fg, fg)
			assert.Equal(t, test.bg, bg)
		})
	}
}
