package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ddmoney420/moji/ansi"
	"github.com/muesli/termenv"
)

// ResolveColors returns the CSS hex foreground and background a painter
// should use for st, "" meaning the painter's default. Inverse video uses the
// fixed substitutes, except where st still carries a color set after it.
func ResolveColors(st ansi.Style) (fg, bg string) {
	if st.Inverse {
		fg, bg = ansi.InverseForeground, ansi.InverseBackground
	}
	if st.Foreground.IsSet() {
		fg = st.Foreground.Hex(false)
	}
	if st.Background.IsSet() {
		bg = st.Background.Hex(true)
	}
	return fg, bg
}

// Terminal re-encodes runs as terminal escape sequences for profile.
// Lines are styled one at a time so that no padding is introduced.
func Terminal(runs []Run, profile termenv.Profile) string {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)

	var b strings.Builder
	for _, run := range runs {
		if run.Style.IsZero() {
			b.WriteString(run.Text)
			continue
		}
		style := lipglossStyle(r, run.Style)
		for i, line := range strings.Split(run.Text, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(style.Render(line))
			}
		}
	}
	return b.String()
}

func lipglossStyle(r *lipgloss.Renderer, st ansi.Style) lipgloss.Style {
	s := r.NewStyle().
		TabWidth(lipgloss.NoTabConversion).
		Bold(st.Bold).
		Faint(st.Faint).
		Italic(st.Italic).
		Underline(st.Underline).
		Blink(st.Blink).
		Strikethrough(st.Strikethrough)
	fg, bg := ResolveColors(st)
	if fg != "" {
		s = s.Foreground(lipgloss.Color(fg))
	}
	if bg != "" {
		s = s.Background(lipgloss.Color(bg))
	}
	return s
}
