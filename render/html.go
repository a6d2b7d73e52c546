package render

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/ddmoney420/moji/ansi"
)

const (
	DeclBold         = `font-weight:bold`
	DeclFaint        = `opacity:0.6`
	DeclItalic       = `font-style:italic`
	DeclBlink        = `animation:ansiBlink 1s step-end infinite`
	DeclInversePad   = `padding:0 2px`
	PropColor        = `color:`
	PropBackground   = `background-color:`
	PropDecoration   = `text-decoration:`
	DecorUnderline   = `underline`
	DecorLineThrough = `line-through`
	spanOpenPrefix   = `<span style="`
	spanOpenSuffix   = `">`
	spanClose        = `</span>`
	escapeIntroducer = "\033"
)

// HTMLWriter is a Handler serializing the interpretation as markup: one
// <span style="..."> per context, and escaped literal text.
type HTMLWriter struct {
	buf  *bytes.Buffer
	open int
}

func NewHTMLWriter(buf *bytes.Buffer) *HTMLWriter {
	return &HTMLWriter{buf: buf}
}

func (w *HTMLWriter) Text(s string) {
	fastWriteHtmlEscaped(w.buf, s)
}

func (w *HTMLWriter) Open(st ansi.Style) {
	w.buf.WriteString(spanOpenPrefix)
	w.buf.WriteString(CSS(st))
	w.buf.WriteString(spanOpenSuffix)
	w.open++
}

func (w *HTMLWriter) Close(n int) {
	for ; n > 0 && w.open > 0; n-- {
		w.buf.WriteString(spanClose)
		w.open--
	}
}

// HTML renders input as markup.
func HTML(input string) string {
	var buf bytes.Buffer
	writeHTML(&buf, input)
	return buf.String()
}

// WriteHTML renders input as markup into w.
func WriteHTML(w io.Writer, input string) error {
	var buf bytes.Buffer
	writeHTML(&buf, input)
	_, err := buf.WriteTo(w)
	return err
}

func writeHTML(buf *bytes.Buffer, input string) {
	if !strings.Contains(input, escapeIntroducer) {
		fastWriteHtmlEscaped(buf, input)
		return
	}
	Interpret(input, NewHTMLWriter(buf))
}

// RunsHTML serializes runs flat, one span per styled run.
func RunsHTML(runs []Run) string {
	var buf bytes.Buffer
	for _, r := range runs {
		if r.Style.IsZero() {
			fastWriteHtmlEscaped(&buf, r.Text)
			continue
		}
		buf.WriteString(spanOpenPrefix)
		buf.WriteString(CSS(r.Style))
		buf.WriteString(spanOpenSuffix)
		fastWriteHtmlEscaped(&buf, r.Text)
		buf.WriteString(spanClose)
	}
	return buf.String()
}

// CSS returns the inline declarations for st. Colors kept along with inverse
// video were set after it, so they follow the substitutes and win.
func CSS(st ansi.Style) string {
	decls := make([]string, 0, 8)
	if st.Bold {
		decls = append(decls, DeclBold)
	}
	if st.Faint {
		decls = append(decls, DeclFaint)
	}
	if st.Italic {
		decls = append(decls, DeclItalic)
	}
	switch {
	case st.Underline && st.Strikethrough:
		decls = append(decls, PropDecoration+DecorUnderline+` `+DecorLineThrough)
	case st.Underline:
		decls = append(decls, PropDecoration+DecorUnderline)
	case st.Strikethrough:
		decls = append(decls, PropDecoration+DecorLineThrough)
	}
	if st.Blink {
		decls = append(decls, DeclBlink)
	}
	if st.Inverse {
		decls = append(decls,
			PropBackground+ansi.InverseBackground,
			PropColor+ansi.InverseForeground,
			DeclInversePad)
	}
	if st.Foreground.IsSet() {
		decls = append(decls, PropColor+cssColor(st.Foreground, false))
	}
	if st.Background.IsSet() {
		decls = append(decls, PropBackground+cssColor(st.Background, true))
	}
	return strings.Join(decls, ";")
}

func cssColor(c ansi.Color, background bool) string {
	if c.Kind == ansi.ColorRGB {
		return `rgb(` + strconv.Itoa(int(c.R)) + `,` + strconv.Itoa(int(c.G)) + `,` + strconv.Itoa(int(c.B)) + `)`
	}
	return c.Hex(background)
}

func htmlEscapeFor(c byte) string {
	switch c {
	case '&':
		return `&amp;`
	case '<':
		return `&lt;`
	case '>':
		return `&gt;`
	case '"':
		return `&quot;`
	}
	return ""
}

// fastWriteHtmlEscaped escapes &, <, > and ". Everything else, including
// invalid UTF-8 and control bytes, is copied through.
func fastWriteHtmlEscaped(buf *bytes.Buffer, s string) {
	last := 0
	for i := 0; i < len(s); i++ {
		if e := htmlEscapeFor(s[i]); e != "" {
			buf.WriteString(s[last:i])
			buf.WriteString(e)
			last = i + 1
		}
	}
	buf.WriteString(s[last:])
}
