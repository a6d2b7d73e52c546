package render

import "github.com/ddmoney420/moji/ansi"

type multiHandler []Handler

// Multi returns a Handler that forwards every call to each of hs in order, so
// one interpretation can feed several projections.
func Multi(hs ...Handler) Handler {
	return multiHandler(hs)
}

func (m multiHandler) Text(s string) {
	for _, h := range m {
		h.Text(s)
	}
}

func (m multiHandler) Open(st ansi.Style) {
	for _, h := range m {
		h.Open(st)
	}
}

func (m multiHandler) Close(n int) {
	for _, h := range m {
		h.Close(n)
	}
}
