package ansi

// Style is the set of visual attributes accumulated from SGR directives.
type Style struct {
	Bold          bool  `json:"bold,omitempty"`
	Faint         bool  `json:"faint,omitempty"`
	Italic        bool  `json:"italic,omitempty"`
	Underline     bool  `json:"underline,omitempty"`
	Blink         bool  `json:"blink,omitempty"`
	Inverse       bool  `json:"inverse,omitempty"`
	Strikethrough bool  `json:"strikethrough,omitempty"`
	Foreground    Color `json:"fg"`
	Background    Color `json:"bg"`
}

func (s Style) IsZero() bool {
	return s == Style{}
}

// Merge returns s with o layered on top: flags combine and colors set in o
// replace those of s. Inverse video in o also drops the colors of s, so that
// only colors set along with it show over the substitutes.
func (s Style) Merge(o Style) Style {
	if o.Inverse {
		s.Foreground, s.Background = Color{}, Color{}
	}
	s.Bold = s.Bold || o.Bold
	s.Faint = s.Faint || o.Faint
	s.Italic = s.Italic || o.Italic
	s.Underline = s.Underline || o.Underline
	s.Blink = s.Blink || o.Blink
	s.Inverse = s.Inverse || o.Inverse
	s.Strikethrough = s.Strikethrough || o.Strikethrough
	if o.Foreground.IsSet() {
		s.Foreground = o.Foreground
	}
	if o.Background.IsSet() {
		s.Background = o.Background
	}
	return s
}
