package ansi

import (
	"errors"
	"strconv"
)

// SGR codes understood by ParseSGR.
const (
	SGRCodeReset         = 0
	SGRCodeBold          = 1
	SGRCodeFaint         = 2
	SGRCodeItalic        = 3
	SGRCodeUnderline     = 4
	SGRCodeBlink         = 5
	SGRCodeInverse       = 7
	SGRCodeStrikethrough = 9

	SGRCodeFG1st       = 30
	SGRCodeFGEnd       = 37
	SGRCodeSetFG       = 38
	SGRCodeBG1st       = 40
	SGRCodeBGEnd       = 47
	SGRCodeSetBG       = 48
	SGRCodeBrightFG1st = 90
	SGRCodeBrightFGEnd = 97
	SGRCodeBrightBG1st = 100
	SGRCodeBrightBGEnd = 107

	// Color space selector following 38/48. It is the only one understood;
	// in any other form 38/48 is a lone unknown field.
	sgrSpaceRGB = 2
)

// SGR is the outcome of parsing the parameters of one escape code.
type SGR struct {
	// Reset is set when any field is 0, empty or not a number.
	Reset bool
	// Style accumulates every non-reset directive of the code.
	Style Style
	// Directives counts the recognized non-reset directives.
	Directives int
}

// ParseSGR parses an SGR parameter string such as "1;33" or "38;2;10;20;30".
func ParseSGR(params string) SGR {
	var esc EscapeSequence
	esc.ParseFields(params)
	return esc.SGR(nil)
}

// SGR interprets the fields of e. report, when non-nil, receives every
// anomaly met along the way.
func (e *EscapeSequence) SGR(report func(Anomaly, string)) SGR {
	var r SGR
	st := &r.Style
	fields := e.Fields

	for i := 0; i < len(fields); {
		n, err := strconv.Atoi(fields[i])
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			if fields[i] != "" && report != nil {
				report(MalformedParameter, fields[i])
			}
			r.Reset = true
			i++
			continue
		}

		consumed, recognized := 1, true
		switch {
		case n == SGRCodeReset:
			r.Reset = true
			recognized = false
		case n == SGRCodeBold:
			st.Bold = true
		case n == SGRCodeFaint:
			st.Faint = true
		case n == SGRCodeItalic:
			st.Italic = true
		case n == SGRCodeUnderline:
			st.Underline = true
		case n == SGRCodeBlink:
			st.Blink = true
		case n == SGRCodeInverse:
			// The substitutes replace colors set so far; colors set later
			// in the same code override them in turn.
			st.Inverse = true
			st.Foreground, st.Background = Color{}, Color{}
		case n == SGRCodeStrikethrough:
			st.Strikethrough = true
		case n >= SGRCodeFG1st && n <= SGRCodeFGEnd:
			st.Foreground = BasicColor(uint8(n - SGRCodeFG1st))
		case n >= SGRCodeBG1st && n <= SGRCodeBGEnd:
			st.Background = BasicColor(uint8(n - SGRCodeBG1st))
		case n >= SGRCodeBrightFG1st && n <= SGRCodeBrightFGEnd:
			st.Foreground = BrightColor(uint8(n - SGRCodeBrightFG1st))
		case n >= SGRCodeBrightBG1st && n <= SGRCodeBrightBGEnd:
			st.Background = BrightColor(uint8(n - SGRCodeBrightBG1st))
		case (n == SGRCodeSetFG || n == SGRCodeSetBG) && fieldIs(fields, i+1, sgrSpaceRGB):
			c := RGBColor(channel(fields, i+2), channel(fields, i+3), channel(fields, i+4))
			if n == SGRCodeSetFG {
				st.Foreground = c
			} else {
				st.Background = c
			}
			consumed = 5
		default:
			if report != nil {
				report(UnknownDirective, fields[i])
			}
			recognized = false
		}
		if recognized {
			r.Directives++
		}
		i += consumed
	}

	return r
}

func fieldIs(fields []string, i, want int) bool {
	if i >= len(fields) {
		return false
	}
	n, err := strconv.Atoi(fields[i])
	return err == nil && n == want
}

// channel reads an RGB channel. Missing or non-numeric fields read as 0;
// values are clamped to 0..255.
func channel(fields []string, i int) uint8 {
	if i >= len(fields) {
		return 0
	}
	n, err := strconv.Atoi(fields[i])
	switch {
	case err != nil || n < 0:
		return 0
	case n > 255:
		return 255
	}
	return uint8(n)
}
