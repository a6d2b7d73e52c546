package ansi

import (
	"strings"
)

// States
const (
	Default = iota
	Escaping
	ParsingControl
)

// Anomaly classifies input the parser recovered from. None of them stop
// parsing.
type Anomaly int

const (
	// UnterminatedSequence is an ESC [ with no 'm' before end of input. The
	// tail is passed through as text.
	UnterminatedSequence Anomaly = iota + 1
	// UnknownDirective is a numeric SGR field outside the recognized set.
	UnknownDirective
	// MalformedParameter is a non-numeric SGR field, read as a reset.
	MalformedParameter
)

func (a Anomaly) String() string {
	switch a {
	case UnterminatedSequence:
		return "unterminated sequence"
	case UnknownDirective:
		return "unknown directive"
	case MalformedParameter:
		return "malformed parameter"
	}
	return "anomaly"
}

type AnsiParser struct {
	Text   func(s string)
	Escape func(e EscapeSequence)

	// Anomaly, if set, is told about every recovered anomaly along with the
	// offending fragment.
	Anomaly func(a Anomaly, fragment string)
}

// Parse scans input left to right. Literal text is delivered in maximal
// chunks between escape codes; every ESC [ ... m is delivered as an
// EscapeSequence with its parameter string.
func (a *AnsiParser) Parse(input string) {
	s := Default
	var esc EscapeSequence
	textStart, seqStart := 0, 0

	flush := func(end int) {
		if end > textStart && a.Text != nil {
			a.Text(input[textStart:end])
		}
	}

	for i, n := 0, len(input); i < n; i++ {
		c := input[i]
		switch s {
		case Default:
			if c == Esc {
				s = Escaping
				seqStart = i
			}
		case Escaping:
			switch c {
			case Introducer:
				s = ParsingControl
			case Esc:
				// ESC ESC: the first one is text, the second may start a code.
				seqStart = i
			default:
				// Lone ESC, keep it as text.
				s = Default
			}
		case ParsingControl:
			j := strings.IndexByte(input[i:], SGRFinal)
			if j < 0 {
				if a.Anomaly != nil {
					a.Anomaly(UnterminatedSequence, input[seqStart:])
				}
				flush(n)
				return
			}
			flush(seqStart)
			esc.Reset()
			esc.ParseFields(input[i : i+j])
			if a.Escape != nil {
				a.Escape(esc)
			}
			i += j
			textStart = i + 1
			s = Default
		}
	}

	if s == ParsingControl {
		// Input ended right after ESC [.
		if a.Anomaly != nil {
			a.Anomaly(UnterminatedSequence, input[seqStart:])
		}
	}
	flush(len(input))
}
