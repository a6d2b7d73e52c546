package ansi

import (
	"strings"
)

const (
	Esc        = '\033'
	Introducer = '['
	SGRFinal   = 'm'
)

type EscapeSequence struct {
	Params string
	Fields []string
}

func (e *EscapeSequence) Reset() {
	e.Params = ""

	if e.Fields == nil {
		e.Fields = make([]string, 0, 4)
	} else {
		e.Fields = e.Fields[0:0]
	}
}

// ParseFields splits the parameter string on ';'. An empty parameter string
// yields a single empty field, which reads as a reset.
func (e *EscapeSequence) ParseFields(params string) {
	e.Params = params
	for {
		i := strings.IndexByte(params, ';')
		if i < 0 {
			e.Fields = append(e.Fields, params)
			return
		}
		e.Fields = append(e.Fields, params[:i])
		params = params[i+1:]
	}
}
