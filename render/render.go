package render

import (
	"github.com/ddmoney420/moji/ansi"
)

// Handler receives the interpretation of an input: literal text, and the
// opening and closing of style contexts. Open is called once per escape code
// that yields at least one attribute; Close(n) closes the n innermost
// contexts.
type Handler interface {
	Text(s string)
	Open(st ansi.Style)
	Close(n int)
}

// Interpreter turns text containing SGR escape codes into Handler calls.
//
// Contexts are kept on a stack even though the only way to close them is a
// reset, which closes all of them. Restoring an outer style after closing an
// inner one (SGR 22, 24, 39 and friends) would need exactly this stack.
type Interpreter struct {
	h     Handler
	stack []ansi.Style

	// Anomaly, if set, is told about every malformed or unknown input the
	// interpreter recovered from.
	Anomaly func(a ansi.Anomaly, fragment string)
}

func NewInterpreter(h Handler) *Interpreter {
	in := &Interpreter{
		h:     h,
		stack: make([]ansi.Style, 0, 8),
	}
	in.Reset()
	return in
}

func (in *Interpreter) Reset() {
	in.stack = in.stack[0:0]
}

// Interpret runs input through the Handler. All contexts still open at the
// end of input are closed, so calls are balanced for every input.
func (in *Interpreter) Interpret(input string) {
	in.Reset()
	parser := &ansi.AnsiParser{
		Text: func(s string) {
			in.h.Text(s)
		},
		Escape: func(esc ansi.EscapeSequence) {
			in.escape(&esc)
		},
		Anomaly: in.Anomaly,
	}
	parser.Parse(input)
	in.closeAll()
}

func (in *Interpreter) escape(esc *ansi.EscapeSequence) {
	sgr := esc.SGR(in.Anomaly)
	if sgr.Reset {
		in.closeAll()
	}
	if sgr.Directives > 0 {
		in.stack = append(in.stack, sgr.Style)
		in.h.Open(sgr.Style)
	}
}

func (in *Interpreter) closeAll() {
	if n := len(in.stack); n > 0 {
		in.h.Close(n)
		in.stack = in.stack[0:0]
	}
}

// Interpret is a shorthand for NewInterpreter(h).Interpret(input).
func Interpret(input string, h Handler) {
	NewInterpreter(h).Interpret(input)
}
