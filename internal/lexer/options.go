package lexer

import (
	"valign/internal/diag"
	"valign/internal/source"
)

// maxTokenLength caps a single token. Minified bundles with megabyte-long
// strings are not worth lexing; the lexer reports and stops.
const maxTokenLength = 1 << 20

type Options struct {
	Reporter diag.Reporter // nil drops errors; lexing continues
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
}
