package align

import (
	"strings"

	"valign/internal/diag"
	"valign/internal/lint"
)

// Sink receives findings.
type Sink interface {
	Report(r lint.Report)
}

const message = "Expected {{expectedKeySpacing}} spaces after key but found {{keySpacingLength}}"

// Emit reports every analyzable member whose padding differs from the
// expected width, or whose run on the other side of the operator is not
// exactly the expected number of spaces. The message always describes
// the padding. results must be the output of one Analyze call; a group
// with fewer than two members has nothing to align against and emits
// nothing. Tabs in the padding count as one character.
func Emit(results []Result, sink Sink) {
	if len(results) < 2 {
		return
	}
	for i := range results {
		r := &results[i]
		if !r.OK || !r.HasValue {
			continue
		}
		found, _, want := r.padding()
		if len(found) == want && r.tightOK() {
			continue
		}
		sink.Report(lint.Report{
			Node:            r.Member.Node,
			MessageTemplate: message,
			Data: map[string]any{
				"expectedKeySpacing": want,
				"keySpacingLength":   len(found),
			},
			Fix: r.fix,
		})
	}
}

// fix rewrites both runs around the operator and nothing else.
func (r *Result) fix(f *lint.Fixer) []diag.TextEdit {
	_, padSpan, padWant := r.padding()
	edits := []diag.TextEdit{f.ReplaceText(padSpan, strings.Repeat(" ", padWant))}
	if !r.tightOK() {
		_, sp, want := r.tight()
		edits = append(edits, f.ReplaceText(sp, strings.Repeat(" ", want)))
	}
	return edits
}

func (r *Result) tightOK() bool {
	text, _, want := r.tight()
	return text == strings.Repeat(" ", want)
}
