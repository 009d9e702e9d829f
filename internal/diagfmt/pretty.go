package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"valign/internal/diag"
	"valign/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	note, fix       *color.Color
	added, removed  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		code:    color.New(color.Bold),
		path:    color.New(color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgGreen, color.Bold),
		note:    color.New(color.FgCyan),
		fix:     color.New(color.FgMagenta),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note, p.fix, p.added, p.removed} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes the diagnostics of bag in a human readable form, in the
// order of bag.Items() (callers sort the bag first). Each diagnostic is
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message> [rule]
//
// followed by the source context with a ^~~~ underline of the primary
// span, then notes and fixes when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		writeDiagnostic(w, &d, fs, opts, p)
	}
}

func writeDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)

	header := fmt.Sprintf("%s:%d:%d:", p.path.Sprint(formatPath(f, fs, opts.PathMode)), start.Line, start.Col)
	fmt.Fprintf(w, "%s %s %s: %s", header, p.severity(d.Severity).Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
	if d.Rule != "" {
		fmt.Fprintf(w, " [%s]", d.Rule)
	}
	fmt.Fprintln(w)

	if f != nil {
		writeSnippet(w, f, start, end, opts.Context, p)
	}

	if opts.ShowNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"), formatPath(nf, fs, opts.PathMode), ns.Line, ns.Col, n.Msg)
		}
	}

	if opts.ShowFixes {
		writeFixes(w, d, fs, opts, p)
	}
}

func writeSnippet(w io.Writer, f *source.File, start, end source.LineCol, context int8, p palette) {
	lines := uint32(len(f.LineStarts)) // #nosec G115 -- bounded by FileSet.Add
	if lines == 0 || start.Line == 0 {
		return
	}
	ctx := uint32(max(context, 0)) // #nosec G115 -- non-negative int8
	first := start.Line - min(ctx, start.Line-1)
	last := min(start.Line+ctx, lines)
	gutterWidth := len(strconv.FormatUint(uint64(last), 10))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		num := fmt.Sprintf("%*d", gutterWidth, ln)
		fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), expandTabs(text))
		if ln != start.Line {
			continue
		}
		endCol := uint32(len(text)) + 1 // #nosec G115 -- single line
		if end.Line == start.Line {
			endCol = min(max(end.Col, start.Col), endCol)
		}
		pad, width := underline(text, start.Col, endCol)
		mark := "^" + strings.Repeat("~", max(width-1, 0))
		fmt.Fprintf(w, " %s %s %s%s\n", strings.Repeat(" ", gutterWidth), p.gutter.Sprint("|"), strings.Repeat(" ", pad), p.caret.Sprint(mark))
	}
}

// underline converts 1-based byte columns into display columns.
func underline(line string, startCol, endCol uint32) (pad, width int) {
	s := min(int(startCol)-1, len(line))
	e := min(max(int(endCol)-1, s), len(line))
	s = max(s, 0)
	e = max(e, s)
	pad = displayWidth(line[:s])
	width = displayWidth(line[:e]) - pad
	return pad, max(width, 1)
}

func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}

func writeFixes(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	ctx := diag.FixBuildContext{FileSet: fs}
	for i, fx := range sortedFixes(d.Fixes) {
		resolved, err := fx.Resolve(ctx)
		fmt.Fprintf(w, "  %s %s (%s, %s", p.fix.Sprintf("fix #%d:", i+1), resolved.Title, resolved.Kind, resolved.Applicability)
		if resolved.ID != "" {
			fmt.Fprintf(w, ", id=%s", resolved.ID)
		}
		if resolved.IsPreferred {
			fmt.Fprint(w, ", preferred")
		}
		fmt.Fprintln(w, ")")
		if err != nil {
			fmt.Fprintf(w, "    error: %v\n", err)
			continue
		}
		for _, e := range resolved.Edits {
			es, ee := fs.Resolve(e.Span)
			fmt.Fprintf(w, "    %d:%d-%d:%d apply=%q\n", es.Line, es.Col, ee.Line, ee.Col, e.NewText)
		}
		if !opts.ShowPreview || len(resolved.Edits) == 0 {
			continue
		}
		preview, err := buildFixPreview(fs, resolved.Edits)
		if err != nil {
			fmt.Fprintf(w, "    preview unavailable: %v\n", err)
			continue
		}
		fmt.Fprintln(w, "    preview:")
		for _, line := range preview.before {
			fmt.Fprintf(w, "      %s\n", p.removed.Sprint("- "+line))
		}
		for _, line := range preview.after {
			fmt.Fprintf(w, "      %s\n", p.added.Sprint("+ "+line))
		}
	}
}
