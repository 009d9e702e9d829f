package lint

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"valign/internal/ast"
	"valign/internal/diag"
	"valign/internal/source"
)

// Configured is a rule enabled for a run with its effective severity and
// options. Rules switched off are simply absent.
type Configured struct {
	Rule     Rule
	Severity diag.Severity
	Options  map[string]any
}

type Options struct {
	Rules []Configured
	// Bag receives findings and engine diagnostics. Required.
	Bag *diag.Bag
}

// ErrRuleFailed wraps handler errors that abort a file.
var ErrRuleFailed = errors.New("rule failed")

type binding struct {
	ctx     *Context
	handler Handler
	broken  *bool
}

// Run lints one parsed file. Handlers run in source order of the nodes
// they are registered for; rules registered for the same kind run in the
// order of opts.Rules. A panicking rule is reported as LNT4002 and skipped
// for the rest of the file. A handler error stops the file and is
// returned: a malformed line table is reported as LNT4001, anything else
// as LNT4002.
func Run(ctx context.Context, file *source.File, tree *ast.Tree, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if opts.Bag == nil {
		return errors.New("lint: Options.Bag is nil")
	}

	var (
		muted *Suppressions
		lines *source.LineIndex
	)
	if li, err := file.Lines(); err == nil {
		lines = &li
		muted = CollectSuppressions(tree, li)
	}

	dispatch := make(map[ast.Kind][]binding)
	for _, conf := range opts.Rules {
		rctx := &Context{
			file:     file,
			tree:     tree,
			meta:     conf.Rule.Meta(),
			severity: conf.Severity,
			options:  conf.Options,
			bag:      opts.Bag,
			muted:    muted,
			lines:    lines,
		}
		broken := new(bool)
		for kind, h := range conf.Rule.Create(rctx) {
			if h == nil {
				continue
			}
			dispatch[kind] = append(dispatch[kind], binding{ctx: rctx, handler: h, broken: broken})
		}
	}
	if len(dispatch) == 0 {
		return nil
	}

	var runErr error
	tree.Inspect(tree.Root, func(id ast.NodeID) bool {
		if runErr != nil {
			return false
		}
		for _, b := range dispatch[tree.Kind(id)] {
			if *b.broken {
				continue
			}
			if err := call(b, id); err != nil {
				runErr = err
				return false
			}
		}
		return true
	})
	if runErr != nil {
		reportFailure(opts.Bag, tree.Span(tree.Root), runErr)
	}
	return runErr
}

// ruleFailure carries the rule name out of call.
type ruleFailure struct {
	rule string
	err  error
}

func (f *ruleFailure) Error() string { return fmt.Sprintf("%s: %v", f.rule, f.err) }
func (f *ruleFailure) Unwrap() []error {
	return []error{ErrRuleFailed, f.err}
}

func call(b binding, id ast.NodeID) (err error) {
	name := b.ctx.meta.Name
	defer func() {
		if r := recover(); r != nil {
			*b.broken = true
			at := b.ctx.tree.Span(id)
			d := diag.NewError(diag.EngRulePanic, at, fmt.Sprintf("rule %s panicked: %v", name, r)).
				WithNote(at, firstFrames(debug.Stack()))
			d.Rule = name
			b.ctx.bag.Add(d)
		}
	}()
	if herr := b.handler(id); herr != nil {
		return &ruleFailure{rule: name, err: herr}
	}
	return nil
}

func reportFailure(bag *diag.Bag, at source.Span, err error) {
	code := diag.EngRulePanic
	if errors.Is(err, source.ErrEmptyLineTable) || errors.Is(err, source.ErrUnsortedLineTable) {
		code = diag.EngMalformedLines
	}
	d := diag.NewError(code, source.Span{File: at.File, Start: at.Start, End: at.Start}, err.Error())
	var rf *ruleFailure
	if errors.As(err, &rf) {
		d.Rule = rf.rule
	}
	bag.Add(d)
}

// firstFrames keeps the head of a stack trace for the panic note.
func firstFrames(stack []byte) string {
	const maxLen = 600
	if len(stack) > maxLen {
		stack = stack[:maxLen]
	}
	return string(stack)
}
