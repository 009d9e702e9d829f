// Package testkit holds checks shared by parser tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"valign/internal/ast"
	"valign/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) the root span belongs to sf and lies within its content
// 2) every child span lies within its parent span
func CheckSpanInvariants(tree *ast.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	root := tree.Get(tree.Root)
	if root == nil {
		return fmt.Errorf("root node not found")
	}
	if root.Span.File != sf.ID {
		return fmt.Errorf("root span points to different file id: got=%d want=%d", root.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if root.Span.End > lenContent || root.Span.Start > root.Span.End {
		return fmt.Errorf("root span %v outside content of %d bytes", root.Span, lenContent)
	}

	var check func(id ast.NodeID) error
	check = func(id ast.NodeID) error {
		parent := tree.Span(id)
		for _, c := range tree.Children(id) {
			sp := tree.Span(c)
			if sp.File != sf.ID {
				return fmt.Errorf("%s span file mismatch: got=%d want=%d", tree.Kind(c), sp.File, sf.ID)
			}
			if sp.Start > sp.End {
				return fmt.Errorf("%s span is inverted: %v", tree.Kind(c), sp)
			}
			if !parent.Contains(sp) {
				return fmt.Errorf("%s span %v is outside %s span %v", tree.Kind(c), sp, tree.Kind(id), parent)
			}
			if err := check(c); err != nil {
				return err
			}
		}
		return nil
	}
	return check(tree.Root)
}
