package align

import (
	"valign/internal/ast"
	"valign/internal/token"
)

func candidate(tree *ast.Tree, id ast.NodeID) Candidate {
	return Candidate{Node: id, Span: tree.Span(id)}
}

// ExtractPatternDefaults returns the defaults of an object pattern:
// a in { a = 1 } and b in { x: b = 2 }.
func ExtractPatternDefaults(tree *ast.Tree, pattern ast.NodeID) []Candidate {
	list := tree.List(pattern)
	if list == nil {
		return nil
	}
	var out []Candidate
	for _, item := range list.Items {
		prop := tree.Property(item)
		if prop == nil || tree.Kind(prop.Value) != ast.AssignmentPattern {
			continue
		}
		out = append(out, candidate(tree, prop.Value))
	}
	return out
}

// ExtractObjectProperties returns every member of an object literal,
// spreads and methods included; Analyze skips the ones it cannot align.
func ExtractObjectProperties(tree *ast.Tree, object ast.NodeID) []Candidate {
	list := tree.List(object)
	if list == nil {
		return nil
	}
	out := make([]Candidate, 0, len(list.Items))
	for _, item := range list.Items {
		out = append(out, candidate(tree, item))
	}
	return out
}

// ExtractAssignments returns the plain "=" assignments that form whole
// expression statements directly inside a block, a program body or the
// consequent of a switch case.
func ExtractAssignments(tree *ast.Tree, block ast.NodeID) []Candidate {
	var out []Candidate
	for _, stmt := range statements(tree, block) {
		if tree.Kind(stmt) != ast.ExpressionStatement {
			continue
		}
		expr := tree.Wrap(stmt).Inner
		if tree.Kind(expr) != ast.AssignmentExpression || tree.Assign(expr).Op != token.Assign {
			continue
		}
		out = append(out, candidate(tree, expr))
	}
	return out
}

func statements(tree *ast.Tree, id ast.NodeID) []ast.NodeID {
	if tree.Kind(id) == ast.SwitchCase {
		if sw := tree.Switch(id); sw != nil {
			return sw.Items
		}
		return nil
	}
	if list := tree.List(id); list != nil {
		return list.Items
	}
	return nil
}
