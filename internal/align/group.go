package align

import (
	"valign/internal/ast"
	"valign/internal/source"
)

// Candidate is a node that may take part in alignment.
type Candidate struct {
	Node ast.NodeID
	Span source.Span
}

// Annotated is a candidate with the lines it covers and its group.
// StartLine and EndLine are 0-based; Group is 1-based.
type Annotated struct {
	Candidate
	StartLine int
	EndLine   int
	Group     int
}

// Group is a run of candidates with no blank line between neighbours.
type Group struct {
	ID      int
	Members []Annotated
}

// GroupCandidates partitions cands, which must be in source order, into
// groups. A candidate opens a new group when it starts two or more lines
// after the previous candidate ends.
func GroupCandidates(lines source.LineIndex, cands []Candidate) []Group {
	var groups []Group
	prevEnd := 0
	for i, c := range cands {
		a := Annotated{
			Candidate: c,
			StartLine: lines.LineOf(c.Span.Start),
			EndLine:   lines.LineOf(c.Span.End),
		}
		if i == 0 || a.StartLine-prevEnd >= 2 {
			groups = append(groups, Group{ID: len(groups) + 1})
		}
		g := &groups[len(groups)-1]
		a.Group = g.ID
		g.Members = append(g.Members, a)
		prevEnd = a.EndLine
	}
	return groups
}

// implicitGroup wraps cands in a single group without consulting line
// numbers. Object literals and patterns are aligned as a whole.
func implicitGroup(cands []Candidate) []Annotated {
	members := make([]Annotated, len(cands))
	for i, c := range cands {
		members[i] = Annotated{Candidate: c, StartLine: -1, EndLine: -1, Group: 1}
	}
	return members
}
