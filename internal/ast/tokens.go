package ast

import (
	"sort"

	"valign/internal/token"
)

// TokensBetween returns the tokens that lie entirely inside [start, end),
// EOF excluded. The result aliases Tree.Tokens.
func (t *Tree) TokensBetween(start, end uint32) []token.Token {
	toks := t.Tokens
	lo := sort.Search(len(toks), func(i int) bool { return toks[i].Span.Start >= start })
	hi := lo
	for hi < len(toks) && toks[hi].Kind != token.EOF && toks[hi].Span.End <= end {
		hi++
	}
	return toks[lo:hi]
}

// TokenAt returns the index of the token that starts exactly at off.
func (t *Tree) TokenAt(off uint32) (int, bool) {
	toks := t.Tokens
	i := sort.Search(len(toks), func(i int) bool { return toks[i].Span.Start >= off })
	if i < len(toks) && toks[i].Span.Start == off && toks[i].Kind != token.EOF {
		return i, true
	}
	return -1, false
}

// FirstToken and LastToken return the tokens that open and close a node.
func (t *Tree) FirstToken(id NodeID) (token.Token, bool) {
	sp := t.Span(id)
	i, ok := t.TokenAt(sp.Start)
	if !ok {
		return token.Token{}, false
	}
	return t.Tokens[i], true
}

func (t *Tree) LastToken(id NodeID) (token.Token, bool) {
	sp := t.Span(id)
	toks := t.TokensBetween(sp.Start, sp.End)
	if len(toks) == 0 {
		return token.Token{}, false
	}
	return toks[len(toks)-1], true
}
