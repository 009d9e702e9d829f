package parser

import (
	"valign/internal/ast"
	"valign/internal/token"
)

// Binary operator precedence, loosest first. Assignment, conditional
// and arrow forms are handled above this table.
const (
	precNone = iota
	precCoalesce
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precExponent
)

// binaryPrec returns the precedence of k as an infix operator.
// "in" is suppressed inside for-loop headers.
func binaryPrec(k token.Kind, noIn bool) int {
	switch k {
	case token.QuestionQ:
		return precCoalesce
	case token.OrOr:
		return precOr
	case token.AndAnd:
		return precAnd
	case token.Pipe:
		return precBitOr
	case token.Caret:
		return precBitXor
	case token.Amp:
		return precBitAnd
	case token.EqEq, token.BangEq, token.EqEqEq, token.BangEqEq:
		return precEquality
	case token.Lt, token.Gt, token.LtEq, token.GtEq, token.KwInstanceof:
		return precRelational
	case token.KwIn:
		if noIn {
			return precNone
		}
		return precRelational
	case token.Shl, token.Shr, token.UShr:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	case token.StarStar:
		return precExponent
	default:
		return precNone
	}
}

// binaryKind maps logical operators to LogicalExpression.
func binaryKind(k token.Kind) ast.Kind {
	switch k {
	case token.AndAnd, token.OrOr, token.QuestionQ:
		return ast.LogicalExpression
	default:
		return ast.BinaryExpression
	}
}

func isRightAssoc(k token.Kind) bool {
	return k == token.StarStar
}

func isUnaryOp(k token.Kind) bool {
	switch k {
	case token.Bang, token.Tilde, token.Plus, token.Minus,
		token.KwTypeof, token.KwVoid, token.KwDelete:
		return true
	default:
		return false
	}
}
