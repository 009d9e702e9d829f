// Package align implements the vertical-align rule.
//
// The rule looks at runs of key/value constructs that sit on adjacent
// lines (destructuring defaults, object literal properties and plain
// assignment statements) and checks that their values start in the same
// column:
//
//	const {
//		a    = 1,
//		bbbb = 2,
//	} = obj
//
// Work happens in three steps. GroupCandidates splits a run at blank
// lines. Analyze breaks every member into key, spacing, operator and
// value and derives the spacing each member needs from the longest key
// of its group. Emit reports members whose spacing differs and attaches
// a fix that rewrites only the whitespace between key and value.
//
// For "=" the padding goes before the operator (a    = 1). For ":" the
// colon stays on the key and the padding follows it (a:  1).
package align
