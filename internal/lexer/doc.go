// Package lexer turns JavaScript source into tokens with attached trivia.
//
// The lexer is a single forward pass over a source.File. It never fails:
// malformed input yields token.Invalid plus a diagnostic, and scanning
// resumes at the next byte. Regular expression literals are told apart from
// division by looking at the previous significant token; template literals
// are returned as a single token, substitutions included.
package lexer
