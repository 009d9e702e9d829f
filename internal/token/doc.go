// Package token defines lexical token kinds and trivia for the JavaScript
// front end.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Whitespace, newlines and comments never appear in the token stream;
//     they are attached to the following token as leading Trivia.
//   - Contextual words (async, get, set, of, static) are identifiers.
//     The parser decides their meaning from position.
package token
