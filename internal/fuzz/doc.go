// Package fuzztests houses Go fuzz harnesses for the front end and the
// alignment rule: arbitrary bytes go through the lexer, the parser and a
// lint pass with fixes applied in memory. They guard against panics,
// hangs and fixes that touch anything but whitespace.
package fuzztests
