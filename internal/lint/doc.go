// Package lint hosts rules over the JavaScript syntax tree.
//
// A rule declares its metadata and, for every file, returns a table of
// handlers keyed by node kind. Run walks the tree once in source order and
// calls every handler registered for the kind of each node. Handlers talk
// back through Context, which gives read access to the file, tree and
// tokens, and turns Report values into diagnostics with whitespace fixes.
package lint
