package testkit

import (
	"strings"
	"testing"

	"valign/internal/ast"
	"valign/internal/parser"
	"valign/internal/source"
)

func parse(t *testing.T, src string) (*ast.Tree, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.js", []byte(src)))
	res := parser.ParseFile(file, parser.Options{})
	if res.Errors > 0 {
		t.Fatalf("unexpected syntax errors in %q: %d", src, res.Errors)
	}
	return res.Tree, file
}

func TestCheckSpanInvariantsOnValidCode(t *testing.T) {
	sources := []string{
		"const {\n  a = 1,\n  bbbb = 2,\n} = obj;\n",
		"let o = { x: 1, [k]: v, ...rest, m() { return this.x; } };\n",
		"class A extends B { #p = 1; static s() {} get g() { return 1; } }\n",
		"for (const [k, v] of map) { if (k) continue; else break; }\n",
		"do { i++; } while (i < 10);\n",
		"export default async (a, { b = 2 }) => a?.b ?? `t${b}`;\n",
		"import x, { y as z } from \"m\";\nswitch (x) { case 1: z(); default: }\n",
		"try { f(); } catch ({ message }) { g(message); } finally { h(); }\n",
	}
	for _, src := range sources {
		tree, file := parse(t, src)
		if err := CheckSpanInvariants(tree, file); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}

func TestCheckSpanInvariantsDetectsEscapingChild(t *testing.T) {
	tree, file := parse(t, "let a = b + c;\n")
	var target ast.NodeID
	tree.Inspect(tree.Root, func(id ast.NodeID) bool {
		if tree.Kind(id) == ast.BinaryExpression {
			target = tree.Children(id)[1]
			return false
		}
		return true
	})
	if !target.IsValid() {
		t.Fatal("binary expression not found")
	}
	sp := tree.Span(target)
	sp.End = uint32(len(file.Content))
	tree.SetSpan(target, sp)

	err := CheckSpanInvariants(tree, file)
	if err == nil || !strings.Contains(err.Error(), "outside BinaryExpression") {
		t.Fatalf("expected escaping child to be reported, got %v", err)
	}
}

func TestCheckSpanInvariantsNilInputs(t *testing.T) {
	if err := CheckSpanInvariants(nil, nil); err == nil {
		t.Fatal("expected an error")
	}
}
