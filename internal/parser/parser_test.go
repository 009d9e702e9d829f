package parser

import (
	"slices"
	"strings"
	"testing"

	"valign/internal/ast"
	"valign/internal/diag"
	"valign/internal/source"
	"valign/internal/token"
)

type parsed struct {
	tree *ast.Tree
	file *source.File
	bag  *diag.Bag
	res  Result
}

func parseSource(t *testing.T, src string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.js", []byte(src)))
	bag := diag.NewBag(0)
	res := ParseFile(file, Options{Reporter: diag.BagReporter{Bag: bag}})
	return parsed{tree: res.Tree, file: file, bag: bag, res: res}
}

func parseClean(t *testing.T, src string) parsed {
	t.Helper()
	p := parseSource(t, src)
	if p.bag.Len() != 0 {
		for _, d := range p.bag.Items() {
			t.Errorf("unexpected diagnostic %s: %s", d.Code.ID(), d.Message)
		}
		t.FailNow()
	}
	return p
}

func (p parsed) body() []ast.NodeID {
	return p.tree.List(p.tree.Root).Items
}

func (p parsed) text(id ast.NodeID) string {
	return p.file.Slice(p.tree.Span(id))
}

// expr returns the expression of the i-th top-level expression statement.
func (p parsed) expr(t *testing.T, i int) ast.NodeID {
	t.Helper()
	stmt := p.body()[i]
	if k := p.tree.Kind(stmt); k != ast.ExpressionStatement {
		t.Fatalf("statement %d is %v, want ExpressionStatement", i, k)
	}
	return p.tree.Wrap(stmt).Inner
}

func (p parsed) codes() []diag.Code {
	var out []diag.Code
	for _, d := range p.bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestObjectLiteralMembers(t *testing.T) {
	p := parseClean(t, "x = { a: 1, bb: f(), c, ...d, m() {}, get g() { return 1 }, [k]: 2, 'q': 3 };")
	assign := p.tree.Assign(p.expr(t, 0))
	obj := assign.Right
	if p.tree.Kind(obj) != ast.ObjectExpression {
		t.Fatalf("right side is %v", p.tree.Kind(obj))
	}
	items := p.tree.List(obj).Items
	wantKinds := []ast.Kind{ast.Property, ast.Property, ast.Property, ast.SpreadElement, ast.Property, ast.Property, ast.Property, ast.Property}
	var gotKinds []ast.Kind
	for _, it := range items {
		gotKinds = append(gotKinds, p.tree.Kind(it))
	}
	if !slices.Equal(gotKinds, wantKinds) {
		t.Fatalf("kinds = %v, want %v", gotKinds, wantKinds)
	}

	a := p.tree.Property(items[0])
	if p.text(a.Key) != "a" || p.text(a.Value) != "1" || a.Shorthand {
		t.Errorf("a: key %q value %q shorthand %v", p.text(a.Key), p.text(a.Value), a.Shorthand)
	}
	if p.text(items[1]) != "bb: f()" {
		t.Errorf("property span = %q", p.text(items[1]))
	}
	c := p.tree.Property(items[2])
	if !c.Shorthand || c.Value != c.Key || p.tree.Name(c.Key) != "c" {
		t.Errorf("shorthand c = %+v", c)
	}
	m := p.tree.Property(items[4])
	if !m.Method || m.Kind != ast.PropMethod || p.tree.Kind(m.Value) != ast.FunctionExpression {
		t.Errorf("method m = %+v", m)
	}
	if g := p.tree.Property(items[5]); g.Kind != ast.PropGet {
		t.Errorf("getter kind = %v", g.Kind)
	}
	if k := p.tree.Property(items[6]); !k.Computed || p.text(k.Key) != "k" {
		t.Errorf("computed key = %+v", k)
	}
	if q := p.tree.Property(items[7]); p.tree.Kind(q.Key) != ast.Literal || p.text(q.Key) != "'q'" {
		t.Errorf("string key = %q", p.text(q.Key))
	}
}

func TestGetAndSetAsPlainKeys(t *testing.T) {
	p := parseClean(t, "x = { get: 1, set() {}, async: 2 };")
	items := p.tree.List(p.tree.Assign(p.expr(t, 0)).Right).Items
	if got := p.tree.Property(items[0]); got.Kind != ast.PropInit || p.tree.Name(got.Key) != "get" {
		t.Errorf("get: %+v", got)
	}
	if got := p.tree.Property(items[1]); got.Kind != ast.PropMethod || p.tree.Name(got.Key) != "set" {
		t.Errorf("set(): %+v", got)
	}
	if got := p.tree.Property(items[2]); p.tree.Name(got.Key) != "async" || p.text(got.Value) != "2" {
		t.Errorf("async: %+v", got)
	}
}

func TestDestructuringDefaults(t *testing.T) {
	p := parseClean(t, "const { a = 1, bbbb: b = 2, ...rest } = obj;")
	decl := p.body()[0]
	if p.tree.Kind(decl) != ast.VariableDeclaration {
		t.Fatalf("got %v", p.tree.Kind(decl))
	}
	vd := p.tree.VarDecl(decl)
	if vd.Kind != token.KwConst || len(vd.Decls) != 1 {
		t.Fatalf("decl = %+v", vd)
	}
	pattern := p.tree.Pair(vd.Decls[0]).A
	if p.tree.Kind(pattern) != ast.ObjectPattern {
		t.Fatalf("pattern kind = %v", p.tree.Kind(pattern))
	}
	items := p.tree.List(pattern).Items

	short := p.tree.Property(items[0])
	if !short.Shorthand || p.tree.Kind(short.Value) != ast.AssignmentPattern {
		t.Fatalf("shorthand default = %+v", short)
	}
	def := p.tree.Assign(short.Value)
	if def.Left != short.Key || p.file.Slice(def.OpSpan) != "=" || p.text(def.Right) != "1" {
		t.Errorf("default: left %v key %v op %q right %q", def.Left, short.Key, p.file.Slice(def.OpSpan), p.text(def.Right))
	}

	long := p.tree.Property(items[1])
	if long.Shorthand || p.tree.Kind(long.Value) != ast.AssignmentPattern || p.text(long.Value) != "b = 2" {
		t.Errorf("renamed default = %+v (%q)", long, p.text(long.Value))
	}
	if p.tree.Kind(items[2]) != ast.RestElement {
		t.Errorf("rest kind = %v", p.tree.Kind(items[2]))
	}
}

func TestAssignmentConvertsLiteralToPattern(t *testing.T) {
	p := parseClean(t, "[a, , b = 2, ...c] = xs;\n({ d, e: f.g } = y);")
	first := p.tree.Assign(p.expr(t, 0))
	if p.tree.Kind(first.Left) != ast.ArrayPattern {
		t.Fatalf("left = %v", p.tree.Kind(first.Left))
	}
	items := p.tree.List(first.Left).Items
	if len(items) != 4 || items[1].IsValid() {
		t.Fatalf("items = %v", items)
	}
	if p.tree.Kind(items[2]) != ast.AssignmentPattern || p.tree.Kind(items[3]) != ast.RestElement {
		t.Errorf("kinds %v %v", p.tree.Kind(items[2]), p.tree.Kind(items[3]))
	}
	second := p.tree.Assign(p.expr(t, 1))
	if p.tree.Kind(second.Left) != ast.ObjectPattern {
		t.Errorf("left = %v", p.tree.Kind(second.Left))
	}
}

func TestAssignmentOperatorSpans(t *testing.T) {
	p := parseClean(t, "a   = 1;\nbb += 2;\nc ??= d;")
	tests := []struct {
		op   token.Kind
		text string
		left string
	}{
		{token.Assign, "=", "a"},
		{token.PlusAssign, "+=", "bb"},
		{token.QuestionQAssign, "??=", "c"},
	}
	for i, tt := range tests {
		a := p.tree.Assign(p.expr(t, i))
		if a.Op != tt.op || p.file.Slice(a.OpSpan) != tt.text || p.text(a.Left) != tt.left {
			t.Errorf("stmt %d: op %v %q left %q", i, a.Op, p.file.Slice(a.OpSpan), p.text(a.Left))
		}
	}
}

func TestPrecedence(t *testing.T) {
	p := parseClean(t, "a + b * c ** d ** e;\nx || y && z;\nq ? r : s = t;")

	add := p.tree.Binary(p.expr(t, 0))
	if add.Op != token.Plus {
		t.Fatalf("top op = %v", add.Op)
	}
	mul := p.tree.Binary(add.Right)
	if mul.Op != token.Star {
		t.Fatalf("second op = %v", mul.Op)
	}
	pow := p.tree.Binary(mul.Right)
	if pow.Op != token.StarStar || p.text(pow.Left) != "c" || p.text(pow.Right) != "d ** e" {
		t.Errorf("** is not right-associative: left %q right %q", p.text(pow.Left), p.text(pow.Right))
	}

	or := p.expr(t, 1)
	if p.tree.Kind(or) != ast.LogicalExpression || p.tree.Binary(or).Op != token.OrOr {
		t.Errorf("logical top = %v", p.tree.Kind(or))
	}

	cond := p.expr(t, 2)
	if p.tree.Kind(cond) != ast.ConditionalExpression {
		t.Fatalf("got %v", p.tree.Kind(cond))
	}
	if alt := p.tree.Cond(cond).Alt; p.tree.Kind(alt) != ast.AssignmentExpression {
		t.Errorf("alternate = %v", p.tree.Kind(alt))
	}
}

func TestArrowFunctions(t *testing.T) {
	tests := []struct {
		src      string
		params   int
		async    bool
		exprBody bool
	}{
		{"f = x => x;", 1, false, true},
		{"f = (a, b = 1, ...c) => {};", 3, false, false},
		{"f = async (a) => a;", 1, true, true},
		{"f = async x => x;", 1, true, true},
		{"f = () => ({ a: 1 });", 0, false, true},
		{"f = async => async;", 1, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p := parseClean(t, tt.src)
			fn := p.tree.Assign(p.expr(t, 0)).Right
			if p.tree.Kind(fn) != ast.ArrowFunctionExpression {
				t.Fatalf("got %v", p.tree.Kind(fn))
			}
			d := p.tree.Func(fn)
			if len(d.Params) != tt.params || d.Async != tt.async || d.ExprBody != tt.exprBody {
				t.Errorf("params %d async %v exprBody %v", len(d.Params), d.Async, d.ExprBody)
			}
		})
	}
}

func TestArrowParamPatterns(t *testing.T) {
	p := parseClean(t, "f = ({ a = 1 }, [b], ...c) => a;")
	d := p.tree.Func(p.tree.Assign(p.expr(t, 0)).Right)
	var kinds []ast.Kind
	for _, prm := range d.Params {
		kinds = append(kinds, p.tree.Kind(prm))
	}
	want := []ast.Kind{ast.ObjectPattern, ast.ArrayPattern, ast.RestElement}
	if !slices.Equal(kinds, want) {
		t.Errorf("param kinds = %v, want %v", kinds, want)
	}
}

func TestParenthesizedSequenceIsNotArrow(t *testing.T) {
	p := parseClean(t, "(a, b);\n(c)(d);")
	if k := p.tree.Kind(p.expr(t, 0)); k != ast.SequenceExpression {
		t.Errorf("got %v", k)
	}
	if k := p.tree.Kind(p.expr(t, 1)); k != ast.CallExpression {
		t.Errorf("got %v", k)
	}
}

func TestOptionalChain(t *testing.T) {
	p := parseClean(t, "a?.b.c();\nx?.[0];\nnew Foo.Bar(1).baz;")
	chain := p.expr(t, 0)
	if p.tree.Kind(chain) != ast.ChainExpression {
		t.Fatalf("got %v", p.tree.Kind(chain))
	}
	if inner := p.tree.Wrap(chain).Inner; p.tree.Kind(inner) != ast.CallExpression {
		t.Errorf("inner = %v", p.tree.Kind(inner))
	}
	member := p.tree.Wrap(p.expr(t, 1)).Inner
	if m := p.tree.Member(member); !m.Computed || !m.Optional {
		t.Errorf("member = %+v", m)
	}
	outer := p.tree.Member(p.expr(t, 2))
	if p.tree.Kind(outer.Object) != ast.NewExpression {
		t.Errorf("object = %v", p.tree.Kind(outer.Object))
	}
	if callee := p.tree.Call(outer.Object).Callee; p.text(callee) != "Foo.Bar" {
		t.Errorf("callee = %q", p.text(callee))
	}
}

func TestAutomaticSemicolonInsertion(t *testing.T) {
	p := parseClean(t, "a = 1\nb = 2\nfunction f() {\n  return\n  x\n}\ni\n++j")
	body := p.body()
	if len(body) != 5 {
		t.Fatalf("got %d statements", len(body))
	}
	fn := p.tree.Func(body[2])
	stmts := p.tree.List(fn.Body).Items
	if len(stmts) != 2 || p.tree.Wrap(stmts[0]).Inner.IsValid() {
		t.Errorf("return swallowed the next line")
	}
	if upd := p.expr(t, 4); !p.tree.Unary(upd).Prefix || p.text(upd) != "++j" {
		t.Errorf("update = %q", p.text(upd))
	}
}

func TestClassMembers(t *testing.T) {
	src := `class A extends B {
  static x = 1;
  #y;
  constructor() { super(); }
  get z() { return this.#y }
  static { init() }
  async *gen() {}
  static() {}
}`
	p := parseClean(t, src)
	cls := p.tree.Class(p.body()[0])
	if p.tree.Name(cls.ID) != "A" || p.tree.Name(cls.Super) != "B" {
		t.Fatalf("class = %+v", cls)
	}
	members := p.tree.List(cls.Body).Items
	want := []ast.Kind{ast.PropertyDefinition, ast.PropertyDefinition, ast.MethodDefinition, ast.MethodDefinition, ast.StaticBlock, ast.MethodDefinition, ast.MethodDefinition}
	var got []ast.Kind
	for _, m := range members {
		got = append(got, p.tree.Kind(m))
	}
	if !slices.Equal(got, want) {
		t.Fatalf("members = %v, want %v", got, want)
	}
	if x := p.tree.Property(members[0]); !x.Static || p.text(x.Value) != "1" {
		t.Errorf("static field = %+v", x)
	}
	if y := p.tree.Property(members[1]); p.tree.Kind(y.Key) != ast.PrivateIdentifier || y.Value.IsValid() {
		t.Errorf("private field = %+v", y)
	}
	if c := p.tree.Property(members[2]); c.Kind != ast.PropConstructor {
		t.Errorf("constructor kind = %v", c.Kind)
	}
	gen := p.tree.Func(p.tree.Property(members[5]).Value)
	if !gen.Async || !gen.Generator {
		t.Errorf("gen = %+v", gen)
	}
	if s := p.tree.Property(members[6]); s.Static || p.tree.Name(s.Key) != "static" {
		t.Errorf("method named static = %+v", s)
	}
}

func TestModules(t *testing.T) {
	src := `import a, { b as c, d } from "m";
import * as ns from "n";
import "side";
export const x = 1;
export { x as y };
export default function () {}
export * from "z";
const lazy = import("./lazy.js");
console.log(import.meta.url);`
	p := parseClean(t, src)
	want := []ast.Kind{
		ast.ImportDeclaration, ast.ImportDeclaration, ast.ImportDeclaration,
		ast.ExportNamedDeclaration, ast.ExportNamedDeclaration, ast.ExportDefaultDeclaration,
		ast.ExportAllDeclaration, ast.VariableDeclaration, ast.ExpressionStatement,
	}
	var got []ast.Kind
	for _, s := range p.body() {
		got = append(got, p.tree.Kind(s))
	}
	if !slices.Equal(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	specs := p.tree.Module(p.body()[0]).Specifiers
	if len(specs) != 3 || p.tree.Kind(specs[0]) != ast.ImportDefaultSpecifier {
		t.Fatalf("specifiers = %v", specs)
	}
	if alias := p.tree.Pair(specs[1]); p.tree.Name(alias.A) != "b" || p.tree.Name(alias.B) != "c" {
		t.Errorf("alias = %+v", alias)
	}
	if plain := p.tree.Pair(specs[2]); plain.B.IsValid() {
		t.Errorf("unaliased specifier has B = %v", plain.B)
	}
}

func TestLoops(t *testing.T) {
	p := parseClean(t, "for (const k in o) {}\nfor (x of xs) ;\nfor (let i = 0; i < n; i++) {}\nfor await (const v of s) {}\nfor (;;) break;")
	want := []ast.Kind{ast.ForInStatement, ast.ForOfStatement, ast.ForStatement, ast.ForOfStatement, ast.ForStatement}
	for i, s := range p.body() {
		if p.tree.Kind(s) != want[i] {
			t.Errorf("stmt %d = %v, want %v", i, p.tree.Kind(s), want[i])
		}
	}
	if !p.tree.Loop(p.body()[3]).Await {
		t.Error("for await lost its flag")
	}
	classic := p.tree.Loop(p.body()[2])
	if p.text(classic.Test) != "i < n" || p.text(classic.Update) != "i++" {
		t.Errorf("header = %q / %q", p.text(classic.Test), p.text(classic.Update))
	}
}

func TestStatementsMisc(t *testing.T) {
	src := `outer: while (a) { continue outer }
do x++; while (x < 3)
switch (v) { case 1: f(); break; default: g() }
try { h() } catch ({ message }) { } finally { }
try { h() } catch { }
if (a) b(); else if (c) d(); else e();
label2: for (;;) {}
debugger;
throw new Error("x");`
	p := parseClean(t, src)
	if n := len(p.body()); n != 9 {
		t.Fatalf("got %d statements", n)
	}
	sw := p.tree.Switch(p.body()[2])
	if len(sw.Items) != 2 || p.tree.Switch(sw.Items[1]).Head.IsValid() {
		t.Errorf("switch cases = %+v", sw)
	}
	catch := p.tree.Pair(p.tree.Try(p.body()[3]).Handler)
	if p.tree.Kind(catch.A) != ast.ObjectPattern {
		t.Errorf("catch param = %v", p.tree.Kind(catch.A))
	}
	if p.tree.Pair(p.tree.Try(p.body()[4]).Handler).A.IsValid() {
		t.Error("optional catch binding produced a param")
	}
}

func TestRegexAndTemplates(t *testing.T) {
	p := parseClean(t, "x = /ab+c/gi.test(s);\ny = tag`a${b}c`;\nz = a / b / c;")
	call := p.tree.Call(p.tree.Assign(p.expr(t, 0)).Right)
	if obj := p.tree.Member(call.Callee).Object; p.tree.Literal(obj).Token != token.RegexLit {
		t.Errorf("regex literal token = %v", p.tree.Literal(obj).Token)
	}
	if k := p.tree.Kind(p.tree.Assign(p.expr(t, 1)).Right); k != ast.TaggedTemplateExpression {
		t.Errorf("tagged template = %v", k)
	}
	if k := p.tree.Kind(p.tree.Assign(p.expr(t, 2)).Right); k != ast.BinaryExpression {
		t.Errorf("division = %v", k)
	}
}

func TestRecoveryContinuesAfterError(t *testing.T) {
	p := parseSource(t, "a = ;\nb = 2;")
	if got := p.codes(); !slices.Equal(got, []diag.Code{diag.SynExpectExpression}) {
		t.Fatalf("codes = %v", got)
	}
	if len(p.body()) != 2 {
		t.Fatalf("got %d statements", len(p.body()))
	}
	second := p.tree.Assign(p.expr(t, 1))
	if p.text(second.Left) != "b" || p.text(second.Right) != "2" {
		t.Errorf("second statement = %q", p.text(p.body()[1]))
	}
}

func TestMissingSemicolonResyncs(t *testing.T) {
	p := parseSource(t, "a b;\nc = { x: 1 };")
	if got := p.codes(); !slices.Equal(got, []diag.Code{diag.SynExpectSemicolon}) {
		t.Fatalf("codes = %v", got)
	}
	last := p.body()[len(p.body())-1]
	if p.tree.Kind(p.tree.Assign(p.tree.Wrap(last).Inner).Right) != ast.ObjectExpression {
		t.Error("statement after the error was not parsed")
	}
}

func TestUnclosedDelimiterPointsAtOpener(t *testing.T) {
	p := parseSource(t, "x = { a: 1")
	items := p.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SynUnclosedDelimiter {
		t.Fatalf("codes = %v", p.codes())
	}
	if len(items[0].Notes) != 1 || p.file.Slice(items[0].Notes[0].Span) != "{" {
		t.Errorf("notes = %+v", items[0].Notes)
	}
	if p.tree.Kind(p.tree.Assign(p.expr(t, 0)).Right) != ast.ObjectExpression {
		t.Error("partial object was dropped")
	}
}

func TestInvalidAssignmentTarget(t *testing.T) {
	for _, src := range []string{"1 = 2;", "a + b = c;", "({ m() {} } = x);", "f()++;"} {
		t.Run(src, func(t *testing.T) {
			p := parseSource(t, src)
			if !slices.Contains(p.codes(), diag.SynInvalidAssignTarget) {
				t.Errorf("codes = %v", p.codes())
			}
		})
	}
}

func TestNestingLimit(t *testing.T) {
	src := "x = " + strings.Repeat("[", 5000) + strings.Repeat("]", 5000) + ";"
	p := parseSource(t, src)
	codes := p.codes()
	if !slices.Contains(codes, diag.SynTooDeep) {
		t.Fatalf("codes = %v", codes)
	}
	if len(codes) != 1 {
		t.Errorf("expected the depth error alone, got %v", codes)
	}
}

func TestMaxErrorsCapsReporting(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("e.js", []byte("a b;\nc d;\ne f;\ng h;")))
	bag := diag.NewBag(0)
	res := ParseFile(file, Options{MaxErrors: 2, Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 2 {
		t.Errorf("reported %d diagnostics, want 2", bag.Len())
	}
	if res.Errors != 4 {
		t.Errorf("Errors = %d, want 4", res.Errors)
	}
}

func TestTreeKeepsTokens(t *testing.T) {
	p := parseClean(t, "a  =  1;")
	if n := len(p.tree.Tokens); n != 5 {
		t.Fatalf("got %d tokens", n)
	}
	a := p.tree.Assign(p.expr(t, 0))
	between := p.tree.TokensBetween(p.tree.Span(a.Left).End, p.tree.Span(a.Right).Start)
	if len(between) != 1 || between[0].Kind != token.Assign {
		t.Errorf("tokens between = %v", between)
	}
}

func TestProgramSpanCoversFile(t *testing.T) {
	src := "// header\nx = 1;\n"
	p := parseClean(t, src)
	if sp := p.tree.Span(p.tree.Root); sp.Start != 0 || int(sp.End) != len(src) {
		t.Errorf("program span = %v", sp)
	}
}
