package ast

import (
	"fmt"

	"valign/internal/source"
	"valign/internal/token"
)

// Tree owns every node of one parsed file plus the token stream it was
// built from.
type Tree struct {
	File   source.FileID
	Root   NodeID
	Tokens []token.Token

	Nodes      *Arena[Node]
	Lists      *Arena[ListData]
	Idents     *Arena[IdentData]
	Literals   *Arena[LiteralData]
	Properties *Arena[PropertyData]
	Assigns    *Arena[AssignData]
	Binaries   *Arena[BinaryData]
	Unaries    *Arena[UnaryData]
	Wraps      *Arena[WrapData]
	Pairs      *Arena[PairData]
	Calls      *Arena[CallData]
	Members    *Arena[MemberData]
	Conds      *Arena[CondData]
	Funcs      *Arena[FuncData]
	Classes    *Arena[ClassData]
	VarDecls   *Arena[VarDeclData]
	Loops      *Arena[LoopData]
	Tries      *Arena[TryData]
	Switches   *Arena[SwitchData]
	Modules    *Arena[ModuleData]
}

// NewTree allocates a tree sized for roughly capHint nodes.
func NewTree(file source.FileID, capHint uint) *Tree {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/8 + 1
	return &Tree{
		File:       file,
		Nodes:      NewArena[Node](capHint),
		Lists:      NewArena[ListData](small),
		Idents:     NewArena[IdentData](capHint / 2),
		Literals:   NewArena[LiteralData](small),
		Properties: NewArena[PropertyData](small),
		Assigns:    NewArena[AssignData](small),
		Binaries:   NewArena[BinaryData](small),
		Unaries:    NewArena[UnaryData](small),
		Wraps:      NewArena[WrapData](small),
		Pairs:      NewArena[PairData](small),
		Calls:      NewArena[CallData](small),
		Members:    NewArena[MemberData](small),
		Conds:      NewArena[CondData](small),
		Funcs:      NewArena[FuncData](small),
		Classes:    NewArena[ClassData](small),
		VarDecls:   NewArena[VarDeclData](small),
		Loops:      NewArena[LoopData](small),
		Tries:      NewArena[TryData](small),
		Switches:   NewArena[SwitchData](small),
		Modules:    NewArena[ModuleData](small),
	}
}

func mustShape(kind Kind, want shape) {
	if kind.shape() != want {
		panic(fmt.Errorf("ast: %s cannot carry payload shape %d", kind, want))
	}
}

func (t *Tree) newNode(kind Kind, span source.Span, payload uint32) NodeID {
	return NodeID(t.Nodes.Allocate(Node{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

// Get returns the node header, or nil for NoNodeID.
func (t *Tree) Get(id NodeID) *Node {
	return t.Nodes.Get(uint32(id))
}

// Kind returns the node kind, Invalid for NoNodeID.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Get(id); n != nil {
		return n.Kind
	}
	return Invalid
}

// Span returns the node span, zero for NoNodeID.
func (t *Tree) Span(id NodeID) source.Span {
	if n := t.Get(id); n != nil {
		return n.Span
	}
	return source.Span{}
}

// SetSpan widens or narrows a node after construction.
func (t *Tree) SetSpan(id NodeID, sp source.Span) {
	if n := t.Get(id); n != nil {
		n.Span = sp
	}
}

// Retag changes the kind of a node whose payload shape stays the same.
// The parser uses it to turn expressions into patterns.
func (t *Tree) Retag(id NodeID, kind Kind) bool {
	n := t.Get(id)
	if n == nil || n.Kind.shape() != kind.shape() {
		return false
	}
	n.Kind = kind
	return true
}

func payload[T any](t *Tree, id NodeID, want shape, arena *Arena[T]) *T {
	n := t.Get(id)
	if n == nil || n.Kind.shape() != want {
		return nil
	}
	return arena.Get(uint32(n.Payload))
}

func (t *Tree) NewLeaf(kind Kind, sp source.Span) NodeID {
	mustShape(kind, shapeNone)
	return t.newNode(kind, sp, 0)
}

func (t *Tree) NewList(kind Kind, sp source.Span, items []NodeID) NodeID {
	mustShape(kind, shapeList)
	return t.newNode(kind, sp, t.Lists.Allocate(ListData{Items: items}))
}

func (t *Tree) NewIdent(kind Kind, sp source.Span, name string) NodeID {
	mustShape(kind, shapeIdent)
	return t.newNode(kind, sp, t.Idents.Allocate(IdentData{Name: name}))
}

func (t *Tree) NewLiteral(kind Kind, sp source.Span, tok token.Kind, raw string) NodeID {
	mustShape(kind, shapeLiteral)
	return t.newNode(kind, sp, t.Literals.Allocate(LiteralData{Token: tok, Raw: raw}))
}

func (t *Tree) NewProperty(kind Kind, sp source.Span, d PropertyData) NodeID {
	mustShape(kind, shapeProperty)
	return t.newNode(kind, sp, t.Properties.Allocate(d))
}

func (t *Tree) NewAssign(kind Kind, sp source.Span, d AssignData) NodeID {
	mustShape(kind, shapeAssign)
	return t.newNode(kind, sp, t.Assigns.Allocate(d))
}

func (t *Tree) NewBinary(kind Kind, sp source.Span, d BinaryData) NodeID {
	mustShape(kind, shapeBinary)
	return t.newNode(kind, sp, t.Binaries.Allocate(d))
}

func (t *Tree) NewUnary(kind Kind, sp source.Span, d UnaryData) NodeID {
	mustShape(kind, shapeUnary)
	return t.newNode(kind, sp, t.Unaries.Allocate(d))
}

func (t *Tree) NewWrap(kind Kind, sp source.Span, inner NodeID, flag bool) NodeID {
	mustShape(kind, shapeWrap)
	return t.newNode(kind, sp, t.Wraps.Allocate(WrapData{Inner: inner, Flag: flag}))
}

func (t *Tree) NewPair(kind Kind, sp source.Span, a, b NodeID) NodeID {
	mustShape(kind, shapePair)
	return t.newNode(kind, sp, t.Pairs.Allocate(PairData{A: a, B: b}))
}

func (t *Tree) NewCall(kind Kind, sp source.Span, d CallData) NodeID {
	mustShape(kind, shapeCall)
	return t.newNode(kind, sp, t.Calls.Allocate(d))
}

func (t *Tree) NewMember(sp source.Span, d MemberData) NodeID {
	return t.newNode(MemberExpression, sp, t.Members.Allocate(d))
}

func (t *Tree) NewCond(kind Kind, sp source.Span, d CondData) NodeID {
	mustShape(kind, shapeCond)
	return t.newNode(kind, sp, t.Conds.Allocate(d))
}

func (t *Tree) NewFunc(kind Kind, sp source.Span, d FuncData) NodeID {
	mustShape(kind, shapeFunc)
	return t.newNode(kind, sp, t.Funcs.Allocate(d))
}

func (t *Tree) NewClass(kind Kind, sp source.Span, d ClassData) NodeID {
	mustShape(kind, shapeClass)
	return t.newNode(kind, sp, t.Classes.Allocate(d))
}

func (t *Tree) NewVarDecl(sp source.Span, d VarDeclData) NodeID {
	return t.newNode(VariableDeclaration, sp, t.VarDecls.Allocate(d))
}

func (t *Tree) NewLoop(kind Kind, sp source.Span, d LoopData) NodeID {
	mustShape(kind, shapeLoop)
	return t.newNode(kind, sp, t.Loops.Allocate(d))
}

func (t *Tree) NewTry(sp source.Span, d TryData) NodeID {
	return t.newNode(TryStatement, sp, t.Tries.Allocate(d))
}

func (t *Tree) NewSwitch(kind Kind, sp source.Span, d SwitchData) NodeID {
	mustShape(kind, shapeSwitch)
	return t.newNode(kind, sp, t.Switches.Allocate(d))
}

func (t *Tree) NewModule(kind Kind, sp source.Span, d ModuleData) NodeID {
	mustShape(kind, shapeModule)
	return t.newNode(kind, sp, t.Modules.Allocate(d))
}

// Typed payload accessors return nil when id has a different shape.

func (t *Tree) List(id NodeID) *ListData       { return payload(t, id, shapeList, t.Lists) }
func (t *Tree) Ident(id NodeID) *IdentData     { return payload(t, id, shapeIdent, t.Idents) }
func (t *Tree) Literal(id NodeID) *LiteralData { return payload(t, id, shapeLiteral, t.Literals) }
func (t *Tree) Property(id NodeID) *PropertyData {
	return payload(t, id, shapeProperty, t.Properties)
}
func (t *Tree) Assign(id NodeID) *AssignData   { return payload(t, id, shapeAssign, t.Assigns) }
func (t *Tree) Binary(id NodeID) *BinaryData   { return payload(t, id, shapeBinary, t.Binaries) }
func (t *Tree) Unary(id NodeID) *UnaryData     { return payload(t, id, shapeUnary, t.Unaries) }
func (t *Tree) Wrap(id NodeID) *WrapData       { return payload(t, id, shapeWrap, t.Wraps) }
func (t *Tree) Pair(id NodeID) *PairData       { return payload(t, id, shapePair, t.Pairs) }
func (t *Tree) Call(id NodeID) *CallData       { return payload(t, id, shapeCall, t.Calls) }
func (t *Tree) Member(id NodeID) *MemberData   { return payload(t, id, shapeMember, t.Members) }
func (t *Tree) Cond(id NodeID) *CondData       { return payload(t, id, shapeCond, t.Conds) }
func (t *Tree) Func(id NodeID) *FuncData       { return payload(t, id, shapeFunc, t.Funcs) }
func (t *Tree) Class(id NodeID) *ClassData     { return payload(t, id, shapeClass, t.Classes) }
func (t *Tree) VarDecl(id NodeID) *VarDeclData { return payload(t, id, shapeVarDecl, t.VarDecls) }
func (t *Tree) Loop(id NodeID) *LoopData       { return payload(t, id, shapeLoop, t.Loops) }
func (t *Tree) Try(id NodeID) *TryData         { return payload(t, id, shapeTry, t.Tries) }
func (t *Tree) Switch(id NodeID) *SwitchData   { return payload(t, id, shapeSwitch, t.Switches) }
func (t *Tree) Module(id NodeID) *ModuleData   { return payload(t, id, shapeModule, t.Modules) }

// Name returns the identifier name of id, or "" for other nodes.
func (t *Tree) Name(id NodeID) string {
	if d := t.Ident(id); d != nil {
		return d.Name
	}
	return ""
}

// Len returns the number of allocated nodes.
func (t *Tree) Len() int {
	return int(t.Nodes.Len())
}
