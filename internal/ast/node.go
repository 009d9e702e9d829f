package ast

import (
	"valign/internal/source"
	"valign/internal/token"
)

// Node is the common header of every syntax node.
// Payload indexes the arena selected by Kind's shape.
type Node struct {
	Kind    Kind
	Span    source.Span
	Payload PayloadID
}

// ListData holds ordered children: program and block bodies, object and
// array members (holes are NoNodeID), sequence expressions, class bodies.
type ListData struct {
	Items []NodeID
}

type IdentData struct {
	Name string
}

// LiteralData keeps the raw source text of a literal or template.
type LiteralData struct {
	Token token.Kind
	Raw   string
}

// PropKind distinguishes plain properties from accessors and constructors.
type PropKind uint8

const (
	PropInit PropKind = iota
	PropGet
	PropSet
	PropMethod
	PropConstructor
)

func (k PropKind) String() string {
	switch k {
	case PropGet:
		return "get"
	case PropSet:
		return "set"
	case PropMethod:
		return "method"
	case PropConstructor:
		return "constructor"
	default:
		return "init"
	}
}

// PropertyData backs Property, MethodDefinition and PropertyDefinition.
// Value is NoNodeID for class fields without an initializer. Shorthand
// properties reuse Key as Value; shorthand patterns with a default have
// an AssignmentPattern value whose left side is Key.
type PropertyData struct {
	Key       NodeID
	Value     NodeID
	Kind      PropKind
	Computed  bool
	Shorthand bool
	Method    bool
	Static    bool
}

// AssignData backs AssignmentExpression and AssignmentPattern.
// OpSpan locates the operator token.
type AssignData struct {
	Op     token.Kind
	Left   NodeID
	Right  NodeID
	OpSpan source.Span
}

type BinaryData struct {
	Op    token.Kind
	Left  NodeID
	Right NodeID
}

// UnaryData backs UnaryExpression and UpdateExpression.
// Op is a keyword kind for typeof, void and delete.
type UnaryData struct {
	Op     token.Kind
	Prefix bool
	Arg    NodeID
}

// WrapData is a node with a single optional child and a flag:
// statement expressions, return/throw arguments, spread and rest
// elements, await, yield (Flag = delegate), break/continue labels.
type WrapData struct {
	Inner NodeID
	Flag  bool
}

// PairData is a node with two children. The meaning depends on Kind:
// VariableDeclarator (id, init), WhileStatement (test, body),
// DoWhileStatement (body, test), LabeledStatement (label, body),
// CatchClause (param, body), TaggedTemplateExpression (tag, quasi),
// MetaProperty (meta, property), Import/ExportSpecifier (name, alias).
// All pairs are stored in source order.
type PairData struct {
	A NodeID
	B NodeID
}

// CallData backs CallExpression and NewExpression.
type CallData struct {
	Callee   NodeID
	Args     []NodeID
	Optional bool
}

type MemberData struct {
	Object   NodeID
	Property NodeID
	Computed bool
	Optional bool
}

// CondData backs ConditionalExpression and IfStatement (Alt may be none).
type CondData struct {
	Test NodeID
	Cons NodeID
	Alt  NodeID
}

// FuncData backs all function forms. ExprBody marks arrows with a
// concise body.
type FuncData struct {
	ID        NodeID
	Params    []NodeID
	Body      NodeID
	Async     bool
	Generator bool
	ExprBody  bool
}

type ClassData struct {
	ID    NodeID
	Super NodeID
	Body  NodeID
}

type VarDeclData struct {
	Kind  token.Kind // KwVar, KwLet or KwConst
	Decls []NodeID
}

// LoopData backs for, for-in and for-of. For-in/of use Init as the left
// side and Test as the right side.
type LoopData struct {
	Init   NodeID
	Test   NodeID
	Update NodeID
	Body   NodeID
	Await  bool
}

type TryData struct {
	Block     NodeID
	Handler   NodeID
	Finalizer NodeID
}

// SwitchData backs SwitchStatement (Head = discriminant, Items = cases)
// and SwitchCase (Head = test or none for default, Items = consequent).
type SwitchData struct {
	Head  NodeID
	Items []NodeID
}

// ModuleData backs import and export declarations.
type ModuleData struct {
	Decl       NodeID
	Specifiers []NodeID
	Source     NodeID
}
