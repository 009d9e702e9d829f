package ast

// Kind identifies a node type. Names follow ESTree so rule authors can
// reuse listener names from other JavaScript tooling.
type Kind uint8

const (
	Invalid Kind = iota
	Program

	// statements
	BlockStatement
	ExpressionStatement
	EmptyStatement
	DebuggerStatement
	VariableDeclaration
	VariableDeclarator
	FunctionDeclaration
	ClassDeclaration
	ReturnStatement
	ThrowStatement
	IfStatement
	ForStatement
	ForInStatement
	ForOfStatement
	WhileStatement
	DoWhileStatement
	BreakStatement
	ContinueStatement
	LabeledStatement
	WithStatement
	TryStatement
	CatchClause
	SwitchStatement
	SwitchCase
	ImportDeclaration
	ImportSpecifier
	ImportDefaultSpecifier
	ImportNamespaceSpecifier
	ExportNamedDeclaration
	ExportDefaultDeclaration
	ExportAllDeclaration
	ExportSpecifier

	// expressions
	Identifier
	PrivateIdentifier
	Literal
	TemplateLiteral
	TaggedTemplateExpression
	ThisExpression
	Super
	ArrayExpression
	ObjectExpression
	Property
	SpreadElement
	FunctionExpression
	ArrowFunctionExpression
	ClassExpression
	ClassBody
	MethodDefinition
	PropertyDefinition
	StaticBlock
	UnaryExpression
	UpdateExpression
	BinaryExpression
	LogicalExpression
	AssignmentExpression
	ConditionalExpression
	CallExpression
	NewExpression
	MemberExpression
	ChainExpression
	SequenceExpression
	YieldExpression
	AwaitExpression
	MetaProperty
	ImportExpression

	// patterns
	ObjectPattern
	ArrayPattern
	RestElement
	AssignmentPattern

	kindCount
)

// shape says which payload arena a kind uses.
type shape uint8

const (
	shapeNone shape = iota
	shapeList
	shapeIdent
	shapeLiteral
	shapeProperty
	shapeAssign
	shapeBinary
	shapeUnary
	shapeWrap
	shapePair
	shapeCall
	shapeMember
	shapeCond
	shapeFunc
	shapeClass
	shapeVarDecl
	shapeLoop
	shapeTry
	shapeSwitch
	shapeModule
)

var kindInfo = [kindCount]struct {
	name  string
	shape shape
}{
	Invalid:                  {"Invalid", shapeNone},
	Program:                  {"Program", shapeList},
	BlockStatement:           {"BlockStatement", shapeList},
	ExpressionStatement:      {"ExpressionStatement", shapeWrap},
	EmptyStatement:           {"EmptyStatement", shapeNone},
	DebuggerStatement:        {"DebuggerStatement", shapeNone},
	VariableDeclaration:      {"VariableDeclaration", shapeVarDecl},
	VariableDeclarator:       {"VariableDeclarator", shapePair},
	FunctionDeclaration:      {"FunctionDeclaration", shapeFunc},
	ClassDeclaration:         {"ClassDeclaration", shapeClass},
	ReturnStatement:          {"ReturnStatement", shapeWrap},
	ThrowStatement:           {"ThrowStatement", shapeWrap},
	IfStatement:              {"IfStatement", shapeCond},
	ForStatement:             {"ForStatement", shapeLoop},
	ForInStatement:           {"ForInStatement", shapeLoop},
	ForOfStatement:           {"ForOfStatement", shapeLoop},
	WhileStatement:           {"WhileStatement", shapePair},
	DoWhileStatement:         {"DoWhileStatement", shapePair},
	BreakStatement:           {"BreakStatement", shapeWrap},
	ContinueStatement:        {"ContinueStatement", shapeWrap},
	LabeledStatement:         {"LabeledStatement", shapePair},
	WithStatement:            {"WithStatement", shapePair},
	TryStatement:             {"TryStatement", shapeTry},
	CatchClause:              {"CatchClause", shapePair},
	SwitchStatement:          {"SwitchStatement", shapeSwitch},
	SwitchCase:               {"SwitchCase", shapeSwitch},
	ImportDeclaration:        {"ImportDeclaration", shapeModule},
	ImportSpecifier:          {"ImportSpecifier", shapePair},
	ImportDefaultSpecifier:   {"ImportDefaultSpecifier", shapeWrap},
	ImportNamespaceSpecifier: {"ImportNamespaceSpecifier", shapeWrap},
	ExportNamedDeclaration:   {"ExportNamedDeclaration", shapeModule},
	ExportDefaultDeclaration: {"ExportDefaultDeclaration", shapeWrap},
	ExportAllDeclaration:     {"ExportAllDeclaration", shapeModule},
	ExportSpecifier:          {"ExportSpecifier", shapePair},
	Identifier:               {"Identifier", shapeIdent},
	PrivateIdentifier:        {"PrivateIdentifier", shapeIdent},
	Literal:                  {"Literal", shapeLiteral},
	TemplateLiteral:          {"TemplateLiteral", shapeLiteral},
	TaggedTemplateExpression: {"TaggedTemplateExpression", shapePair},
	ThisExpression:           {"ThisExpression", shapeNone},
	Super:                    {"Super", shapeNone},
	ArrayExpression:          {"ArrayExpression", shapeList},
	ObjectExpression:         {"ObjectExpression", shapeList},
	Property:                 {"Property", shapeProperty},
	SpreadElement:            {"SpreadElement", shapeWrap},
	FunctionExpression:       {"FunctionExpression", shapeFunc},
	ArrowFunctionExpression:  {"ArrowFunctionExpression", shapeFunc},
	ClassExpression:          {"ClassExpression", shapeClass},
	ClassBody:                {"ClassBody", shapeList},
	MethodDefinition:         {"MethodDefinition", shapeProperty},
	PropertyDefinition:       {"PropertyDefinition", shapeProperty},
	StaticBlock:              {"StaticBlock", shapeList},
	UnaryExpression:          {"UnaryExpression", shapeUnary},
	UpdateExpression:         {"UpdateExpression", shapeUnary},
	BinaryExpression:         {"BinaryExpression", shapeBinary},
	LogicalExpression:        {"LogicalExpression", shapeBinary},
	AssignmentExpression:     {"AssignmentExpression", shapeAssign},
	ConditionalExpression:    {"ConditionalExpression", shapeCond},
	CallExpression:           {"CallExpression", shapeCall},
	NewExpression:            {"NewExpression", shapeCall},
	MemberExpression:         {"MemberExpression", shapeMember},
	ChainExpression:          {"ChainExpression", shapeWrap},
	SequenceExpression:       {"SequenceExpression", shapeList},
	YieldExpression:          {"YieldExpression", shapeWrap},
	AwaitExpression:          {"AwaitExpression", shapeWrap},
	MetaProperty:             {"MetaProperty", shapePair},
	ImportExpression:         {"ImportExpression", shapeWrap},
	ObjectPattern:            {"ObjectPattern", shapeList},
	ArrayPattern:             {"ArrayPattern", shapeList},
	RestElement:              {"RestElement", shapeWrap},
	AssignmentPattern:        {"AssignmentPattern", shapeAssign},
}

func (k Kind) String() string {
	if k < kindCount && kindInfo[k].name != "" {
		return kindInfo[k].name
	}
	return "Kind(?)"
}

func (k Kind) shape() shape {
	if k >= kindCount {
		return shapeNone
	}
	return kindInfo[k].shape
}

// ParseKind resolves an ESTree node type name.
func ParseKind(name string) (Kind, bool) {
	for k := Kind(1); k < kindCount; k++ {
		if kindInfo[k].name == name {
			return k, true
		}
	}
	return Invalid, false
}

// IsPattern reports whether the kind is a binding or assignment pattern.
func (k Kind) IsPattern() bool {
	return k >= ObjectPattern && k <= AssignmentPattern
}

// IsFunction reports whether the kind is any function form.
func (k Kind) IsFunction() bool {
	return k == FunctionDeclaration || k == FunctionExpression || k == ArrowFunctionExpression
}
