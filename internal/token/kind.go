package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token, including contextual words
	// such as async, get, set, of, static.
	Ident
	// PrivateName represents a class private name (#field).
	PrivateName

	KwBreak      // break
	KwCase       // case
	KwCatch      // catch
	KwClass      // class
	KwConst      // const
	KwContinue   // continue
	KwDebugger   // debugger
	KwDefault    // default
	KwDelete     // delete
	KwDo         // do
	KwElse       // else
	KwExport     // export
	KwExtends    // extends
	KwFinally    // finally
	KwFor        // for
	KwFunction   // function
	KwIf         // if
	KwImport     // import
	KwIn         // in
	KwInstanceof // instanceof
	KwLet        // let
	KwNew        // new
	KwReturn     // return
	KwSuper      // super
	KwSwitch     // switch
	KwThis       // this
	KwThrow      // throw
	KwTry        // try
	KwTypeof     // typeof
	KwVar        // var
	KwVoid       // void
	KwWhile      // while
	KwWith       // with
	KwYield      // yield
	KwAwait      // await
	KwNull       // null
	KwTrue       // true
	KwFalse      // false

	NumberLit   // 1, 0x1f, 1e3, 1_000
	BigIntLit   // 10n
	StringLit   // 'a' "a"
	TemplateLit // `a ${b}`
	RegexLit    // /re/g

	LBrace          // {
	RBrace          // }
	LParen          // (
	RParen          // )
	LBracket        // [
	RBracket        // ]
	Dot             // .
	DotDotDot       // ...
	Semicolon       // ;
	Comma           // ,
	Lt              // <
	Gt              // >
	LtEq            // <=
	GtEq            // >=
	EqEq            // ==
	BangEq          // !=
	EqEqEq          // ===
	BangEqEq        // !==
	Plus            // +
	Minus           // -
	Star            // *
	Slash           // /
	Percent         // %
	StarStar        // **
	PlusPlus        // ++
	MinusMinus      // --
	Shl             // <<
	Shr             // >>
	UShr            // >>>
	Amp             // &
	Pipe            // |
	Caret           // ^
	Bang            // !
	Tilde           // ~
	AndAnd          // &&
	OrOr            // ||
	QuestionQ       // ??
	Question        // ?
	QuestionDot     // ?.
	Colon           // :
	Assign          // =
	PlusAssign      // +=
	MinusAssign     // -=
	StarAssign      // *=
	SlashAssign     // /=
	PercentAssign   // %=
	StarStarAssign  // **=
	ShlAssign       // <<=
	ShrAssign       // >>=
	UShrAssign      // >>>=
	AmpAssign       // &=
	PipeAssign      // |=
	CaretAssign     // ^=
	AndAndAssign    // &&=
	OrOrAssign      // ||=
	QuestionQAssign // ??=
	FatArrow        // =>
	At              // @

	kindCount
)

var kindNames = [kindCount]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	PrivateName: "PrivateName",

	KwBreak:      "break",
	KwCase:       "case",
	KwCatch:      "catch",
	KwClass:      "class",
	KwConst:      "const",
	KwContinue:   "continue",
	KwDebugger:   "debugger",
	KwDefault:    "default",
	KwDelete:     "delete",
	KwDo:         "do",
	KwElse:       "else",
	KwExport:     "export",
	KwExtends:    "extends",
	KwFinally:    "finally",
	KwFor:        "for",
	KwFunction:   "function",
	KwIf:         "if",
	KwImport:     "import",
	KwIn:         "in",
	KwInstanceof: "instanceof",
	KwLet:        "let",
	KwNew:        "new",
	KwReturn:     "return",
	KwSuper:      "super",
	KwSwitch:     "switch",
	KwThis:       "this",
	KwThrow:      "throw",
	KwTry:        "try",
	KwTypeof:     "typeof",
	KwVar:        "var",
	KwVoid:       "void",
	KwWhile:      "while",
	KwWith:       "with",
	KwYield:      "yield",
	KwAwait:      "await",
	KwNull:       "null",
	KwTrue:       "true",
	KwFalse:      "false",

	NumberLit:   "NumberLit",
	BigIntLit:   "BigIntLit",
	StringLit:   "StringLit",
	TemplateLit: "TemplateLit",
	RegexLit:    "RegexLit",

	LBrace:          "{",
	RBrace:          "}",
	LParen:          "(",
	RParen:          ")",
	LBracket:        "[",
	RBracket:        "]",
	Dot:             ".",
	DotDotDot:       "...",
	Semicolon:       ";",
	Comma:           ",",
	Lt:              "<",
	Gt:              ">",
	LtEq:            "<=",
	GtEq:            ">=",
	EqEq:            "==",
	BangEq:          "!=",
	EqEqEq:          "===",
	BangEqEq:        "!==",
	Plus:            "+",
	Minus:           "-",
	Star:            "*",
	Slash:           "/",
	Percent:         "%",
	StarStar:        "**",
	PlusPlus:        "++",
	MinusMinus:      "--",
	Shl:             "<<",
	Shr:             ">>",
	UShr:            ">>>",
	Amp:             "&",
	Pipe:            "|",
	Caret:           "^",
	Bang:            "!",
	Tilde:           "~",
	AndAnd:          "&&",
	OrOr:            "||",
	QuestionQ:       "??",
	Question:        "?",
	QuestionDot:     "?.",
	Colon:           ":",
	Assign:          "=",
	PlusAssign:      "+=",
	MinusAssign:     "-=",
	StarAssign:      "*=",
	SlashAssign:     "/=",
	PercentAssign:   "%=",
	StarStarAssign:  "**=",
	ShlAssign:       "<<=",
	ShrAssign:       ">>=",
	UShrAssign:      ">>>=",
	AmpAssign:       "&=",
	PipeAssign:      "|=",
	CaretAssign:     "^=",
	AndAndAssign:    "&&=",
	OrOrAssign:      "||=",
	QuestionQAssign: "??=",
	FatArrow:        "=>",
	At:              "@",
}

func (k Kind) String() string {
	if k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsAssignOp reports whether k is "=" or a compound assignment operator.
func (k Kind) IsAssignOp() bool {
	return k >= Assign && k <= QuestionQAssign
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwBreak && k <= KwFalse
}
