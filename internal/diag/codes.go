package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005
	LexUnterminatedTemplate     Code = 1006
	LexUnterminatedRegex        Code = 1007

	// Syntax
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynUnclosedDelimiter   Code = 2002
	SynExpectSemicolon     Code = 2003
	SynExpectIdentifier    Code = 2004
	SynExpectExpression    Code = 2005
	SynExpectColon         Code = 2006
	SynInvalidAssignTarget Code = 2007
	SynForBadHeader        Code = 2008
	SynTooDeep             Code = 2009

	// Lint findings
	LintInfo          Code = 3000
	LintVerticalAlign Code = 3001
	LintUnknownRule   Code = 3002

	// Lint engine failures
	EngInfo           Code = 4000
	EngMalformedLines Code = 4001
	EngRulePanic      Code = 4002
	EngBadRuleOptions Code = 4003

	// I/O
	IOLoadFileError  Code = 5001
	IOWriteFileError Code = 5002
	IOCacheError     Code = 5003

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number",
		LexTokenTooLong:             "Token too long",
		LexUnterminatedTemplate:     "Unterminated template literal",
		LexUnterminatedRegex:        "Unterminated regular expression",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedDelimiter:        "Unclosed delimiter",
		SynExpectSemicolon:          "Expect semicolon",
		SynExpectIdentifier:         "Expect identifier",
		SynExpectExpression:         "Expect expression",
		SynExpectColon:              "Expect colon",
		SynInvalidAssignTarget:      "Invalid assignment target",
		SynForBadHeader:             "Malformed for-loop header",
		SynTooDeep:                  "Nesting too deep",
		LintInfo:                    "Lint information",
		LintVerticalAlign:           "Vertical alignment",
		LintUnknownRule:             "Unknown rule",
		EngInfo:                     "Engine information",
		EngMalformedLines:           "Malformed line table",
		EngRulePanic:                "Rule crashed",
		EngBadRuleOptions:           "Invalid rule options",
		IOLoadFileError:             "I/O load file error",
		IOWriteFileError:            "I/O write file error",
		IOCacheError:                "Cache error",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 5000:
		return fmt.Sprintf("LNT%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// IsFinding reports whether the code belongs to a lint rule rather than
// to the front end or the engine.
func (c Code) IsFinding() bool {
	return c >= LintInfo && c < EngInfo
}
