package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Парсерные: все восстановимые, дерево строится всегда
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynExpectName          Code = 2002
	SynExpectLBrace        Code = 2003
	SynExpectRBrace        Code = 2004
	SynExpectInheritedType Code = 2005
	SynExpectType          Code = 2006
	SynExpectRParen        Code = 2007
	SynExpectRBracket      Code = 2008
	SynExpectRAngle        Code = 2009
	SynExpectColon         Code = 2010
	SynExpectReturnType    Code = 2011
	SynSkippedTokens       Code = 2012
	SynExpectLParen        Code = 2013

	// Семантические (резолв алиасов)
	SemInfo           Code = 3000
	SemAliasCycle     Code = 3001
	SemAliasMalformed Code = 3002
	SemAliasDuplicate Code = 3003
	SemTypeNotFound   Code = 3004

	// I/O
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// Конфигурация
	CfgInfo           Code = 5000
	CfgInvalidPattern Code = 5001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Malformed number literal",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynExpectName:               "Missing declaration name",
		SynExpectLBrace:             "Missing '{'",
		SynExpectRBrace:             "Missing '}'",
		SynExpectInheritedType:      "Missing inherited type",
		SynExpectType:               "Missing type",
		SynExpectRParen:             "Missing ')'",
		SynExpectRBracket:           "Missing ']'",
		SynExpectRAngle:             "Missing '>'",
		SynExpectColon:              "Missing ':'",
		SynExpectReturnType:         "Missing return type after '->'",
		SynSkippedTokens:            "Skipped unrecognised tokens",
		SynExpectLParen:             "Missing '('",
		SemInfo:                     "Semantic information",
		SemAliasCycle:               "Type alias forms a cycle",
		SemAliasMalformed:           "Type alias target could not be parsed",
		SemAliasDuplicate:           "Type alias declared more than once",
		SemTypeNotFound:             "Requested type declaration not found",
		IOLoadFileError:             "Failed to load file",
		IOCacheError:                "Cache read/write failed",
		CfgInfo:                     "Configuration information",
		CfgInvalidPattern:           "Invalid glob pattern",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
