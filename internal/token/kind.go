package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token (plain, `escaped` or $0-style).
	Ident
	IntLit
	FloatLit
	StringLit

	// Declaration keywords.
	KwProtocol       // protocol
	KwClass          // class
	KwStruct         // struct
	KwEnum           // enum
	KwExtension      // extension
	KwFunc           // func
	KwVar            // var
	KwLet            // let
	KwInit           // init
	KwDeinit         // deinit
	KwSubscript      // subscript
	KwTypealias      // typealias
	KwAssociatedtype // associatedtype
	KwImport         // import
	KwCase           // case
	KwOperator       // operator

	// Keywords that appear inside declaration headers.
	KwThrows   // throws
	KwRethrows // rethrows
	KwInout    // inout
	KwWhere    // where

	// Punctuation.
	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
	LBracket   // [
	RBracket   // ]
	Lt         // <
	Gt         // >
	Comma      // ,
	Colon      // :
	Semicolon  // ;
	Dot        // .
	Ellipsis   // ...
	HalfOpen   // ..<
	Question   // ?
	Bang       // !
	Arrow      // ->
	At         // @
	Assign     // =
	Amp        // &
	Hash       // #
	Backslash  // \
	Underscore // _
	// Operator is any other single operator character (+ - * / % | ^ ~).
	Operator
)

var kindNames = [...]string{
	Invalid:          "Invalid",
	EOF:              "EOF",
	Ident:            "Ident",
	IntLit:           "IntLit",
	FloatLit:         "FloatLit",
	StringLit:        "StringLit",
	KwProtocol:       "protocol",
	KwClass:          "class",
	KwStruct:         "struct",
	KwEnum:           "enum",
	KwExtension:      "extension",
	KwFunc:           "func",
	KwVar:            "var",
	KwLet:            "let",
	KwInit:           "init",
	KwDeinit:         "deinit",
	KwSubscript:      "subscript",
	KwTypealias:      "typealias",
	KwAssociatedtype: "associatedtype",
	KwImport:         "import",
	KwCase:           "case",
	KwOperator:       "operator",
	KwThrows:         "throws",
	KwRethrows:       "rethrows",
	KwInout:          "inout",
	KwWhere:          "where",
	LParen:           "(",
	RParen:           ")",
	LBrace:           "{",
	RBrace:           "}",
	LBracket:         "[",
	RBracket:         "]",
	Lt:               "<",
	Gt:               ">",
	Comma:            ",",
	Colon:            ":",
	Semicolon:        ";",
	Dot:              ".",
	Ellipsis:         "...",
	HalfOpen:         "..<",
	Question:         "?",
	Bang:             "!",
	Arrow:            "->",
	At:               "@",
	Assign:           "=",
	Amp:              "&",
	Hash:             "#",
	Backslash:        "\\",
	Underscore:       "_",
	Operator:         "Operator",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsTypeDeclKeyword reports whether k opens a nominal type declaration.
func (k Kind) IsTypeDeclKeyword() bool {
	switch k {
	case KwProtocol, KwClass, KwStruct, KwEnum, KwExtension:
		return true
	default:
		return false
	}
}

// IsMemberKeyword reports whether k opens a member declaration.
func (k Kind) IsMemberKeyword() bool {
	switch k {
	case KwFunc, KwVar, KwLet, KwInit, KwDeinit, KwSubscript, KwTypealias, KwAssociatedtype, KwCase:
		return true
	default:
		return false
	}
}
