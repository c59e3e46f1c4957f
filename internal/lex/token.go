package lex

import (
	"fmt"

	"github.com/dekarrin/til/internal/span"
)

// Kind tags a Token's lexical class (spec §4.1).
type Kind int

const (
	EOF Kind = iota
	Illegal

	Ident
	IntLiteral
	RealLiteral
	VersionLiteral
	PathStringLiteral
	BoolLiteral
	DocBlock

	// declaration-head keywords
	KwNamespace
	KwType
	KwStreamlet
	KwInterface
	KwImpl
	KwImport

	// type constructor keywords
	KwNull
	KwBits
	KwGroup
	KwUnion
	KwStream

	// synchronicity keywords
	KwSync
	KwFlatten
	KwDesync
	KwFlatDesync

	// direction keywords
	KwForward
	KwReverse

	// port mode keywords
	KwIn
	KwOut

	// structural implementation keyword
	KwStruct

	// punctuation
	LBrace
	RBrace
	LParen
	RParen
	LAngle
	RAngle
	Comma
	Semicolon
	Colon
	At
	Dot

	// operators
	Connect    // --
	PathSep    // ::
	Declare    // =
	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // mod
	Eq         // ==
	Le         // <=
	Ge         // >=
)

var kindNames = map[Kind]string{
	EOF: "end of input", Illegal: "illegal character",
	Ident: "identifier", IntLiteral: "integer literal", RealLiteral: "real literal",
	VersionLiteral: "version literal", PathStringLiteral: "path string literal",
	BoolLiteral: "boolean literal", DocBlock: "documentation block",
	KwNamespace: "'namespace'", KwType: "'type'", KwStreamlet: "'streamlet'",
	KwInterface: "'interface'", KwImpl: "'impl'", KwImport: "'import'",
	KwNull: "'Null'", KwBits: "'Bits'", KwGroup: "'Group'", KwUnion: "'Union'", KwStream: "'Stream'",
	KwSync: "'Sync'", KwFlatten: "'Flatten'", KwDesync: "'Desync'", KwFlatDesync: "'FlatDesync'",
	KwForward: "'Forward'", KwReverse: "'Reverse'",
	KwIn: "'in'", KwOut: "'out'", KwStruct: "'struct'",
	LBrace: "'{'", RBrace: "'}'", LParen: "'('", RParen: "')'",
	LAngle: "'<'", RAngle: "'>'", Comma: "','", Semicolon: "';'", Colon: "':'",
	At: "'@'", Dot: "'.'",
	Connect: "'--'", PathSep: "'::'", Declare: "'='",
	Plus: "'+'", Minus: "'-'", Star: "'*'", Slash: "'/'", Percent: "'mod'",
	Eq: "'=='", Le: "'<='", Ge: "'>='",
}

// Human returns a reader-facing description of the kind, used in syntax
// error messages (e.g. "expected identifier, found ';'").
func (k Kind) Human() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) String() string {
	return k.Human()
}

// keywords maps reserved lexeme text to its keyword Kind. Identifiers that
// match an entry here are always lexed as the keyword, never as Ident (spec
// §8: "A declaration with name identical to a reserved keyword is rejected
// at lex/parse time").
var keywords = map[string]Kind{
	"namespace": KwNamespace, "type": KwType, "streamlet": KwStreamlet,
	"interface": KwInterface, "impl": KwImpl, "import": KwImport,
	"Null": KwNull, "Bits": KwBits, "Group": KwGroup, "Union": KwUnion, "Stream": KwStream,
	"Sync": KwSync, "Flatten": KwFlatten, "Desync": KwDesync, "FlatDesync": KwFlatDesync,
	"Forward": KwForward, "Reverse": KwReverse,
	"in": KwIn, "out": KwOut, "struct": KwStruct,
	"true": BoolLiteral, "false": BoolLiteral,
	"mod": Percent,
}

// Token is a single lexed token together with its source span (spec §4.1).
type Token struct {
	Kind   Kind
	Lexeme string
	Span   span.Span
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Lexeme, t.Span)
}
