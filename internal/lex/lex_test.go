package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func kindsOf(toks []Token) []Kind {
	kinds := make([]Kind, len(toks))
	for i, t := range toks {
		kinds[i] = t.Kind
	}
	return kinds
}

func Test_Lex_tokenKindSequence(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []Kind
	}{
		{name: "empty", input: "", expect: []Kind{EOF}},
		{name: "namespace keyword", input: "namespace", expect: []Kind{KwNamespace, EOF}},
		{name: "ident not a keyword prefix", input: "namespaced", expect: []Kind{Ident, EOF}},
		{name: "int literal", input: "42", expect: []Kind{IntLiteral, EOF}},
		{name: "real literal", input: "1.0", expect: []Kind{RealLiteral, EOF}},
		{name: "version literal", input: "1.0.3", expect: []Kind{VersionLiteral, EOF}},
		{name: "bits type decl", input: "Bits(4)", expect: []Kind{KwBits, LParen, IntLiteral, RParen, EOF}},
		{name: "connection operator not two minuses", input: "a -- b", expect: []Kind{Ident, Connect, Ident, EOF}},
		{name: "minus then ident", input: "a - b", expect: []Kind{Ident, Minus, Ident, EOF}},
		{name: "path separator", input: "a::b", expect: []Kind{Ident, PathSep, Ident, EOF}},
		{name: "colon alone", input: "a:b", expect: []Kind{Ident, Colon, Ident, EOF}},
		{name: "comparison operators", input: "<= >= == < >", expect: []Kind{Le, Ge, Eq, LAngle, RAngle, EOF}},
		{name: "line comment skipped", input: "a // comment\nb", expect: []Kind{Ident, Ident, EOF}},
		{name: "doc block", input: "#hello#type", expect: []Kind{DocBlock, KwType, EOF}},
		{name: "path string literal", input: `"./foo/bar.vhd"`, expect: []Kind{PathStringLiteral, EOF}},
		{name: "mod keyword maps to percent", input: "a mod b", expect: []Kind{Ident, Percent, Ident, EOF}},
		{name: "boolean literals", input: "true false", expect: []Kind{BoolLiteral, BoolLiteral, EOF}},
		{name: "illegal character", input: "a $ b", expect: []Kind{Ident, Illegal, Ident, EOF}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			l := New("test.til", tc.input)
			toks, _ := l.Tokens()

			assert.Equal(tc.expect, kindsOf(toks))
		})
	}
}

func Test_Lex_unterminatedDocBlock_reportsError(t *testing.T) {
	assert := assert.New(t)

	l := New("test.til", "#unterminated")
	_, errs := l.Tokens()

	assert.Len(errs, 1)
	assert.Contains(errs[0].Message, "unterminated documentation block")
}

func Test_Lex_unterminatedPathString_reportsError(t *testing.T) {
	assert := assert.New(t)

	l := New("test.til", `"unterminated`)
	_, errs := l.Tokens()

	assert.Len(errs, 1)
	assert.Contains(errs[0].Message, "unterminated path string literal")
}

func Test_Lex_spansTrackLineAndColumn(t *testing.T) {
	assert := assert.New(t)

	l := New("test.til", "ab\ncd")
	toks, _ := l.Tokens()

	assert.Equal(1, toks[0].Span.Line)
	assert.Equal(1, toks[0].Span.Col)
	assert.Equal(2, toks[1].Span.Line)
	assert.Equal(1, toks[1].Span.Col)
}

func Test_Lex_keywordCaseSignificant(t *testing.T) {
	assert := assert.New(t)

	l := New("test.til", "Bits bits")
	toks, _ := l.Tokens()

	assert.Equal(KwBits, toks[0].Kind)
	assert.Equal(Ident, toks[1].Kind)
}
