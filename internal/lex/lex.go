// Package lex implements the TIL lexer (spec §4.1): a character stream is
// turned into a lazy sequence of tokens with source spans. Whitespace and
// line comments are discarded; a character that matches no rule produces an
// Illegal token and a recorded error, and lexing continues rather than
// aborting, mirroring tunascript's lexRunes error-collecting behavior.
package lex

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/dekarrin/til/internal/span"
)

// Error is a single lex-time error: an unexpected character at a span.
type Error struct {
	Span    span.Span
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}

// Lexer scans a single source file into tokens, collecting Errors as it
// goes rather than stopping at the first one.
type Lexer struct {
	file   string
	src    []rune
	pos    int // rune index
	byte   int // byte offset of pos
	line   int
	col    int
	Errors []Error
}

// New returns a Lexer over src, attributed to file for span reporting.
func New(file, src string) *Lexer {
	return &Lexer{
		file: file,
		src:  []rune(src),
		line: 1,
		col:  1,
	}
}

// Tokens lexes the entire source and returns every token including a
// trailing EOF token, plus any errors collected along the way.
func (l *Lexer) Tokens() ([]Token, []Error) {
	var toks []Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Kind == EOF {
			break
		}
	}
	return toks, l.Errors
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) rune {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	l.byte += len(string(r))
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) here() span.Span {
	return span.Span{File: l.file, Start: l.byte, End: l.byte, Line: l.line, Col: l.col}
}

func (l *Lexer) spanFrom(start span.Span) span.Span {
	sp := start
	sp.End = l.byte
	return sp
}

// Next returns the next token, skipping whitespace and line comments.
func (l *Lexer) Next() Token {
	l.skipTrivia()

	start := l.here()

	if l.pos >= len(l.src) {
		return Token{Kind: EOF, Span: start}
	}

	r := l.peek()

	switch {
	case r == '#':
		return l.lexDocBlock(start)
	case r == '"':
		return l.lexPathString(start)
	case unicode.IsDigit(r):
		return l.lexNumber(start)
	case isIdentStart(r):
		return l.lexIdentOrKeyword(start)
	default:
		return l.lexPunct(start)
	}
}

func (l *Lexer) skipTrivia() {
	for l.pos < len(l.src) {
		r := l.peek()
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
			l.advance()
			continue
		}
		if r == '/' && l.peekAt(1) == '/' {
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		break
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *Lexer) lexIdentOrKeyword(start span.Span) Token {
	var sb strings.Builder
	for l.pos < len(l.src) && isIdentCont(l.peek()) {
		sb.WriteRune(l.advance())
	}
	lexeme := sb.String()
	sp := l.spanFrom(start)

	// Keyword lookup is matched against the NFC-normalized form of the
	// lexeme, so that a keyword typed with combining marks decomposed (a
	// common artifact of source written on different platforms) is still
	// recognized identically to its precomposed spelling. The token keeps
	// the lexeme exactly as written.
	if kind, ok := keywords[norm.NFC.String(lexeme)]; ok {
		return Token{Kind: kind, Lexeme: lexeme, Span: sp}
	}
	return Token{Kind: Ident, Lexeme: lexeme, Span: sp}
}

// lexNumber lexes an integer, a real, or a dotted version literal. A version
// is distinguished from a real by having more than two '.'-separated digit
// groups: "1.0" alone is treated as a real (it is the common case for Stream
// throughput), while "1.0.3" or more generally any run with 2+ dots is a
// version.
func (l *Lexer) lexNumber(start span.Span) Token {
	var groups []string
	var cur strings.Builder

	for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
		cur.WriteRune(l.advance())
	}
	groups = append(groups, cur.String())

	for l.peek() == '.' && unicode.IsDigit(l.peekAt(1)) {
		l.advance() // consume '.'
		cur.Reset()
		for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
			cur.WriteRune(l.advance())
		}
		groups = append(groups, cur.String())
	}

	sp := l.spanFrom(start)
	lexeme := strings.Join(groups, ".")

	switch {
	case len(groups) == 1:
		return Token{Kind: IntLiteral, Lexeme: lexeme, Span: sp}
	case len(groups) == 2:
		return Token{Kind: RealLiteral, Lexeme: lexeme, Span: sp}
	default:
		return Token{Kind: VersionLiteral, Lexeme: lexeme, Span: sp}
	}
}

// lexPathString lexes a double-quoted path-string literal used for link
// implementation targets. TIL's grammar describes these only as "bare
// filesystem paths"; quoting them is this implementation's resolution of
// that ambiguity, chosen so a path containing TIL operator
// characters (e.g. "-") cannot be confused with the connection operator.
func (l *Lexer) lexPathString(start span.Span) Token {
	l.advance() // opening quote
	var sb strings.Builder
	closed := false
	for l.pos < len(l.src) {
		r := l.peek()
		if r == '"' {
			l.advance()
			closed = true
			break
		}
		if r == '\n' {
			break
		}
		sb.WriteRune(l.advance())
	}
	sp := l.spanFrom(start)
	if !closed {
		l.Errors = append(l.Errors, Error{Span: sp, Message: "unterminated path string literal"})
	}
	return Token{Kind: PathStringLiteral, Lexeme: sb.String(), Span: sp}
}

// lexDocBlock lexes a "#...#" documentation block, preserved verbatim
// including embedded newlines (spec §4.1, §6).
func (l *Lexer) lexDocBlock(start span.Span) Token {
	l.advance() // opening '#'
	var sb strings.Builder
	closed := false
	for l.pos < len(l.src) {
		r := l.advance()
		if r == '#' {
			closed = true
			break
		}
		sb.WriteRune(r)
	}
	sp := l.spanFrom(start)
	if !closed {
		l.Errors = append(l.Errors, Error{Span: sp, Message: "unterminated documentation block"})
	}
	return Token{Kind: DocBlock, Lexeme: sb.String(), Span: sp}
}

func (l *Lexer) lexPunct(start span.Span) Token {
	r := l.advance()

	two := func(second rune, twoKind, oneKind Kind) Token {
		if l.peek() == second {
			l.advance()
			sp := l.spanFrom(start)
			return Token{Kind: twoKind, Lexeme: string(r) + string(second), Span: sp}
		}
		sp := l.spanFrom(start)
		return Token{Kind: oneKind, Lexeme: string(r), Span: sp}
	}

	switch r {
	case '{':
		return Token{Kind: LBrace, Lexeme: "{", Span: l.spanFrom(start)}
	case '}':
		return Token{Kind: RBrace, Lexeme: "}", Span: l.spanFrom(start)}
	case '(':
		return Token{Kind: LParen, Lexeme: "(", Span: l.spanFrom(start)}
	case ')':
		return Token{Kind: RParen, Lexeme: ")", Span: l.spanFrom(start)}
	case ',':
		return Token{Kind: Comma, Lexeme: ",", Span: l.spanFrom(start)}
	case ';':
		return Token{Kind: Semicolon, Lexeme: ";", Span: l.spanFrom(start)}
	case '@':
		return Token{Kind: At, Lexeme: "@", Span: l.spanFrom(start)}
	case '.':
		return Token{Kind: Dot, Lexeme: ".", Span: l.spanFrom(start)}
	case '+':
		return Token{Kind: Plus, Lexeme: "+", Span: l.spanFrom(start)}
	case '*':
		return Token{Kind: Star, Lexeme: "*", Span: l.spanFrom(start)}
	case '/':
		return Token{Kind: Slash, Lexeme: "/", Span: l.spanFrom(start)}
	case ':':
		return two(':', PathSep, Colon)
	case '=':
		return two('=', Eq, Declare)
	case '<':
		return two('=', Le, LAngle)
	case '>':
		return two('=', Ge, RAngle)
	case '-':
		return two('-', Connect, Minus)
	default:
		sp := l.spanFrom(start)
		l.Errors = append(l.Errors, Error{Span: sp, Message: fmt.Sprintf("unexpected character %q", r)})
		return Token{Kind: Illegal, Lexeme: string(r), Span: sp}
	}
}
