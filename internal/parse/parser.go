package parse

import (
	"strings"

	"github.com/dekarrin/til/internal/diag"
	"github.com/dekarrin/til/internal/lex"
	"github.com/dekarrin/til/internal/span"
	"github.com/dekarrin/til/internal/tilerr"
	"github.com/dekarrin/til/internal/util"
)

// Parser is a recursive-descent parser over a token stream, with one-token
// lookahead and delimiter-nested error recovery (spec §4.2).
type Parser struct {
	toks   []lex.Token
	pos    int
	file   string
	source string
	diags  *diag.Collector
}

// New returns a Parser over toks. diags receives every syntax error
// encountered; parsing never stops at the first one, it recovers to the
// next delimiter or statement boundary and continues.
func New(toks []lex.Token, file, source string, diags *diag.Collector) *Parser {
	return &Parser{toks: toks, file: file, source: source, diags: diags}
}

func (p *Parser) peek() lex.Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) lex.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF sentinel
	}
	return p.toks[idx]
}

func (p *Parser) next() lex.Token {
	t := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool {
	return p.peek().Kind == lex.EOF
}

func (p *Parser) errorf(sp span.Span, format string, args ...interface{}) {
	p.diags.Errorf(tilerr.Syntax, sp, p.source, format, args...)
}

// expect consumes the next token if it has the given kind, otherwise records
// a syntax error and leaves the stream positioned on the unexpected token so
// recovery can decide what to do with it.
func (p *Parser) expect(kind lex.Kind) (lex.Token, bool) {
	t := p.peek()
	if t.Kind == kind {
		return p.next(), true
	}
	p.errorf(t.Span, "expected %s, found %s", kind.Human(), describeToken(t))
	return t, false
}

func describeToken(t lex.Token) string {
	if t.Kind == lex.EOF {
		return "end of input"
	}
	if t.Kind == lex.Ident || t.Kind == lex.IntLiteral || t.Kind == lex.RealLiteral {
		return t.Kind.Human() + " " + quote(t.Lexeme)
	}
	return t.Kind.Human()
}

func quote(s string) string {
	return "\"" + s + "\""
}

// expectOneOf consumes the next token if it matches any of kinds, else
// records a syntax error listing every acceptable kind (via
// util.MakeTextList, as tunascript's own error messages enumerate
// alternatives) and returns the unexpected token.
func (p *Parser) expectOneOf(kinds ...lex.Kind) (lex.Token, bool) {
	t := p.peek()
	for _, k := range kinds {
		if t.Kind == k {
			return p.next(), true
		}
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.Human()
	}
	p.errorf(t.Span, "expected %s, found %s", util.MakeTextList(names), describeToken(t))
	return t, false
}

// recoverTo consumes tokens, tracking nested occurrences of open/close, until
// it consumes a close at nesting depth 0 (the one matching the already
// consumed opening delimiter) or reaches EOF. It returns the span covering
// everything consumed, to be used as the span of an ErrorNode (spec §4.2:
// "the parser consumes up to the matching closing delimiter and emits an
// Error AST node with the whole span").
func (p *Parser) recoverTo(openSpan span.Span, open, close lex.Kind) span.Span {
	depth := 0
	sp := openSpan
	for !p.atEOF() {
		t := p.peek()
		sp = sp.Join(t.Span)
		if t.Kind == open {
			depth++
			p.next()
			continue
		}
		if t.Kind == close {
			p.next()
			if depth == 0 {
				return sp
			}
			depth--
			continue
		}
		p.next()
	}
	return sp
}

// recoverToStatementBoundary consumes tokens up to and including the next
// top-level ';' or '}', used when a declaration or statement itself (not
// just a sub-expression inside a delimiter) fails to parse.
func (p *Parser) recoverToStatementBoundary(startSpan span.Span) span.Span {
	depth := 0
	sp := startSpan
	for !p.atEOF() {
		t := p.peek()
		sp = sp.Join(t.Span)
		switch t.Kind {
		case lex.LBrace, lex.LParen, lex.LAngle:
			depth++
			p.next()
		case lex.RBrace:
			if depth == 0 {
				p.next()
				return sp
			}
			depth--
			p.next()
		case lex.RParen, lex.RAngle:
			if depth > 0 {
				depth--
			}
			p.next()
		case lex.Semicolon:
			p.next()
			if depth == 0 {
				return sp
			}
		default:
			p.next()
		}
	}
	return sp
}

// ParseFile parses the entire token stream as a sequence of namespace
// blocks.
func (p *Parser) ParseFile() *File {
	f := &File{}
	for !p.atEOF() {
		if p.peek().Kind != lex.KwNamespace {
			t := p.peek()
			p.errorf(t.Span, "expected %s, found %s", lex.KwNamespace.Human(), describeToken(t))
			sp := p.recoverToStatementBoundary(t.Span)
			f.Errors = append(f.Errors, &ErrorNode{Span: sp, Message: "could not parse top-level construct"})
			continue
		}
		f.Namespaces = append(f.Namespaces, p.parseNamespace())
	}
	return f
}

func (p *Parser) parseNamespace() *Namespace {
	kw := p.next() // "namespace"
	path := p.parseDottedPath()

	lb, ok := p.expect(lex.LBrace)
	if !ok {
		sp := kw.Span.Join(path.Span).Join(lb.Span)
		return &Namespace{Span: sp, Path: path.Segments}
	}

	ns := &Namespace{Path: path.Segments}
	for !p.atEOF() && p.peek().Kind != lex.RBrace {
		before := p.pos
		ns.Statements = append(ns.Statements, p.parseStatement())
		if p.pos == before {
			// guarantee forward progress
			p.next()
		}
	}
	rb, _ := p.expect(lex.RBrace)
	ns.Span = kw.Span.Join(lb.Span).Join(rb.Span)
	return ns
}

// parseDottedPath parses a "::"-separated identifier path, used for both
// namespace paths and ident_expr references.
func (p *Parser) parseDottedPath() IdentExpr {
	var segs []Ident
	first, ok := p.expect(lex.Ident)
	if !ok {
		return IdentExpr{Span: first.Span, Segments: segs}
	}
	segs = append(segs, Ident{Span: first.Span, Name: first.Lexeme})
	sp := first.Span

	for p.peek().Kind == lex.PathSep {
		p.next()
		seg, ok := p.expect(lex.Ident)
		if !ok {
			break
		}
		segs = append(segs, Ident{Span: seg.Span, Name: seg.Lexeme})
		sp = sp.Join(seg.Span)
	}
	return IdentExpr{Span: sp, Segments: segs}
}

func (p *Parser) parseStatement() Statement {
	doc := p.consumeDoc()

	switch p.peek().Kind {
	case lex.KwImport:
		return p.parseImportStat(doc)
	case lex.KwType, lex.KwInterface, lex.KwImpl, lex.KwStreamlet:
		d := p.parseDecl(doc)
		return Statement{Span: d.Span, Decl: d}
	default:
		t := p.peek()
		p.errorf(t.Span, "expected a declaration or import, found %s", describeToken(t))
		sp := p.recoverToStatementBoundary(t.Span)
		return Statement{Span: sp, Error: &ErrorNode{Span: sp, Message: "could not parse statement"}}
	}
}

// consumeDoc consumes a leading DocBlock token, if present, returning its
// text (doc blocks attach to the immediately following declaration or port,
// spec §4.2).
func (p *Parser) consumeDoc() string {
	if p.peek().Kind == lex.DocBlock {
		t := p.next()
		return strings.TrimSpace(t.Lexeme)
	}
	return ""
}

func (p *Parser) parseImportStat(doc string) Statement {
	kw := p.next() // "import"
	path := p.parseDottedPath()
	semi, _ := p.expect(lex.Semicolon)
	sp := kw.Span.Join(path.Span).Join(semi.Span)
	return Statement{Span: sp, Import: &ImportStat{Span: sp, Path: path}}
}

func (p *Parser) parseDecl(doc string) *Decl {
	kindTok := p.next()
	var kind DeclKind
	switch kindTok.Kind {
	case lex.KwType:
		kind = DeclType
	case lex.KwInterface:
		kind = DeclInterface
	case lex.KwImpl:
		kind = DeclImpl
	case lex.KwStreamlet:
		kind = DeclStreamlet
	}

	nameTok, _ := p.expect(lex.Ident)
	name := Ident{Span: nameTok.Span, Name: nameTok.Lexeme}

	p.expect(lex.Declare)

	expr := p.parseExprForDecl(kind)

	semi, _ := p.expect(lex.Semicolon)

	sp := kindTok.Span.Join(name.Span).Join(expr.Span).Join(semi.Span)
	return &Decl{
		Span:     sp,
		Doc:      doc,
		Kind:     kind,
		KindSpan: kindTok.Span,
		Name:     name,
		Value:    expr,
	}
}

// parseExprForDecl dispatches to the dedicated parse function for the
// expression grammar that is legal for the given declaration kind (spec
// §4.2's `expr` production is a union over these, but which alternative is
// legal depends on which declaration head introduced it).
func (p *Parser) parseExprForDecl(kind DeclKind) Expr {
	switch kind {
	case DeclType:
		return p.parseTypeExpr()
	case DeclInterface:
		return p.parseInterfaceExpr()
	case DeclImpl:
		return p.parseImplExpr()
	case DeclStreamlet:
		return p.parseStreamletExpr()
	default:
		return p.errorExpr(p.peek().Span, "unknown declaration kind")
	}
}

func (p *Parser) errorExpr(sp span.Span, msg string) Expr {
	return Expr{Span: sp, Error: &ErrorNode{Span: sp, Message: msg}}
}

// parseTypeExpr parses `logical_type | ident_expr`.
func (p *Parser) parseTypeExpr() Expr {
	switch p.peek().Kind {
	case lex.KwNull, lex.KwBits, lex.KwGroup, lex.KwUnion, lex.KwStream:
		lt := p.parseLogicalType()
		return Expr{Span: lt.Span, LogicalTy: lt}
	case lex.Ident:
		ie := p.parseDottedPath()
		return Expr{Span: ie.Span, Ident: &ie}
	default:
		t := p.peek()
		p.errorf(t.Span, "expected a logical type or identifier, found %s", describeToken(t))
		sp := p.recoverToStatementBoundary(t.Span)
		return p.errorExpr(sp, "could not parse type expression")
	}
}
