package parse

import (
	"github.com/dekarrin/til/internal/lex"
	"github.com/dekarrin/til/internal/span"
)

// parseImplExpr parses `impl_def | ident_expr` (an impl declaration's value
// may itself reference another named impl, per Pass B's resolution rules).
func (p *Parser) parseImplExpr() Expr {
	switch p.peek().Kind {
	case lex.KwStruct, lex.PathStringLiteral, lex.LAngle, lex.LParen:
		id := p.parseImplDef()
		return Expr{Span: id.Span, Impl: id}
	case lex.Ident:
		ie := p.parseDottedPath()
		return Expr{Span: ie.Span, Ident: &ie}
	default:
		t := p.peek()
		p.errorf(t.Span, "expected an implementation, found %s", describeToken(t))
		sp := p.recoverToStatementBoundary(t.Span)
		return p.errorExpr(sp, "could not parse implementation expression")
	}
}

func (p *Parser) parseImplDef() *ImplDef {
	switch p.peek().Kind {
	case lex.PathStringLiteral:
		t := p.next()
		lit := &PathStringLit{Span: t.Span, Text: t.Lexeme}
		return &ImplDef{Span: t.Span, LinkPath: lit}
	case lex.KwStruct:
		kw := p.next()
		body := p.parseStructBody(kw.Span)
		return &ImplDef{Span: kw.Span.Join(body.Span), Struct: body}
	case lex.LAngle, lex.LParen:
		iface := p.parseInterfaceDef()
		body := p.parseStructBody(iface.Span)
		return &ImplDef{Span: iface.Span.Join(body.Span), InlineInterfaceStruct: &InlineInterfaceStruct{
			Span: iface.Span.Join(body.Span), Interface: *iface, Stats: body.Stats,
		}}
	default:
		t := p.peek()
		p.errorf(t.Span, "expected 'struct', a path string, or an interface definition, found %s", describeToken(t))
		sp := p.recoverToStatementBoundary(t.Span)
		return &ImplDef{Span: sp}
	}
}

// parseStructBody parses `"{" stat* "}"`. startSpan is joined into the
// result for callers that want the whole construct's span without
// recomputing it.
func (p *Parser) parseStructBody(startSpan span.Span) *StructBody {
	lb, ok := p.expect(lex.LBrace)
	if !ok {
		return &StructBody{Span: startSpan.Join(lb.Span)}
	}

	body := &StructBody{}
	for p.peek().Kind != lex.RBrace && !p.atEOF() {
		before := p.pos
		body.Stats = append(body.Stats, p.parseStat())
		if p.pos == before {
			p.next()
		}
	}
	rb, _ := p.expect(lex.RBrace)
	body.Span = lb.Span.Join(rb.Span)
	return body
}

// parseStat parses one statement inside a structural body: either an
// instance declaration (`name ":" ident_expr ...") or a connection
// (`endpoint "--" endpoint ";"`), distinguishing the two by whether the
// token after the leading name is ':' or part of an endpoint.
func (p *Parser) parseStat() Stat {
	nameTok, ok := p.expect(lex.Ident)
	if !ok {
		sp := p.recoverToStatementBoundary(nameTok.Span)
		return Stat{Span: sp, Error: &ErrorNode{Span: sp, Message: "could not parse statement"}}
	}
	name := Ident{Span: nameTok.Span, Name: nameTok.Lexeme}

	if p.peek().Kind == lex.Colon {
		return p.parseInstanceDeclTail(name)
	}

	var from Endpoint
	if p.peek().Kind == lex.Dot {
		p.next()
		portTok, _ := p.expect(lex.Ident)
		port := Ident{Span: portTok.Span, Name: portTok.Lexeme}
		from = Endpoint{Span: name.Span.Join(port.Span), Instance: &name, Port: port}
	} else {
		from = Endpoint{Span: name.Span, Port: name}
	}

	return p.parseConnectionTail(from)
}

func (p *Parser) parseConnectionTail(from Endpoint) Stat {
	p.expect(lex.Connect)
	to := p.parseEndpoint()
	semi, _ := p.expect(lex.Semicolon)
	sp := from.Span.Join(to.Span).Join(semi.Span)
	return Stat{Span: sp, Connection: &ConnectionStat{Span: sp, From: from, To: to}}
}

func (p *Parser) parseEndpoint() Endpoint {
	nameTok, ok := p.expect(lex.Ident)
	name := Ident{Span: nameTok.Span, Name: nameTok.Lexeme}
	if !ok {
		return Endpoint{Span: nameTok.Span, Port: name}
	}
	if p.peek().Kind == lex.Dot {
		p.next()
		portTok, _ := p.expect(lex.Ident)
		port := Ident{Span: portTok.Span, Name: portTok.Lexeme}
		return Endpoint{Span: name.Span.Join(port.Span), Instance: &name, Port: port}
	}
	return Endpoint{Span: name.Span, Port: name}
}

func (p *Parser) parseInstanceDeclTail(name Ident) Stat {
	p.next() // ":"
	streamletRef := p.parseDottedPath()

	decl := &InstanceDecl{Span: name.Span.Join(streamletRef.Span), Name: name, Streamlet: streamletRef}

	if p.peek().Kind == lex.LAngle {
		la := p.next()
		for p.peek().Kind != lex.RAngle && !p.atEOF() {
			decl.Generics = append(decl.Generics, p.parseGenericArg())
			if p.peek().Kind == lex.Comma {
				p.next()
				continue
			}
			break
		}
		ra, ok := p.expect(lex.RAngle)
		if !ok {
			recovered := p.recoverTo(la.Span, lex.LAngle, lex.RAngle)
			decl.Span = decl.Span.Join(recovered)
		} else {
			decl.Span = decl.Span.Join(la.Span).Join(ra.Span)
		}
	}

	if p.peek().Kind == lex.At {
		at := p.next()
		p.expect(lex.LParen)
		for p.peek().Kind != lex.RParen && !p.atEOF() {
			decl.Domains = append(decl.Domains, p.parseDomainAssign())
			if p.peek().Kind == lex.Comma {
				p.next()
				continue
			}
			break
		}
		rp, _ := p.expect(lex.RParen)
		decl.Span = decl.Span.Join(at.Span).Join(rp.Span)
	}

	semi, _ := p.expect(lex.Semicolon)
	decl.Span = decl.Span.Join(semi.Span)
	return Stat{Span: decl.Span, Instance: decl}
}

func (p *Parser) parseGenericArg() GenericArg {
	nameTok, _ := p.expect(lex.Ident)
	name := Ident{Span: nameTok.Span, Name: nameTok.Lexeme}
	p.expect(lex.Declare)
	val := p.parseParamValueExpr(0)
	return GenericArg{Span: name.Span.Join(val.Span), Name: name, Value: val}
}

func (p *Parser) parseDomainAssign() DomainAssign {
	fromTok, _ := p.expect(lex.Ident)
	from := Ident{Span: fromTok.Span, Name: fromTok.Lexeme}
	p.expect(lex.Colon)
	toTok, _ := p.expect(lex.Ident)
	to := Ident{Span: toTok.Span, Name: toTok.Lexeme}
	return DomainAssign{Span: from.Span.Join(to.Span), From: from, To: to}
}
