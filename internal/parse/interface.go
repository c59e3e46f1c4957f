package parse

import (
	"github.com/dekarrin/til/internal/lex"
)

// parseInterfaceExpr parses `interface_def | ident_expr`.
func (p *Parser) parseInterfaceExpr() Expr {
	switch p.peek().Kind {
	case lex.LAngle, lex.LParen:
		id := p.parseInterfaceDef()
		return Expr{Span: id.Span, Interface: id}
	case lex.Ident:
		ie := p.parseDottedPath()
		return Expr{Span: ie.Span, Ident: &ie}
	default:
		t := p.peek()
		p.errorf(t.Span, "expected an interface definition or identifier, found %s", describeToken(t))
		sp := p.recoverToStatementBoundary(t.Span)
		return p.errorExpr(sp, "could not parse interface expression")
	}
}

func (p *Parser) parseInterfaceDef() *InterfaceDef {
	id := &InterfaceDef{}
	sp := p.peek().Span

	if p.peek().Kind == lex.LAngle {
		la := p.next()
		for p.peek().Kind != lex.RAngle && !p.atEOF() {
			id.Params = append(id.Params, p.parseGenericParamDecl())
			if p.peek().Kind == lex.Comma {
				p.next()
				continue
			}
			break
		}
		ra, ok := p.expect(lex.RAngle)
		if !ok {
			recovered := p.recoverTo(la.Span, lex.LAngle, lex.RAngle)
			sp = sp.Join(recovered)
		} else {
			sp = sp.Join(la.Span).Join(ra.Span)
		}
	}

	lp, ok := p.expect(lex.LParen)
	if !ok {
		id.Span = sp.Join(lp.Span)
		return id
	}
	sp = sp.Join(lp.Span)

	for p.peek().Kind != lex.RParen && !p.atEOF() {
		id.Ports = append(id.Ports, p.parsePortDef())
		if p.peek().Kind == lex.Comma {
			p.next()
			continue
		}
		break
	}

	rp, ok := p.expect(lex.RParen)
	if !ok {
		recovered := p.recoverTo(lp.Span, lex.LParen, lex.RParen)
		id.Span = sp.Join(recovered)
		return id
	}
	id.Span = sp.Join(rp.Span)
	return id
}

func (p *Parser) parseGenericParamDecl() GenericParamDecl {
	nameTok, _ := p.expect(lex.Ident)
	name := Ident{Span: nameTok.Span, Name: nameTok.Lexeme}
	p.expect(lex.Colon)
	kindTok, _ := p.expect(lex.Ident)
	kind := Ident{Span: kindTok.Span, Name: kindTok.Lexeme}

	decl := GenericParamDecl{Span: name.Span.Join(kind.Span), Name: name, Kind: kind}

	if p.peek().Kind == lex.LParen {
		cond := p.parseCondition()
		decl.Condition = cond
		decl.Span = decl.Span.Join(cond.Span)
	}
	return decl
}

func (p *Parser) parseCondition() *ConditionExpr {
	lp := p.next() // "("

	if p.peek().Kind == lex.LBrace {
		lb := p.next()
		var set []IntLit
		for p.peek().Kind != lex.RBrace && !p.atEOF() {
			v, ok := p.expect(lex.IntLiteral)
			if !ok {
				break
			}
			set = append(set, IntLit{Span: v.Span, Text: v.Lexeme})
			if p.peek().Kind == lex.Comma {
				p.next()
				continue
			}
			break
		}
		rb, _ := p.expect(lex.RBrace)
		rp, _ := p.expect(lex.RParen)
		return &ConditionExpr{Span: lp.Span.Join(lb.Span).Join(rb.Span).Join(rp.Span), Kind: CondIn, Set: set}
	}

	opTok, ok := p.expectOneOf(lex.RAngle, lex.LAngle, lex.Ge, lex.Le, lex.Eq)
	var kind ConditionKind
	switch opTok.Kind {
	case lex.RAngle:
		kind = CondGT
	case lex.LAngle:
		kind = CondLT
	case lex.Ge:
		kind = CondGE
	case lex.Le:
		kind = CondLE
	case lex.Eq:
		kind = CondEQ
	}
	if !ok {
		recovered := p.recoverTo(lp.Span, lex.LParen, lex.RParen)
		return &ConditionExpr{Span: recovered, Kind: kind}
	}

	v, ok := p.expect(lex.IntLiteral)
	if !ok {
		recovered := p.recoverTo(lp.Span, lex.LParen, lex.RParen)
		return &ConditionExpr{Span: recovered, Kind: kind}
	}
	rp, _ := p.expect(lex.RParen)
	lit := IntLit{Span: v.Span, Text: v.Lexeme}
	return &ConditionExpr{Span: lp.Span.Join(rp.Span), Kind: kind, Value: &lit}
}

func (p *Parser) parsePortDef() PortDef {
	doc := p.consumeDoc()
	nameTok, ok := p.expect(lex.Ident)
	name := Ident{Span: nameTok.Span, Name: nameTok.Lexeme}
	if !ok {
		sp := p.recoverToFieldBoundary(nameTok.Span)
		return PortDef{Span: sp, Doc: doc, Name: name}
	}

	p.expect(lex.Colon)

	modeTok, ok := p.expectOneOf(lex.KwIn, lex.KwOut)
	var mode PortMode
	if modeTok.Kind == lex.KwOut {
		mode = PortOut
	}
	if !ok {
		sp := p.recoverToFieldBoundary(name.Span)
		return PortDef{Span: sp, Doc: doc, Name: name, Mode: mode}
	}

	typeExpr := p.parseTypeExpr()

	pd := PortDef{Span: name.Span.Join(typeExpr.Span), Doc: doc, Name: name, Mode: mode, Type: typeExpr}

	if p.peek().Kind == lex.At {
		p.next()
		domTok, ok := p.expect(lex.Ident)
		if ok {
			dom := Ident{Span: domTok.Span, Name: domTok.Lexeme}
			pd.Domain = &dom
			pd.Span = pd.Span.Join(dom.Span)
		}
	}
	return pd
}
