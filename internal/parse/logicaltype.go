package parse

import (
	"github.com/dekarrin/til/internal/lex"
	"github.com/dekarrin/til/internal/span"
)

func (p *Parser) parseLogicalType() *LogicalTypeExpr {
	switch p.peek().Kind {
	case lex.KwNull:
		t := p.next()
		return &LogicalTypeExpr{Span: t.Span, Kind: LTNull}
	case lex.KwBits:
		return p.parseBits()
	case lex.KwGroup:
		return p.parseGroupOrUnion(LTGroup)
	case lex.KwUnion:
		return p.parseGroupOrUnion(LTUnion)
	case lex.KwStream:
		return p.parseStream()
	default:
		panic("parseLogicalType called on non-logical-type token")
	}
}

func (p *Parser) parseBits() *LogicalTypeExpr {
	kw := p.next() // "Bits"
	lp, ok := p.expect(lex.LParen)
	if !ok {
		return &LogicalTypeExpr{Span: kw.Span.Join(lp.Span), Kind: LTBits}
	}

	n, ok := p.expect(lex.IntLiteral)
	if !ok {
		sp := p.recoverTo(lp.Span, lex.LParen, lex.RParen)
		return &LogicalTypeExpr{Span: kw.Span.Join(sp), Kind: LTBits}
	}

	rp, _ := p.expect(lex.RParen)
	sp := kw.Span.Join(lp.Span).Join(n.Span).Join(rp.Span)
	return &LogicalTypeExpr{Span: sp, Kind: LTBits, Bits: &IntLit{Span: n.Span, Text: n.Lexeme}}
}

func (p *Parser) parseGroupOrUnion(kind LogicalTypeKind) *LogicalTypeExpr {
	kw := p.next() // "Group" or "Union"
	lp, ok := p.expect(lex.LParen)
	if !ok {
		return &LogicalTypeExpr{Span: kw.Span.Join(lp.Span), Kind: kind}
	}

	var fields []FieldDef
	for p.peek().Kind != lex.RParen && !p.atEOF() {
		fields = append(fields, p.parseFieldDef())
		if p.peek().Kind == lex.Comma {
			p.next()
			continue
		}
		break
	}

	rp, ok := p.expect(lex.RParen)
	if !ok {
		sp := p.recoverTo(lp.Span, lex.LParen, lex.RParen)
		return &LogicalTypeExpr{Span: kw.Span.Join(sp), Kind: kind, Fields: fields}
	}

	sp := kw.Span.Join(lp.Span).Join(rp.Span)
	return &LogicalTypeExpr{Span: sp, Kind: kind, Fields: fields}
}

func (p *Parser) parseFieldDef() FieldDef {
	doc := p.consumeDoc()
	nameTok, ok := p.expect(lex.Ident)
	name := Ident{Span: nameTok.Span, Name: nameTok.Lexeme}
	if !ok {
		sp := p.recoverToFieldBoundary(nameTok.Span)
		return FieldDef{Span: sp, Doc: doc, Name: name, Type: p.errorExpr(sp, "could not parse field")}
	}

	p.expect(lex.Colon)
	typeExpr := p.parseTypeExpr()

	sp := name.Span.Join(typeExpr.Span)
	return FieldDef{Span: sp, Doc: doc, Name: name, Type: typeExpr}
}

// recoverToFieldBoundary skips to the next ',' or the unmatched ')' at the
// current nesting depth, for use when a single field within a Group/Union
// field list, or a single port within an interface's port list, fails.
func (p *Parser) recoverToFieldBoundary(start span.Span) span.Span {
	depth := 0
	sp := start
	for !p.atEOF() {
		t := p.peek()
		switch t.Kind {
		case lex.LParen, lex.LBrace, lex.LAngle:
			depth++
			sp = sp.Join(t.Span)
			p.next()
		case lex.RParen, lex.RBrace, lex.RAngle:
			if depth == 0 {
				return sp
			}
			depth--
			sp = sp.Join(t.Span)
			p.next()
		case lex.Comma:
			if depth == 0 {
				return sp
			}
			sp = sp.Join(t.Span)
			p.next()
		default:
			sp = sp.Join(t.Span)
			p.next()
		}
	}
	return sp
}

var streamPropKeys = map[string]bool{
	"data": true, "throughput": true, "dimensionality": true,
	"synchronicity": true, "complexity": true, "direction": true,
	"user": true, "keep": true,
}

func (p *Parser) parseStream() *LogicalTypeExpr {
	kw := p.next() // "Stream"
	lp, ok := p.expect(lex.LParen)
	if !ok {
		return &LogicalTypeExpr{Span: kw.Span.Join(lp.Span), Kind: LTStream}
	}

	var props []StreamProp
	for p.peek().Kind != lex.RParen && !p.atEOF() {
		props = append(props, p.parseStreamProp())
		if p.peek().Kind == lex.Comma {
			p.next()
			continue
		}
		break
	}

	rp, ok := p.expect(lex.RParen)
	sp := kw.Span.Join(lp.Span)
	propsSp := lp.Span
	for _, pr := range props {
		propsSp = propsSp.Join(pr.Span)
	}
	if !ok {
		recovered := p.recoverTo(lp.Span, lex.LParen, lex.RParen)
		return &LogicalTypeExpr{Span: kw.Span.Join(recovered), Kind: LTStream,
			Stream: &StreamProps{Span: propsSp, Props: props}}
	}
	sp = sp.Join(rp.Span)
	return &LogicalTypeExpr{Span: sp, Kind: LTStream, Stream: &StreamProps{Span: propsSp, Props: props}}
}

func (p *Parser) parseStreamProp() StreamProp {
	keyTok, ok := p.expect(lex.Ident)
	key := keyTok.Lexeme
	if !ok || !streamPropKeys[key] {
		if ok {
			p.errorf(keyTok.Span, "unknown Stream property %q", key)
		}
		sp := p.recoverToFieldBoundary(keyTok.Span)
		return StreamProp{Span: sp, Key: key, KeySpan: keyTok.Span}
	}

	p.expect(lex.Colon)

	switch key {
	case "data", "user":
		v := p.parseTypeExpr()
		return StreamProp{Span: keyTok.Span.Join(v.Span), Key: key, KeySpan: keyTok.Span, ExprVal: &v}
	case "throughput":
		v, ok := p.expectOneOf(lex.RealLiteral, lex.IntLiteral)
		if !ok {
			sp := p.recoverToFieldBoundary(keyTok.Span)
			return StreamProp{Span: sp, Key: key, KeySpan: keyTok.Span}
		}
		return StreamProp{Span: keyTok.Span.Join(v.Span), Key: key, KeySpan: keyTok.Span, NumVal: &v.Lexeme}
	case "dimensionality", "complexity":
		v, ok := p.expect(lex.IntLiteral)
		if !ok {
			sp := p.recoverToFieldBoundary(keyTok.Span)
			return StreamProp{Span: sp, Key: key, KeySpan: keyTok.Span}
		}
		lit := IntLit{Span: v.Span, Text: v.Lexeme}
		return StreamProp{Span: keyTok.Span.Join(v.Span), Key: key, KeySpan: keyTok.Span, IntVal: &lit}
	case "synchronicity":
		v, ok := p.expectOneOf(lex.KwSync, lex.KwFlatten, lex.KwDesync, lex.KwFlatDesync)
		if !ok {
			sp := p.recoverToFieldBoundary(keyTok.Span)
			return StreamProp{Span: sp, Key: key, KeySpan: keyTok.Span}
		}
		id := Ident{Span: v.Span, Name: v.Lexeme}
		return StreamProp{Span: keyTok.Span.Join(v.Span), Key: key, KeySpan: keyTok.Span, KeywVal: &id}
	case "direction":
		v, ok := p.expectOneOf(lex.KwForward, lex.KwReverse)
		if !ok {
			sp := p.recoverToFieldBoundary(keyTok.Span)
			return StreamProp{Span: sp, Key: key, KeySpan: keyTok.Span}
		}
		id := Ident{Span: v.Span, Name: v.Lexeme}
		return StreamProp{Span: keyTok.Span.Join(v.Span), Key: key, KeySpan: keyTok.Span, KeywVal: &id}
	case "keep":
		v, ok := p.expect(lex.BoolLiteral)
		if !ok {
			sp := p.recoverToFieldBoundary(keyTok.Span)
			return StreamProp{Span: sp, Key: key, KeySpan: keyTok.Span}
		}
		b := v.Lexeme == "true"
		return StreamProp{Span: keyTok.Span.Join(v.Span), Key: key, KeySpan: keyTok.Span, BoolVal: &b}
	}
	panic("unreachable stream prop key")
}
