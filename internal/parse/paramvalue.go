package parse

import "github.com/dekarrin/til/internal/lex"

// binding powers for the infix arithmetic operators, lowest to highest. This
// mirrors tunascript's own nud/led operator-precedence parser, cut down to
// the handful of operators generic parameter values support (spec §3).
const (
	bpSum  = 1 // + -
	bpProd = 2 // * / mod
)

func infixBindingPower(k lex.Kind) (op string, bp int, ok bool) {
	switch k {
	case lex.Plus:
		return "+", bpSum, true
	case lex.Minus:
		return "-", bpSum, true
	case lex.Star:
		return "*", bpProd, true
	case lex.Slash:
		return "/", bpProd, true
	case lex.Percent:
		return "mod", bpProd, true
	default:
		return "", 0, false
	}
}

// parseParamValueExpr parses a generic-parameter arithmetic expression using
// precedence climbing: minBP is the minimum binding power an infix operator
// must have to be consumed at this recursion level.
func (p *Parser) parseParamValueExpr(minBP int) ParamValueExpr {
	left := p.parseParamValuePrefix()

	for {
		op, bp, ok := infixBindingPower(p.peek().Kind)
		if !ok || bp < minBP {
			break
		}
		opTok := p.next()
		right := p.parseParamValueExpr(bp + 1)
		sp := left.Span.Join(opTok.Span).Join(right.Span)
		l, r := left, right
		left = ParamValueExpr{Span: sp, Kind: PVBinary, Op: op, Left: &l, Right: &r}
	}
	return left
}

func (p *Parser) parseParamValuePrefix() ParamValueExpr {
	switch p.peek().Kind {
	case lex.Minus:
		t := p.next()
		inner := p.parseParamValueExpr(bpProd + 1)
		return ParamValueExpr{Span: t.Span.Join(inner.Span), Kind: PVUnary, Op: "-", Inner: &inner}
	case lex.LParen:
		lp := p.next()
		inner := p.parseParamValueExpr(0)
		rp, ok := p.expect(lex.RParen)
		sp := lp.Span.Join(inner.Span)
		if ok {
			sp = sp.Join(rp.Span)
		}
		return ParamValueExpr{Span: sp, Kind: PVParen, Inner: &inner}
	case lex.IntLiteral:
		t := p.next()
		lit := IntLit{Span: t.Span, Text: t.Lexeme}
		return ParamValueExpr{Span: t.Span, Kind: PVInt, Int: &lit}
	case lex.Ident:
		t := p.next()
		id := Ident{Span: t.Span, Name: t.Lexeme}
		return ParamValueExpr{Span: t.Span, Kind: PVRef, Ref: &id}
	default:
		t := p.peek()
		p.errorf(t.Span, "expected an integer, identifier, '-', or '(', found %s", describeToken(t))
		sp := p.recoverToFieldBoundary(t.Span)
		return ParamValueExpr{Span: sp, Kind: PVInt, Int: &IntLit{Span: sp, Text: "0"}}
	}
}
