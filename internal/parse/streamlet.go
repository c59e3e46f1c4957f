package parse

import "github.com/dekarrin/til/internal/lex"

// parseStreamletExpr parses `expr ["{" "impl" ":" impl_def "}"]`. The
// leading expr is restricted in practice to the interface-expr grammar (an
// interface_def or a reference to one), but is parsed via parseInterfaceExpr
// so that an inline interface definition is accepted directly.
func (p *Parser) parseStreamletExpr() Expr {
	iface := p.parseInterfaceExpr()

	if p.peek().Kind != lex.LBrace {
		return Expr{Span: iface.Span, Streamlet: &StreamletDef{Span: iface.Span, Interface: iface}}
	}

	lb := p.next()
	p.expectOneOf(lex.KwImpl)
	p.expect(lex.Colon)
	impl := p.parseImplDef()
	rb, ok := p.expect(lex.RBrace)

	sp := iface.Span.Join(lb.Span).Join(impl.Span)
	if ok {
		sp = sp.Join(rb.Span)
	} else {
		recovered := p.recoverTo(lb.Span, lex.LBrace, lex.RBrace)
		sp = sp.Join(recovered)
	}

	def := &StreamletDef{Span: sp, Interface: iface, Impl: impl}
	return Expr{Span: sp, Streamlet: def}
}
