package eval

import (
	"strconv"

	"github.com/dekarrin/til/internal/ir"
	"github.com/dekarrin/til/internal/names"
	"github.com/dekarrin/til/internal/parse"
	"github.com/dekarrin/til/internal/tilerr"
	"github.com/dekarrin/til/internal/util"
)

// evalInterfaceExprDoc resolves `interface_def | ident_expr` for a top-level
// `interface` declaration, attaching doc to an inline definition.
func (e *Evaluator) evalInterfaceExprDoc(expr parse.Expr, doc string) ir.Handle {
	if expr.Ident != nil {
		h, _ := e.resolveIdent(*expr.Ident, ir.DeclInterface)
		return h
	}
	if expr.Interface != nil {
		iface := e.evalInterfaceDef(expr.Interface)
		iface = iface.WithDoc(doc)
		return e.Store.InternInterface(iface)
	}
	return Handle0
}

func (e *Evaluator) evalInterfaceDef(id *parse.InterfaceDef) ir.Interface {
	iface := ir.Interface{}

	paramNames := util.NewOrderedMap[names.Name, ir.GenericKind]()
	for _, pd := range id.Params {
		gp, ok := e.evalGenericParamDecl(pd)
		if !ok {
			continue
		}
		if paramNames.Has(gp.Name) {
			e.Diags.Errorf(tilerr.Naming, pd.Name.Span, e.Source, "duplicate generic parameter %q", gp.Name.String())
			continue
		}
		paramNames.Set(gp.Name, gp.Kind)
		iface.Params = append(iface.Params, gp)
	}

	portNames := util.NewOrderedMap[names.Name, bool]()
	for _, pd := range id.Ports {
		port, ok := e.evalPortDef(pd)
		if !ok {
			continue
		}
		if portNames.Has(port.Name) {
			e.Diags.Errorf(tilerr.Naming, pd.Name.Span, e.Source, "duplicate port %q", port.Name.String())
			continue
		}
		portNames.Set(port.Name, true)
		iface.Ports = append(iface.Ports, port)
	}

	return iface
}

func (e *Evaluator) evalGenericParamDecl(pd parse.GenericParamDecl) (ir.GenericParam, bool) {
	name, err := names.NewName(pd.Name.Name)
	if err != nil {
		e.Diags.Errorf(tilerr.Naming, pd.Name.Span, e.Source, "invalid name: %s", err)
		return ir.GenericParam{}, false
	}

	kind, ok := genericKindFromName(pd.Kind.Name)
	if !ok {
		e.Diags.Errorf(tilerr.Generic, pd.Kind.Span, e.Source, "unknown generic parameter kind %q", pd.Kind.Name)
		return ir.GenericParam{}, false
	}

	gp := ir.GenericParam{Name: name, Kind: kind}
	if pd.Condition != nil {
		cond, ok := e.evalCondition(pd.Condition)
		if !ok {
			return gp, true
		}
		gp.Condition = &cond
	}
	return gp, true
}

func genericKindFromName(n string) (ir.GenericKind, bool) {
	switch n {
	case "Integer":
		return ir.KindInteger, true
	case "Natural":
		return ir.KindNatural, true
	case "Positive":
		return ir.KindPositive, true
	case "Dimensionality":
		return ir.KindDimensionality, true
	default:
		return 0, false
	}
}

func (e *Evaluator) evalCondition(c *parse.ConditionExpr) (ir.Condition, bool) {
	if c.Kind == parse.CondIn {
		set := make([]int, 0, len(c.Set))
		for _, lit := range c.Set {
			n, err := strconv.Atoi(lit.Text)
			if err != nil {
				e.Diags.Errorf(tilerr.Generic, lit.Span, e.Source, "invalid integer literal %q", lit.Text)
				continue
			}
			set = append(set, n)
		}
		return ir.Condition{Kind: ir.CondIn, Set: set}, true
	}

	if c.Value == nil {
		return ir.Condition{}, false
	}
	n, err := strconv.Atoi(c.Value.Text)
	if err != nil {
		e.Diags.Errorf(tilerr.Generic, c.Value.Span, e.Source, "invalid integer literal %q", c.Value.Text)
		return ir.Condition{}, false
	}

	var kind ir.ConditionKind
	switch c.Kind {
	case parse.CondGT:
		kind = ir.CondGT
	case parse.CondLT:
		kind = ir.CondLT
	case parse.CondGE:
		kind = ir.CondGE
	case parse.CondLE:
		kind = ir.CondLE
	case parse.CondEQ:
		kind = ir.CondEQ
	}
	return ir.Condition{Kind: kind, Value: n}, true
}

func (e *Evaluator) evalPortDef(pd parse.PortDef) (ir.Port, bool) {
	name, err := names.NewName(pd.Name.Name)
	if err != nil {
		e.Diags.Errorf(tilerr.Naming, pd.Name.Span, e.Source, "invalid name: %s", err)
		return ir.Port{}, false
	}

	streamHandle := e.evalTypeExpr(pd.Type)
	if streamHandle != Handle0 && e.Store.Get(streamHandle).Kind != ir.KindStream {
		e.Diags.Errorf(tilerr.Structural, pd.Type.Span, e.Source, "port %q must have a Stream type", name.String())
	}

	mode := ir.PortIn
	if pd.Mode == parse.PortOut {
		mode = ir.PortOut
	}

	port := ir.Port{Name: name, Mode: mode, Stream: streamHandle, Doc: pd.Doc}
	if pd.Domain != nil {
		dn, err := names.NewName(pd.Domain.Name)
		if err == nil {
			port.Domain = &dn
		}
	}
	return port, true
}
