package eval

import (
	"github.com/dekarrin/til/internal/ir"
	"github.com/dekarrin/til/internal/names"
	"github.com/dekarrin/til/internal/parse"
)

// evalStreamletExprDoc resolves a top-level `streamlet` declaration's
// `expr ["{" "impl" ":" impl_def "}"]` value (spec §4.2's streamlet_def,
// generalized per parse.StreamletDef's doc comment to allow an inline
// interface).
func (e *Evaluator) evalStreamletExprDoc(expr parse.Expr, doc string, declName names.Name) ir.Handle {
	if expr.Ident != nil {
		h, _ := e.resolveIdent(*expr.Ident, ir.DeclStreamlet)
		return h
	}
	if expr.Streamlet == nil {
		return Handle0
	}

	sd := expr.Streamlet
	ifaceHandle := e.evalInterfaceExprDoc(sd.Interface, "")

	implHandle := Handle0
	if sd.Impl != nil {
		implHandle = e.evalImplDef(sd.Impl, ifaceHandle)
	}

	streamlet := ir.Streamlet{Name: declName, Interface: ifaceHandle, Impl: implHandle, Doc: doc}
	return e.Store.InternStreamlet(streamlet)
}
