package eval

import (
	"strconv"

	"github.com/dekarrin/til/internal/ir"
	"github.com/dekarrin/til/internal/names"
	"github.com/dekarrin/til/internal/parse"
	"github.com/dekarrin/til/internal/tilerr"
	"github.com/dekarrin/til/internal/util"
)

// evalImplExpr resolves a top-level `impl` declaration's `impl_def |
// ident_expr` value. A standalone declaration has no governing interface of
// its own (Handle0): its struct-bodied alternative records connections and
// instances without validating bare endpoints against a port list, which
// only happens when the same ImplDef is reached through a streamlet's
// inline `impl:` clause (see evalStreamletExprDoc).
func (e *Evaluator) evalImplExpr(expr parse.Expr) ir.Handle {
	if expr.Ident != nil {
		h, _ := e.resolveIdent(*expr.Ident, ir.DeclImplementation)
		return h
	}
	if expr.Impl != nil {
		return e.evalImplDef(expr.Impl, Handle0)
	}
	return Handle0
}

func (e *Evaluator) evalImplDef(id *parse.ImplDef, governingIface ir.Handle) ir.Handle {
	switch {
	case id.LinkPath != nil:
		return e.Store.InternImplementation(ir.Implementation{Kind: ir.ImplLink, LinkPath: id.LinkPath.Text})
	case id.Struct != nil:
		return e.evalStatsAsStructural(id.Struct.Stats, governingIface)
	case id.InlineInterfaceStruct != nil:
		iface := e.evalInterfaceDef(&id.InlineInterfaceStruct.Interface)
		ifaceHandle := e.Store.InternInterface(iface)
		return e.evalStatsAsStructural(id.InlineInterfaceStruct.Stats, ifaceHandle)
	default:
		return Handle0
	}
}

func (e *Evaluator) evalStatsAsStructural(stats []parse.Stat, ifaceHandle ir.Handle) ir.Handle {
	impl := ir.Implementation{Kind: ir.ImplStructural, Interface: ifaceHandle}

	instanceStreamlets := util.NewOrderedMap[names.Name, ir.Handle]()
	instanceNames := util.NewOrderedMap[names.Name, bool]()

	// Generic parameter values assigned to an instance may reference a
	// parameter by name; that name is resolved against the generic
	// parameters declared on the interface this structural body belongs to,
	// not against sibling assignments in the same instance decl.
	var governingParams []ir.GenericParam
	if ifaceHandle != Handle0 {
		governingParams = e.Store.Iface(ifaceHandle).Params
	}

	for _, stat := range stats {
		switch {
		case stat.Instance != nil:
			inst, ok := e.evalInstanceDecl(stat.Instance, governingParams)
			if !ok {
				continue
			}
			if instanceNames.Has(inst.Name) {
				e.Diags.Errorf(tilerr.Naming, stat.Span, e.Source, "duplicate instance name %q", inst.Name.String())
				continue
			}
			instanceNames.Set(inst.Name, true)
			instanceStreamlets.Set(inst.Name, inst.Streamlet)
			impl.Instances = append(impl.Instances, inst)
		case stat.Connection != nil:
			conn, ok := e.evalConnectionStat(stat.Connection, ifaceHandle, instanceStreamlets)
			if !ok {
				continue
			}
			impl.Connections = append(impl.Connections, conn)
		}
	}

	return e.Store.InternImplementation(impl)
}

func (e *Evaluator) evalInstanceDecl(id *parse.InstanceDecl, governingParams []ir.GenericParam) (ir.Instance, bool) {
	name, err := names.NewName(id.Name.Name)
	if err != nil {
		e.Diags.Errorf(tilerr.Naming, id.Name.Span, e.Source, "invalid name: %s", err)
		return ir.Instance{}, false
	}

	streamletHandle, ok := e.resolveIdent(id.Streamlet, ir.DeclStreamlet)
	if !ok {
		return ir.Instance{}, false
	}

	targetIface := e.Store.Iface(e.Store.Streamlet(streamletHandle).Interface)

	inst := ir.Instance{Name: name, Streamlet: streamletHandle}

	for _, ga := range id.Generics {
		gname, err := names.NewName(ga.Name.Name)
		if err != nil {
			e.Diags.Errorf(tilerr.Naming, ga.Name.Span, e.Source, "invalid name: %s", err)
			continue
		}

		value, concrete, hasConcrete := e.evalParamValueExpr(ga.Value, governingParams)

		target, ok := targetIface.ParamByName(gname)
		if !ok {
			e.Diags.Errorf(tilerr.Generic, ga.Name.Span, e.Source,
				"streamlet has no generic parameter %q", gname.String())
			continue
		}

		if hasConcrete {
			if min := target.Kind.Behavior().Min; concrete < min {
				e.Diags.Errorf(tilerr.Generic, ga.Value.Span, e.Source,
					"value %d for parameter %q is out of range for kind %s (minimum %d)",
					concrete, gname.String(), target.Kind, min)
				continue
			}
			if target.Condition != nil && !target.Condition.Check(concrete) {
				e.Diags.Errorf(tilerr.Generic, ga.Value.Span, e.Source,
					"value %d for parameter %q violates its condition", concrete, gname.String())
				continue
			}
		}

		inst.Generics = append(inst.Generics, ir.GenericAssignment{
			Name:  gname,
			Value: value,
		})
	}

	for _, da := range id.Domains {
		from, errF := names.NewName(da.From.Name)
		to, errT := names.NewName(da.To.Name)
		if errF != nil || errT != nil {
			e.Diags.Errorf(tilerr.Naming, da.Span, e.Source, "invalid domain name")
			continue
		}
		inst.Domains = append(inst.Domains, ir.DomainAssignment{From: from, To: to})
	}

	return inst, true
}

// evalParamValueExpr builds the IR value for a generic parameter value
// expression and, where possible, reduces it to a concrete integer so the
// caller can check it against a target parameter's condition and kind.
// Refs are resolved against parentParams (the generic parameters declared on
// the interface the instance decl lives in, not the target streamlet's own
// parameters, and not sibling assignments in the same instance): a value
// built from a Ref can never be reduced to a concrete integer here, since the
// referenced parameter's own value isn't bound until whatever instantiates
// the enclosing interface supplies one.
func (e *Evaluator) evalParamValueExpr(pv parse.ParamValueExpr, parentParams []ir.GenericParam) (value ir.GenericParamValue, concrete int, hasConcrete bool) {
	switch pv.Kind {
	case parse.PVInt:
		n, err := strconv.Atoi(pv.Int.Text)
		if err != nil {
			e.Diags.Errorf(tilerr.Generic, pv.Span, e.Source, "invalid integer literal %q", pv.Int.Text)
			return ir.GenericParamValue{Kind: ir.PVInteger}, 0, false
		}
		return ir.GenericParamValue{Kind: ir.PVInteger, Integer: n}, n, true
	case parse.PVRef:
		name, err := names.NewName(pv.Ref.Name)
		if err != nil {
			e.Diags.Errorf(tilerr.Naming, pv.Ref.Span, e.Source, "invalid name: %s", err)
			return ir.GenericParamValue{Kind: ir.PVRef}, 0, false
		}
		refParam, ok := paramByName(parentParams, name)
		if !ok {
			e.Diags.Errorf(tilerr.Generic, pv.Ref.Span, e.Source, "no generic parameter %q in enclosing scope", name.String())
			return ir.GenericParamValue{Kind: ir.PVRef, RefName: name}, 0, false
		}
		return ir.GenericParamValue{Kind: ir.PVRef, RefName: name, RefKind: refParam.Kind}, 0, false
	case parse.PVUnary:
		inner, innerConcrete, innerHas := e.evalParamValueExpr(*pv.Inner, parentParams)
		v := ir.GenericParamValue{Kind: ir.PVCombination, Op: "-", Left: &inner}
		if !innerHas {
			return v, 0, false
		}
		return v, -innerConcrete, true
	case parse.PVBinary:
		left, leftConcrete, leftHas := e.evalParamValueExpr(*pv.Left, parentParams)
		right, rightConcrete, rightHas := e.evalParamValueExpr(*pv.Right, parentParams)
		v := ir.GenericParamValue{Kind: ir.PVCombination, Op: pv.Op, Left: &left, Right: &right}
		if !leftHas || !rightHas {
			return v, 0, false
		}
		result, ok := applyParamOp(pv.Op, leftConcrete, rightConcrete)
		if !ok {
			e.Diags.Errorf(tilerr.Generic, pv.Span, e.Source, "division by zero in parameter value expression")
			return v, 0, false
		}
		return v, result, true
	case parse.PVParen:
		return e.evalParamValueExpr(*pv.Inner, parentParams)
	default:
		return ir.GenericParamValue{}, 0, false
	}
}

// paramByName looks up a declared generic parameter by name in an explicit
// parameter slice (as opposed to ir.Interface.ParamByName, which looks it up
// on an already-interned Interface).
func paramByName(params []ir.GenericParam, n names.Name) (ir.GenericParam, bool) {
	for _, p := range params {
		if p.Name.Equal(n) {
			return p, true
		}
	}
	return ir.GenericParam{}, false
}

func applyParamOp(op string, left, right int) (int, bool) {
	switch op {
	case "+":
		return left + right, true
	case "-":
		return left - right, true
	case "*":
		return left * right, true
	case "/":
		if right == 0 {
			return 0, false
		}
		return left / right, true
	case "mod":
		if right == 0 {
			return 0, false
		}
		return left % right, true
	default:
		return 0, false
	}
}

func (e *Evaluator) evalConnectionStat(cs *parse.ConnectionStat, ifaceHandle ir.Handle, instances *util.OrderedMap[names.Name, ir.Handle]) (ir.Connection, bool) {
	from, ok1 := e.evalEndpoint(cs.From, ifaceHandle, instances)
	to, ok2 := e.evalEndpoint(cs.To, ifaceHandle, instances)
	if !ok1 || !ok2 {
		return ir.Connection{}, false
	}
	return ir.Connection{From: from, To: to}, true
}

func (e *Evaluator) evalEndpoint(ep parse.Endpoint, ifaceHandle ir.Handle, instances *util.OrderedMap[names.Name, ir.Handle]) (ir.PortEndpoint, bool) {
	portName, err := names.NewName(ep.Port.Name)
	if err != nil {
		e.Diags.Errorf(tilerr.Naming, ep.Port.Span, e.Source, "invalid name: %s", err)
		return ir.PortEndpoint{}, false
	}

	if ep.Instance == nil {
		if ifaceHandle != Handle0 {
			iface := e.Store.Iface(ifaceHandle)
			if _, ok := iface.PortByName(portName); !ok {
				e.Diags.Errorf(tilerr.Structural, ep.Span, e.Source, "unknown port %q", portName.String())
				return ir.PortEndpoint{}, false
			}
		}
		return ir.PortEndpoint{Port: portName}, true
	}

	instName, err := names.NewName(ep.Instance.Name)
	if err != nil {
		e.Diags.Errorf(tilerr.Naming, ep.Instance.Span, e.Source, "invalid name: %s", err)
		return ir.PortEndpoint{}, false
	}
	streamletHandle, ok := instances.Get(instName)
	if !ok {
		e.Diags.Errorf(tilerr.Structural, ep.Span, e.Source, "unknown instance %q in connection", instName.String())
		return ir.PortEndpoint{}, false
	}
	st := e.Store.Streamlet(streamletHandle)
	if st.Interface != Handle0 {
		iface := e.Store.Iface(st.Interface)
		if _, ok := iface.PortByName(portName); !ok {
			e.Diags.Errorf(tilerr.Structural, ep.Span, e.Source, "instance %q has no port %q", instName.String(), portName.String())
			return ir.PortEndpoint{}, false
		}
	}
	return ir.PortEndpoint{Instance: &instName, Port: portName}, true
}
