package eval

import (
	"strconv"

	"github.com/dekarrin/til/internal/ir"
	"github.com/dekarrin/til/internal/names"
	"github.com/dekarrin/til/internal/parse"
	"github.com/dekarrin/til/internal/tilerr"
	"github.com/dekarrin/til/internal/util"
)

// evalTypeExpr resolves `logical_type | ident_expr` (spec §4.2's `expr`
// restricted to the type grammar) to an interned handle.
func (e *Evaluator) evalTypeExpr(expr parse.Expr) ir.Handle {
	if expr.Ident != nil {
		h, _ := e.resolveIdent(*expr.Ident, ir.DeclType)
		return h
	}
	if expr.LogicalTy != nil {
		return e.evalLogicalType(expr.LogicalTy)
	}
	return Handle0
}

func (e *Evaluator) evalLogicalType(lt *parse.LogicalTypeExpr) ir.Handle {
	switch lt.Kind {
	case parse.LTNull:
		return e.Store.Intern(ir.NewNull())
	case parse.LTBits:
		return e.evalBits(lt)
	case parse.LTGroup:
		return e.evalGroupOrUnion(lt, false)
	case parse.LTUnion:
		return e.evalGroupOrUnion(lt, true)
	case parse.LTStream:
		return e.evalStream(lt)
	default:
		return Handle0
	}
}

func (e *Evaluator) evalBits(lt *parse.LogicalTypeExpr) ir.Handle {
	if lt.Bits == nil {
		return Handle0
	}
	n, err := strconv.Atoi(lt.Bits.Text)
	if err != nil {
		e.Diags.Errorf(tilerr.Generic, lt.Bits.Span, e.Source, "invalid integer literal %q", lt.Bits.Text)
		return Handle0
	}
	if n <= 0 {
		e.Diags.Errorf(tilerr.Generic, lt.Bits.Span, e.Source, "Bits(%d) is invalid: width must be positive", n)
		return Handle0
	}
	return e.Store.Intern(ir.NewBits(n))
}

func (e *Evaluator) evalGroupOrUnion(lt *parse.LogicalTypeExpr, union bool) ir.Handle {
	seen := util.NewOrderedMap[names.Name, bool]()
	var fields []ir.Field

	for _, fd := range lt.Fields {
		name, err := names.NewName(fd.Name.Name)
		if err != nil {
			e.Diags.Errorf(tilerr.Naming, fd.Name.Span, e.Source, "invalid field name: %s", err)
			continue
		}
		if seen.Has(name) {
			e.Diags.Errorf(tilerr.Naming, fd.Name.Span, e.Source, "duplicate field name %q", name.String())
			continue
		}
		seen.Set(name, true)

		th := e.evalTypeExpr(fd.Type)
		fields = append(fields, ir.Field{Name: name, Type: th})
	}

	if union {
		return e.Store.Intern(ir.NewUnion(fields))
	}
	return e.Store.Intern(ir.NewGroup(fields))
}

func (e *Evaluator) evalStream(lt *parse.LogicalTypeExpr) ir.Handle {
	if lt.Stream == nil {
		return Handle0
	}

	props := ir.StreamProps{Direction: ir.Forward}
	haveData, haveUser := false, false

	for _, p := range lt.Stream.Props {
		switch p.Key {
		case "data":
			if p.ExprVal != nil {
				props.Data = e.evalTypeExpr(*p.ExprVal)
				haveData = true
			}
		case "user":
			if p.ExprVal != nil {
				props.User = e.evalTypeExpr(*p.ExprVal)
				haveUser = true
			}
		case "throughput":
			if p.NumVal != nil {
				f, err := strconv.ParseFloat(*p.NumVal, 64)
				if err != nil || f <= 0 {
					e.Diags.Errorf(tilerr.Generic, p.Span, e.Source, "throughput must be a positive real number")
					continue
				}
				props.Throughput = f
			}
		case "dimensionality":
			if p.IntVal != nil {
				n, err := strconv.Atoi(p.IntVal.Text)
				if err != nil || n < 0 {
					e.Diags.Errorf(tilerr.Generic, p.Span, e.Source, "dimensionality must be a non-negative integer")
					continue
				}
				props.Dimensionality = n
			}
		case "complexity":
			if p.IntVal != nil {
				n, err := strconv.Atoi(p.IntVal.Text)
				if err != nil || n < 1 || n > 8 {
					e.Diags.Errorf(tilerr.Generic, p.Span, e.Source, "complexity must be an integer in [1, 8]")
					continue
				}
				props.Complexity = n
			}
		case "synchronicity":
			if p.KeywVal != nil {
				s, ok := synchronicityFromName(p.KeywVal.Name)
				if !ok {
					e.Diags.Errorf(tilerr.Generic, p.Span, e.Source, "unknown synchronicity %q", p.KeywVal.Name)
					continue
				}
				props.Synchronicity = s
			}
		case "direction":
			if p.KeywVal != nil {
				d, ok := directionFromName(p.KeywVal.Name)
				if !ok {
					e.Diags.Errorf(tilerr.Generic, p.Span, e.Source, "unknown direction %q", p.KeywVal.Name)
					continue
				}
				props.Direction = d
			}
		case "keep":
			if p.BoolVal != nil {
				props.Keep = *p.BoolVal
			}
		}
	}

	if !haveData {
		e.Diags.Errorf(tilerr.Structural, lt.Stream.Span, e.Source, "Stream is missing required property \"data\"")
		return Handle0
	}
	if !haveUser {
		e.Diags.Errorf(tilerr.Structural, lt.Stream.Span, e.Source, "Stream is missing required property \"user\"")
		return Handle0
	}

	// SPEC_FULL.md Open Question Resolution: a Stream may not be nested in
	// another Stream's user field.
	if e.Store.ContainsStream(props.User) {
		e.Diags.Errorf(tilerr.Structural, lt.Stream.Span, e.Source,
			"a Stream cannot be used as the user type of another Stream")
		return Handle0
	}

	return e.Store.Intern(ir.NewStream(props))
}

func synchronicityFromName(n string) (ir.Synchronicity, bool) {
	switch n {
	case "Sync":
		return ir.Sync, true
	case "Flatten":
		return ir.Flatten, true
	case "Desync":
		return ir.Desync, true
	case "FlatDesync":
		return ir.FlatDesync, true
	default:
		return 0, false
	}
}

func directionFromName(n string) (ir.Direction, bool) {
	switch n {
	case "Forward":
		return ir.Forward, true
	case "Reverse":
		return ir.Reverse, true
	default:
		return 0, false
	}
}
