package ir

import "github.com/dekarrin/til/internal/names"

// GenericKind is one of the four declared kinds a generic parameter can
// carry (spec §3).
type GenericKind int

const (
	KindInteger GenericKind = iota
	KindNatural
	KindPositive
	KindDimensionality
)

func (k GenericKind) String() string {
	switch k {
	case KindInteger:
		return "Integer"
	case KindNatural:
		return "Natural"
	case KindPositive:
		return "Positive"
	case KindDimensionality:
		return "Dimensionality"
	default:
		return "Unknown"
	}
}

// GenericBehavior describes the implicit range a GenericKind carries
// (supplemented feature: original_source's ir/generics/behavioral split,
// kept separate from the public GenericKind tag per SPEC_FULL.md). Min is
// inclusive; there is no upper bound, since spec §4.3 only defines lower
// bounds for Natural/Positive/Dimensionality.
type GenericBehavior struct {
	Min int
}

// Behavior returns k's implicit range (spec §4.3: "Natural >= 0, Positive >=
// 1, Dimensionality >= 2").
func (k GenericKind) Behavior() GenericBehavior {
	switch k {
	case KindNatural:
		return GenericBehavior{Min: 0}
	case KindPositive:
		return GenericBehavior{Min: 1}
	case KindDimensionality:
		return GenericBehavior{Min: 2}
	default: // Integer: unconstrained
		return GenericBehavior{Min: minInt}
	}
}

const minInt = -1 << 62

// ConditionKind tags a Condition's test (spec §3).
type ConditionKind int

const (
	CondGT ConditionKind = iota
	CondLT
	CondGE
	CondLE
	CondEQ
	CondIn
)

// Condition is a generic parameter's optional constraint: either a
// comparison against a fixed integer, or membership in a finite set of
// integers (supplemented feature: original_source's
// ir/generics/condition/mod.rs finite-set variant).
type Condition struct {
	Kind  ConditionKind
	Value int   // meaningful for all kinds except CondIn
	Set   []int // meaningful only for CondIn
}

// Check reports whether v satisfies c.
func (c Condition) Check(v int) bool {
	switch c.Kind {
	case CondGT:
		return v > c.Value
	case CondLT:
		return v < c.Value
	case CondGE:
		return v >= c.Value
	case CondLE:
		return v <= c.Value
	case CondEQ:
		return v == c.Value
	case CondIn:
		for _, s := range c.Set {
			if v == s {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// GenericParam is one declared generic parameter of an Interface (spec §3).
type GenericParam struct {
	Name      names.Name
	Kind      GenericKind
	Condition *Condition
}

// GenericParamValueKind tags a GenericParamValue's shape (spec §3).
type GenericParamValueKind int

const (
	PVInteger GenericParamValueKind = iota
	PVRef
	PVCombination
)

// GenericParamValue is the recursive arithmetic-tree value assigned to a
// generic parameter at streamlet-instantiation time (spec §3).
type GenericParamValue struct {
	Kind GenericParamValueKind

	// PVInteger
	Integer int

	// PVRef
	RefName names.Name
	RefKind GenericKind

	// PVCombination
	Op    string // "+","-","*","/","mod", or unary "-" when Right == nil
	Left  *GenericParamValue
	Right *GenericParamValue
}
