package ir

import (
	"fmt"
	"strings"

	"github.com/dekarrin/til/internal/names"
)

// LogicalTypeKind tags which of the five logical-type constructors a
// LogicalType is (spec §3).
type LogicalTypeKind int

const (
	KindNull LogicalTypeKind = iota
	KindBits
	KindGroup
	KindUnion
	KindStream
)

func (k LogicalTypeKind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBits:
		return "Bits"
	case KindGroup:
		return "Group"
	case KindUnion:
		return "Union"
	case KindStream:
		return "Stream"
	default:
		return "Unknown"
	}
}

// Field is one ordered (name, type) pair inside a Group or Union.
type Field struct {
	Name names.Name
	Type Handle
}

// Synchronicity tags the relation between a Stream and streams nested in its
// data type (spec §3, §4.5).
type Synchronicity int

const (
	Sync Synchronicity = iota
	Flatten
	Desync
	FlatDesync
)

func (s Synchronicity) String() string {
	switch s {
	case Sync:
		return "Sync"
	case Flatten:
		return "Flatten"
	case Desync:
		return "Desync"
	case FlatDesync:
		return "FlatDesync"
	default:
		return "Unknown"
	}
}

// Direction tags a Stream's data direction (spec §3).
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "Reverse"
	}
	return "Forward"
}

// Flip returns the opposite Direction, used when a parent Stream's direction
// rotates a child's during split (spec §4.5: "Child direction is rotated by
// the parent's direction (Reverse flips)").
func (d Direction) Flip() Direction {
	if d == Forward {
		return Reverse
	}
	return Forward
}

// StreamProps holds a Stream logical type's attributes, all required at
// construction (spec §3).
type StreamProps struct {
	Data           Handle
	Throughput     float64
	Dimensionality int
	Synchronicity  Synchronicity
	Complexity     int
	Direction      Direction
	User           Handle
	Keep           bool
}

// LogicalType is a tagged-union value type: exactly one of the Kind-specific
// fields below is meaningful at a time, mirroring the Expr/Stat tagged-struct
// pattern the parser package already uses for its AST.
type LogicalType struct {
	Kind LogicalTypeKind

	// KindBits
	Bits int

	// KindGroup, KindUnion
	Fields []Field

	// KindStream
	Stream StreamProps
}

// NewNull returns the Null logical type.
func NewNull() LogicalType { return LogicalType{Kind: KindNull} }

// NewBits returns Bits(n). n must be > 0 (spec §3, §8 "Bits(0) is rejected");
// callers validate before interning, since the Store itself never rejects a
// value, it only deduplicates one (validation is the evaluator's job, spec
// §4.3).
func NewBits(n int) LogicalType { return LogicalType{Kind: KindBits, Bits: n} }

// NewGroup returns Group(fields). Duplicate field names are rejected by the
// evaluator (ir.Store.Intern never inspects field semantics, only structure).
func NewGroup(fields []Field) LogicalType { return LogicalType{Kind: KindGroup, Fields: fields} }

// NewUnion returns Union(fields).
func NewUnion(fields []Field) LogicalType { return LogicalType{Kind: KindUnion, Fields: fields} }

// NewStream returns Stream(props).
func NewStream(props StreamProps) LogicalType { return LogicalType{Kind: KindStream, Stream: props} }

// structuralKey returns a string uniquely determined by t's tag and child
// handles (and Bits' width, and Stream's scalar attributes), used by
// Store.Intern to detect structural equality (spec §4.4). Two LogicalType
// values that differ only in which Go struct literal produced them, but are
// tag-and-children equal, must produce identical keys.
func (t LogicalType) structuralKey() string {
	var b strings.Builder
	switch t.Kind {
	case KindNull:
		b.WriteString("N")
	case KindBits:
		fmt.Fprintf(&b, "B(%d)", t.Bits)
	case KindGroup, KindUnion:
		if t.Kind == KindGroup {
			b.WriteString("G(")
		} else {
			b.WriteString("U(")
		}
		for i, f := range t.Fields {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%s:%d", f.Name.String(), f.Type)
		}
		b.WriteByte(')')
	case KindStream:
		fmt.Fprintf(&b, "S(d=%d,t=%g,dim=%d,sync=%d,cx=%d,dir=%d,u=%d,k=%t)",
			t.Stream.Data, t.Stream.Throughput, t.Stream.Dimensionality,
			t.Stream.Synchronicity, t.Stream.Complexity, t.Stream.Direction,
			t.Stream.User, t.Stream.Keep)
	}
	return b.String()
}

// String renders t using its own (possibly unresolved, shallow) structure —
// children are shown as bare handle numbers.
func (t LogicalType) String() string {
	switch t.Kind {
	case KindNull:
		return "Null"
	case KindBits:
		return fmt.Sprintf("Bits(%d)", t.Bits)
	case KindGroup, KindUnion:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = fmt.Sprintf("%s: #%d", f.Name.String(), f.Type)
		}
		return fmt.Sprintf("%s(%s)", t.Kind, strings.Join(parts, ", "))
	case KindStream:
		return fmt.Sprintf("Stream(data: #%d, throughput: %g, dimensionality: %d, synchronicity: %s, complexity: %d, direction: %s, user: #%d, keep: %t)",
			t.Stream.Data, t.Stream.Throughput, t.Stream.Dimensionality, t.Stream.Synchronicity,
			t.Stream.Complexity, t.Stream.Direction, t.Stream.User, t.Stream.Keep)
	}
	return "<invalid>"
}
