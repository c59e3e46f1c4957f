// Package elaborate implements the TIL logical-to-physical elaborator (spec
// §4.5): Split flattens a logical type into a residual "signals" type plus
// an ordered mapping of path names to physical Stream handles, and Synthesize
// computes each physical stream's signal widths per the Tydi physical-stream
// specification.
package elaborate

import (
	"fmt"

	"github.com/dekarrin/til/internal/ir"
	"github.com/dekarrin/til/internal/names"
)

// TransferScope tags whether a nested stream's transfer is synchronized to
// its immediate parent or runs independently from the root (supplemented
// feature: original_source's transfer_scope.rs, spec §4.5's synchronicity
// rule). Kept as an explicit enum rather than a bool because a stream nested
// three or more levels deep must compare its scope against more than one
// ancestor.
type TransferScope int

const (
	ScopeParent TransferScope = iota
	ScopeRoot
)

func (s TransferScope) String() string {
	if s == ScopeRoot {
		return "Root"
	}
	return "Parent"
}

// StreamInfo augments an interned Stream handle with the scope/dimensionality
// it was split with, since those can differ from the raw ir.StreamProps
// values once a Sync/Flatten/Desync/FlatDesync ancestor has adjusted them.
type StreamInfo struct {
	Handle         ir.Handle
	Dimensionality int
	Scope          TransferScope
	Direction      ir.Direction
}

// SplitResult is the result of splitting a logical type: Signals is the
// residual element-manipulating type (no embedded Streams), and Streams maps
// each Stream's path (empty PathName for the root stream itself) to its
// StreamInfo, ordered by first-discovered (left-to-right field, then
// parent-before-child) per spec §8 "Split determinism".
type SplitResult struct {
	Signals ir.Handle
	Order   []names.PathName
	Streams map[string]StreamInfo
}

func newSplitResult() *SplitResult {
	return &SplitResult{Streams: make(map[string]StreamInfo)}
}

func (r *SplitResult) add(path names.PathName, info StreamInfo) {
	key := path.Key()
	if _, exists := r.Streams[key]; exists {
		panic(fmt.Sprintf("elaborate: duplicate stream path %q after prefixing", key))
	}
	r.Order = append(r.Order, path)
	r.Streams[key] = info
}

// StructuralError reports a spec §4.5/§7 "Structural" category failure
// (e.g. invalid nesting) discovered during elaboration.
type StructuralError struct {
	Message string
}

func (e *StructuralError) Error() string { return e.Message }

// Split implements spec §4.5's `split` algorithm over the logical type at h.
func Split(store *ir.Store, h ir.Handle) (*SplitResult, error) {
	return split(store, h, -1, ScopeRoot, ir.Forward)
}

func split(store *ir.Store, h ir.Handle, dim int, scope TransferScope, dir ir.Direction) (*SplitResult, error) {
	t := store.Get(h)
	result := newSplitResult()

	switch t.Kind {
	case ir.KindNull:
		result.Signals = store.Intern(ir.NewNull())
		return result, nil

	case ir.KindBits:
		result.Signals = store.Intern(ir.NewBits(t.Bits))
		return result, nil

	case ir.KindGroup, ir.KindUnion:
		fields := make([]ir.Field, 0, len(t.Fields))
		for _, f := range t.Fields {
			sub, err := split(store, f.Type, dim, scope, dir)
			if err != nil {
				return nil, err
			}
			fields = append(fields, ir.Field{Name: f.Name, Type: sub.Signals})
			result.mergeField(f.Name, sub)
		}
		if t.Kind == ir.KindGroup {
			result.Signals = store.Intern(ir.NewGroup(fields))
		} else {
			result.Signals = store.Intern(ir.NewUnion(fields))
		}
		return result, nil

	case ir.KindStream:
		if store.ContainsStream(t.Stream.User) {
			return nil, &StructuralError{Message: "a Stream cannot be used as the user type of another Stream"}
		}
		if dim < 0 {
			// A stream with no enclosing Stream keeps its own declared
			// dimensionality.
			dim = t.Stream.Dimensionality
		}

		childDim, childScope := childSyncParams(t.Stream.Synchronicity, t.Stream.Dimensionality, scope)
		childDir := dir
		if t.Stream.Direction == ir.Reverse {
			childDir = dir.Flip()
		}

		dataSplit, err := split(store, t.Stream.Data, childDim, childScope, childDir)
		if err != nil {
			return nil, err
		}

		result.Signals = store.Intern(ir.NewNull())
		result.add(names.PathName{}, StreamInfo{Handle: h, Dimensionality: dim, Scope: scope, Direction: dir})
		result.mergeField("", dataSplit)
		return result, nil

	default:
		return nil, &StructuralError{Message: "unknown logical type kind"}
	}
}

// mergeField incorporates sub's streams under a field named name, joining
// name onto the front of each of sub's stream paths (spec §4.5's
// `prefix(name, streams)`), preserving left-to-right discovery order.
func (r *SplitResult) mergeField(name names.Name, sub *SplitResult) {
	for _, p := range sub.Order {
		info := sub.Streams[p.Key()]
		var joined names.PathName
		if name == "" {
			joined = p
		} else {
			joined = append(names.PathName{name}, p...)
		}
		r.add(joined, info)
	}
}

// childSyncParams implements spec §4.5's synchronicity rule table.
func childSyncParams(sync ir.Synchronicity, parentDim int, parentScope TransferScope) (dim int, scope TransferScope) {
	switch sync {
	case ir.Sync:
		return parentDim, ScopeParent
	case ir.Flatten:
		return 0, ScopeParent
	case ir.Desync:
		return parentDim, ScopeRoot
	case ir.FlatDesync:
		return 0, ScopeRoot
	default:
		return parentDim, parentScope
	}
}
