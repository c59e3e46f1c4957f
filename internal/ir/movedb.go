package ir

import "github.com/dekarrin/til/internal/names"

// MoveDB deep-copies the logical-type subgraph rooted at h from src into
// dst, returning its handle in dst. If prefix is non-empty, every leaf
// Group/Union field name in the copied subgraph is rewritten to
// "<prefix>_<original>" to avoid collisions when merging two projects' type
// trees into one store (spec §4.4 "movement across stores"; supplemented
// feature, grounded in original_source's ir/db.rs move logic).
//
// MoveDB is idempotent per (src handle, prefix): copying the same source
// handle with the same prefix twice into the same dst yields the same
// interned handle, since dst.Intern still dedupes structurally.
func MoveDB(dst, src *Store, h Handle, prefix names.Name) Handle {
	memo := make(map[Handle]Handle)
	var copyNode func(Handle) Handle
	copyNode = func(cur Handle) Handle {
		if mapped, ok := memo[cur]; ok {
			return mapped
		}
		t := src.Get(cur)

		var out LogicalType
		switch t.Kind {
		case KindNull:
			out = NewNull()
		case KindBits:
			out = NewBits(t.Bits)
		case KindGroup, KindUnion:
			fields := make([]Field, len(t.Fields))
			for i, f := range t.Fields {
				fields[i] = Field{Name: prefixName(f.Name, prefix), Type: copyNode(f.Type)}
			}
			if t.Kind == KindGroup {
				out = NewGroup(fields)
			} else {
				out = NewUnion(fields)
			}
		case KindStream:
			props := t.Stream
			props.Data = copyNode(t.Stream.Data)
			props.User = copyNode(t.Stream.User)
			out = NewStream(props)
		}

		mapped := dst.Intern(out)
		memo[cur] = mapped
		return mapped
	}
	return copyNode(h)
}

func prefixName(n, prefix names.Name) names.Name {
	if prefix.String() == "" {
		return n
	}
	// Both n and prefix were already validated Names; concatenation with a
	// single separating underscore is itself a valid Name as long as neither
	// half is empty, which NewName enforces on construction elsewhere.
	return names.MustName(prefix.String() + "_" + n.String())
}
