package ir

import "math/bits"

// Fields returns the ordered fields of a Group or Union handle, memoized per
// spec §4.4 ("memoized derived queries ... fields(group)"). Returns nil for
// any other kind.
func (s *Store) Fields(h Handle) []Field {
	s.mu.Lock()
	if cached, ok := s.fieldsCache[h]; ok {
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	t := s.Get(h)
	var result []Field
	if t.Kind == KindGroup || t.Kind == KindUnion {
		result = t.Fields
	}

	s.mu.Lock()
	s.fieldsCache[h] = result
	s.mu.Unlock()
	return result
}

// TagWidth returns the Union tag width and whether one is present (spec §3:
// "induces a tag bit-width = ceil(log2(|fields|)) when |fields| > 1"; spec §8
// quantified invariant). Non-Union handles, and Unions with <= 1 field,
// report ok=false.
func (s *Store) TagWidth(h Handle) (width int, ok bool) {
	s.mu.Lock()
	if cached, seen := s.tagWidthCache[h]; seen {
		s.mu.Unlock()
		return cached.width, cached.ok
	}
	s.mu.Unlock()

	t := s.Get(h)
	var res tagWidthResult
	if t.Kind == KindUnion && len(t.Fields) > 1 {
		res = tagWidthResult{width: ceilLog2(len(t.Fields)), ok: true}
	}

	s.mu.Lock()
	s.tagWidthCache[h] = res
	s.mu.Unlock()
	return res.width, res.ok
}

func ceilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// TypeHierarchy returns every logical-type handle reachable from h through
// Group/Union field edges and Stream data/user edges, depth-first, including
// h itself first (supplemented feature: original_source's
// common/logical/type_hierarchy.rs). The elaborator uses this to reject a
// Stream nested in another Stream's user field (spec §9 open question,
// resolved in SPEC_FULL.md: rejected).
func (s *Store) TypeHierarchy(h Handle) []Handle {
	s.mu.Lock()
	if cached, ok := s.hierarchyCache[h]; ok {
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	var order []Handle
	seen := make(map[Handle]bool)
	var visit func(Handle)
	visit = func(cur Handle) {
		if seen[cur] {
			return
		}
		seen[cur] = true
		order = append(order, cur)
		t := s.Get(cur)
		switch t.Kind {
		case KindGroup, KindUnion:
			for _, f := range t.Fields {
				visit(f.Type)
			}
		case KindStream:
			visit(t.Stream.Data)
			visit(t.Stream.User)
		}
	}
	visit(h)

	s.mu.Lock()
	s.hierarchyCache[h] = order
	s.mu.Unlock()
	return order
}

// ContainsStream reports whether any node in h's type hierarchy (h included)
// is a Stream.
func (s *Store) ContainsStream(h Handle) bool {
	for _, c := range s.TypeHierarchy(h) {
		if s.Get(c).Kind == KindStream {
			return true
		}
	}
	return false
}
