// Package ir implements the interned intermediate representation (spec §3,
// §4.4): logical types, generic parameters, interfaces, streamlets,
// implementations, namespaces, and projects, each referred to by a stable
// integer Handle rather than a pointer, and a Store that assigns handles by
// structural identity (two structurally equal nodes intern to the same
// handle).
//
// The scheme mirrors tunascript's AST-as-tagged-struct approach generalized
// with a content-addressed arena in place of tunascript's ephemeral,
// one-shot-parsed trees: IR nodes outlive a single parse and are shared
// across namespaces within a Project.
package ir

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Handle is a stable reference to an interned node. The zero Handle never
// refers to a valid node; Handle.Invalid reports it.
type Handle int

// Invalid reports whether h is the zero Handle (never assigned by Intern).
func (h Handle) Invalid() bool {
	return h == 0
}

// Store is the arena + content-addressed intern table for logical types. It
// also owns the per-store memoized derived-query caches described in
// spec §4.4 ("memoized derived queries").
//
// A Store is not safe for concurrent mutation from multiple goroutines
// interning distinct nodes; spec §5 permits bounded parallel fork-join over
// independent namespaces, in which case callers must serialize writes to a
// shared Store themselves (e.g. one Store per namespace, merged with MoveDB).
type Store struct {
	// ID uniquely identifies this store instance; it names the store in the
	// panic messages of the lookup methods. MoveDB does not record it on the
	// handles it copies.
	ID uuid.UUID

	types  []LogicalType
	byKey  map[string]Handle

	ifaces    []Interface
	streamlets []Streamlet
	impls     []Implementation

	mu sync.Mutex // guards the per-query cache maps below

	fieldsCache    map[Handle][]Field
	tagWidthCache  map[Handle]tagWidthResult
	hierarchyCache map[Handle][]Handle
}

type tagWidthResult struct {
	width int
	ok    bool
}

// NewStore returns an empty Store ready for interning.
func NewStore() *Store {
	return &Store{
		ID:    uuid.New(),
		types: []LogicalType{{}}, // index 0 reserved, keeps Handle(0) invalid
		byKey: make(map[string]Handle),

		fieldsCache:    make(map[Handle][]Field),
		tagWidthCache:  make(map[Handle]tagWidthResult),
		hierarchyCache: make(map[Handle][]Handle),
	}
}

// Get returns the LogicalType for h. It panics if h is invalid or foreign to
// this store; callers are expected to only ever hold handles returned by this
// same Store (or copied in via MoveDB).
func (s *Store) Get(h Handle) LogicalType {
	if int(h) <= 0 || int(h) >= len(s.types) {
		panic(fmt.Sprintf("ir: handle %d not present in store %s", h, s.ID))
	}
	return s.types[h]
}

// Intern returns the Handle for t, assigning a fresh one if no structurally
// equal node has been interned before (spec §4.4: "structural equality: two
// nodes with equal tag and equal child handles intern to the same handle").
func (s *Store) Intern(t LogicalType) Handle {
	key := t.structuralKey()
	if h, ok := s.byKey[key]; ok {
		return h
	}
	h := Handle(len(s.types))
	s.types = append(s.types, t)
	s.byKey[key] = h
	return h
}

func (s *Store) internIface(i Interface) Handle {
	h := Handle(len(s.ifaces) + 1)
	s.ifaces = append(s.ifaces, i)
	return h
}

// Iface returns the Interface for h.
func (s *Store) Iface(h Handle) Interface {
	idx := int(h) - 1
	if idx < 0 || idx >= len(s.ifaces) {
		panic(fmt.Sprintf("ir: interface handle %d not present in store %s", h, s.ID))
	}
	return s.ifaces[idx]
}

func (s *Store) internStreamlet(st Streamlet) Handle {
	h := Handle(len(s.streamlets) + 1)
	s.streamlets = append(s.streamlets, st)
	return h
}

// Streamlet returns the Streamlet for h.
func (s *Store) Streamlet(h Handle) Streamlet {
	idx := int(h) - 1
	if idx < 0 || idx >= len(s.streamlets) {
		panic(fmt.Sprintf("ir: streamlet handle %d not present in store %s", h, s.ID))
	}
	return s.streamlets[idx]
}

func (s *Store) internImpl(i Implementation) Handle {
	h := Handle(len(s.impls) + 1)
	s.impls = append(s.impls, i)
	return h
}

// Impl returns the Implementation for h.
func (s *Store) Impl(h Handle) Implementation {
	idx := int(h) - 1
	if idx < 0 || idx >= len(s.impls) {
		panic(fmt.Sprintf("ir: implementation handle %d not present in store %s", h, s.ID))
	}
	return s.impls[idx]
}

// InternInterface interns i, returning a fresh handle. Interfaces are keyed
// by identity rather than structure: spec §3 treats two textually identical
// interfaces declared separately as distinct declarations (each carries its
// own doc and port spans), unlike logical types which are pure values.
func (s *Store) InternInterface(i Interface) Handle { return s.internIface(i) }

// InternStreamlet interns st, returning a fresh handle (identity-keyed, see
// InternInterface).
func (s *Store) InternStreamlet(st Streamlet) Handle { return s.internStreamlet(st) }

// InternImplementation interns i, returning a fresh handle (identity-keyed).
func (s *Store) InternImplementation(i Implementation) Handle { return s.internImpl(i) }
