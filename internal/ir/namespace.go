package ir

import (
	"github.com/dekarrin/til/internal/names"
	"github.com/dekarrin/til/internal/span"
	"github.com/dekarrin/til/internal/util"
)

// DeclKind tags which of a Namespace's four declaration tables a DeclKey
// addresses, used to key per-declaration source spans for diagnostics (spec
// §3: "each declaration carries its source span").
type DeclKind int

const (
	DeclType DeclKind = iota
	DeclInterface
	DeclImplementation
	DeclStreamlet
)

func (k DeclKind) String() string {
	switch k {
	case DeclType:
		return "type"
	case DeclInterface:
		return "interface"
	case DeclImplementation:
		return "impl"
	case DeclStreamlet:
		return "streamlet"
	default:
		return "declaration"
	}
}

// DeclKey uniquely identifies one declaration within a Namespace.
type DeclKey struct {
	Kind DeclKind
	Name names.Name
}

// Namespace is a named module grouping types, interfaces, streamlets, and
// implementations (spec §3). Each of the four declaration kinds has its own
// name scope: a type and a streamlet may share a name, but two types may
// not.
type Namespace struct {
	Path            names.PathName
	Types           *util.OrderedMap[names.Name, Handle]
	Interfaces      *util.OrderedMap[names.Name, Handle]
	Implementations *util.OrderedMap[names.Name, Handle]
	Streamlets      *util.OrderedMap[names.Name, Handle]
	Imports         []names.PathName
	Spans           map[DeclKey]span.Span
}

// NewNamespace returns an empty Namespace rooted at path.
func NewNamespace(path names.PathName) *Namespace {
	return &Namespace{
		Path:            path,
		Types:           util.NewOrderedMap[names.Name, Handle](),
		Interfaces:      util.NewOrderedMap[names.Name, Handle](),
		Implementations: util.NewOrderedMap[names.Name, Handle](),
		Streamlets:      util.NewOrderedMap[names.Name, Handle](),
		Spans:           make(map[DeclKey]span.Span),
	}
}

func (ns *Namespace) tableFor(k DeclKind) *util.OrderedMap[names.Name, Handle] {
	switch k {
	case DeclType:
		return ns.Types
	case DeclInterface:
		return ns.Interfaces
	case DeclImplementation:
		return ns.Implementations
	case DeclStreamlet:
		return ns.Streamlets
	default:
		panic("ir: unknown DeclKind")
	}
}

// TryDeclare registers name -> h under kind, recording sp as its source span.
// It returns an error (without mutating anything) if the name is already
// declared for that kind (spec §4.3 Pass A: "collision on same name/kind is a
// hard error").
func (ns *Namespace) TryDeclare(kind DeclKind, name names.Name, h Handle, sp span.Span) error {
	table := ns.tableFor(kind)
	if err := table.TryInsert(name, h); err != nil {
		return err
	}
	ns.Spans[DeclKey{Kind: kind, Name: name}] = sp
	return nil
}

// Lookup resolves name against kind's table, returning its handle.
func (ns *Namespace) Lookup(kind DeclKind, name names.Name) (Handle, bool) {
	return ns.tableFor(kind).Get(name)
}

// DeclSpan returns the recorded source span for a declaration, if any.
func (ns *Namespace) DeclSpan(kind DeclKind, name names.Name) (span.Span, bool) {
	sp, ok := ns.Spans[DeclKey{Kind: kind, Name: name}]
	return sp, ok
}

// Project is a closure of namespaces compiled together, plus any named
// external project dependencies (spec §3). Cross-project imports are out of
// scope for this implementation (SPEC_FULL.md Open Question Resolutions);
// Imports exists to satisfy the data model and is always empty in practice.
type Project struct {
	Name       string
	Root       string
	Namespaces *util.OrderedMap[string, *Namespace] // keyed by PathName.Key()
	Imports    map[string]*Project
	Store      *Store
}

// NewProject returns an empty Project backed by store.
func NewProject(name, root string, store *Store) *Project {
	return &Project{
		Name:       name,
		Root:       root,
		Namespaces: util.NewOrderedMap[string, *Namespace](),
		Imports:    make(map[string]*Project),
		Store:      store,
	}
}

// AddNamespace registers ns under its own path key. It returns an error if a
// namespace at that path already exists (spec §4.6: "duplicate namespace
// definitions"), or if ns's first path segment collides with a declared
// import project name (spec §3 Project invariant).
func (p *Project) AddNamespace(ns *Namespace) error {
	key := ns.Path.Key()
	if p.Namespaces.Has(key) {
		return &DuplicateNamespaceError{Path: ns.Path}
	}
	if root, ok := ns.Path.Root(); ok {
		if _, isImportName := p.Imports[root.String()]; isImportName {
			return &NamespaceImportCollisionError{Path: ns.Path, ImportName: root.String()}
		}
	}
	p.Namespaces.Set(key, ns)
	return nil
}

// DuplicateNamespaceError reports that two namespaces declared the same path.
type DuplicateNamespaceError struct {
	Path names.PathName
}

func (e *DuplicateNamespaceError) Error() string {
	return "duplicate namespace: " + e.Path.String()
}

// NamespaceImportCollisionError reports a namespace whose root segment
// collides with an imported project's name.
type NamespaceImportCollisionError struct {
	Path       names.PathName
	ImportName string
}

func (e *NamespaceImportCollisionError) Error() string {
	return "namespace " + e.Path.String() + " collides with imported project name " + e.ImportName
}
