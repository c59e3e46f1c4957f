// Package eval implements the TIL name/type evaluator (spec §4.3): a
// two-pass walk of a parsed namespace that resolves identifiers, interns IR
// nodes into an ir.Store, and reports duplicate-declaration and
// unresolved-reference diagnostics. It never short-circuits on the first
// error; evaluation of a namespace always runs to completion, recovering by
// skipping the offending declaration's contribution to the namespace while
// continuing to evaluate its siblings, matching the parser's own
// error-collecting stance.
package eval

import (
	"github.com/dekarrin/til/internal/diag"
	"github.com/dekarrin/til/internal/ir"
	"github.com/dekarrin/til/internal/names"
	"github.com/dekarrin/til/internal/parse"
	"github.com/dekarrin/til/internal/tilerr"
)

// Evaluator resolves one namespace at a time against a shared Store and
// Project (for cross-namespace imports). Namespaces must be evaluated in the
// topological order produced by internal/resolve, so that an import's
// target namespace is already present in project.Namespaces by the time it
// is referenced.
type Evaluator struct {
	Store   *ir.Store
	Diags   *diag.Collector
	Project *ir.Project
	File    string
	Source  string

	ns *ir.Namespace
}

// New returns an Evaluator that interns into store, reports into diags, and
// resolves imports against the namespaces already added to project.
func New(store *ir.Store, diags *diag.Collector, project *ir.Project, file, source string) *Evaluator {
	return &Evaluator{Store: store, Diags: diags, Project: project, File: file, Source: source}
}

// declKindOf maps a parser-level declaration kind to its IR counterpart.
func declKindOf(k parse.DeclKind) ir.DeclKind {
	switch k {
	case parse.DeclType:
		return ir.DeclType
	case parse.DeclInterface:
		return ir.DeclInterface
	case parse.DeclImpl:
		return ir.DeclImplementation
	case parse.DeclStreamlet:
		return ir.DeclStreamlet
	default:
		panic("eval: unknown parse.DeclKind")
	}
}

// EvaluateNamespace runs Pass A (header collection) then Pass B (body
// resolution) over ns, returning the populated ir.Namespace. The caller is
// responsible for adding the result to the Project only if e.Diags has no
// new Error-severity diagnostics attributable to this namespace (spec §4.3:
// "On any error the namespace is not added to the project but diagnostics
// are still reported for the remainder of the file").
func (e *Evaluator) EvaluateNamespace(src *parse.Namespace) *ir.Namespace {
	path := make(names.PathName, 0, len(src.Path))
	for _, seg := range src.Path {
		n, err := names.NewName(seg.Name)
		if err != nil {
			e.Diags.Errorf(tilerr.Naming, seg.Span, e.Source, "invalid namespace name: %s", err)
			continue
		}
		path = append(path, n)
	}

	e.ns = ir.NewNamespace(path)
	e.passA(src)
	e.passB(src)
	return e.ns
}

// passA registers every top-level declaration's name under its kind with a
// placeholder handle, and records every import statement. Collisions are
// reported against both the new and the previously recorded span (spec
// §4.3 Pass A).
func (e *Evaluator) passA(src *parse.Namespace) {
	for _, stmt := range src.Statements {
		switch {
		case stmt.Decl != nil:
			e.declareHeader(stmt.Decl)
		case stmt.Import != nil:
			e.recordImport(stmt.Import)
		}
	}
}

func (e *Evaluator) declareHeader(d *parse.Decl) {
	name, err := names.NewName(d.Name.Name)
	if err != nil {
		e.Diags.Errorf(tilerr.Naming, d.Name.Span, e.Source, "invalid name: %s", err)
		return
	}

	kind := declKindOf(d.Kind)
	if err := e.ns.TryDeclare(kind, name, Handle0, d.Span); err != nil {
		priorSpan, _ := e.ns.DeclSpan(kind, name)
		e.Diags.Add(diag.Diagnostic{
			Severity:   diag.Error,
			Category:   tilerr.Naming,
			Message:    "duplicate " + d.Kind.String() + " declaration: " + name.String(),
			Primary:    d.Span,
			SourceText: e.Source,
			Secondary:  []diag.SecondaryLabel{{Span: priorSpan, Label: "first declared here"}},
		})
	}
}

func (e *Evaluator) recordImport(imp *parse.ImportStat) {
	path, ok := e.pathFromIdentExpr(imp.Path)
	if !ok {
		return
	}
	e.ns.Imports = append(e.ns.Imports, path)
}

func (e *Evaluator) pathFromIdentExpr(ie parse.IdentExpr) (names.PathName, bool) {
	path := make(names.PathName, 0, len(ie.Segments))
	ok := true
	for _, seg := range ie.Segments {
		n, err := names.NewName(seg.Name)
		if err != nil {
			e.Diags.Errorf(tilerr.Naming, seg.Span, e.Source, "invalid name: %s", err)
			ok = false
			continue
		}
		path = append(path, n)
	}
	return path, ok
}

// Handle0 is the invalid placeholder handle written during Pass A and
// overwritten with the real interned handle during Pass B.
const Handle0 = ir.Handle(0)

// passB visits each declaration's body and overwrites its Pass-A placeholder
// with the resolved/interned handle.
func (e *Evaluator) passB(src *parse.Namespace) {
	for _, stmt := range src.Statements {
		if stmt.Decl == nil {
			continue
		}
		d := stmt.Decl
		name, err := names.NewName(d.Name.Name)
		if err != nil {
			continue // already reported in Pass A
		}
		kind := declKindOf(d.Kind)
		// A name that collided in Pass A keeps its first binding; only the
		// first declaration's body is evaluated into the table slot.
		if h, _ := e.ns.Lookup(kind, name); h != Handle0 {
			continue
		}

		var h ir.Handle
		switch d.Kind {
		case parse.DeclType:
			h = e.evalTypeExpr(d.Value)
		case parse.DeclInterface:
			h = e.evalInterfaceExprDoc(d.Value, d.Doc)
		case parse.DeclImpl:
			h = e.evalImplExpr(d.Value)
		case parse.DeclStreamlet:
			h = e.evalStreamletExprDoc(d.Value, d.Doc, name)
		}
		switch kind {
		case ir.DeclType:
			e.ns.Types.Set(name, h)
		case ir.DeclInterface:
			e.ns.Interfaces.Set(name, h)
		case ir.DeclImplementation:
			e.ns.Implementations.Set(name, h)
		case ir.DeclStreamlet:
			e.ns.Streamlets.Set(name, h)
		}
	}
}

// resolveIdent implements spec §4.3's reference-resolution order (ii) and
// (iii): a single-segment ident_expr is looked up in the local namespace
// under kind; a multi-segment one is split into a namespace path (all but
// the last segment) that must match a declared import, plus a final-segment
// name looked up in that imported namespace's table for kind. Order (i),
// anonymous/inline definition, is handled by the caller before ever
// reaching here: an Expr with Ident == nil never calls resolveIdent.
//
// This is the concrete form of spec §4.3's Def<T> = {Import, Ident, Inline}
// tagged resolution value: Inline is every non-Ident Expr case handled at
// the call site, and the Ident/Import distinction collapses into the
// segment-count branch below since both ultimately resolve to a handle.
func (e *Evaluator) resolveIdent(ie parse.IdentExpr, kind ir.DeclKind) (ir.Handle, bool) {
	if len(ie.Segments) == 0 {
		return 0, false
	}
	if len(ie.Segments) == 1 {
		name, err := names.NewName(ie.Segments[0].Name)
		if err != nil {
			e.Diags.Errorf(tilerr.Naming, ie.Segments[0].Span, e.Source, "invalid name: %s", err)
			return 0, false
		}
		if h, ok := e.ns.Lookup(kind, name); ok && h != Handle0 {
			return h, true
		}
		e.Diags.Errorf(tilerr.Resolution, ie.Span, e.Source, "unresolved identifier %q", name.String())
		return 0, false
	}

	path, ok := e.pathFromIdentExpr(ie)
	if !ok {
		return 0, false
	}
	nsPath := path[:len(path)-1]
	last := path[len(path)-1]

	matched := false
	for _, imp := range e.ns.Imports {
		if imp.Equal(nsPath) {
			matched = true
			break
		}
	}
	if !matched {
		e.Diags.Errorf(tilerr.Resolution, ie.Span, e.Source, "%q is not a declared import of this namespace", nsPath.String())
		return 0, false
	}

	target, ok := e.Project.Namespaces.Get(nsPath.Key())
	if !ok {
		e.Diags.Errorf(tilerr.Resolution, ie.Span, e.Source, "imported namespace %q was not compiled", nsPath.String())
		return 0, false
	}
	h, ok := target.Lookup(kind, last)
	if !ok {
		e.Diags.Errorf(tilerr.Resolution, ie.Span, e.Source, "%q has no %s named %q", nsPath.String(), kind, last.String())
		return 0, false
	}
	return h, true
}
