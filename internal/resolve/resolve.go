// Package resolve implements the TIL import/dependency resolver (spec
// §4.6): given every namespace parsed across a project's source files, it
// detects duplicate namespace definitions and unknown imports, builds the
// namespace dependency graph, and produces a topological evaluation order so
// that internal/eval never resolves an import before its target namespace
// has been evaluated.
package resolve

import (
	"fmt"
	"strings"

	"github.com/dekarrin/til/internal/diag"
	"github.com/dekarrin/til/internal/names"
	"github.com/dekarrin/til/internal/parse"
	"github.com/dekarrin/til/internal/tilerr"
)

// Unit is one parsed namespace plus the file it came from, as input to the
// resolver.
type Unit struct {
	Namespace *parse.Namespace
	File      string
	Source    string
}

type node struct {
	unit Unit
	path names.PathName
	deps []names.PathName
}

// Resolver computes a topological evaluation order over a set of parsed
// namespaces.
type Resolver struct {
	diags *diag.Collector
}

// New returns a Resolver reporting into diags.
func New(diags *diag.Collector) *Resolver {
	return &Resolver{diags: diags}
}

// Order returns the units in an order such that every namespace appears
// after all namespaces it imports. Units whose namespace path is a
// duplicate of an earlier one are dropped (with a diagnostic). If the import
// graph has a cycle, Order reports one cycle diagnostic naming the full cycle
// (spec §8 scenario 6) and returns nil: no unit is ordered.
func (r *Resolver) Order(units []Unit) []Unit {
	byPath := make(map[string]*node)
	var order []*node

	for _, u := range units {
		path, ok := r.pathOf(u)
		if !ok {
			continue
		}
		key := path.Key()
		if existing, dup := byPath[key]; dup {
			r.diags.Errorf(tilerr.Resolution, u.Namespace.Span, u.Source,
				"duplicate namespace %q (also declared in %s)", path.String(), existing.unit.File)
			continue
		}
		n := &node{unit: u, path: path}
		byPath[key] = n
		order = append(order, n)
	}

	for _, n := range order {
		n.deps = r.importsOf(n.unit)
	}

	for _, n := range order {
		for _, dep := range n.deps {
			if _, ok := byPath[dep.Key()]; !ok {
				r.diags.Errorf(tilerr.Resolution, n.unit.Namespace.Span, n.unit.Source,
					"unknown import %q in namespace %q", dep.String(), n.path.String())
			}
		}
	}

	sorted, cyclePath := topoSort(order, byPath)
	if cyclePath != nil {
		cycErr := &CycleError{Path: cyclePath}
		anchor := byPath[cyclePath[0].Key()]
		r.diags.Errorf(tilerr.Resolution, anchor.unit.Namespace.Span, anchor.unit.Source, "%s", cycErr.Error())
		return nil
	}

	result := make([]Unit, len(sorted))
	for i, n := range sorted {
		result[i] = n.unit
	}
	return result
}

func (r *Resolver) pathOf(u Unit) (names.PathName, bool) {
	path := make(names.PathName, 0, len(u.Namespace.Path))
	for _, seg := range u.Namespace.Path {
		n, err := names.NewName(seg.Name)
		if err != nil {
			r.diags.Errorf(tilerr.Naming, seg.Span, u.Source, "invalid namespace name: %s", err)
			return nil, false
		}
		path = append(path, n)
	}
	return path, true
}

func (r *Resolver) importsOf(u Unit) []names.PathName {
	var deps []names.PathName
	for _, stmt := range u.Namespace.Statements {
		if stmt.Import == nil {
			continue
		}
		path := make(names.PathName, 0, len(stmt.Import.Path.Segments))
		ok := true
		for _, seg := range stmt.Import.Path.Segments {
			n, err := names.NewName(seg.Name)
			if err != nil {
				ok = false
				break
			}
			path = append(path, n)
		}
		if ok {
			deps = append(deps, path)
		}
	}
	return deps
}

// topoSort performs a depth-first topological sort over nodes. It returns
// the sorted nodes, or (nil, cyclePath) if a cycle is found, where cyclePath
// lists the namespace paths in cycle order starting and ending at the same
// node (spec §8 scenario 6: "[p, q, p]").
func topoSort(nodes []*node, byPath map[string]*node) ([]*node, []names.PathName) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(nodes))
	var sorted []*node
	var stack []names.PathName

	var visit func(n *node) []names.PathName
	visit = func(n *node) []names.PathName {
		key := n.path.Key()
		color[key] = gray
		stack = append(stack, n.path)

		for _, dep := range n.deps {
			depNode, ok := byPath[dep.Key()]
			if !ok {
				continue // already reported as an unknown import
			}
			switch color[dep.Key()] {
			case white:
				if cyc := visit(depNode); cyc != nil {
					return cyc
				}
			case gray:
				cyc := append([]names.PathName{}, stack...)
				cyc = append(cyc, dep)
				// trim to start at the repeated node
				for i, p := range cyc {
					if p.Equal(dep) {
						return cyc[i:]
					}
				}
				return cyc
			}
		}

		stack = stack[:len(stack)-1]
		color[key] = black
		sorted = append(sorted, n)
		return nil
	}

	for _, n := range nodes {
		if color[n.path.Key()] == white {
			if cyc := visit(n); cyc != nil {
				return nil, cyc
			}
		}
	}
	return sorted, nil
}

// CycleError renders a cycle path the way spec §8 scenario 6 expects.
type CycleError struct {
	Path []names.PathName
}

func (e *CycleError) Error() string {
	names := make([]string, len(e.Path))
	for i, p := range e.Path {
		names[i] = p.String()
	}
	return fmt.Sprintf("import cycle: [%s]", strings.Join(names, ", "))
}
