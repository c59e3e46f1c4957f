// Package til contains the top-level orchestration for the Tydi Interface
// Language compiler front end: Compile drives lex -> parse -> resolve ->
// evaluate -> elaborate over a project's source files, collecting
// diagnostics along the way, and on success publishes an *ir.Project.
package til

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dekarrin/til/internal/diag"
	"github.com/dekarrin/til/internal/elaborate"
	"github.com/dekarrin/til/internal/eval"
	"github.com/dekarrin/til/internal/ir"
	"github.com/dekarrin/til/internal/lex"
	"github.com/dekarrin/til/internal/manifest"
	"github.com/dekarrin/til/internal/names"
	"github.com/dekarrin/til/internal/parse"
	"github.com/dekarrin/til/internal/resolve"
	"github.com/dekarrin/til/internal/tilerr"
)

// Result is the outcome of a Compile call: either a populated Project (when
// Diagnostics has no errors) or just the diagnostics collected before
// failure.
type Result struct {
	Project     *ir.Project
	Diagnostics []diag.Diagnostic
	RunID       string

	// TypedStreams holds the elaborated form of every interface port across
	// the project, keyed by "namespace.path:interfaceName:portName" (spec §2
	// "for each streamlet interface port, computes the TypedStream").
	TypedStreams map[string]*elaborate.TypedStream
}

// Success reports whether the compile run produced a usable Project.
func (r Result) Success() bool {
	return r.Project != nil
}

// Compile runs the full pipeline over the sources named in a project
// manifest (spec §6), and returns a Result. Internal-invariant panics
// (tilerr.Invariant) propagate to the caller after this function's deferred
// recovery attaches the run ID; user errors never panic, they accumulate in
// Result.Diagnostics (spec §7).
func Compile(manifestPath string) (res Result, err error) {
	runID := uuid.New().String()
	defer func() {
		if r := recover(); r != nil {
			if inv, ok := r.(tilerr.Invariant); ok {
				inv.RunID = runID
				panic(inv)
			}
			panic(r)
		}
	}()

	proj, err := manifest.Load(manifestPath)
	if err != nil {
		return Result{RunID: runID}, fmt.Errorf("reading manifest: %w", err)
	}

	sources, err := manifest.ReadSources(proj)
	if err != nil {
		return Result{RunID: runID}, fmt.Errorf("reading project sources: %w", err)
	}

	return CompileSources(proj.Name, sources), nil
}

// CompileSources runs the pipeline over already-loaded source files,
// bypassing manifest reading (used directly by tests and by callers that
// assemble sources themselves, e.g. from a resource bundle).
func CompileSources(projectName string, sources []manifest.SourceFile) Result {
	runID := uuid.New().String()
	diags := diag.New()
	store := ir.NewStore()
	project := ir.NewProject(projectName, "", store)

	var units []resolve.Unit
	for _, src := range sources {
		lexer := lex.New(src.Path, src.Text)
		toks, lexErrs := lexer.Tokens()
		for _, le := range lexErrs {
			diags.Errorf(tilerr.Lex, le.Span, src.Text, "%s", le.Message)
		}

		p := parse.New(toks, src.Path, src.Text, diags)
		file := p.ParseFile()

		for _, ns := range file.Namespaces {
			units = append(units, resolve.Unit{Namespace: ns, File: src.Path, Source: src.Text})
		}
	}

	resolver := resolve.New(diags)
	ordered := resolver.Order(units)

	for _, u := range ordered {
		evaluator := eval.New(store, diags, project, u.File, u.Source)
		ns := evaluator.EvaluateNamespace(u.Namespace)

		if namespaceHasOwnErrors(diags, u.File) {
			continue
		}
		if err := project.AddNamespace(ns); err != nil {
			diags.Errorf(tilerr.Resolution, u.Namespace.Span, u.Source, "%s", err)
		}
	}

	if diags.HasErrors() {
		return Result{Diagnostics: diags.All(), RunID: runID}
	}

	typed := elaborateProject(store, project, diags)
	if diags.HasErrors() {
		return Result{Diagnostics: diags.All(), RunID: runID}
	}

	return Result{Project: project, Diagnostics: diags.All(), RunID: runID, TypedStreams: typed}
}

// namespaceHasOwnErrors reports whether any collected diagnostic so far is
// anchored in a source file named file. Used to decide whether a namespace
// that just finished evaluating should be withheld from the project (spec
// §4.3: "On any error the namespace is not added to the project").
//
// This is a coarse per-file check rather than a per-namespace one: a file
// may in principle declare more than one namespace, but §4.1's manifest
// model and every example in spec §8 assume one namespace per file, so a
// file-level error is treated as disqualifying every namespace it
// contributed.
func namespaceHasOwnErrors(diags *diag.Collector, file string) bool {
	for _, d := range diags.All() {
		if d.Severity == diag.Error && d.Primary.File == file {
			return true
		}
	}
	return false
}

// elaborateProject runs Split and Synthesize over every port of every
// interface declared across the project, surfacing any structural
// elaboration failure as a diagnostic rather than a Go error (spec §7: these
// are Structural-category user errors, not internal invariants).
func elaborateProject(store *ir.Store, project *ir.Project, diags *diag.Collector) map[string]*elaborate.TypedStream {
	typed := make(map[string]*elaborate.TypedStream)

	project.Namespaces.Range(func(nsKey string, ns *ir.Namespace) bool {
		ns.Interfaces.Range(func(ifaceName names.Name, h ir.Handle) bool {
			iface := store.Iface(h)
			for _, port := range iface.Ports {
				key := nsKey + ":" + ifaceName.String() + ":" + port.Name.String()
				ts, err := elaborate.ElaboratePort(store, port)
				if err != nil {
					sp, _ := ns.DeclSpan(ir.DeclInterface, ifaceName)
					diags.Errorf(tilerr.Structural, sp, "",
						"elaborating port %q of interface %q: %s", port.Name.String(), ifaceName.String(), err)
					continue
				}
				typed[key] = ts
			}
			return true
		})
		return true
	})

	return typed
}
