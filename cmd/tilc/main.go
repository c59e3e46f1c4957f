/*
Tilc runs the Tydi Interface Language compiler front end over a project and
reports diagnostics.

It accepts either a single .til source file or a project manifest, compiles
it through lexing, parsing, name resolution, IR interning, and logical-to-
physical elaboration, and prints any diagnostics produced along the way to
stderr. It produces no other output; lowering the elaborated IR to a target
HDL is a downstream backend's concern.

Usage:

	tilc [flags] <path> [output-dir]

The flags are:

	-v, --version
		Give the current version of tilc and then exit.

	-w, --width N
		Wrap diagnostic messages to the given terminal width. A width of 0
		disables wrapping. Defaults to 80.

<path> is either a .til source file or a project manifest file. If
[output-dir] is given it overrides the manifest's own output directory;
it is otherwise unused since this build has no backend.
*/
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dekarrin/til"
	"github.com/dekarrin/til/internal/diag"
	"github.com/dekarrin/til/internal/manifest"
	"github.com/dekarrin/til/internal/version"
)

const (
	// ExitSuccess indicates a successful compile with no errors.
	ExitSuccess = iota

	// ExitCompileError indicates the compile run produced one or more
	// Error-severity diagnostics.
	ExitCompileError

	// ExitUsageError indicates a problem with the invocation itself, before
	// compilation could be attempted.
	ExitUsageError
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	flagWidth   *int    = pflag.IntP("width", "w", 80, "Wrap width for diagnostic output; 0 disables wrapping")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: a source file or project manifest path is required")
		returnCode = ExitUsageError
		return
	}
	path := args[0]

	proj, loadErr := loadProject(path)
	if loadErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", loadErr.Error())
		returnCode = ExitUsageError
		return
	}
	if len(args) >= 2 {
		proj.OutputDir = args[1]
	}

	sources, readErr := manifest.ReadSources(proj)
	if readErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", readErr.Error())
		returnCode = ExitUsageError
		return
	}

	result := til.CompileSources(proj.Name, sources)
	for _, d := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, diag.Render(d, *flagWidth))
	}

	if !result.Success() {
		returnCode = ExitCompileError
	}
}

// loadProject turns a CLI path argument into a manifest.Project: a .til
// extension is treated as a single bare source file with no manifest, and
// anything else is loaded as a manifest file proper (spec §6: "<path> is
// either a source file or manifest").
func loadProject(path string) (manifest.Project, error) {
	if strings.EqualFold(filepath.Ext(path), ".til") {
		abs, err := filepath.Abs(path)
		if err != nil {
			return manifest.Project{}, err
		}
		return manifest.Project{
			Name:      strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs)),
			Sources:   []string{abs},
			OutputDir: filepath.Dir(abs),
		}, nil
	}
	return manifest.Load(path)
}
