// Package manifest reads the TIL project manifest (spec §6): a key-value
// file naming the project name, an ordered list of source file paths
// relative to the manifest, and an output directory. It is an external
// collaborator per spec §1 ("project-file reading ... treated as external
// collaborators with interface contracts only"), not part of the compiler
// core, but is implemented and tested the way the rest of the tree is.
//
// Modeled on internal/tqw's TOML-based world-file loader: a private
// toml-tagged struct is decoded with github.com/BurntSushi/toml, then
// converted into the public Project struct the rest of the module consumes.
package manifest

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrNoSourceFiles is returned when a manifest is read successfully but
// lists no source files.
var ErrNoSourceFiles = errors.New("manifest does not list any source files")

// Project is a parsed project manifest, with every path resolved relative to
// the manifest file's own directory.
type Project struct {
	Name      string
	Sources   []string
	OutputDir string
}

// topLevelManifest mirrors the on-disk TOML schema (spec §6): a project name,
// an ordered "files" list, and an output directory.
type topLevelManifest struct {
	Name   string   `toml:"name"`
	Files  []string `toml:"files"`
	Output string   `toml:"output"`
}

// Load reads and parses the manifest at path, resolving every listed source
// path and the output directory relative to the manifest's own directory.
func Load(path string) (Project, error) {
	var raw topLevelManifest
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return Project{}, err
	}
	return raw.toProject(filepath.Dir(path))
}

// LoadBytes parses manifest data already read into memory, resolving
// relative paths against baseDir. Used by tests and by callers that have
// already fetched the manifest contents themselves.
func LoadBytes(data []byte, baseDir string) (Project, error) {
	var raw topLevelManifest
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return Project{}, err
	}
	return raw.toProject(baseDir)
}

func (m topLevelManifest) toProject(baseDir string) (Project, error) {
	if len(m.Files) == 0 {
		return Project{}, ErrNoSourceFiles
	}

	p := Project{Name: m.Name}
	for _, f := range m.Files {
		if filepath.IsAbs(f) {
			p.Sources = append(p.Sources, f)
		} else {
			p.Sources = append(p.Sources, filepath.Join(baseDir, f))
		}
	}

	if m.Output == "" {
		p.OutputDir = baseDir
	} else if filepath.IsAbs(m.Output) {
		p.OutputDir = m.Output
	} else {
		p.OutputDir = filepath.Join(baseDir, m.Output)
	}

	return p, nil
}

// ReadSources reads every one of p's source files from disk, in manifest
// order, returning their contents alongside their paths.
func ReadSources(p Project) ([]SourceFile, error) {
	files := make([]SourceFile, 0, len(p.Sources))
	for _, path := range p.Sources {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, SourceFile{Path: path, Text: string(data)})
	}
	return files, nil
}

// SourceFile is one manifest-listed source file's path and contents.
type SourceFile struct {
	Path string
	Text string
}
