// Package names implements the Name and PathName identifier types shared
// across the TIL compiler (spec §3). A Name is a validated identifier; a
// PathName is an ordered sequence of Names used both for namespace paths and
// structural field paths.
package names

import (
	"fmt"
	"strings"
)

// Name is a validated TIL identifier: a non-empty string of letters, digits,
// and underscores, that does not start with a digit or underscore, does not
// end with an underscore, and contains no double underscores.
type Name string

// reservedWords are keyword tokens that may never be used as a declared Name.
// Kept in sync with the keyword table in internal/lex.
var reservedWords = map[string]bool{
	"namespace": true, "type": true, "streamlet": true, "interface": true,
	"impl": true, "import": true,
	"Null": true, "Bits": true, "Group": true, "Union": true, "Stream": true,
	"Sync": true, "Flatten": true, "Desync": true, "FlatDesync": true,
	"Forward": true, "Reverse": true,
	"in": true, "out": true, "struct": true,
	"true": true, "false": true,
	"mod": true,
}

// NewName validates s and returns it as a Name, or an error describing why it
// is not a legal identifier.
func NewName(s string) (Name, error) {
	if s == "" {
		return "", fmt.Errorf("name cannot be empty")
	}
	if reservedWords[s] {
		return "", fmt.Errorf("%q is a reserved word and cannot be used as a name", s)
	}

	r := []rune(s)
	first := r[0]
	if first >= '0' && first <= '9' {
		return "", fmt.Errorf("name %q cannot start with a digit", s)
	}
	if first == '_' {
		return "", fmt.Errorf("name %q cannot start with an underscore", s)
	}
	if r[len(r)-1] == '_' {
		return "", fmt.Errorf("name %q cannot end with an underscore", s)
	}

	prevUnderscore := false
	for _, c := range r {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			prevUnderscore = false
		case c == '_':
			if prevUnderscore {
				return "", fmt.Errorf("name %q cannot contain a double underscore", s)
			}
			prevUnderscore = true
		default:
			return "", fmt.Errorf("name %q contains illegal character %q", s, c)
		}
	}

	return Name(s), nil
}

// MustName calls NewName and panics if it returns an error. It exists for use
// with compile-time-known identifiers (tests, builtin names) and must never
// be called with untrusted input.
func MustName(s string) Name {
	n, err := NewName(s)
	if err != nil {
		panic(err)
	}
	return n
}

func (n Name) String() string {
	return string(n)
}

// Equal reports whether n and o are the same Name.
func (n Name) Equal(o Name) bool {
	return n == o
}

// PathName is an ordered sequence of Name segments, used for namespace paths
// (e.g. "a::b::c") and structural field paths within a logical type. A
// PathName may be empty (zero segments).
type PathName []Name

// ParsePathName splits s on "::" and validates each segment as a Name.
func ParsePathName(s string) (PathName, error) {
	if s == "" {
		return PathName{}, nil
	}
	parts := strings.Split(s, "::")
	path := make(PathName, 0, len(parts))
	for _, p := range parts {
		n, err := NewName(p)
		if err != nil {
			return nil, fmt.Errorf("invalid path name %q: %w", s, err)
		}
		path = append(path, n)
	}
	return path, nil
}

// NewPathName builds a PathName from already-validated segments.
func NewPathName(segs ...Name) PathName {
	path := make(PathName, len(segs))
	copy(path, segs)
	return path
}

// Root returns the first segment of the path and whether one exists.
func (p PathName) Root() (Name, bool) {
	if len(p) == 0 {
		return "", false
	}
	return p[0], true
}

// Join returns a new PathName with n appended.
func (p PathName) Join(n Name) PathName {
	joined := make(PathName, len(p)+1)
	copy(joined, p)
	joined[len(p)] = n
	return joined
}

// Concat returns a new PathName that is p followed by o's segments.
func (p PathName) Concat(o PathName) PathName {
	joined := make(PathName, 0, len(p)+len(o))
	joined = append(joined, p...)
	joined = append(joined, o...)
	return joined
}

// Len returns the number of segments in the path.
func (p PathName) Len() int {
	return len(p)
}

// Empty reports whether the path has zero segments.
func (p PathName) Empty() bool {
	return len(p) == 0
}

// Equal reports whether p and o have the same segments in the same order.
func (p PathName) Equal(o PathName) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// String renders the path using "::" as the segment separator, matching the
// source syntax for path identifiers.
func (p PathName) String() string {
	segs := make([]string, len(p))
	for i, n := range p {
		segs[i] = string(n)
	}
	return strings.Join(segs, "::")
}

// Key returns a value suitable for use as a map key representing this path,
// since a Go slice cannot itself be a map key.
func (p PathName) Key() string {
	return p.String()
}
