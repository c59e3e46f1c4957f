package elaborate

import "github.com/dekarrin/til/internal/names"

// FieldRef records where one field of the original (pre-split) logical type
// landed: either a bit range within the residual signals type, or a stream
// path produced by Split. Exactly one of HasBits/HasStream is true.
type FieldRef struct {
	Path names.PathName

	HasBits  bool
	BitLo    int
	BitHi    int // exclusive
	HasStream bool
	StreamPath names.PathName
}

// TypeReference preserves, for a single split logical type, which original
// field maps to which bits or which physical stream (spec §4.5
// "TypeReference is emitted alongside ... for later backend use").
type TypeReference struct {
	Fields []FieldRef
}

// BuildTypeReference produces a TypeReference with one FieldRef per stream
// path in split.Order, in that order, each with HasStream set. It does not
// record bit ranges within the residual signals type: HasBits, BitLo and
// BitHi are never set.
func BuildTypeReference(split *SplitResult) *TypeReference {
	ref := &TypeReference{}
	for _, path := range split.Order {
		ref.Fields = append(ref.Fields, FieldRef{
			Path:       path,
			HasStream:  true,
			StreamPath: path,
		})
	}
	return ref
}
