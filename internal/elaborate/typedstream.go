package elaborate

import "github.com/dekarrin/til/internal/ir"

// TypedStream is the fully elaborated form of one interface port: the
// field/stream layout produced by Split, paired with each physical stream's
// signal-width contract from Synthesize (spec §2: "for each streamlet
// interface port, computes the TypedStream (fields + per-stream signal
// sets)").
type TypedStream struct {
	Reference *TypeReference
	Physical  map[string]PhysicalStream
}

// ElaboratePort runs Split then Synthesize over a port's Stream type,
// producing its TypedStream.
func ElaboratePort(store *ir.Store, port ir.Port) (*TypedStream, error) {
	split, err := Split(store, port.Stream)
	if err != nil {
		return nil, err
	}
	phys, err := Synthesize(store, split)
	if err != nil {
		return nil, err
	}
	return &TypedStream{Reference: BuildTypeReference(split), Physical: phys}, nil
}
