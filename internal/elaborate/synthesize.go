package elaborate

import (
	"math"

	"github.com/dekarrin/til/internal/ir"
)

// PhysicalStream is the synthesized signal-width contract for one stream
// produced by Split (spec §4.5 "Synthesize").
type PhysicalStream struct {
	DataWidth int
	UserWidth int
	LastWidth int
	Lanes     int

	HasStrb bool
	HasStai bool
	HasEndi bool
}

// Synthesize computes the PhysicalStream for every stream discovered by a
// prior Split, keyed the same way as SplitResult.Streams.
//
// Complexity -> signal presence mapping (SPEC_FULL.md Open Question
// Resolution, encoding the Tydi physical-stream specification directly
// rather than re-deriving it per call site):
//   - strb present when complexity >= 7
//   - endi present when complexity >= 6
//   - stai present when complexity >= 6 AND lane count > 1
//   - last is per-lane when complexity >= 8, otherwise a single
//     dimensionality-sized signal shared across all lanes
func Synthesize(store *ir.Store, split *SplitResult) (map[string]PhysicalStream, error) {
	out := make(map[string]PhysicalStream, len(split.Streams))
	for _, path := range split.Order {
		key := path.Key()
		info := split.Streams[key]
		ps, err := synthesizeOne(store, info)
		if err != nil {
			return nil, err
		}
		out[key] = ps
	}
	return out, nil
}

func synthesizeOne(store *ir.Store, info StreamInfo) (PhysicalStream, error) {
	s := store.Get(info.Handle)
	if s.Kind != ir.KindStream {
		return PhysicalStream{}, &StructuralError{Message: "synthesize called on a non-Stream handle"}
	}
	props := s.Stream

	lanes := lanesFor(props.Throughput)
	if lanes <= 0 {
		return PhysicalStream{}, &StructuralError{Message: "computed non-positive lane count from throughput"}
	}

	dataSplit, err := split(store, props.Data, 0, ScopeParent, ir.Forward)
	if err != nil {
		return PhysicalStream{}, err
	}
	elementWidth, err := flatBitCount(store, dataSplit.Signals)
	if err != nil {
		return PhysicalStream{}, err
	}
	dataWidth := elementWidth * lanes
	if dataWidth < 0 {
		return PhysicalStream{}, &StructuralError{Message: "negative data width computed during synthesis"}
	}

	userWidth, err := flatBitCount(store, props.User)
	if err != nil {
		return PhysicalStream{}, err
	}

	cx := props.Complexity
	hasStrb := cx >= 7
	hasEndi := cx >= 6
	hasStai := cx >= 6 && lanes > 1

	lastWidth := info.Dimensionality
	if cx >= 8 {
		lastWidth = info.Dimensionality * lanes
	}

	return PhysicalStream{
		DataWidth: dataWidth,
		UserWidth: userWidth,
		LastWidth: lastWidth,
		Lanes:     lanes,
		HasStrb:   hasStrb,
		HasStai:   hasStai,
		HasEndi:   hasEndi,
	}, nil
}

// lanesFor rounds a throughput (elements per cycle) up to a whole lane
// count, per spec §4.5 "element-lane count (from throughput, rounded up)".
func lanesFor(throughput float64) int {
	return int(math.Ceil(throughput))
}

// flatBitCount returns the total bit width of an element-manipulating
// logical type (Null/Bits/Group/Union only; a Stream handle here is an
// internal-invariant violation since Split always removes embedded Streams
// from the signals type before this is called).
func flatBitCount(store *ir.Store, h ir.Handle) (int, error) {
	if h.Invalid() {
		return 0, nil
	}
	t := store.Get(h)
	switch t.Kind {
	case ir.KindNull:
		return 0, nil
	case ir.KindBits:
		return t.Bits, nil
	case ir.KindGroup:
		total := 0
		for _, f := range t.Fields {
			w, err := flatBitCount(store, f.Type)
			if err != nil {
				return 0, err
			}
			total += w
		}
		return total, nil
	case ir.KindUnion:
		maxWidth := 0
		for _, f := range t.Fields {
			w, err := flatBitCount(store, f.Type)
			if err != nil {
				return 0, err
			}
			if w > maxWidth {
				maxWidth = w
			}
		}
		if tagWidth, ok := store.TagWidth(h); ok {
			maxWidth += tagWidth
		}
		return maxWidth, nil
	case ir.KindStream:
		return 0, &StructuralError{Message: "flat bit count requested on an un-split Stream"}
	default:
		return 0, &StructuralError{Message: "unknown logical type kind"}
	}
}
