package ir

import "github.com/dekarrin/til/internal/names"

// PortMode tags a Port's declared direction (spec §3).
type PortMode int

const (
	PortIn PortMode = iota
	PortOut
)

func (m PortMode) String() string {
	if m == PortOut {
		return "out"
	}
	return "in"
}

// Port is a single named, directed interface endpoint (spec §3).
type Port struct {
	Name   names.Name
	Mode   PortMode
	Stream Handle // handle to a Stream logical type
	Domain *names.Name
	Doc    string
}

// WithDoc returns a copy of p with Doc set, per spec §9's "fluent with_doc
// variants that set the field and return the owned value" construction
// style.
func (p Port) WithDoc(doc string) Port {
	p.Doc = doc
	return p
}

// Interface is an ordered collection of ports plus its declared generic
// parameters (spec §3). Port names are unique within an Interface; this is
// validated by the evaluator at construction time, not by Interface itself.
type Interface struct {
	Params []GenericParam
	Ports  []Port
	Doc    string
}

// WithDoc returns a copy of i with Doc set.
func (i Interface) WithDoc(doc string) Interface {
	i.Doc = doc
	return i
}

// PortByName looks up a port by name, returning the Port and whether it was
// found.
func (i Interface) PortByName(n names.Name) (Port, bool) {
	for _, p := range i.Ports {
		if p.Name.Equal(n) {
			return p, true
		}
	}
	return Port{}, false
}

// ParamByName looks up a declared generic parameter by name.
func (i Interface) ParamByName(n names.Name) (GenericParam, bool) {
	for _, p := range i.Params {
		if p.Name.Equal(n) {
			return p, true
		}
	}
	return GenericParam{}, false
}
