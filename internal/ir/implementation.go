package ir

import "github.com/dekarrin/til/internal/names"

// Streamlet is a named hardware component: an interface plus an optional
// implementation (spec §3). Its generic parameters are those declared on its
// Interface.
type Streamlet struct {
	Name      names.Name
	Interface Handle // handle to an Interface
	Impl      Handle // handle to an Implementation, or 0 if unimplemented
	Doc       string
}

// WithDoc returns a copy of st with Doc set.
func (st Streamlet) WithDoc(doc string) Streamlet {
	st.Doc = doc
	return st
}

// ImplementationKind tags whether an Implementation is a Link or Structural
// (spec §3).
type ImplementationKind int

const (
	ImplLink ImplementationKind = iota
	ImplStructural
)

// GenericAssignment binds one of an instance's interface-level generic
// parameters to a value at instantiation: an integer, a reference to a
// parameter of the enclosing interface, or a combination of those.
type GenericAssignment struct {
	Name  names.Name
	Value GenericParamValue
}

// DomainAssignment rebinds an interface-level clock/reset domain name to a
// local one at instantiation.
type DomainAssignment struct {
	From names.Name
	To   names.Name
}

// Instance is one named streamlet instance within a Structural
// implementation (spec §3: "named streamlet instances, each: local-name ->
// streamlet-handle + parameter assignments + domain assignments").
type Instance struct {
	Name      names.Name
	Streamlet Handle // handle to a Streamlet
	Generics  []GenericAssignment
	Domains   []DomainAssignment
}

// PortEndpoint references a port, either of the enclosing interface directly
// (Instance == nil) or of a named instance's interface.
type PortEndpoint struct {
	Instance *names.Name
	Port     names.Name
}

// Connection is one pair of connected port endpoints inside a Structural
// implementation (spec §3, §4.6 "structural connections reference existing
// ports").
type Connection struct {
	From PortEndpoint
	To   PortEndpoint
}

// Implementation is either a Link (opaque reference to an external
// behavioral source) or Structural (composed of instances and connections)
// (spec §3).
type Implementation struct {
	Kind ImplementationKind

	// ImplLink
	LinkPath string

	// ImplStructural
	Interface   Handle // handle to the Interface this structural body implements
	Instances   []Instance
	Connections []Connection
}

// InstanceByName looks up a Structural implementation's instance by name.
func (i Implementation) InstanceByName(n names.Name) (Instance, bool) {
	for _, inst := range i.Instances {
		if inst.Name.Equal(n) {
			return inst, true
		}
	}
	return Instance{}, false
}
