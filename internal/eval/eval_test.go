package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/til/internal/diag"
	"github.com/dekarrin/til/internal/ir"
	"github.com/dekarrin/til/internal/lex"
	"github.com/dekarrin/til/internal/names"
	"github.com/dekarrin/til/internal/parse"
	"github.com/dekarrin/til/internal/resolve"
	"github.com/dekarrin/til/internal/tilerr"
)

// evalSources lexes and parses every src as its own file, orders the
// resulting namespaces with internal/resolve, and evaluates them in that
// order against one shared store and project, mirroring the driving loop in
// the top-level Compile entry point.
func evalSources(t *testing.T, srcs ...string) (*ir.Project, *ir.Store, *diag.Collector) {
	t.Helper()

	diags := diag.New()
	store := ir.NewStore()
	project := ir.NewProject("test", "", store)

	var units []resolve.Unit
	for i, src := range srcs {
		l := lex.New("test.til", src)
		toks, lexErrs := l.Tokens()
		require.Empty(t, lexErrs, "unexpected lex errors in source %d", i)

		p := parse.New(toks, "test.til", src, diags)
		f := p.ParseFile()
		for _, ns := range f.Namespaces {
			units = append(units, resolve.Unit{Namespace: ns, File: "test.til", Source: src})
		}
	}

	resolver := resolve.New(diags)
	ordered := resolver.Order(units)

	for _, u := range ordered {
		ev := New(store, diags, project, u.File, u.Source)
		ns := ev.EvaluateNamespace(u.Namespace)
		require.NoError(t, project.AddNamespace(ns))
	}

	return project, store, diags
}

func Test_EvaluateNamespace_simpleTypeDecl(t *testing.T) {
	assert := assert.New(t)

	project, store, diags := evalSources(t, `
		namespace foo {
			type Word = Bits(32);
		}
	`)

	assert.False(diags.HasErrors())
	ns, ok := project.Namespaces.Get("foo")
	require.New(t).True(ok)

	h, ok := ns.Lookup(ir.DeclType, names.MustName("Word"))
	require.New(t).True(ok)
	got := store.Get(h)
	assert.Equal(ir.KindBits, got.Kind)
	assert.Equal(32, got.Bits)
}

func Test_EvaluateNamespace_duplicateDeclaration_reportsNamingError(t *testing.T) {
	assert := assert.New(t)

	_, _, diags := evalSources(t, `
		namespace foo {
			type Word = Bits(32);
			type Word = Bits(16);
		}
	`)

	require.New(t).True(diags.HasErrors())
	found := false
	for _, d := range diags.All() {
		if d.Category == tilerr.Naming {
			found = true
		}
	}
	assert.True(found, "expected a naming-category diagnostic, got: %+v", diags.All())
}

func Test_EvaluateNamespace_groupDuplicateField_reportsError(t *testing.T) {
	assert := assert.New(t)

	_, _, diags := evalSources(t, `
		namespace foo {
			type Bad = Group(a: Bits(1), a: Bits(2));
		}
	`)

	assert.True(diags.HasErrors())
}

func Test_EvaluateNamespace_streamMissingData_reportsStructuralError(t *testing.T) {
	assert := assert.New(t)

	_, _, diags := evalSources(t, `
		namespace foo {
			type Elem = Bits(8);
			interface Bad = (p: in Stream(throughput: 1.0, dimensionality: 0, synchronicity: Sync, complexity: 1, direction: Forward));
		}
	`)

	assert.True(diags.HasErrors())
}

func Test_EvaluateNamespace_streamWithStreamUser_isRejected(t *testing.T) {
	assert := assert.New(t)

	_, _, diags := evalSources(t, `
		namespace foo {
			type Elem = Bits(8);
			type Inner = Stream(data: Elem, user: Null, throughput: 1.0, dimensionality: 0, synchronicity: Sync, complexity: 1, direction: Forward);
			type Outer = Stream(data: Elem, user: Inner, throughput: 1.0, dimensionality: 0, synchronicity: Sync, complexity: 1, direction: Forward);
		}
	`)

	assert.True(diags.HasErrors())
}

func Test_EvaluateNamespace_interfaceWithDuplicatePort_reportsError(t *testing.T) {
	assert := assert.New(t)

	_, _, diags := evalSources(t, `
		namespace foo {
			type Elem = Bits(8);
			interface Bad = (
				a: in Stream(data: Elem, user: Null, throughput: 1.0, dimensionality: 0, synchronicity: Sync, complexity: 1, direction: Forward),
				a: out Stream(data: Elem, user: Null, throughput: 1.0, dimensionality: 0, synchronicity: Sync, complexity: 1, direction: Forward)
			);
		}
	`)

	assert.True(diags.HasErrors())
}

func Test_EvaluateNamespace_importedTypeResolvesAcrossNamespaces(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	project, store, diags := evalSources(t,
		`namespace base {
			type Word = Bits(32);
		}`,
		`namespace user {
			import base;
			type Alias = base::Word;
		}`,
	)

	require.False(diags.HasErrors(), "unexpected diagnostics: %+v", diags.All())

	ns, ok := project.Namespaces.Get("user")
	require.True(ok)
	h, ok := ns.Lookup(ir.DeclType, names.MustName("Alias"))
	require.True(ok)

	baseNs, ok := project.Namespaces.Get("base")
	require.True(ok)
	wantHandle, ok := baseNs.Lookup(ir.DeclType, names.MustName("Word"))
	require.True(ok)

	assert.Equal(wantHandle, h, "an aliased import resolves to the same interned handle as its source")
}

func Test_EvaluateNamespace_unresolvedIdentifier_reportsResolutionError(t *testing.T) {
	assert := assert.New(t)

	_, _, diags := evalSources(t, `
		namespace foo {
			type Alias = Missing;
		}
	`)

	assert.True(diags.HasErrors())
}

func Test_EvaluateNamespace_structurallyEqualTypesInternToSameHandle(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	project, store, diags := evalSources(t, `
		namespace foo {
			type A = Bits(8);
			type B = Bits(8);
		}
	`)

	require.False(diags.HasErrors())
	ns, _ := project.Namespaces.Get("foo")
	ha, _ := ns.Lookup(ir.DeclType, names.MustName("A"))
	hb, _ := ns.Lookup(ir.DeclType, names.MustName("B"))
	assert.Equal(ha, hb)
	assert.Equal(store.Get(ha), store.Get(hb))
}

func Test_EvaluateNamespace_instanceGenericValue_violatesCondition_reportsGenericError(t *testing.T) {
	assert := assert.New(t)

	_, _, diags := evalSources(t, `
		namespace foo {
			type Elem = Bits(8);
			interface Leaf = <N: Natural(>4)>(a: in Stream(data: Elem, user: Null, throughput: 1.0, dimensionality: 0, synchronicity: Sync, complexity: 1, direction: Forward));
			streamlet LeafImpl = Leaf {
				impl: struct {}
			};
			streamlet Outer = Leaf {
				impl: struct {
					inner: LeafImpl<N = 2>;
				}
			};
		}
	`)

	require.New(t).True(diags.HasErrors())
	found := false
	for _, d := range diags.All() {
		if d.Category == tilerr.Generic {
			found = true
		}
	}
	assert.True(found, "expected a generic-category diagnostic, got: %+v", diags.All())
}

func Test_EvaluateNamespace_instanceGenericValue_belowKindMinimum_reportsGenericError(t *testing.T) {
	assert := assert.New(t)

	_, _, diags := evalSources(t, `
		namespace foo {
			type Elem = Bits(8);
			interface Leaf = <N: Positive>(a: in Stream(data: Elem, user: Null, throughput: 1.0, dimensionality: 0, synchronicity: Sync, complexity: 1, direction: Forward));
			streamlet LeafImpl = Leaf {
				impl: struct {}
			};
			streamlet Outer = Leaf {
				impl: struct {
					inner: LeafImpl<N = 0>;
				}
			};
		}
	`)

	require.New(t).True(diags.HasErrors())
	found := false
	for _, d := range diags.All() {
		if d.Category == tilerr.Generic {
			found = true
		}
	}
	assert.True(found, "expected a generic-category diagnostic, got: %+v", diags.All())
}

func Test_EvaluateNamespace_instanceGenericValue_unknownParameterName_reportsGenericError(t *testing.T) {
	assert := assert.New(t)

	_, _, diags := evalSources(t, `
		namespace foo {
			type Elem = Bits(8);
			interface Leaf = <N: Positive>(a: in Stream(data: Elem, user: Null, throughput: 1.0, dimensionality: 0, synchronicity: Sync, complexity: 1, direction: Forward));
			streamlet LeafImpl = Leaf {
				impl: struct {}
			};
			streamlet Outer = Leaf {
				impl: struct {
					inner: LeafImpl<Bogus = 1>;
				}
			};
		}
	`)

	assert.True(diags.HasErrors())
}

func Test_EvaluateNamespace_instanceGenericValue_refToEnclosingParam_succeeds(t *testing.T) {
	require := require.New(t)

	_, _, diags := evalSources(t, `
		namespace foo {
			type Elem = Bits(8);
			interface Leaf = <N: Positive>(a: in Stream(data: Elem, user: Null, throughput: 1.0, dimensionality: 0, synchronicity: Sync, complexity: 1, direction: Forward));
			streamlet LeafImpl = Leaf {
				impl: struct {}
			};
			streamlet Outer = Leaf {
				impl: struct {
					inner: LeafImpl<N = N>;
				}
			};
		}
	`)

	require.False(diags.HasErrors())
}

func Test_EvaluateNamespace_instanceGenericValue_refToUndeclaredEnclosingParam_reportsGenericError(t *testing.T) {
	assert := assert.New(t)

	_, _, diags := evalSources(t, `
		namespace foo {
			type Elem = Bits(8);
			interface Leaf = <N: Positive>(a: in Stream(data: Elem, user: Null, throughput: 1.0, dimensionality: 0, synchronicity: Sync, complexity: 1, direction: Forward));
			streamlet LeafImpl = Leaf {
				impl: struct {}
			};
			streamlet Outer = Leaf {
				impl: struct {
					inner: LeafImpl<N = M>;
				}
			};
		}
	`)

	assert.True(diags.HasErrors())
}

func Test_EvaluateNamespace_instanceGenericValue_withinConditionRange_succeeds(t *testing.T) {
	require := require.New(t)

	_, _, diags := evalSources(t, `
		namespace foo {
			type Elem = Bits(8);
			interface Leaf = <N: Natural(>4)>(a: in Stream(data: Elem, user: Null, throughput: 1.0, dimensionality: 0, synchronicity: Sync, complexity: 1, direction: Forward));
			streamlet LeafImpl = Leaf {
				impl: struct {}
			};
			streamlet Outer = Leaf {
				impl: struct {
					inner: LeafImpl<N = 5>;
				}
			};
		}
	`)

	require.False(diags.HasErrors())
}
