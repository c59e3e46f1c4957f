package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/til/internal/diag"
	"github.com/dekarrin/til/internal/lex"
	"github.com/dekarrin/til/internal/parse"
)

func unitsFrom(t *testing.T, diags *diag.Collector, srcs ...string) []Unit {
	t.Helper()
	var units []Unit
	for i, src := range srcs {
		l := lex.New("test.til", src)
		toks, lexErrs := l.Tokens()
		require.Empty(t, lexErrs, "unexpected lex errors in source %d", i)
		p := parse.New(toks, "test.til", src, diags)
		f := p.ParseFile()
		for _, ns := range f.Namespaces {
			units = append(units, Unit{Namespace: ns, File: "test.til", Source: src})
		}
	}
	return units
}

func pathOfUnit(u Unit) []string {
	segs := make([]string, len(u.Namespace.Path))
	for i, id := range u.Namespace.Path {
		segs[i] = id.Name
	}
	return segs
}

func Test_Order_ordersDependencyBeforeDependent(t *testing.T) {
	assert := assert.New(t)
	diags := diag.New()

	units := unitsFrom(t, diags,
		`namespace user { import base; type T = base::Word; }`,
		`namespace base { type Word = Bits(32); }`,
	)

	ordered := resolverOrder(diags, units)
	assert.False(diags.HasErrors())
	require.New(t).Len(ordered, 2)

	var baseIdx, userIdx int
	for i, u := range ordered {
		switch pathOfUnit(u)[0] {
		case "base":
			baseIdx = i
		case "user":
			userIdx = i
		}
	}
	assert.Less(baseIdx, userIdx, "base must be ordered before user, which imports it")
}

func Test_Order_reportsUnknownImport(t *testing.T) {
	assert := assert.New(t)
	diags := diag.New()

	units := unitsFrom(t, diags, `namespace user { import missing; }`)
	resolverOrder(diags, units)

	assert.True(diags.HasErrors())
}

func Test_Order_reportsDuplicateNamespace(t *testing.T) {
	assert := assert.New(t)
	diags := diag.New()

	units := unitsFrom(t, diags,
		`namespace foo { type A = Bits(1); }`,
		`namespace foo { type B = Bits(2); }`,
	)
	ordered := resolverOrder(diags, units)

	assert.True(diags.HasErrors())
	assert.Len(ordered, 1, "the duplicate is dropped, not both kept")
}

func Test_Order_detectsImportCycle(t *testing.T) {
	assert := assert.New(t)
	diags := diag.New()

	units := unitsFrom(t, diags,
		`namespace a { import b; }`,
		`namespace b { import a; }`,
	)
	ordered := resolverOrder(diags, units)

	assert.True(diags.HasErrors())
	assert.Nil(ordered, "a cycle drops the whole order")
}

func resolverOrder(diags *diag.Collector, units []Unit) []Unit {
	r := New(diags)
	return r.Order(units)
}
