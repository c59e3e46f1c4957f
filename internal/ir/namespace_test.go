package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/til/internal/names"
	"github.com/dekarrin/til/internal/span"
)

func Test_Namespace_TryDeclare_rejectsDuplicateWithinSameKind(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ns := NewNamespace(names.NewPathName(names.MustName("foo")))
	sp1 := span.Span{File: "a.til", Start: 0, End: 1}
	sp2 := span.Span{File: "a.til", Start: 10, End: 11}

	require.NoError(ns.TryDeclare(DeclType, names.MustName("Word"), Handle(1), sp1))
	err := ns.TryDeclare(DeclType, names.MustName("Word"), Handle(2), sp2)
	assert.Error(err)

	got, ok := ns.Lookup(DeclType, names.MustName("Word"))
	assert.True(ok)
	assert.Equal(Handle(1), got, "the failed second declare must not overwrite the first")
}

func Test_Namespace_TryDeclare_sameNameAcrossDifferentKindsAllowed(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ns := NewNamespace(names.NewPathName(names.MustName("foo")))
	sp := span.Span{File: "a.til", Start: 0, End: 1}

	require.NoError(ns.TryDeclare(DeclType, names.MustName("Adder"), Handle(1), sp))
	require.NoError(ns.TryDeclare(DeclStreamlet, names.MustName("Adder"), Handle(2), sp))

	typeHandle, ok := ns.Lookup(DeclType, names.MustName("Adder"))
	assert.True(ok)
	assert.Equal(Handle(1), typeHandle)

	streamletHandle, ok := ns.Lookup(DeclStreamlet, names.MustName("Adder"))
	assert.True(ok)
	assert.Equal(Handle(2), streamletHandle)
}

func Test_Namespace_DeclSpan_recordsSpanPerDeclaration(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ns := NewNamespace(names.NewPathName(names.MustName("foo")))
	sp := span.Span{File: "a.til", Start: 5, End: 9}
	require.NoError(ns.TryDeclare(DeclInterface, names.MustName("Simple"), Handle(1), sp))

	got, ok := ns.DeclSpan(DeclInterface, names.MustName("Simple"))
	assert.True(ok)
	assert.Equal(sp, got)

	_, ok = ns.DeclSpan(DeclInterface, names.MustName("Other"))
	assert.False(ok)
}

func Test_Project_AddNamespace_rejectsDuplicatePath(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	store := NewStore()
	proj := NewProject("test", "", store)

	path := names.NewPathName(names.MustName("foo"))
	require.NoError(proj.AddNamespace(NewNamespace(path)))

	err := proj.AddNamespace(NewNamespace(path))
	require.Error(err)
	var dupErr *DuplicateNamespaceError
	assert.ErrorAs(err, &dupErr)
}

func Test_Project_AddNamespace_rejectsImportNameCollision(t *testing.T) {
	assert := assert.New(t)

	store := NewStore()
	proj := NewProject("test", "", store)
	proj.Imports["ext"] = NewProject("ext", "", NewStore())

	err := proj.AddNamespace(NewNamespace(names.NewPathName(names.MustName("ext"), names.MustName("sub"))))
	require := require.New(t)
	require.Error(err)
	var collideErr *NamespaceImportCollisionError
	assert.ErrorAs(err, &collideErr)
}
