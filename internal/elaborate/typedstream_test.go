package elaborate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/til/internal/ir"
	"github.com/dekarrin/til/internal/names"
)

func Test_ElaboratePort_producesTypedStreamForSimplePort(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	store := ir.NewStore()
	b8 := store.Intern(ir.NewBits(8))
	stream := streamHandle(store, b8, ir.Sync, 0, 1, ir.Forward)
	port := ir.Port{Name: names.MustName("a"), Mode: ir.PortIn, Stream: stream}

	ts, err := ElaboratePort(store, port)
	require.NoError(err)
	require.NotNil(ts)

	assert.Len(ts.Reference.Fields, 1)
	assert.Contains(ts.Physical, ts.Reference.Fields[0].StreamPath.Key())
}

func Test_ElaboratePort_propagatesStructuralError(t *testing.T) {
	require := require.New(t)

	store := ir.NewStore()
	b8 := store.Intern(ir.NewBits(8))
	userStream := streamHandle(store, b8, ir.Sync, 0, 1, ir.Forward)
	bad := store.Intern(ir.NewStream(ir.StreamProps{
		Data: b8, Throughput: 1.0, Synchronicity: ir.Sync, Complexity: 1,
		Direction: ir.Forward, User: userStream,
	}))
	port := ir.Port{Name: names.MustName("bad"), Mode: ir.PortIn, Stream: bad}

	_, err := ElaboratePort(store, port)
	require.Error(err)
}

func Test_BuildTypeReference_pathsMatchSplitOrder(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	store := ir.NewStore()
	b8 := store.Intern(ir.NewBits(8))
	s1 := streamHandle(store, b8, ir.Sync, 0, 1, ir.Forward)
	s2 := streamHandle(store, b8, ir.Sync, 0, 1, ir.Forward)
	group := store.Intern(ir.NewGroup([]ir.Field{
		{Name: names.MustName("x"), Type: s1},
		{Name: names.MustName("y"), Type: s2},
	}))

	split := mustSplit(t, store, group)
	ref := BuildTypeReference(split)

	require.Len(ref.Fields, 2)
	assert.Equal(split.Order[0], ref.Fields[0].Path)
	assert.Equal(split.Order[1], ref.Fields[1].Path)
	assert.True(ref.Fields[0].HasStream)
}
