package elaborate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/til/internal/ir"
	"github.com/dekarrin/til/internal/names"
)

func streamHandle(store *ir.Store, data ir.Handle, sync ir.Synchronicity, dim, complexity int, dir ir.Direction) ir.Handle {
	null := store.Intern(ir.NewNull())
	return store.Intern(ir.NewStream(ir.StreamProps{
		Data: data, Throughput: 1.0, Dimensionality: dim, Synchronicity: sync,
		Complexity: complexity, Direction: dir, User: null,
	}))
}

func Test_Split_plainBits_hasNoStreams(t *testing.T) {
	assert := assert.New(t)
	store := ir.NewStore()
	b8 := store.Intern(ir.NewBits(8))

	res, err := Split(store, b8)
	require.New(t).NoError(err)

	assert.Empty(res.Order)
	assert.Equal(b8, res.Signals)
}

func Test_Split_rootStream_isRecordedAtEmptyPath(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	store := ir.NewStore()
	b8 := store.Intern(ir.NewBits(8))
	s := streamHandle(store, b8, ir.Sync, 0, 1, ir.Forward)

	res, err := Split(store, s)
	require.NoError(err)

	require.Len(res.Order, 1)
	info, ok := res.Streams[res.Order[0].Key()]
	require.True(ok)
	assert.Equal(s, info.Handle)
	assert.Equal(ScopeRoot, info.Scope)
	assert.Equal(ir.Forward, info.Direction)
}

func Test_Split_groupOfStreams_prefixesPathsByFieldNameInOrder(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	store := ir.NewStore()
	b8 := store.Intern(ir.NewBits(8))
	s1 := streamHandle(store, b8, ir.Sync, 0, 1, ir.Forward)
	s2 := streamHandle(store, b8, ir.Sync, 0, 1, ir.Forward)

	group := store.Intern(ir.NewGroup([]ir.Field{
		{Name: names.MustName("first"), Type: s1},
		{Name: names.MustName("second"), Type: s2},
	}))

	res, err := Split(store, group)
	require.NoError(err)
	require.Len(res.Order, 2)

	assert.Equal(names.NewPathName(names.MustName("first")), res.Order[0])
	assert.Equal(names.NewPathName(names.MustName("second")), res.Order[1])
}

func Test_Split_reverseDirectionFlipsChildDirection(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	store := ir.NewStore()
	b8 := store.Intern(ir.NewBits(8))

	inner := streamHandle(store, b8, ir.Sync, 0, 1, ir.Forward)
	wrapped := store.Intern(ir.NewGroup([]ir.Field{{Name: names.MustName("x"), Type: inner}}))
	null := store.Intern(ir.NewNull())
	outer := store.Intern(ir.NewStream(ir.StreamProps{
		Data: wrapped, Throughput: 1.0, Dimensionality: 0, Synchronicity: ir.Flatten,
		Complexity: 1, Direction: ir.Reverse, User: null,
	}))

	res, err := Split(store, outer)
	require.NoError(err)
	require.Len(res.Order, 2)

	rootInfo := res.Streams[res.Order[0].Key()]
	assert.Equal(ir.Forward, rootInfo.Direction, "the outer stream's own declared direction is unaffected by itself")

	var innerInfo StreamInfo
	for _, p := range res.Order {
		if info := res.Streams[p.Key()]; info.Handle == inner {
			innerInfo = info
		}
	}
	assert.Equal(ir.Reverse, innerInfo.Direction, "a Reverse parent flips its nested stream's direction")
}

func Test_Split_synchronicityControlsChildDimensionalityAndScope(t *testing.T) {
	testCases := []struct {
		name      string
		sync      ir.Synchronicity
		wantDim   int
		wantScope TransferScope
	}{
		{name: "Sync keeps parent dimensionality and scope", sync: ir.Sync, wantDim: 2, wantScope: ScopeParent},
		{name: "Flatten resets dimensionality to zero", sync: ir.Flatten, wantDim: 0, wantScope: ScopeParent},
		{name: "Desync keeps dimensionality but scopes to root", sync: ir.Desync, wantDim: 2, wantScope: ScopeRoot},
		{name: "FlatDesync resets dimensionality and scopes to root", sync: ir.FlatDesync, wantDim: 0, wantScope: ScopeRoot},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			store := ir.NewStore()
			b8 := store.Intern(ir.NewBits(8))
			inner := streamHandle(store, b8, ir.Sync, 0, 1, ir.Forward)
			wrapped := store.Intern(ir.NewGroup([]ir.Field{{Name: names.MustName("x"), Type: inner}}))
			null := store.Intern(ir.NewNull())
			outer := store.Intern(ir.NewStream(ir.StreamProps{
				Data: wrapped, Throughput: 1.0, Dimensionality: 2, Synchronicity: tc.sync,
				Complexity: 1, Direction: ir.Forward, User: null,
			}))

			res, err := Split(store, outer)
			require.NoError(err)

			var innerInfo StreamInfo
			for _, p := range res.Order {
				if info := res.Streams[p.Key()]; info.Handle == inner {
					innerInfo = info
				}
			}
			assert.Equal(tc.wantDim, innerInfo.Dimensionality)
			assert.Equal(tc.wantScope, innerInfo.Scope)
		})
	}
}

func Test_Split_streamWithStreamUser_isRejected(t *testing.T) {
	assert := assert.New(t)
	store := ir.NewStore()
	b8 := store.Intern(ir.NewBits(8))
	userStream := streamHandle(store, b8, ir.Sync, 0, 1, ir.Forward)

	bad := store.Intern(ir.NewStream(ir.StreamProps{
		Data: b8, Throughput: 1.0, Synchronicity: ir.Sync, Complexity: 1,
		Direction: ir.Forward, User: userStream,
	}))

	_, err := Split(store, bad)
	assert.Error(err)
	var structErr *StructuralError
	assert.ErrorAs(err, &structErr)
}
