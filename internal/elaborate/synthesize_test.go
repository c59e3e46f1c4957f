package elaborate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/til/internal/ir"
	"github.com/dekarrin/til/internal/names"
)

func mustSplit(t *testing.T, store *ir.Store, h ir.Handle) *SplitResult {
	t.Helper()
	res, err := Split(store, h)
	require.NoError(t, err)
	return res
}

func Test_Synthesize_dataWidthScalesWithLaneCount(t *testing.T) {
	testCases := []struct {
		name       string
		throughput float64
		wantLanes  int
	}{
		{name: "sub-one throughput still needs one lane", throughput: 0.5, wantLanes: 1},
		{name: "exact integer throughput", throughput: 2.0, wantLanes: 2},
		{name: "fractional throughput rounds up", throughput: 2.5, wantLanes: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			store := ir.NewStore()
			b8 := store.Intern(ir.NewBits(8))
			null := store.Intern(ir.NewNull())
			s := store.Intern(ir.NewStream(ir.StreamProps{
				Data: b8, Throughput: tc.throughput, Synchronicity: ir.Sync,
				Complexity: 1, Direction: ir.Forward, User: null,
			}))

			res := mustSplit(t, store, s)
			phys, err := Synthesize(store, res)
			require.NoError(err)

			ps := phys[res.Order[0].Key()]
			assert.Equal(tc.wantLanes, ps.Lanes)
			assert.Equal(8*tc.wantLanes, ps.DataWidth)
		})
	}
}

func Test_Synthesize_complexitySignalPresence(t *testing.T) {
	testCases := []struct {
		name       string
		complexity int
		throughput float64
		wantStrb   bool
		wantEndi   bool
		wantStai   bool
	}{
		{name: "complexity 1 has no extra signals", complexity: 1, throughput: 2.0},
		{name: "complexity 6 with multiple lanes has endi and stai", complexity: 6, throughput: 2.0, wantEndi: true, wantStai: true},
		{name: "complexity 6 with a single lane has endi but not stai", complexity: 6, throughput: 1.0, wantEndi: true},
		{name: "complexity 7 adds strb", complexity: 7, throughput: 2.0, wantStrb: true, wantEndi: true, wantStai: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			store := ir.NewStore()
			b8 := store.Intern(ir.NewBits(8))
			null := store.Intern(ir.NewNull())
			s := store.Intern(ir.NewStream(ir.StreamProps{
				Data: b8, Throughput: tc.throughput, Synchronicity: ir.Sync,
				Complexity: tc.complexity, Direction: ir.Forward, User: null,
			}))

			res := mustSplit(t, store, s)
			phys, err := Synthesize(store, res)
			require.NoError(err)

			ps := phys[res.Order[0].Key()]
			assert.Equal(tc.wantStrb, ps.HasStrb)
			assert.Equal(tc.wantEndi, ps.HasEndi)
			assert.Equal(tc.wantStai, ps.HasStai)
		})
	}
}

func Test_Synthesize_lastWidthPerLaneAtComplexity8(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	store := ir.NewStore()
	b8 := store.Intern(ir.NewBits(8))
	null := store.Intern(ir.NewNull())

	s := store.Intern(ir.NewStream(ir.StreamProps{
		Data: b8, Throughput: 4.0, Dimensionality: 3, Synchronicity: ir.Sync,
		Complexity: 8, Direction: ir.Forward, User: null,
	}))

	res := mustSplit(t, store, s)
	phys, err := Synthesize(store, res)
	require.NoError(err)

	ps := phys[res.Order[0].Key()]
	assert.Equal(4, ps.Lanes)
	assert.Equal(3*4, ps.LastWidth, "last is per-lane at complexity 8, so dimensionality * lanes")
}

func Test_Synthesize_lastWidthSharedBelowComplexity8(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	store := ir.NewStore()
	b8 := store.Intern(ir.NewBits(8))
	null := store.Intern(ir.NewNull())

	s := store.Intern(ir.NewStream(ir.StreamProps{
		Data: b8, Throughput: 4.0, Dimensionality: 3, Synchronicity: ir.Sync,
		Complexity: 7, Direction: ir.Forward, User: null,
	}))

	res := mustSplit(t, store, s)
	phys, err := Synthesize(store, res)
	require.NoError(err)

	ps := phys[res.Order[0].Key()]
	assert.Equal(3, ps.LastWidth, "below complexity 8, last is shared across lanes")
}

func Test_Synthesize_unionDataWidthIncludesTagBits(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	store := ir.NewStore()
	b8 := store.Intern(ir.NewBits(8))
	b16 := store.Intern(ir.NewBits(16))
	union := store.Intern(ir.NewUnion([]ir.Field{
		{Name: names.MustName("a"), Type: b8},
		{Name: names.MustName("b"), Type: b16},
		{Name: names.MustName("c"), Type: b16},
	}))
	null := store.Intern(ir.NewNull())

	s := store.Intern(ir.NewStream(ir.StreamProps{
		Data: union, Throughput: 1.0, Synchronicity: ir.Sync,
		Complexity: 1, Direction: ir.Forward, User: null,
	}))

	res := mustSplit(t, store, s)
	phys, err := Synthesize(store, res)
	require.NoError(err)

	ps := phys[res.Order[0].Key()]
	// 3 fields -> tag width ceil(log2(3)) = 2, plus the widest field (16 bits)
	assert.Equal(18, ps.DataWidth)
}

func Test_Synthesize_userWidthReflectsUserType(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	store := ir.NewStore()
	b8 := store.Intern(ir.NewBits(8))
	user := store.Intern(ir.NewBits(4))

	s := store.Intern(ir.NewStream(ir.StreamProps{
		Data: b8, Throughput: 1.0, Synchronicity: ir.Sync,
		Complexity: 1, Direction: ir.Forward, User: user,
	}))

	res := mustSplit(t, store, s)
	phys, err := Synthesize(store, res)
	require.NoError(err)

	ps := phys[res.Order[0].Key()]
	assert.Equal(4, ps.UserWidth)
}
