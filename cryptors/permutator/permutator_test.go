package permutator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/permutator"
)

func TestSizes(t *testing.T) {
	p := permutator.New(cryptors.Extended)
	assert.Equal(t, 6, p.Size(permutator.Swap))
	assert.Equal(t, 46656, p.Size(permutator.Ring))
	assert.Equal(t, 46656, p.Size(permutator.Position))
	assert.Equal(t, 0, p.Size(permutator.Kind('X')))
}

func TestSwapOrder(t *testing.T) {
	p := permutator.New(cryptors.Extended)
	want := [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for i, w := range want {
		got, err := p.Swap(i)
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}
}

func TestRingsAndPositions(t *testing.T) {
	p := permutator.New(cryptors.Extended)

	rings, err := p.Rings(0)
	require.NoError(t, err)
	assert.Equal(t, [3]int{1, 1, 1}, rings)

	rings, err = p.Rings(1234)
	require.NoError(t, err)
	assert.Equal(t, [3]int{1, 35, 11}, rings)

	rings, err = p.Rings(46655)
	require.NoError(t, err)
	assert.Equal(t, [3]int{36, 36, 36}, rings)

	pos, err := p.Positions(5678)
	require.NoError(t, err)
	assert.Equal(t, "EN0", pos)

	pos, err = p.Positions(46655)
	require.NoError(t, err)
	assert.Equal(t, "999", pos)
}

func TestIndexOutOfRange(t *testing.T) {
	p := permutator.New(cryptors.Extended)
	_, err := p.Swap(6)
	assert.ErrorIs(t, err, permutator.ErrIndex)
	_, err = p.Rings(-1)
	assert.ErrorIs(t, err, permutator.ErrIndex)
	_, err = p.Positions(46656)
	assert.ErrorIs(t, err, permutator.ErrIndex)
}

func TestKind(t *testing.T) {
	for _, k := range []permutator.Kind{permutator.Swap, permutator.Ring, permutator.Position} {
		assert.True(t, k.Valid())
	}
	assert.False(t, permutator.Kind('Q').Valid())
	assert.Equal(t, "ring", permutator.Ring.String())
}
