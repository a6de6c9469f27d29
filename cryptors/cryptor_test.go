package cryptors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgallie/enigma/cryptors"
)

// caesar shifts each symbol by one more than the previous call did.
type caesar struct {
	step int
}

func (c *caesar) Alphabet() *cryptors.Alphabet {
	return cryptors.Classic
}

func (c *caesar) Encode(b byte) (byte, error) {
	c.step++
	i, _ := cryptors.Classic.Index(b)
	return cryptors.Classic.Symbol(i + c.step), nil
}

func TestEncodeString(t *testing.T) {
	c := &caesar{}
	out, err := cryptors.EncodeString(c, "AAA")
	require.NoError(t, err)
	assert.Equal(t, "BCD", out)
}

func TestEncodeStringRejectsBeforeEncoding(t *testing.T) {
	c := &caesar{}
	_, err := cryptors.EncodeString(c, "AA1")
	require.ErrorIs(t, err, cryptors.ErrSymbol)
	assert.Equal(t, 0, c.step)
}

func TestCreateEncryptMachine(t *testing.T) {
	left, right := cryptors.CreateEncryptMachine(&caesar{}, &caesar{})

	left <- cryptors.NewBlock("AAA")
	blk := <-right
	require.NoError(t, blk.Err)
	assert.Equal(t, "CEG", blk.String())

	left <- cryptors.NewBlock("A")
	blk = <-right
	require.NoError(t, blk.Err)
	assert.Equal(t, "I", blk.String())

	left <- cryptors.NewBlock("A?")
	blk = <-right
	assert.ErrorIs(t, blk.Err, cryptors.ErrSymbol)

	// shut the chain down
	left <- cryptors.Block{}
	blk = <-right
	assert.Equal(t, 0, blk.Length)
}

func TestCreateEncryptMachinePanicsWithoutCrypters(t *testing.T) {
	assert.Panics(t, func() { cryptors.CreateEncryptMachine() })
}
