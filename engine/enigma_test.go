package engine_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/machine"
	"github.com/bgallie/enigma/cryptors/plugboard"
	"github.com/bgallie/enigma/cryptors/rotor"
	"github.com/bgallie/enigma/engine"
)

const (
	extReflector = "FVPJIAOYEDRZXWGCTKUQSBNMHL2607981354"
	extRotor1    = "4KMFL90DQVZNTOWY5XUSPAIBRCJ3E6127HG8"
	extRotor2    = "4KMWL9DQVZNTOFY05XUSP1IBRCJ3E6A27HG8"
	extRotor3    = "4KC0WL9DQVZNTOFY5XUSP1IBRMJ3E6A27HG8"
	extRotor0    = "EKMFLGDQVZNTO0WYHXUSPAIBRCJ346127598"
)

func named(names ...string) []rotor.Spec {
	specs := make([]rotor.Spec, len(names))
	for i, n := range names {
		specs[i] = rotor.Named(n)
	}
	return specs
}

func TestDecodeWithPlugboard(t *testing.T) {
	cfg := machine.Config{Rotors: named("A", "IV", "V", "Beta", "I"), Rings: []int{18, 24, 3, 5}, Positions: "EZGP"}
	e, err := engine.New(cfg, engine.WithPlugboard("PC", "XZ", "FM", "QA", "ST", "NB", "HY", "OR", "EV", "IU"))
	require.NoError(t, err)

	out, err := e.EncodeString("BUPXWJCDPFASXBDHLBBIBSRNWCSZXQOLBNXYAXVHOGCUUIBCVMPUZYUUKHI")
	require.NoError(t, err)
	assert.Equal(t, "CONGRATULATIONSONPRODUCINGYOURWORKINGENIGMAMACHINESIMULATOR", out)
}

func TestEncodeWithPlugboard(t *testing.T) {
	cfg := machine.Config{Rotors: named("B", "I", "II", "III"), Rings: []int{1, 1, 1}, Positions: "AAA"}
	e, err := engine.New(cfg, engine.WithPlugboard("HL", "MO", "AJ", "CX", "BZ", "SR", "NI", "YW", "DG", "PK"))
	require.NoError(t, err)

	out, err := e.EncodeString("HELLOWORLD")
	require.NoError(t, err)
	assert.Equal(t, "KHTPLZMFTW", out)
}

func TestExtendedWithPlugboard(t *testing.T) {
	cfg := machine.Config{
		Alphabet: cryptors.Extended,
		Rotors: []rotor.Spec{
			rotor.Custom(extReflector, 0),
			rotor.Custom(extRotor3, 0),
			rotor.Custom(extRotor2, 'J'),
			rotor.Custom(extRotor1, '4'),
		},
		Rings:     []int{3, 31, 23},
		Positions: "4DT",
	}
	e, err := engine.New(cfg, engine.WithPlugboard("8U", "RF", "2M"))
	require.NoError(t, err)

	out, err := e.EncodeString("THEREARESOMANYSTRINGTOTESTTHISSTUFFLIKEMAYBE1994OR47321")
	require.NoError(t, err)
	assert.Equal(t, "Y99D01PXWPBPA153UYQT8A6CYP6UHVG1NRLK7LJECHVJVE0F9TDFOPV", out)
}

func TestSettingsRoundTrip(t *testing.T) {
	e, err := engine.New(machine.Config{Rotors: named("B", "I", "II", "III")})
	require.NoError(t, err)

	require.NoError(t, e.RingSettings([]int{5, 6, 7}))
	require.NoError(t, e.PositionSettings("XYZ"))
	require.NoError(t, e.SwapRotors(named("C", "V", "IV", "II")))
	assert.Equal(t, []int{5, 6, 7}, e.Rings())
	assert.Equal(t, "XYZ", e.Positions())

	cipher, err := e.EncodeString("ATTACKATDAWN")
	require.NoError(t, err)

	require.NoError(t, e.PositionSettings("XYZ"))
	plain, err := e.EncodeString(cipher)
	require.NoError(t, err)
	assert.Equal(t, "ATTACKATDAWN", plain)

	assert.ErrorIs(t, e.PositionSettings("XY"), machine.ErrSettingsLength)
	assert.ErrorIs(t, e.RingSettings([]int{0, 1, 1}), rotor.ErrRing)
}

func TestPlugLeads(t *testing.T) {
	e, err := engine.New(machine.Config{Rotors: named("B", "I", "II", "III")})
	require.NoError(t, err)
	assert.Nil(t, e.Plugboard())

	assert.ErrorIs(t, e.RemovePlugLead("AB"), plugboard.ErrNotConnected)

	require.NoError(t, e.AddPlugLead("AB"))
	require.NotNil(t, e.Plugboard())
	assert.Equal(t, "AB", e.Plugboard().String())
	assert.ErrorIs(t, e.AddPlugLead("BC"), plugboard.ErrOccupied)

	require.NoError(t, e.RemovePlugLead("BA"))
	assert.Equal(t, 0, e.Plugboard().Len())

	require.NoError(t, e.ReplacePlugboard("CD", "EF"))
	assert.Equal(t, "CD EF", e.Plugboard().String())

	_, err = plugboard.NewLead(e.Alphabet(), "A1")
	assert.Error(t, err)
	assert.Error(t, e.AddPlugLead("A1"))
}

func TestReplacePlugboardKeepsBoardOnError(t *testing.T) {
	e, err := engine.New(machine.Config{Rotors: named("B", "I", "II", "III")})
	require.NoError(t, err)

	assert.ErrorIs(t, e.ReplacePlugboard("AB", "BC"), plugboard.ErrOccupied)
	assert.Nil(t, e.Plugboard())

	require.NoError(t, e.ReplacePlugboard("AB"))
	assert.ErrorIs(t, e.ReplacePlugboard("CD", "DE"), plugboard.ErrOccupied)
	assert.Equal(t, "AB", e.Plugboard().String())
}

func TestPlugboardLoggerIsShared(t *testing.T) {
	var buf bytes.Buffer
	e, err := engine.New(machine.Config{Rotors: named("B", "I", "II", "III")},
		engine.WithPlugboard("AB"), engine.WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)

	require.NoError(t, e.AddPlugLead("AB"))
	assert.Contains(t, buf.String(), "already connected")
}

func TestRejectsForeignSymbols(t *testing.T) {
	e, err := engine.New(machine.Config{Rotors: named("B", "I", "II", "III")})
	require.NoError(t, err)

	_, err = e.EncodeString("HELLO WORLD")
	assert.ErrorIs(t, err, cryptors.ErrSymbol)
	assert.Equal(t, "AAA", e.Positions())
}

func TestNewErrors(t *testing.T) {
	_, err := engine.New(machine.Config{Rotors: named("B", "I", "II")})
	assert.ErrorIs(t, err, machine.ErrRotorCount)

	_, err = engine.New(machine.Config{Rotors: named("B", "I", "II", "III")}, engine.WithPlugboard("AB", "BC"))
	assert.ErrorIs(t, err, plugboard.ErrOccupied)
}
