package rotor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/rotor"
)

const (
	extendedI         = "EKMFLGDQVZNTOWYHXUSPAIBRCJ3461275908"
	extendedNotched   = "EKMFLGDQVZNTO0WYHXUSPAIBRCJ346127598"
	extendedReflector = "FVPJIAOYEDRZXWGCTKUQSBNMHL2607981354"
)

func mustRotor(t *testing.T, a *cryptors.Alphabet, spec rotor.Spec, ring int, pos byte) *rotor.Rotor {
	t.Helper()
	r, err := rotor.New(a, spec, ring, pos)
	require.NoError(t, err)
	return r
}

func TestHistoricalWiring(t *testing.T) {
	r := mustRotor(t, cryptors.Classic, rotor.Named("I"), 1, 'A')

	c, err := r.EncodeRightToLeft('A')
	require.NoError(t, err)
	assert.Equal(t, byte('E'), c)

	c, err = r.EncodeLeftToRight('A')
	require.NoError(t, err)
	assert.Equal(t, byte('U'), c)

	notch, ok := r.Notch()
	assert.True(t, ok)
	assert.Equal(t, byte('Q'), notch)
	assert.False(t, r.IsReflector())
}

func TestEveryHistoricalRotorIsAPermutation(t *testing.T) {
	for _, name := range rotor.Names() {
		r, err := rotor.New(cryptors.Classic, rotor.Named(name), 1, 'A')
		require.NoError(t, err, name)
		if r.IsReflector() {
			assert.True(t, r.ValidReflector(), name)
		}
	}
}

func TestOffsetEncoding(t *testing.T) {
	tests := []struct {
		name  string
		alpha *cryptors.Alphabet
		spec  rotor.Spec
	}{
		{"historical I", cryptors.Classic, rotor.Named("I")},
		{"extended custom", cryptors.Extended, rotor.Custom(extendedI, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustRotor(t, tt.alpha, tt.spec, 1, 'B')

			c, err := r.EncodeOffsetRTL('J')
			require.NoError(t, err)
			assert.Equal(t, byte('M'), c)

			c, err = r.EncodeOffsetLTR('B')
			require.NoError(t, err)
			assert.Equal(t, byte('X'), c)
		})
	}
}

func TestOffsetEncodingIsInvertible(t *testing.T) {
	for ring := 1; ring <= 36; ring += 7 {
		r := mustRotor(t, cryptors.Extended, rotor.Custom(extendedI, 0), ring, 'Q')
		for i := 0; i < 36; i++ {
			assert.Equal(t, i, r.LTR(r.RTL(i)))
		}
	}
}

func TestAdvancePositionAndNotch(t *testing.T) {
	r := mustRotor(t, cryptors.Extended, rotor.Custom(extendedNotched, 'B'), 1, '9')
	assert.False(t, r.CheckNotch())

	r.AdvancePosition()
	assert.Equal(t, byte('A'), r.Position())
	r.AdvancePosition()
	assert.Equal(t, byte('B'), r.Position())
	assert.True(t, r.CheckNotch())

	c, err := r.EncodeRightToLeft('B')
	require.NoError(t, err)
	assert.Equal(t, byte('K'), c)
	c, err = r.EncodeLeftToRight('C')
	require.NoError(t, err)
	assert.Equal(t, byte('Z'), c)

	classic := mustRotor(t, cryptors.Classic, rotor.Named("III"), 1, 'Z')
	classic.AdvancePosition()
	assert.Equal(t, byte('A'), classic.Position())

	plain := mustRotor(t, cryptors.Classic, rotor.Named("Beta"), 1, 'A')
	for i := 0; i < 26; i++ {
		assert.False(t, plain.CheckNotch())
		plain.AdvancePosition()
	}
}

func TestValidReflector(t *testing.T) {
	assert.True(t, mustRotor(t, cryptors.Extended, rotor.Custom(extendedReflector, 0), 1, 'A').ValidReflector())
	assert.False(t, mustRotor(t, cryptors.Extended, rotor.Custom(extendedI, 0), 1, 'B').ValidReflector())
	assert.False(t, mustRotor(t, cryptors.Extended, rotor.Custom(extendedNotched, 'B'), 1, 'A').ValidReflector())

	// an involution with fixed points is not a reflector
	fixed := "FVPJIAOYEDRZXWGCTKUQSBNMHL0627981354"
	assert.False(t, mustRotor(t, cryptors.Extended, rotor.Custom(fixed, 0), 1, 'A').ValidReflector())

	// a reflector wiring with a notch is not a reflector either
	assert.False(t, mustRotor(t, cryptors.Extended, rotor.Custom(extendedReflector, 'A'), 1, 'A').ValidReflector())
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		alpha   *cryptors.Alphabet
		spec    rotor.Spec
		ring    int
		pos     byte
		wantErr error
	}{
		{"unknown name", cryptors.Classic, rotor.Named("IX"), 1, 'A', rotor.ErrUnknownRotor},
		{"historical over extended", cryptors.Extended, rotor.Named("I"), 1, 'A', rotor.ErrUnknownRotor},
		{"ring too small", cryptors.Classic, rotor.Named("I"), 0, 'A', rotor.ErrRing},
		{"ring too large", cryptors.Classic, rotor.Named("I"), 27, 'A', rotor.ErrRing},
		{"extended ring", cryptors.Extended, rotor.Custom(extendedI, 0), 36, 'A', nil},
		{"bad position", cryptors.Classic, rotor.Named("I"), 1, '1', rotor.ErrPosition},
		{"short wiring", cryptors.Classic, rotor.Custom("ABC", 0), 1, 'A', rotor.ErrWiring},
		{"repeated symbol", cryptors.Classic, rotor.Custom("AACDEFGHIJKLMNOPQRSTUVWXYZ", 0), 1, 'A', rotor.ErrWiring},
		{"foreign symbol", cryptors.Classic, rotor.Custom("1BCDEFGHIJKLMNOPQRSTUVWXYZ", 0), 1, 'A', rotor.ErrWiring},
		{"bad notch", cryptors.Classic, rotor.Custom(cryptors.ClassicSymbols, '7'), 1, 'A', rotor.ErrNotch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rotor.New(tt.alpha, tt.spec, tt.ring, tt.pos)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestEncodeRejectsForeignSymbols(t *testing.T) {
	r := mustRotor(t, cryptors.Classic, rotor.Named("I"), 1, 'A')
	_, err := r.EncodeOffsetRTL('5')
	assert.ErrorIs(t, err, cryptors.ErrSymbol)
}

func TestParseSpec(t *testing.T) {
	spec, err := rotor.ParseSpec("Beta")
	require.NoError(t, err)
	assert.Equal(t, rotor.Named("Beta"), spec)

	spec, err = rotor.ParseSpec(extendedNotched + ":B")
	require.NoError(t, err)
	assert.Equal(t, rotor.CustomNotched, spec.Kind)
	assert.Equal(t, byte('B'), spec.Notch)
	assert.Equal(t, extendedNotched+":B", spec.String())

	spec, err = rotor.ParseSpec(extendedI)
	require.NoError(t, err)
	assert.Equal(t, rotor.CustomPlain, spec.Kind)

	_, err = rotor.ParseSpec(extendedI + ":AB")
	assert.ErrorIs(t, err, rotor.ErrNotch)

	_, err = rotor.ParseSpec("X")
	assert.ErrorIs(t, err, rotor.ErrUnknownRotor)
}
