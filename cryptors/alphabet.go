// alphabet
package cryptors

import (
	"fmt"
)

const (
	ClassicSymbols  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	ExtendedSymbols = ClassicSymbols + "0123456789"
)

var (
	// Classic is the 26 letter alphabet of the historical machine.
	Classic = NewAlphabet("classic", ClassicSymbols, 10)
	// Extended adds the ten digits to the classic letters.
	Extended = NewAlphabet("extended", ExtendedSymbols, 18)
)

// Alphabet is an ordered set of symbols with an index bijection.  All of the
// rotor arithmetic is done modulo its size.
type Alphabet struct {
	name        string
	symbols     string
	index       [256]int
	connections int
}

// NewAlphabet creates an alphabet from distinct single byte symbols.
// connections is the plugboard connection limit for machines bound to it.
func NewAlphabet(name, symbols string, connections int) *Alphabet {
	a := Alphabet{name: name, symbols: symbols, connections: connections}
	for i := range a.index {
		a.index[i] = -1
	}

	for i := 0; i < len(symbols); i++ {
		if a.index[symbols[i]] != -1 {
			panic(fmt.Sprintf("cryptors: duplicate symbol %q in alphabet %s", symbols[i], name))
		}
		a.index[symbols[i]] = i
	}

	return &a
}

func (a *Alphabet) Name() string {
	return a.name
}

func (a *Alphabet) Size() int {
	return len(a.symbols)
}

func (a *Alphabet) Symbols() string {
	return a.symbols
}

// Connections returns the maximum number of plug leads a plugboard over this
// alphabet can hold.
func (a *Alphabet) Connections() int {
	return a.connections
}

func (a *Alphabet) Contains(c byte) bool {
	return a.index[c] >= 0
}

// Index returns the position of c in the alphabet.
func (a *Alphabet) Index(c byte) (int, bool) {
	i := a.index[c]
	return i, i >= 0
}

// Symbol returns the symbol at i, taken modulo the alphabet size.
func (a *Alphabet) Symbol(i int) byte {
	return a.symbols[a.Mod(i)]
}

// Mod reduces i into [0, Size()), including negative values.
func (a *Alphabet) Mod(i int) int {
	n := len(a.symbols)
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Next returns the symbol following c, wrapping from the last symbol to the first.
func (a *Alphabet) Next(c byte) byte {
	return a.Symbol(a.index[c] + 1)
}

// Validate checks that every symbol of s belongs to the alphabet.
func (a *Alphabet) Validate(s string) error {
	for i := 0; i < len(s); i++ {
		if a.index[s[i]] < 0 {
			return fmt.Errorf("%w: %q at offset %d is not in the %s alphabet", ErrSymbol, s[i], i, a.name)
		}
	}
	return nil
}

func (a *Alphabet) String() string {
	return a.name
}
