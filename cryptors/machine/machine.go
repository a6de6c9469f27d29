// Package machine implements the rotor stack: a reflector followed by three or
// four stepping rotors, with the historical double stepping of the middle rotor.
package machine

import (
	"errors"
	"fmt"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/rotor"
)

var (
	ErrRotorCount     = errors.New("machine: a machine needs four or five rotors, reflector first")
	ErrReflector      = errors.New("machine: invalid reflector placement")
	ErrSettingsLength = errors.New("machine: settings must have one entry per non-reflector rotor")
)

// Config is the full description of a machine.  It is a plain value: building
// a Machine from it never changes it, and Machine.Config returns a new one.
type Config struct {
	Alphabet  *cryptors.Alphabet
	Rotors    []rotor.Spec
	Rings     []int  // one per non-reflector rotor, empty for all 1
	Positions string // one symbol per non-reflector rotor, empty for all first symbol
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	return Config{
		Alphabet:  c.Alphabet,
		Rotors:    append([]rotor.Spec(nil), c.Rotors...),
		Rings:     append([]int(nil), c.Rings...),
		Positions: c.Positions,
	}
}

// Machine is a rotor stack with the reflector at index 0.  It is mutated by
// every Encode and must not be shared between goroutines.
type Machine struct {
	alphabet *cryptors.Alphabet
	rotors   []*rotor.Rotor
}

// New builds a machine from cfg.  A nil alphabet selects the classic one.
func New(cfg Config) (*Machine, error) {
	alphabet := cfg.Alphabet
	if alphabet == nil {
		alphabet = cryptors.Classic
	}

	rotors, err := buildRotors(alphabet, cfg.Rotors)
	if err != nil {
		return nil, err
	}

	m := &Machine{alphabet: alphabet, rotors: rotors}
	if len(cfg.Rings) > 0 {
		if err := m.SetRings(cfg.Rings); err != nil {
			return nil, err
		}
	}
	if cfg.Positions != "" {
		if err := m.SetPositions(cfg.Positions); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func buildRotors(alphabet *cryptors.Alphabet, specs []rotor.Spec) ([]*rotor.Rotor, error) {
	if len(specs) != 4 && len(specs) != 5 {
		return nil, fmt.Errorf("%w: got %d", ErrRotorCount, len(specs))
	}

	// anonymous custom rotors are numbered per kind, per machine
	counters := make(map[rotor.Kind]int)
	rotors := make([]*rotor.Rotor, len(specs))
	for i, spec := range specs {
		r, err := rotor.New(alphabet, spec, 1, alphabet.Symbol(0))
		if err != nil {
			return nil, fmt.Errorf("rotor %d: %w", i, err)
		}
		if r.Name() == "" {
			r.SetName(fmt.Sprintf("%s-%d", spec.Kind, counters[spec.Kind]))
			counters[spec.Kind]++
		}
		rotors[i] = r
	}

	if !rotors[0].MarkReflector() {
		return nil, fmt.Errorf("%w: %s is not a valid reflector", ErrReflector, rotors[0].Name())
	}
	for _, r := range rotors[1:] {
		if r.IsReflector() {
			return nil, fmt.Errorf("%w: reflector %s used as a rotor", ErrReflector, r.Name())
		}
	}

	return rotors, nil
}

func (m *Machine) Alphabet() *cryptors.Alphabet {
	return m.alphabet
}

// Rotors returns the rotors, reflector first.
func (m *Machine) Rotors() []*rotor.Rotor {
	return append([]*rotor.Rotor(nil), m.rotors...)
}

func (m *Machine) Specs() []rotor.Spec {
	specs := make([]rotor.Spec, len(m.rotors))
	for i, r := range m.rotors {
		specs[i] = r.Spec()
	}
	return specs
}

// Rings returns the ring settings of the non-reflector rotors.
func (m *Machine) Rings() []int {
	rings := make([]int, len(m.rotors)-1)
	for i, r := range m.rotors[1:] {
		rings[i] = r.Ring()
	}
	return rings
}

// Positions returns the current positions of the non-reflector rotors.
func (m *Machine) Positions() string {
	positions := make([]byte, len(m.rotors)-1)
	for i, r := range m.rotors[1:] {
		positions[i] = r.Position()
	}
	return string(positions)
}

// Config returns the machine's current configuration, positions included.
func (m *Machine) Config() Config {
	return Config{
		Alphabet:  m.alphabet,
		Rotors:    m.Specs(),
		Rings:     m.Rings(),
		Positions: m.Positions(),
	}
}

// SetRings sets the ring settings of the non-reflector rotors.
func (m *Machine) SetRings(rings []int) error {
	if len(rings) != len(m.rotors)-1 {
		return fmt.Errorf("%w: %d rings for %d rotors", ErrSettingsLength, len(rings), len(m.rotors)-1)
	}
	for _, ring := range rings {
		if ring < 1 || ring > m.alphabet.Size() {
			return fmt.Errorf("%w: %d is not between 1 and %d", rotor.ErrRing, ring, m.alphabet.Size())
		}
	}

	for i, ring := range rings {
		_ = m.rotors[i+1].SetRing(ring)
	}
	return nil
}

// SetPositions sets the positions of the non-reflector rotors.
func (m *Machine) SetPositions(positions string) error {
	if len(positions) != len(m.rotors)-1 {
		return fmt.Errorf("%w: %d positions for %d rotors", ErrSettingsLength, len(positions), len(m.rotors)-1)
	}
	if err := m.alphabet.Validate(positions); err != nil {
		return fmt.Errorf("%w: %w", rotor.ErrPosition, err)
	}

	for i := 0; i < len(positions); i++ {
		_ = m.rotors[i+1].SetPosition(positions[i])
	}
	return nil
}

// SwapRotors replaces the rotors, keeping the current ring and position
// settings.  The number of rotors cannot change.
func (m *Machine) SwapRotors(specs []rotor.Spec) error {
	if len(specs) != len(m.rotors) {
		return fmt.Errorf("%w: got %d, the machine has %d", ErrRotorCount, len(specs), len(m.rotors))
	}

	cfg := m.Config()
	cfg.Rotors = specs
	swapped, err := New(cfg)
	if err != nil {
		return err
	}

	m.rotors = swapped.rotors
	return nil
}

// Rotate steps the rotors once.  The rightmost rotor always advances; a rotor
// sitting on its notch advances its left neighbour, and the middle rotor steps
// again on its own notch.
func (m *Machine) Rotate() {
	n := len(m.rotors)
	right, middle, left := m.rotors[n-1], m.rotors[n-2], m.rotors[n-3]

	rot1 := right.CheckNotch()
	rot2 := middle.CheckNotch()

	right.AdvancePosition()
	if rot1 {
		middle.AdvancePosition()
	}
	if rot2 {
		if !rot1 {
			middle.AdvancePosition()
		}
		left.AdvancePosition()
	}
}

// EncodeIndex steps the rotors and passes the symbol index through the stack,
// right to left down to the reflector and back out left to right.
func (m *Machine) EncodeIndex(i int) int {
	m.Rotate()
	for j := len(m.rotors) - 1; j >= 0; j-- {
		i = m.rotors[j].RTL(i)
	}
	for j := 1; j < len(m.rotors); j++ {
		i = m.rotors[j].LTR(i)
	}
	return i
}

func (m *Machine) Encode(c byte) (byte, error) {
	i, ok := m.alphabet.Index(c)
	if !ok {
		return 0, fmt.Errorf("%w: %q", cryptors.ErrSymbol, c)
	}
	return m.alphabet.Symbol(m.EncodeIndex(i)), nil
}

func (m *Machine) EncodeString(s string) (string, error) {
	return cryptors.EncodeString(m, s)
}
