// rotor
package rotor

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bgallie/enigma/cryptors"
)

var (
	ErrUnknownRotor = errors.New("rotor: unknown rotor")
	ErrWiring       = errors.New("rotor: wiring is not a permutation of the alphabet")
	ErrRing         = errors.New("rotor: ring setting out of range")
	ErrPosition     = errors.New("rotor: position not in alphabet")
	ErrNotch        = errors.New("rotor: notch not in alphabet")
)

// Rotor is a substitution permutation with a ring setting, a rotating position
// and an optional notch.  Positions and the notch are kept as alphabet indices.
type Rotor struct {
	alphabet  *cryptors.Alphabet
	spec      Spec
	name      string
	forward   []int
	inverse   []int
	ring      int
	position  int
	notch     int // -1 when the rotor has no notch
	reflector bool
}

// New binds spec to alphabet with the given ring setting (1 based) and
// starting position.
func New(alphabet *cryptors.Alphabet, spec Spec, ring int, position byte) (*Rotor, error) {
	r := Rotor{alphabet: alphabet, spec: spec, name: spec.Name, notch: -1}

	var mapping string
	switch spec.Kind {
	case Historical:
		w, ok := historical[spec.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRotor, spec.Name)
		}
		if len(w.mapping) != alphabet.Size() {
			return nil, fmt.Errorf("%w: rotor %s is not defined over the %s alphabet", ErrUnknownRotor, spec.Name, alphabet)
		}
		mapping = w.mapping
		r.reflector = w.reflector
		if w.notch != 0 {
			r.notch, _ = alphabet.Index(w.notch)
		}
	case CustomNotched:
		idx, ok := alphabet.Index(spec.Notch)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotch, spec.Notch)
		}
		r.notch = idx
		mapping = spec.Wiring
	case CustomPlain:
		mapping = spec.Wiring
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownRotor, spec.Kind)
	}

	forward, inverse, err := permutation(alphabet, mapping)
	if err != nil {
		return nil, err
	}
	r.forward, r.inverse = forward, inverse

	if err := r.SetRing(ring); err != nil {
		return nil, err
	}
	if err := r.SetPosition(position); err != nil {
		return nil, err
	}

	return &r, nil
}

func permutation(alphabet *cryptors.Alphabet, mapping string) ([]int, []int, error) {
	n := alphabet.Size()
	if len(mapping) != n {
		return nil, nil, fmt.Errorf("%w: %d symbols, want %d", ErrWiring, len(mapping), n)
	}

	forward := make([]int, n)
	inverse := make([]int, n)
	for i := range inverse {
		inverse[i] = -1
	}

	for i := 0; i < n; i++ {
		j, ok := alphabet.Index(mapping[i])
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q is not in the %s alphabet", ErrWiring, mapping[i], alphabet)
		}
		if inverse[j] != -1 {
			return nil, nil, fmt.Errorf("%w: %q appears twice", ErrWiring, mapping[i])
		}
		forward[i], inverse[j] = j, i
	}

	return forward, inverse, nil
}

func (r *Rotor) Name() string {
	return r.name
}

// SetName labels an anonymous rotor.
func (r *Rotor) SetName(name string) {
	r.name = name
}

func (r *Rotor) Spec() Spec {
	return r.spec
}

func (r *Rotor) Alphabet() *cryptors.Alphabet {
	return r.alphabet
}

func (r *Rotor) Ring() int {
	return r.ring
}

func (r *Rotor) SetRing(ring int) error {
	if ring < 1 || ring > r.alphabet.Size() {
		return fmt.Errorf("%w: %d is not between 1 and %d", ErrRing, ring, r.alphabet.Size())
	}
	r.ring = ring
	return nil
}

func (r *Rotor) Position() byte {
	return r.alphabet.Symbol(r.position)
}

func (r *Rotor) SetPosition(position byte) error {
	idx, ok := r.alphabet.Index(position)
	if !ok {
		return fmt.Errorf("%w: %q", ErrPosition, position)
	}
	r.position = idx
	return nil
}

// Notch returns the notch symbol, if the rotor has one.
func (r *Rotor) Notch() (byte, bool) {
	if r.notch < 0 {
		return 0, false
	}
	return r.alphabet.Symbol(r.notch), true
}

func (r *Rotor) IsReflector() bool {
	return r.reflector
}

// MarkReflector flags the rotor as a reflector if it is a valid one.
func (r *Rotor) MarkReflector() bool {
	r.reflector = r.reflector || r.ValidReflector()
	return r.reflector
}

func (r *Rotor) AdvancePosition() {
	r.position = r.alphabet.Mod(r.position + 1)
}

func (r *Rotor) CheckNotch() bool {
	return r.notch >= 0 && r.position == r.notch
}

// offset is the misalignment between the wiring and the visible position.
func (r *Rotor) offset() int {
	return r.position - r.ring + 1
}

// RTL is the index level ring and position adjusted substitution, right to left.
func (r *Rotor) RTL(i int) int {
	off := r.offset()
	return r.alphabet.Mod(r.forward[r.alphabet.Mod(i+off)] - off)
}

// LTR is the inverse of RTL.
func (r *Rotor) LTR(i int) int {
	off := r.offset()
	return r.alphabet.Mod(r.inverse[r.alphabet.Mod(i+off)] - off)
}

func (r *Rotor) symbol(c byte, f func(int) int) (byte, error) {
	i, ok := r.alphabet.Index(c)
	if !ok {
		return 0, fmt.Errorf("%w: %q", cryptors.ErrSymbol, c)
	}
	return r.alphabet.Symbol(f(i)), nil
}

// EncodeRightToLeft applies the wiring without any ring or position offset.
func (r *Rotor) EncodeRightToLeft(c byte) (byte, error) {
	return r.symbol(c, func(i int) int { return r.forward[i] })
}

// EncodeLeftToRight applies the inverse wiring without any offset.
func (r *Rotor) EncodeLeftToRight(c byte) (byte, error) {
	return r.symbol(c, func(i int) int { return r.inverse[i] })
}

func (r *Rotor) EncodeOffsetRTL(c byte) (byte, error) {
	return r.symbol(c, r.RTL)
}

func (r *Rotor) EncodeOffsetLTR(c byte) (byte, error) {
	return r.symbol(c, r.LTR)
}

// ValidReflector reports whether the rotor could serve as a reflector: no
// notch, and a wiring that is an involution without fixed points.
func (r *Rotor) ValidReflector() bool {
	if r.notch >= 0 {
		return false
	}
	for i, j := range r.forward {
		if i == j || r.forward[j] != i {
			return false
		}
	}
	return true
}

func (r *Rotor) String() string {
	var output bytes.Buffer
	output.WriteString(fmt.Sprintf("rotor %s (%s) ring %d position %c", r.name, r.spec.Kind, r.ring, r.Position()))
	if n, ok := r.Notch(); ok {
		output.WriteString(fmt.Sprintf(" notch %c", n))
	}
	if r.reflector {
		output.WriteString(" reflector")
	}
	output.WriteString(" [")
	for _, j := range r.forward {
		output.WriteByte(r.alphabet.Symbol(j))
	}
	output.WriteString("]")
	return output.String()
}
