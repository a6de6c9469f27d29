// permutator project permutator.go
package permutator

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bgallie/enigma/cryptors"
)

// Width is the number of rightmost rotors a session permutes.
const Width = 3

var ErrIndex = errors.New("permutator: index out of range")

// Kind selects one of the three session tables.
type Kind byte

const (
	Swap     Kind = 'S' // order of the rightmost rotors
	Ring     Kind = 'R' // ring settings of the rightmost rotors
	Position Kind = 'P' // positions of the rightmost rotors
)

func (k Kind) Valid() bool {
	return k == Swap || k == Ring || k == Position
}

func (k Kind) String() string {
	switch k {
	case Swap:
		return "swap"
	case Ring:
		return "ring"
	case Position:
		return "position"
	default:
		return fmt.Sprintf("Kind(%q)", byte(k))
	}
}

// swaps holds every ordering of the rightmost rotor slots in lexicographic order.
var swaps = permutations(Width)

func permutations(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}

	var out [][]int
	for first := 0; first < n; first++ {
		for _, rest := range permutations(n - 1) {
			p := []int{first}
			for _, v := range rest {
				if v >= first {
					v++
				}
				p = append(p, v)
			}
			out = append(out, p)
		}
	}
	return out
}

// Permutator indexes the session tables of one alphabet.  The ring and
// position tables are the cartesian cube of the alphabet in lexicographic
// order, so entries are computed from the index rather than stored.
type Permutator struct {
	alphabet *cryptors.Alphabet
}

func New(alphabet *cryptors.Alphabet) *Permutator {
	return &Permutator{alphabet: alphabet}
}

// Size returns the number of entries in the table of kind k.
func (p *Permutator) Size(k Kind) int {
	switch k {
	case Swap:
		return len(swaps)
	case Ring, Position:
		n := p.alphabet.Size()
		return n * n * n
	default:
		return 0
	}
}

func (p *Permutator) check(k Kind, idx int) error {
	if idx < 0 || idx >= p.Size(k) {
		return fmt.Errorf("%w: %s index %d not in [0, %d)", ErrIndex, k, idx, p.Size(k))
	}
	return nil
}

// digits splits idx into Width base-n digits, most significant first.
func (p *Permutator) digits(idx int) [Width]int {
	var d [Width]int
	n := p.alphabet.Size()
	for i := Width - 1; i >= 0; i-- {
		d[i] = idx % n
		idx /= n
	}
	return d
}

// Swap returns the slot ordering at idx: entry i names the slot whose rotor
// moves into slot i.
func (p *Permutator) Swap(idx int) ([Width]int, error) {
	var out [Width]int
	if err := p.check(Swap, idx); err != nil {
		return out, err
	}
	copy(out[:], swaps[idx])
	return out, nil
}

// Rings returns the ring triple at idx, each in [1, alphabet size].
func (p *Permutator) Rings(idx int) ([Width]int, error) {
	var out [Width]int
	if err := p.check(Ring, idx); err != nil {
		return out, err
	}
	for i, d := range p.digits(idx) {
		out[i] = d + 1
	}
	return out, nil
}

// Positions returns the position triple at idx.
func (p *Permutator) Positions(idx int) (string, error) {
	if err := p.check(Position, idx); err != nil {
		return "", err
	}
	var out [Width]byte
	for i, d := range p.digits(idx) {
		out[i] = p.alphabet.Symbol(d)
	}
	return string(out[:]), nil
}

func (p *Permutator) String() string {
	var output bytes.Buffer
	output.WriteString(fmt.Sprintf("permutator(%s) swaps:", p.alphabet))
	for _, s := range swaps {
		output.WriteString(fmt.Sprintf(" %v", s))
	}
	output.WriteString(fmt.Sprintf(" rings: %d positions: %d", p.Size(Ring), p.Size(Position)))
	return output.String()
}
