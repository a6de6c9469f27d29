// Package plugboard implements the involutive pairwise substitution that sits
// in front of the rotor stack.
//
// Errors:
//
//	ErrLead         - a lead is not two distinct alphabet symbols.
//	ErrOccupied     - a symbol of the lead is already used by another lead.
//	ErrNotConnected - removing a lead that is not on the board.
//
// Adding a lead that is already connected, or adding past the connection
// limit, is not an error: the board is left unchanged and a warning is logged.
package plugboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/bitops"
)

var (
	ErrLead         = errors.New("plugboard: invalid plug lead")
	ErrOccupied     = errors.New("plugboard: symbol already occupied")
	ErrNotConnected = errors.New("plugboard: plug lead not connected")
)

// Lead connects two distinct symbols.  Leads compare equal regardless of the
// order the symbols were given in.
type Lead struct {
	first, last byte
}

// NewLead builds a lead from a two symbol string such as "AB".
func NewLead(alphabet *cryptors.Alphabet, pair string) (Lead, error) {
	pair = strings.TrimSpace(pair)
	if len(pair) != 2 {
		return Lead{}, fmt.Errorf("%w: %q must be exactly two symbols", ErrLead, pair)
	}
	if err := alphabet.Validate(pair); err != nil {
		return Lead{}, fmt.Errorf("%w: %w", ErrLead, err)
	}
	if pair[0] == pair[1] {
		return Lead{}, fmt.Errorf("%w: cannot connect %q to itself", ErrLead, pair[0])
	}

	first, last := pair[0], pair[1]
	if first > last {
		first, last = last, first
	}
	return Lead{first: first, last: last}, nil
}

// Rewire replaces both ends of the lead.
func (l *Lead) Rewire(alphabet *cryptors.Alphabet, pair string) error {
	nl, err := NewLead(alphabet, pair)
	if err != nil {
		return err
	}
	*l = nl
	return nil
}

// Pair returns the connected symbols in alphabet byte order.
func (l Lead) Pair() (byte, byte) {
	return l.first, l.last
}

func (l Lead) Contains(c byte) bool {
	return c == l.first || c == l.last
}

func (l Lead) Encode(c byte) byte {
	switch c {
	case l.first:
		return l.last
	case l.last:
		return l.first
	default:
		return c
	}
}

func (l Lead) String() string {
	return string([]byte{l.first, l.last})
}

// Plugboard is a set of leads over one alphabet.  No symbol is used by more
// than one lead, and the number of leads never exceeds the alphabet's
// connection limit.
type Plugboard struct {
	alphabet *cryptors.Alphabet
	leads    []Lead
	occupied []byte
	log      zerolog.Logger
}

type Option func(*Plugboard)

// WithLogger sets the logger that receives capacity and duplicate warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(pb *Plugboard) {
		pb.log = logger
	}
}

// New creates a plugboard and connects the given leads in order.
func New(alphabet *cryptors.Alphabet, leads []string, opts ...Option) (*Plugboard, error) {
	pb := &Plugboard{
		alphabet: alphabet,
		occupied: bitops.New(uint(alphabet.Size())),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(pb)
	}

	for _, pair := range leads {
		lead, err := NewLead(alphabet, pair)
		if err != nil {
			return nil, err
		}
		if err := pb.Add(lead); err != nil {
			return nil, err
		}
	}

	return pb, nil
}

func (pb *Plugboard) Alphabet() *cryptors.Alphabet {
	return pb.alphabet
}

func (pb *Plugboard) Len() int {
	return len(pb.leads)
}

func (pb *Plugboard) Limit() int {
	return pb.alphabet.Connections()
}

// Leads returns a copy of the connected leads in the order they were added.
func (pb *Plugboard) Leads() []Lead {
	return append([]Lead(nil), pb.leads...)
}

func (pb *Plugboard) indexOf(l Lead) int {
	for i, c := range pb.leads {
		if c == l {
			return i
		}
	}
	return -1
}

func (pb *Plugboard) isOccupied(c byte) bool {
	idx, ok := pb.alphabet.Index(c)
	return ok && bitops.GetBit(pb.occupied, uint(idx))
}

func (pb *Plugboard) mark(l Lead, set bool) {
	op := bitops.ClrBit
	if set {
		op = bitops.SetBit
	}
	for _, c := range []byte{l.first, l.last} {
		idx, _ := pb.alphabet.Index(c)
		op(pb.occupied, uint(idx))
	}
}

// Add connects a lead.  A lead already on the board, or a board already at
// its connection limit, leaves the board unchanged and logs a warning.
func (pb *Plugboard) Add(l Lead) error {
	if err := pb.alphabet.Validate(l.String()); err != nil {
		return fmt.Errorf("%w: %w", ErrLead, err)
	}

	if pb.indexOf(l) >= 0 {
		pb.log.Warn().Stringer("lead", l).Msg("plug lead already connected, the plugboard remains unchanged")
		return nil
	}

	switch {
	case pb.isOccupied(l.first) && pb.isOccupied(l.last):
		return fmt.Errorf("%w: %c and %c", ErrOccupied, l.first, l.last)
	case pb.isOccupied(l.first):
		return fmt.Errorf("%w: %c", ErrOccupied, l.first)
	case pb.isOccupied(l.last):
		return fmt.Errorf("%w: %c", ErrOccupied, l.last)
	}

	if len(pb.leads) >= pb.Limit() {
		pb.log.Warn().
			Stringer("lead", l).
			Int("limit", pb.Limit()).
			Msg("plugboard connection limit reached, lead not connected")
		return nil
	}

	pb.leads = append(pb.leads, l)
	pb.mark(l, true)
	return nil
}

// Remove disconnects a lead and frees both of its symbols.
func (pb *Plugboard) Remove(l Lead) error {
	i := pb.indexOf(l)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotConnected, l)
	}

	pb.leads = append(pb.leads[:i], pb.leads[i+1:]...)
	pb.mark(l, false)
	return nil
}

// Reset clears every connection and then connects leads.  The new leads are
// validated first; on error the board is left as it was.
func (pb *Plugboard) Reset(leads []string) error {
	fresh, err := New(pb.alphabet, leads, WithLogger(pb.log))
	if err != nil {
		return err
	}

	pb.leads, pb.occupied = fresh.leads, fresh.occupied
	return nil
}

// Encode returns the symbol c is connected to, or c itself.
func (pb *Plugboard) Encode(c byte) byte {
	if !pb.isOccupied(c) {
		return c
	}
	for _, l := range pb.leads {
		if l.Contains(c) {
			return l.Encode(c)
		}
	}
	return c
}

func (pb *Plugboard) String() string {
	pairs := make([]string, len(pb.leads))
	for i, l := range pb.leads {
		pairs[i] = l.String()
	}
	return strings.Join(pairs, " ")
}
