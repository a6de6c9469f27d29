// enigma

// Package engine composes the plugboard and the rotor stack into a complete
// cipher machine, and adds the advanced session key protocol on top of it.
package engine

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/machine"
	"github.com/bgallie/enigma/cryptors/permutator"
	"github.com/bgallie/enigma/cryptors/plugboard"
	"github.com/bgallie/enigma/cryptors/rotor"
)

type options struct {
	leads        []string
	plugboard    bool
	log          zerolog.Logger
	instructions []permutator.Kind
	intn         func(int) int
}

type Option func(*options)

// WithPlugboard fits a plugboard with the given leads, e.g. "AB", "CD".
func WithPlugboard(leads ...string) Option {
	return func(o *options) {
		o.plugboard = true
		o.leads = append(o.leads, leads...)
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.log = logger
	}
}

// WithInstructions selects which session settings the advanced protocol
// randomizes, and the order they are written into the message prefix.
func WithInstructions(kinds ...permutator.Kind) Option {
	return func(o *options) {
		o.instructions = append([]permutator.Kind{}, kinds...)
	}
}

// WithRandom replaces the source of random numbers used by the advanced
// protocol.  intn(n) must return a value in [0, n).
func WithRandom(intn func(int) int) Option {
	return func(o *options) {
		o.intn = intn
	}
}

func buildOptions(opts []Option) options {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// pipeline is a machine with an optional plugboard on both sides of it.
type pipeline struct {
	m  *machine.Machine
	pb *plugboard.Plugboard
}

func (p pipeline) Alphabet() *cryptors.Alphabet {
	return p.m.Alphabet()
}

func (p pipeline) Encode(c byte) (byte, error) {
	if p.pb == nil {
		return p.m.Encode(c)
	}
	c, err := p.m.Encode(p.pb.Encode(c))
	if err != nil {
		return 0, err
	}
	return p.pb.Encode(c), nil
}

// Enigma is a rotor machine with an optional plugboard.  Each Encode advances
// the rotors, so an Enigma must be owned by one goroutine at a time.
type Enigma struct {
	machine   *machine.Machine
	plugboard *plugboard.Plugboard
	log       zerolog.Logger
}

// New builds an Enigma from cfg.
func New(cfg machine.Config, opts ...Option) (*Enigma, error) {
	return newEnigma(cfg, buildOptions(opts))
}

func newEnigma(cfg machine.Config, o options) (*Enigma, error) {
	m, err := machine.New(cfg)
	if err != nil {
		return nil, err
	}

	e := &Enigma{machine: m, log: o.log}
	if o.plugboard {
		e.plugboard, err = plugboard.New(m.Alphabet(), o.leads, plugboard.WithLogger(o.log))
		if err != nil {
			return nil, err
		}
	}

	return e, nil
}

func (e *Enigma) pipeline() pipeline {
	return pipeline{m: e.machine, pb: e.plugboard}
}

func (e *Enigma) Alphabet() *cryptors.Alphabet {
	return e.machine.Alphabet()
}

// Encode passes c through the plugboard, the rotor stack and the plugboard again.
func (e *Enigma) Encode(c byte) (byte, error) {
	return e.pipeline().Encode(c)
}

// EncodeString encodes s symbol by symbol.  Encoding the result again from the
// same starting configuration gives back s.
func (e *Enigma) EncodeString(s string) (string, error) {
	return cryptors.EncodeString(e.pipeline(), s)
}

func (e *Enigma) Machine() *machine.Machine {
	return e.machine
}

// Plugboard returns the plugboard, or nil if none is fitted.
func (e *Enigma) Plugboard() *plugboard.Plugboard {
	return e.plugboard
}

func (e *Enigma) Rotors() []*rotor.Rotor {
	return e.machine.Rotors()
}

func (e *Enigma) Specs() []rotor.Spec {
	return e.machine.Specs()
}

func (e *Enigma) Rings() []int {
	return e.machine.Rings()
}

func (e *Enigma) Positions() string {
	return e.machine.Positions()
}

func (e *Enigma) RingSettings(rings []int) error {
	return e.machine.SetRings(rings)
}

func (e *Enigma) PositionSettings(positions string) error {
	return e.machine.SetPositions(positions)
}

func (e *Enigma) SwapRotors(specs []rotor.Spec) error {
	return e.machine.SwapRotors(specs)
}

func (e *Enigma) newPlugboard(leads []string) (*plugboard.Plugboard, error) {
	return plugboard.New(e.Alphabet(), leads, plugboard.WithLogger(e.log))
}

// AddPlugLead connects a lead, fitting an empty plugboard first if needed.
func (e *Enigma) AddPlugLead(pair string) error {
	lead, err := plugboard.NewLead(e.Alphabet(), pair)
	if err != nil {
		return err
	}
	if e.plugboard == nil {
		pb, err := e.newPlugboard(nil)
		if err != nil {
			return err
		}
		e.plugboard = pb
	}
	return e.plugboard.Add(lead)
}

func (e *Enigma) RemovePlugLead(pair string) error {
	lead, err := plugboard.NewLead(e.Alphabet(), pair)
	if err != nil {
		return err
	}
	if e.plugboard == nil {
		return fmt.Errorf("%w: %s", plugboard.ErrNotConnected, lead)
	}
	return e.plugboard.Remove(lead)
}

// ReplacePlugboard disconnects every lead and connects leads instead.  On
// error the machine keeps the plugboard it had, or none.
func (e *Enigma) ReplacePlugboard(leads ...string) error {
	if e.plugboard != nil {
		return e.plugboard.Reset(leads)
	}
	pb, err := e.newPlugboard(leads)
	if err != nil {
		return err
	}
	e.plugboard = pb
	return nil
}
