package rotor

import (
	"fmt"
	"strings"
)

// Kind tags the three ways a rotor can be specified.
type Kind int

const (
	Historical Kind = iota
	CustomNotched
	CustomPlain
)

func (k Kind) String() string {
	switch k {
	case Historical:
		return "historical"
	case CustomNotched:
		return "custom-notched"
	case CustomPlain:
		return "custom"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Spec describes a rotor before it is bound to an alphabet.  Specs are plain
// values and can be copied and permuted freely.
type Spec struct {
	Kind   Kind
	Name   string // historical tag, or an optional caller assigned label
	Wiring string // custom rotors only
	Notch  byte   // CustomNotched only
}

// Named returns the spec of a historical rotor or reflector.
func Named(name string) Spec {
	return Spec{Kind: Historical, Name: name}
}

// Custom returns the spec of a custom rotor.  A zero notch gives a rotor
// without a stepping notch.
func Custom(wiring string, notch byte) Spec {
	if notch == 0 {
		return Spec{Kind: CustomPlain, Wiring: wiring}
	}
	return Spec{Kind: CustomNotched, Wiring: wiring, Notch: notch}
}

// WithName returns a copy of s labelled with name.
func (s Spec) WithName(name string) Spec {
	s.Name = name
	return s
}

// ParseSpec reads a textual rotor spec: a historical name ("I", "Beta", "B"),
// a raw wiring, or a wiring followed by ':' and its notch symbol.
func ParseSpec(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	if _, ok := historical[s]; ok {
		return Named(s), nil
	}

	wiring, notch, found := strings.Cut(s, ":")
	switch {
	case !found:
		if len(wiring) < 2 {
			return Spec{}, fmt.Errorf("%w: %q", ErrUnknownRotor, s)
		}
		return Custom(wiring, 0), nil
	case len(notch) != 1:
		return Spec{}, fmt.Errorf("%w: %q must be a single symbol", ErrNotch, notch)
	default:
		return Custom(wiring, notch[0]), nil
	}
}

func (s Spec) String() string {
	switch s.Kind {
	case Historical:
		return s.Name
	case CustomNotched:
		return s.Wiring + ":" + string(s.Notch)
	default:
		return s.Wiring
	}
}
