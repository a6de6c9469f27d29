// advanced
package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/machine"
	"github.com/bgallie/enigma/cryptors/permutator"
)

// MaxNoise is the largest number of padding letters written after each
// session index.
const MaxNoise = 5

var (
	ErrAlphabet        = errors.New("engine: the advanced protocol needs an alphabet with letters and digits")
	ErrInstruction     = errors.New("engine: invalid session instruction")
	ErrBoundaries      = errors.New("engine: invalid segment boundaries")
	ErrMissingMarker   = errors.New("engine: no session marker found")
	ErrMalformedPrefix = errors.New("engine: malformed session prefix")
)

// DefaultInstructions randomizes the rotor order, the rings and the positions.
var DefaultInstructions = []permutator.Kind{permutator.Swap, permutator.Ring, permutator.Position}

var indexRun = regexp.MustCompile(`[0-9]+`)

// session holds the table index chosen for each instruction.
type session map[permutator.Kind]int

// Advanced is an Enigma that prefixes each message with a hidden session key.
// The prefix is encoded with the original configuration; the message itself
// alternates between the session configuration and the original one at the
// given boundaries.
//
// EncodeAdvancedString and DecodeAdvancedString always start from the
// configuration the machine was built with, so RingSettings,
// PositionSettings and SwapRotors called on an Advanced are not used by them.
// Only the plugboard carries over.
type Advanced struct {
	*Enigma
	original     machine.Config
	instructions []permutator.Kind
	perms        *permutator.Permutator
	intn         func(int) int
}

// NewAdvanced builds an Advanced machine from cfg.  A nil alphabet selects the
// extended one.
func NewAdvanced(cfg machine.Config, opts ...Option) (*Advanced, error) {
	o := buildOptions(opts)

	cfg = cfg.Clone()
	if cfg.Alphabet == nil {
		cfg.Alphabet = cryptors.Extended
	}
	if err := cfg.Alphabet.Validate(cryptors.ExtendedSymbols); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlphabet, cfg.Alphabet.Name())
	}

	instructions := o.instructions
	if instructions == nil {
		instructions = DefaultInstructions
	}
	seen := make(map[permutator.Kind]bool)
	for _, k := range instructions {
		if !k.Valid() || seen[k] {
			return nil, fmt.Errorf("%w: %s", ErrInstruction, k)
		}
		seen[k] = true
	}

	intn := o.intn
	if intn == nil {
		intn = rand.IntN
	}

	e, err := newEnigma(cfg, o)
	if err != nil {
		return nil, err
	}

	return &Advanced{
		Enigma:       e,
		original:     e.machine.Config(),
		instructions: append([]permutator.Kind(nil), instructions...),
		perms:        permutator.New(cfg.Alphabet),
		intn:         intn,
	}, nil
}

// Original returns the configuration the machine was built with.
func (a *Advanced) Original() machine.Config {
	return a.original.Clone()
}

func (a *Advanced) Instructions() []permutator.Kind {
	return append([]permutator.Kind(nil), a.instructions...)
}

// ResetToOriginalPosition puts the rotors, rings and positions back to the
// configuration the machine was built with.  The plugboard is left alone.
func (a *Advanced) ResetToOriginalPosition() error {
	m, err := machine.New(a.original)
	if err != nil {
		return err
	}
	a.machine = m
	return nil
}

// EncodeAdvancedString encodes text behind a freshly generated session prefix.
// boundaries are offsets into text where the configuration in use switches.
func (a *Advanced) EncodeAdvancedString(text string, boundaries []int) (string, error) {
	if err := a.Alphabet().Validate(text); err != nil {
		return "", err
	}
	if err := checkBoundaries(boundaries, len(text)); err != nil {
		return "", err
	}

	prefix, s := a.auxiliary()
	return a.seal(prefix, s, text, boundaries)
}

// DecodeAdvancedString recovers the message from the output of
// EncodeAdvancedString, given the same boundaries.
func (a *Advanced) DecodeAdvancedString(text string, boundaries []int) (string, error) {
	if err := a.Alphabet().Validate(text); err != nil {
		return "", err
	}
	if err := checkBoundaries(boundaries, -1); err != nil {
		return "", err
	}

	m, err := machine.New(a.original)
	if err != nil {
		return "", err
	}
	jumbled, err := cryptors.EncodeString(pipeline{m: m, pb: a.plugboard}, text)
	if err != nil {
		return "", err
	}

	end := markerEnd(jumbled)
	if end < 0 {
		return "", ErrMissingMarker
	}
	prefix, message := jumbled[:end], text[end:]
	if err := checkBoundaries(boundaries, len(message)); err != nil {
		return "", err
	}

	s, err := a.parse(prefix)
	if err != nil {
		return "", err
	}

	// replay the prefix so the original positions match the sender's
	m, err = machine.New(a.original)
	if err != nil {
		return "", err
	}
	if _, err := cryptors.EncodeString(pipeline{m: m, pb: a.plugboard}, prefix); err != nil {
		return "", err
	}

	current := m.Config()
	derived, err := a.derive(current, s)
	if err != nil {
		return "", err
	}
	plain, last, err := a.alternate(derived, current, message, boundaries)
	if err != nil {
		return "", err
	}

	a.machine = last
	a.log.Debug().
		Int("prefix", len(prefix)).
		Int("length", len(plain)).
		Ints("boundaries", boundaries).
		Msg("decoded advanced message")
	return plain, nil
}

// seal encodes prefix with the original configuration, then text with the
// session configuration described by s.
func (a *Advanced) seal(prefix string, s session, text string, boundaries []int) (string, error) {
	m, err := machine.New(a.original)
	if err != nil {
		return "", err
	}
	head, err := cryptors.EncodeString(pipeline{m: m, pb: a.plugboard}, prefix)
	if err != nil {
		return "", err
	}

	current := m.Config()
	derived, err := a.derive(current, s)
	if err != nil {
		return "", err
	}
	body, last, err := a.alternate(derived, current, text, boundaries)
	if err != nil {
		return "", err
	}

	a.machine = last
	a.log.Debug().
		Int("prefix", len(prefix)).
		Int("length", len(text)).
		Ints("boundaries", boundaries).
		Msg("encoded advanced message")
	return head + body, nil
}

// auxiliary draws a session and writes it out as a prefix: for every
// instruction the decimal table index followed by one to MaxNoise distinct
// letters, then a doubled marker letter.
func (a *Advanced) auxiliary() (string, session) {
	var sb strings.Builder
	s := make(session)
	var last byte
	for _, k := range a.instructions {
		idx := a.intn(a.perms.Size(k))
		s[k] = idx
		sb.WriteString(strconv.Itoa(idx))
		noise := a.noise(1 + a.intn(MaxNoise))
		sb.WriteString(noise)
		last = noise[len(noise)-1]
	}

	// the marker differs from the last padding letter so the first doubled
	// letter is always the marker
	marker := a.letter(last)
	sb.WriteByte(marker)
	sb.WriteByte(marker)
	return sb.String(), s
}

// noise returns n distinct letters in random order.
func (a *Advanced) noise(n int) string {
	letters := []byte(cryptors.ClassicSymbols)
	for i := 0; i < n; i++ {
		j := i + a.intn(len(letters)-i)
		letters[i], letters[j] = letters[j], letters[i]
	}
	return string(letters[:n])
}

// letter returns a random letter other than exclude.
func (a *Advanced) letter(exclude byte) byte {
	letters := cryptors.ClassicSymbols
	if exclude == 0 {
		return letters[a.intn(len(letters))]
	}
	c := letters[a.intn(len(letters)-1)]
	if c >= exclude {
		c = cryptors.Classic.Next(c)
	}
	return c
}

// parse reads the table indices back out of a decoded prefix.
func (a *Advanced) parse(prefix string) (session, error) {
	runs := indexRun.FindAllString(prefix, -1)
	if len(runs) != len(a.instructions) {
		return nil, fmt.Errorf("%w: %d indices for %d instructions", ErrMalformedPrefix, len(runs), len(a.instructions))
	}

	s := make(session)
	for i, k := range a.instructions {
		idx, err := strconv.Atoi(runs[i])
		if err != nil || idx >= a.perms.Size(k) {
			return nil, fmt.Errorf("%w: %s index %s", ErrMalformedPrefix, k, runs[i])
		}
		s[k] = idx
	}
	return s, nil
}

// derive applies the session to the rightmost three rotors of current.
func (a *Advanced) derive(current machine.Config, s session) (machine.Config, error) {
	out := current.Clone()
	tail := len(out.Rotors) - permutator.Width

	for _, k := range a.instructions {
		idx := s[k]
		switch k {
		case permutator.Swap:
			perm, err := a.perms.Swap(idx)
			if err != nil {
				return out, err
			}
			for i, p := range perm {
				out.Rotors[tail+i] = current.Rotors[tail+p]
			}
		case permutator.Ring:
			rings, err := a.perms.Rings(idx)
			if err != nil {
				return out, err
			}
			copy(out.Rings[len(out.Rings)-permutator.Width:], rings[:])
		case permutator.Position:
			positions, err := a.perms.Positions(idx)
			if err != nil {
				return out, err
			}
			out.Positions = out.Positions[:len(out.Positions)-permutator.Width] + positions
		}
	}
	return out, nil
}

// alternate encodes the segments of text, starting with the session
// configuration and switching at every boundary.  Each configuration keeps
// its own positions across its segments.  It returns the machine that
// encoded the last segment.
func (a *Advanced) alternate(derived, original machine.Config, text string, boundaries []int) (string, *machine.Machine, error) {
	configs := [2]machine.Config{derived.Clone(), original.Clone()}

	var out strings.Builder
	var last *machine.Machine
	start := 0
	for i, end := range append(append([]int(nil), boundaries...), len(text)) {
		cfg := &configs[i%2]
		m, err := machine.New(*cfg)
		if err != nil {
			return "", nil, err
		}
		enc, err := cryptors.EncodeString(pipeline{m: m, pb: a.plugboard}, text[start:end])
		if err != nil {
			return "", nil, err
		}
		out.WriteString(enc)
		cfg.Positions = m.Positions()
		last = m
		start = end
	}
	return out.String(), last, nil
}

// markerEnd returns the offset just past the first doubled letter in s, or -1.
func markerEnd(s string) int {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == s[i+1] && s[i] >= 'A' && s[i] <= 'Z' {
			return i + 2
		}
	}
	return -1
}

// checkBoundaries requires boundaries to be strictly increasing and inside
// (0, length).  A negative length skips the upper bound.
func checkBoundaries(boundaries []int, length int) error {
	prev := 0
	for _, b := range boundaries {
		if b <= prev {
			return fmt.Errorf("%w: %v must be positive and strictly increasing", ErrBoundaries, boundaries)
		}
		if length >= 0 && b >= length {
			return fmt.Errorf("%w: %d is not inside a message of length %d", ErrBoundaries, b, length)
		}
		prev = b
	}
	return nil
}
