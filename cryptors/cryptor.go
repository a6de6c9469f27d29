// cyptor
package cryptors

import (
	"errors"
	"fmt"
)

const (
	BlockSize = 256
)

var (
	ErrSymbol       = errors.New("cryptors: symbol not in alphabet")
	ErrInvalidBlock = errors.New("cryptors: block length out of range")
)

// Block is the data processed by an encrypt machine.  It consists of the number
// of symbols to process, the symbols, and any error raised while processing.
type Block struct {
	Length  int
	Symbols [BlockSize]byte
	Err     error
}

// NewBlock copies up to BlockSize symbols from s into a block.
func NewBlock(s string) Block {
	var blk Block
	blk.Length = copy(blk.Symbols[:], s)
	return blk
}

func (blk *Block) String() string {
	return string(blk.Symbols[:blk.Length])
}

// Crypter is a stateful symbol substitution.  Every call to Encode may
// advance the internal state, so a Crypter is owned by a single goroutine.
type Crypter interface {
	Alphabet() *Alphabet
	Encode(byte) (byte, error)
}

// EncodeString validates s against the crypter's alphabet before encoding any
// of it, so a rejected string leaves the crypter untouched.
func EncodeString(ecm Crypter, s string) (string, error) {
	if err := ecm.Alphabet().Validate(s); err != nil {
		return "", err
	}

	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c, err := ecm.Encode(s[i])
		if err != nil {
			return "", err
		}
		out[i] = c
	}

	return string(out), nil
}

func encodeBlock(ecm Crypter, blk *Block) {
	if blk.Length > BlockSize {
		blk.Err = fmt.Errorf("%w: %d", ErrInvalidBlock, blk.Length)
		return
	}

	out, err := EncodeString(ecm, blk.String())
	if err != nil {
		blk.Err = err
		return
	}

	copy(blk.Symbols[:], out)
}

// EncryptMachine starts a goroutine that owns ecm and encodes every block
// received on left, passing it on to the returned channel.  A block with a zero
// or negative length is passed through and stops the goroutine.
func EncryptMachine(ecm Crypter, left chan Block) chan Block {
	right := make(chan Block)
	go func(ecm Crypter, left chan Block, right chan Block) {
		for {
			inp := <-left
			if inp.Length <= 0 {
				right <- inp
				break
			}

			if inp.Err == nil {
				encodeBlock(ecm, &inp)
			}
			right <- inp
		}
	}(ecm, left, right)

	return right
}

// CreateEncryptMachine chains an encrypt machine for each crypter, in order,
// and returns both ends of the chain.
func CreateEncryptMachine(ecms ...Crypter) (left chan Block, right chan Block) {
	if len(ecms) == 0 {
		panic("you must give at least one encryption device!")
	}

	left = make(chan Block)
	right = EncryptMachine(ecms[0], left)
	for _, ecm := range ecms[1:] {
		right = EncryptMachine(ecm, right)
	}

	return
}
