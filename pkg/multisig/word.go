package multisig

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// WordSize is the size of a single call argument on the wire
const WordSize = 32

var ErrWordOverflow = errors.New("value does not fit in a word")

// Word is a single 32 byte call argument
type Word [WordSize]byte

// BigToWord left-pads an unsigned integer with zero bytes
func BigToWord(v *big.Int) (Word, error) {
	var w Word

	if v == nil {
		return w, nil
	}

	b := v.Bytes()
	if v.Sign() < 0 || len(b) > WordSize {
		return w, ErrWordOverflow
	}

	copy(w[WordSize-len(b):], b)

	return w, nil
}

// Uint64ToWord left-pads an unsigned integer with zero bytes
func Uint64ToWord(v uint64) Word {
	w, _ := BigToWord(new(big.Int).SetUint64(v))
	return w
}

// AddressToWord left-pads an address with zero bytes
func AddressToWord(addr common.Address) Word {
	var w Word

	copy(w[WordSize-common.AddressLength:], addr.Bytes())

	return w
}

// BytesToWord right-pads a fixed size byte sequence with zero bytes
func BytesToWord(b []byte) (Word, error) {
	var w Word

	if len(b) > WordSize {
		return w, ErrWordOverflow
	}

	copy(w[:], b)

	return w, nil
}

// Address returns the last 20 bytes of the word as an address
func (w Word) Address() common.Address {
	return common.BytesToAddress(w[WordSize-common.AddressLength:])
}

// Big returns the word as an unsigned integer
func (w Word) Big() *big.Int {
	return new(big.Int).SetBytes(w[:])
}

func (w Word) String() string {
	return hexutil.Encode(w[:])
}

func (w Word) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Word) UnmarshalText(b []byte) error {
	d, err := hexutil.Decode(string(b))
	if err != nil {
		return err
	}

	if len(d) != WordSize {
		return ErrWordOverflow
	}

	copy(w[:], d)

	return nil
}
