package multisig

import (
	"errors"

	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// SelectorSize is the width of the function selector prefix
	SelectorSize = 4

	// MaxArgs is the maximum number of argument words a proposal may carry
	MaxArgs = 10
)

var ErrInvalidCalldata = errors.New("invalid calldata")

// Selector derives the 4 byte function selector from a canonical signature
// of the form name(type,type,...) with no whitespace
func Selector(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:SelectorSize]
}

// BuildCalldata builds the dispatch payload: selector followed by the
// argument words in order. An empty signature means a pure value transfer
// and produces no payload at all.
func BuildCalldata(signature string, args []Word) []byte {
	if signature == "" {
		return nil
	}

	data := make([]byte, 0, SelectorSize+len(args)*WordSize)
	data = append(data, Selector(signature)...)
	for _, a := range args {
		data = append(data, a[:]...)
	}

	return data
}

// ParseCalldata splits a payload back into its selector and argument words
func ParseCalldata(data []byte) ([]byte, []Word, error) {
	if len(data) < SelectorSize {
		return nil, nil, ErrInvalidCalldata
	}

	rest := data[SelectorSize:]
	if len(rest)%WordSize != 0 {
		return nil, nil, ErrInvalidCalldata
	}

	args := make([]Word, 0, len(rest)/WordSize)
	for i := 0; i < len(rest); i += WordSize {
		var w Word
		copy(w[:], rest[i:i+WordSize])
		args = append(args, w)
	}

	return data[:SelectorSize], args, nil
}
