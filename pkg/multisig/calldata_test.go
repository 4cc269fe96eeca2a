package multisig

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

func TestSelector(t *testing.T) {
	// well known selector
	sel := Selector("transfer(address,uint256)")

	if hexutil.Encode(sel) != "0xa9059cbb" {
		t.Errorf("expected 0xa9059cbb, got %s", hexutil.Encode(sel))
	}
}

func TestBuildCalldata(t *testing.T) {
	args := []Word{
		Uint64ToWord(1),
		Uint64ToWord(2),
		Uint64ToWord(3),
	}

	t.Run("empty signature has no payload", func(t *testing.T) {
		data := BuildCalldata("", nil)
		if data != nil {
			t.Errorf("expected nil payload, got %s", hexutil.Encode(data))
		}
	})

	t.Run("signature without arguments is selector only", func(t *testing.T) {
		data := BuildCalldata("pause()", nil)
		if len(data) != SelectorSize {
			t.Fatalf("expected %d bytes, got %d", SelectorSize, len(data))
		}

		if !bytes.Equal(data, Selector("pause()")) {
			t.Errorf("expected selector payload, got %s", hexutil.Encode(data))
		}
	})

	t.Run("arguments follow the selector in order", func(t *testing.T) {
		data := BuildCalldata("set(uint256,uint256,uint256)", args)
		if len(data) != SelectorSize+3*WordSize {
			t.Fatalf("unexpected payload length %d", len(data))
		}

		for i, a := range args {
			start := SelectorSize + i*WordSize
			if !bytes.Equal(data[start:start+WordSize], a[:]) {
				t.Errorf("argument %d out of order", i)
			}
		}
	})
}

func TestParseCalldata(t *testing.T) {
	args := []Word{
		Uint64ToWord(7),
		Uint64ToWord(8),
	}

	data := BuildCalldata("set(uint256,uint256)", args)

	sel, parsed, err := ParseCalldata(data)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(sel, Selector("set(uint256,uint256)")) {
		t.Errorf("unexpected selector %s", hexutil.Encode(sel))
	}

	if len(parsed) != len(args) {
		t.Fatalf("expected %d args, got %d", len(args), len(parsed))
	}

	for i := range args {
		if parsed[i] != args[i] {
			t.Errorf("argument %d does not round trip", i)
		}
	}

	t.Run("truncated payload", func(t *testing.T) {
		if _, _, err := ParseCalldata([]byte{0x01}); err != ErrInvalidCalldata {
			t.Errorf("expected ErrInvalidCalldata, got %v", err)
		}
	})

	t.Run("ragged argument words", func(t *testing.T) {
		if _, _, err := ParseCalldata(append(Selector("f()"), 0x01)); err != ErrInvalidCalldata {
			t.Errorf("expected ErrInvalidCalldata, got %v", err)
		}
	})
}
