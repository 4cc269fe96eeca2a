package ledger

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/groupwallet/gate/pkg/multisig"
	"github.com/groupwallet/gate/pkg/wallet"
)

var (
	walletAddr = common.HexToAddress("0x00000000000000000000000000000000000000ff")

	voterA = common.HexToAddress("0x0000000000000000000000000000000000000001")
	voterB = common.HexToAddress("0x0000000000000000000000000000000000000002")
	voterC = common.HexToAddress("0x0000000000000000000000000000000000000003")
)

func TestTransfer(t *testing.T) {
	l := New()

	l.Credit(voterA, big.NewInt(100))

	if err := l.Transfer(voterA, voterB, big.NewInt(60)); err != nil {
		t.Fatal(err)
	}

	if l.Balance(voterA).Int64() != 40 {
		t.Errorf("expected 40, got %s", l.Balance(voterA).String())
	}

	if l.Balance(voterB).Int64() != 60 {
		t.Errorf("expected 60, got %s", l.Balance(voterB).String())
	}

	t.Run("insufficient funds", func(t *testing.T) {
		if err := l.Transfer(voterA, voterB, big.NewInt(1000)); err != ErrInsufficientFunds {
			t.Errorf("expected ErrInsufficientFunds, got %v", err)
		}
	})

	t.Run("zero amount", func(t *testing.T) {
		if err := l.Transfer(voterA, voterB, big.NewInt(0)); err != ErrZeroAmount {
			t.Errorf("expected ErrZeroAmount, got %v", err)
		}
	})
}

type testHandler struct {
	caller common.Address
	data   []byte
	value  *big.Int

	ret []byte
	err error
}

func (h *testHandler) HandleCall(caller common.Address, data []byte, value *big.Int) ([]byte, error) {
	h.caller = caller
	h.data = data
	h.value = value

	return h.ret, h.err
}

func TestDispatch(t *testing.T) {
	t.Run("plain transfer without handler", func(t *testing.T) {
		l := New()
		l.Credit(walletAddr, big.NewInt(100))

		ret, err := l.Dispatch(context.Background(), multisig.DispatchRequest{
			From:   walletAddr,
			Target: voterB,
			Value:  big.NewInt(100),
		})
		if err != nil {
			t.Fatal(err)
		}
		if ret != nil {
			t.Errorf("expected no return data, got %x", ret)
		}

		if l.Balance(voterB).Int64() != 100 {
			t.Errorf("expected 100, got %s", l.Balance(voterB).String())
		}
	})

	t.Run("handler receives caller, payload and value", func(t *testing.T) {
		l := New()
		l.Credit(walletAddr, big.NewInt(10))

		h := &testHandler{ret: []byte{0x2a}}
		target := common.HexToAddress("0x00000000000000000000000000000000000000aa")
		l.Register(target, h)

		data := multisig.BuildCalldata("pause()", nil)

		ret, err := l.Dispatch(context.Background(), multisig.DispatchRequest{
			From:   walletAddr,
			Target: target,
			Data:   data,
			Value:  big.NewInt(10),
		})
		if err != nil {
			t.Fatal(err)
		}

		if string(ret) != "\x2a" {
			t.Errorf("unexpected return data %x", ret)
		}

		if h.caller != walletAddr {
			t.Errorf("expected caller %s, got %s", walletAddr.Hex(), h.caller.Hex())
		}
		if string(h.data) != string(data) {
			t.Errorf("unexpected payload %x", h.data)
		}
		if h.value.Int64() != 10 {
			t.Errorf("expected value 10, got %s", h.value.String())
		}
	})

	t.Run("failed handler rolls the transfer back", func(t *testing.T) {
		l := New()
		l.Credit(walletAddr, big.NewInt(100))

		h := &testHandler{err: errors.New("reverted")}
		target := common.HexToAddress("0x00000000000000000000000000000000000000aa")
		l.Register(target, h)

		_, err := l.Dispatch(context.Background(), multisig.DispatchRequest{
			From:   walletAddr,
			Target: target,
			Value:  big.NewInt(100),
		})
		if err == nil {
			t.Fatal("expected the dispatch to fail")
		}

		if l.Balance(walletAddr).Int64() != 100 {
			t.Errorf("expected the transfer to be rolled back, wallet has %s", l.Balance(walletAddr).String())
		}
		if l.Balance(target).Int64() != 0 {
			t.Errorf("expected the transfer to be rolled back, target has %s", l.Balance(target).String())
		}
	})

	t.Run("insufficient funds fail the dispatch", func(t *testing.T) {
		l := New()

		_, err := l.Dispatch(context.Background(), multisig.DispatchRequest{
			From:   walletAddr,
			Target: voterB,
			Value:  big.NewInt(1),
		})
		if err != ErrInsufficientFunds {
			t.Errorf("expected ErrInsufficientFunds, got %v", err)
		}
	})
}

// Three voters, a day long window: A proposes sending 100 to B, A and B
// vote, A executes. B is paid, the round is consumed, C is too late.
func TestValueTransferRound(t *testing.T) {
	l := New()

	w, err := wallet.New(walletAddr, []common.Address{voterA, voterB, voterC}, 86400*time.Second, l)
	if err != nil {
		t.Fatal(err)
	}

	l.Register(w.Address(), w)

	// fund the wallet
	l.Credit(voterA, big.NewInt(500))
	if err := l.Transfer(voterA, w.Address(), big.NewInt(500)); err != nil {
		t.Fatal(err)
	}
	if err := w.Fund(context.Background(), voterA, big.NewInt(500)); err != nil {
		t.Fatal(err)
	}

	if err := w.CreateProposal(voterA, voterB, "", nil, 0, big.NewInt(100)); err != nil {
		t.Fatal(err)
	}

	if err := w.Vote(voterA); err != nil {
		t.Fatal(err)
	}
	if err := w.Vote(voterB); err != nil {
		t.Fatal(err)
	}

	ok, _, err := w.Execute(context.Background(), voterA)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a successful execution")
	}

	if l.Balance(voterB).Int64() != 100 {
		t.Errorf("expected B to receive 100, got %s", l.Balance(voterB).String())
	}
	if l.Balance(w.Address()).Int64() != 400 {
		t.Errorf("expected the wallet to hold 400, got %s", l.Balance(w.Address()).String())
	}

	if err := w.Vote(voterC); err != multisig.ErrRoundClosed {
		t.Errorf("expected ErrRoundClosed, got %v", err)
	}
}
