package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/groupwallet/gate/pkg/multisig"
)

// loopDispatcher routes calls targeting the wallet back into it, the way the
// ledger does in local mode
type loopDispatcher struct {
	w *Wallet
}

func (d *loopDispatcher) Dispatch(ctx context.Context, req multisig.DispatchRequest) ([]byte, error) {
	if req.Target == d.w.Address() {
		return d.w.HandleCall(req.From, req.Data, req.Value)
	}

	return nil, nil
}

func newGovernedWallet(t *testing.T, voterCount int, opts ...Option) (*Wallet, []common.Address) {
	t.Helper()

	voters := make([]common.Address, 0, voterCount)
	for i := 1; i <= voterCount; i++ {
		voters = append(voters, testAddress(i))
	}

	d := &loopDispatcher{}

	w, err := New(walletAddr, voters, testDuration, d, append(opts, WithSelfGovernance())...)
	if err != nil {
		t.Fatal(err)
	}

	d.w = w

	return w, voters
}

func passProposal(t *testing.T, w *Wallet, voters []common.Address, signature string, args []multisig.Word) bool {
	t.Helper()

	err := w.CreateProposal(voters[0], w.Address(), signature, args, len(args), nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range voters[:Quorum(len(voters))] {
		if err := w.Vote(v); err != nil {
			t.Fatal(err)
		}
	}

	ok, _, err := w.Execute(context.Background(), voters[0])
	if err != nil {
		t.Fatal(err)
	}

	return ok
}

func TestAddVoterRequiresSelf(t *testing.T) {
	w, voters := newGovernedWallet(t, 3)

	// not even a voter may call governance directly
	if err := w.AddVoter(voters[0], testAddress(9)); err != multisig.ErrNotSelf {
		t.Errorf("expected ErrNotSelf, got %v", err)
	}

	if err := w.SetVotingDuration(voters[0], time.Hour); err != multisig.ErrNotSelf {
		t.Errorf("expected ErrNotSelf, got %v", err)
	}
}

func TestGovernanceDisabled(t *testing.T) {
	w, _, _, _ := newTestWallet(t, 3)

	// without self-governance not even the wallet itself may mutate
	if err := w.AddVoter(w.Address(), testAddress(9)); err != multisig.ErrNotSelf {
		t.Errorf("expected ErrNotSelf, got %v", err)
	}
}

func TestAddVoterThroughProposal(t *testing.T) {
	w, voters := newGovernedWallet(t, 3)
	newcomer := testAddress(7)

	ok := passProposal(t, w, voters, "addVoter(address)", []multisig.Word{multisig.AddressToWord(newcomer)})
	if !ok {
		t.Fatal("expected the governance call to succeed")
	}

	if !w.IsVoter(newcomer) {
		t.Error("expected the newcomer to be a voter")
	}

	if len(w.Voters()) != 4 {
		t.Errorf("expected 4 voters, got %d", len(w.Voters()))
	}

	t.Run("duplicate add fails the call", func(t *testing.T) {
		ok := passProposal(t, w, voters, "addVoter(address)", []multisig.Word{multisig.AddressToWord(newcomer)})
		if ok {
			t.Error("adding an existing voter must fail the dispatched call")
		}
	})
}

func TestSetVotingDurationThroughProposal(t *testing.T) {
	w, voters := newGovernedWallet(t, 3)

	ok := passProposal(t, w, voters, "setVotingDuration(uint256)", []multisig.Word{multisig.Uint64ToWord(3600)})
	if !ok {
		t.Fatal("expected the governance call to succeed")
	}

	if w.VotingDuration() != time.Hour {
		t.Errorf("expected 1h, got %v", w.VotingDuration())
	}

	t.Run("zero duration fails the call", func(t *testing.T) {
		ok := passProposal(t, w, voters, "setVotingDuration(uint256)", []multisig.Word{multisig.Uint64ToWord(0)})
		if ok {
			t.Error("a zero duration must fail the dispatched call")
		}
	})
}

func TestUnknownGovernanceSelector(t *testing.T) {
	w, voters := newGovernedWallet(t, 3)

	ok := passProposal(t, w, voters, "selfDestruct()", nil)
	if ok {
		t.Error("an unknown selector must fail the dispatched call")
	}
}

func TestQuorumAgainstLiveVoterCount(t *testing.T) {
	w, voters := newGovernedWallet(t, 3)

	// grow the voter set to 4, quorum moves from 2 to 3
	ok := passProposal(t, w, voters, "addVoter(address)", []multisig.Word{multisig.AddressToWord(testAddress(7))})
	if !ok {
		t.Fatal("expected the governance call to succeed")
	}

	if err := w.CreateProposal(voters[0], testAddress(9), "", nil, 0, nil); err != nil {
		t.Fatal(err)
	}

	if err := w.Vote(voters[0]); err != nil {
		t.Fatal(err)
	}
	if err := w.Vote(voters[1]); err != nil {
		t.Fatal(err)
	}

	// two of four agreed, not enough anymore
	if _, _, err := w.Execute(context.Background(), voters[0]); err != multisig.ErrNoQuorum {
		t.Errorf("expected ErrNoQuorum, got %v", err)
	}
}

func TestRestrictedProposers(t *testing.T) {
	proposer := testAddress(20)

	voters := []common.Address{testAddress(1), testAddress(2)}

	d := &testDispatcher{}

	w, err := New(walletAddr, voters, testDuration, d, WithProposers([]common.Address{proposer}))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("voters may not propose", func(t *testing.T) {
		err := w.CreateProposal(voters[0], testAddress(9), "", nil, 0, nil)
		if err != multisig.ErrNotProposer {
			t.Errorf("expected ErrNotProposer, got %v", err)
		}
	})

	t.Run("proposer creates, voters decide", func(t *testing.T) {
		if err := w.CreateProposal(proposer, testAddress(9), "", nil, 0, nil); err != nil {
			t.Fatal(err)
		}

		// the proposer has no voting rights
		if err := w.Vote(proposer); err != multisig.ErrNotVoter {
			t.Errorf("expected ErrNotVoter, got %v", err)
		}

		if err := w.Vote(voters[0]); err != nil {
			t.Fatal(err)
		}
		if err := w.Vote(voters[1]); err != nil {
			t.Fatal(err)
		}

		// nor execution rights
		if _, _, err := w.Execute(context.Background(), proposer); err != multisig.ErrNotVoter {
			t.Errorf("expected ErrNotVoter, got %v", err)
		}

		if _, _, err := w.Execute(context.Background(), voters[0]); err != nil {
			t.Fatal(err)
		}
	})
}
