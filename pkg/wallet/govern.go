package wallet

import (
	"bytes"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/groupwallet/gate/pkg/multisig"
)

// Selectors of the wallet's own governance surface. A proposal targeting the
// wallet's address with one of these signatures closes the loop: passing a
// vote under the current rules is the only way to change the rules.
var (
	addVoterSelector          = multisig.Selector("addVoter(address)")
	setVotingDurationSelector = multisig.Selector("setVotingDuration(uint256)")
)

// AddVoter adds a voter post-construction. Only the wallet itself may call
// this, and only when self-governance is enabled.
func (w *Wallet) AddVoter(caller, addr common.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.addVoter(caller, addr)
}

// SetVotingDuration changes the round duration post-construction. Only the
// wallet itself may call this, and only when self-governance is enabled.
func (w *Wallet) SetVotingDuration(caller common.Address, d time.Duration) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.setVotingDuration(caller, d)
}

func (w *Wallet) addVoter(caller, addr common.Address) error {
	if !w.selfGoverned || caller != w.addr {
		return multisig.ErrNotSelf
	}

	if !w.voters.add(addr) {
		return multisig.ErrAlreadyVoter
	}

	return nil
}

func (w *Wallet) setVotingDuration(caller common.Address, d time.Duration) error {
	if !w.selfGoverned || caller != w.addr {
		return multisig.ErrNotSelf
	}

	if d <= 0 {
		return multisig.ErrInvalidDuration
	}

	w.duration = d

	return nil
}

// HandleCall makes the wallet itself a dispatch target: a proposal whose
// target is the wallet's own address reaches the governance surface here.
// An empty payload is a plain value transfer into the wallet and is
// accepted as-is.
func (w *Wallet) HandleCall(caller common.Address, data []byte, value *big.Int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	sel, args, err := multisig.ParseCalldata(data)
	if err != nil {
		return nil, err
	}

	switch {
	case bytes.Equal(sel, addVoterSelector):
		if len(args) != 1 {
			return nil, multisig.ErrInvalidCalldata
		}
		return nil, w.AddVoter(caller, args[0].Address())

	case bytes.Equal(sel, setVotingDurationSelector):
		if len(args) != 1 {
			return nil, multisig.ErrInvalidCalldata
		}
		secs := args[0].Big()
		if !secs.IsInt64() {
			return nil, multisig.ErrInvalidDuration
		}
		return nil, w.SetVotingDuration(caller, time.Duration(secs.Int64())*time.Second)
	}

	return nil, multisig.ErrInvalidCalldata
}
