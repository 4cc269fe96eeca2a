package multisig

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type RoundStatus string

const (
	// RoundClosed means no round was opened yet
	RoundClosed RoundStatus = "closed"
	// RoundOpen means a proposal is accepting votes and execution
	RoundOpen RoundStatus = "open"
	// RoundConsumed means the current proposal had an execution attempt
	// and is permanently done, successful or not
	RoundConsumed RoundStatus = "consumed"
)

// Proposal is the single pending action of the wallet. There is at most one,
// it is overwritten in place on every create.
type Proposal struct {
	Target    common.Address `json:"target"`
	Signature string         `json:"signature"`
	Args      []Word         `json:"args"`
	Value     *big.Int       `json:"value"`
	CreatedAt time.Time      `json:"created_at"`
}

// Calldata builds the dispatch payload for the proposal
func (p *Proposal) Calldata() []byte {
	return BuildCalldata(p.Signature, p.Args)
}
