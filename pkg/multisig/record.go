package multisig

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ExecutionRecord is emitted on every execution attempt, whether the
// dispatched call succeeded or not
type ExecutionRecord struct {
	Target     common.Address `json:"target"`
	Signature  string         `json:"signature"`
	Args       []Word         `json:"args"`
	Value      *big.Int       `json:"value"`
	CreatedAt  time.Time      `json:"created_at"`
	Executor   common.Address `json:"executor"`
	ExecutedAt time.Time      `json:"executed_at"`
	Success    bool           `json:"success"`
	Data       hexutil.Bytes  `json:"data"`
}

// FundingRecord is emitted when value is paid into the wallet
type FundingRecord struct {
	Giver     common.Address `json:"giver"`
	Amount    *big.Int       `json:"amount"`
	CreatedAt time.Time      `json:"created_at"`
}
