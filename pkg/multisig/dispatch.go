package multisig

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// DispatchRequest is the single external call produced by an execution:
// a target, an optional payload and a value transfer, sent on behalf of
// the wallet
type DispatchRequest struct {
	From   common.Address
	Target common.Address
	Data   []byte
	Value  *big.Int
}

// Dispatcher performs the external call of an executed proposal. A returned
// error means the call itself failed; the wallet records the failure instead
// of propagating it.
type Dispatcher interface {
	Dispatch(ctx context.Context, req DispatchRequest) ([]byte, error)
}

// CallHandler is implemented by in-process dispatch targets, the wallet's
// own self-governance surface among them
type CallHandler interface {
	HandleCall(caller common.Address, data []byte, value *big.Int) ([]byte, error)
}

// RecordStore persists emitted records
type RecordStore interface {
	AddExecution(r *ExecutionRecord) error
	AddFunding(r *FundingRecord) error
}

// Notifier pushes human readable notifications about wallet activity
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyWarning(ctx context.Context, err error) error
	NotifyError(ctx context.Context, err error) error
}
