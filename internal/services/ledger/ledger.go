package ledger

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/groupwallet/gate/pkg/multisig"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrZeroAmount        = errors.New("zero transfer amount")
)

// Ledger is the in-process host environment for local mode: account
// balances plus call routing. A dispatched call whose target is a
// registered handler is invoked synchronously; value moves first and is
// rolled back if the call fails.
type Ledger struct {
	mu       sync.Mutex
	balances map[common.Address]*big.Int
	handlers map[common.Address]multisig.CallHandler
}

func New() *Ledger {
	return &Ledger{
		balances: map[common.Address]*big.Int{},
		handlers: map[common.Address]multisig.CallHandler{},
	}
}

// Register routes calls targeting addr to the given handler
func (l *Ledger) Register(addr common.Address, h multisig.CallHandler) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.handlers[addr] = h
}

// Balance returns the current balance of an account
func (l *Ledger) Balance(addr common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return new(big.Int).Set(l.balance(addr))
}

func (l *Ledger) balance(addr common.Address) *big.Int {
	b, ok := l.balances[addr]
	if !ok {
		b = big.NewInt(0)
		l.balances[addr] = b
	}

	return b
}

// Credit mints value onto an account
func (l *Ledger) Credit(addr common.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balance(addr).Add(l.balance(addr), amount)
}

// Transfer moves value between accounts
func (l *Ledger) Transfer(from, to common.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.transfer(from, to, amount)
}

func (l *Ledger) transfer(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}

	fb := l.balance(from)
	if fb.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}

	fb.Sub(fb, amount)
	l.balance(to).Add(l.balance(to), amount)

	return nil
}

// Dispatch implements multisig.Dispatcher. The value transfer and the
// handler invocation form one atomic step: a failing handler rolls the
// transfer back. Calls to targets without a handler succeed as plain
// transfers, payload or not.
func (l *Ledger) Dispatch(ctx context.Context, req multisig.DispatchRequest) ([]byte, error) {
	l.mu.Lock()

	value := req.Value
	if value == nil {
		value = common.Big0
	}

	if value.Sign() > 0 {
		if err := l.transfer(req.From, req.Target, value); err != nil {
			l.mu.Unlock()
			return nil, err
		}
	}

	h, ok := l.handlers[req.Target]

	// the handler may call back into the ledger
	l.mu.Unlock()

	if !ok {
		return nil, nil
	}

	ret, err := h.HandleCall(req.From, req.Data, value)
	if err != nil {
		if value.Sign() > 0 {
			l.mu.Lock()
			l.transfer(req.Target, req.From, value)
			l.mu.Unlock()
		}
		return nil, err
	}

	return ret, nil
}
