package wallet

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/groupwallet/gate/pkg/multisig"
)

// Quorum is the minimum number of agreeing voters out of n
func Quorum(n int) int {
	return n/2 + 1
}

// Wallet is the proposal/vote/execute engine. It owns the single proposal
// slot, the vote ledger and the member sets; every operation runs as one
// serialized step under the wallet's lock.
type Wallet struct {
	mu sync.Mutex

	addr      common.Address
	voters    *memberSet
	proposers *memberSet

	votes    map[common.Address]bool
	proposal multisig.Proposal
	status   multisig.RoundStatus

	duration     time.Duration
	selfGoverned bool

	// set for the duration of an in-flight dispatch, blocks reentry
	dispatching bool

	dispatcher multisig.Dispatcher
	store      multisig.RecordStore
	notifier   multisig.Notifier

	now func() time.Time
}

type Option func(*Wallet)

// WithProposers restricts proposal creation to a separate proposer set.
// Voting and execution stay gated on the voter set.
func WithProposers(addrs []common.Address) Option {
	return func(w *Wallet) {
		w.proposers = newMemberSet(addrs)
	}
}

// WithSelfGovernance allows the voter set and the voting duration to be
// changed after construction, but only by the wallet itself, i.e. through
// an executed proposal targeting the wallet's own address.
func WithSelfGovernance() Option {
	return func(w *Wallet) {
		w.selfGoverned = true
	}
}

// WithStore persists emitted execution and funding records
func WithStore(s multisig.RecordStore) Option {
	return func(w *Wallet) {
		w.store = s
	}
}

// WithNotifier pushes notifications about executions and funds received
func WithNotifier(n multisig.Notifier) Option {
	return func(w *Wallet) {
		w.notifier = n
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(w *Wallet) {
		w.now = now
	}
}

// New instantiates a wallet with a fixed voter set and voting duration
func New(addr common.Address, voters []common.Address, duration time.Duration, dispatcher multisig.Dispatcher, opts ...Option) (*Wallet, error) {
	if duration <= 0 {
		return nil, multisig.ErrInvalidDuration
	}

	w := &Wallet{
		addr:     addr,
		voters:   newMemberSet(voters),
		votes:    map[common.Address]bool{},
		status:   multisig.RoundClosed,
		duration: duration,

		dispatcher: dispatcher,

		now: time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Address is the wallet's own identity, the From of every dispatch
func (w *Wallet) Address() common.Address {
	return w.addr
}

// Voters returns the voter set in insertion order
func (w *Wallet) Voters() []common.Address {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.voters.addresses()
}

// IsVoter checks voter set membership
func (w *Wallet) IsVoter(addr common.Address) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.voters.contains(addr)
}

// VotingDuration returns the configured round duration
func (w *Wallet) VotingDuration() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.duration
}

// isOpen reports whether the current round accepts votes and execution
func (w *Wallet) isOpen() bool {
	return w.status == multisig.RoundOpen && w.now().Before(w.proposal.CreatedAt.Add(w.duration))
}

// mayPropose checks the create authorization: the proposer set when one is
// configured, the voter set otherwise
func (w *Wallet) mayPropose(caller common.Address) error {
	if w.proposers != nil {
		if !w.proposers.contains(caller) {
			return multisig.ErrNotProposer
		}
		return nil
	}

	if !w.voters.contains(caller) {
		return multisig.ErrNotVoter
	}

	return nil
}

// CreateProposal opens a new round. The previous round must be closed,
// consumed or expired; all vote flags are reset.
func (w *Wallet) CreateProposal(caller, target common.Address, signature string, args []multisig.Word, argCount int, value *big.Int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dispatching {
		return multisig.ErrReentrantCall
	}

	if err := w.mayPropose(caller); err != nil {
		return err
	}

	if w.isOpen() {
		return multisig.ErrRoundOpen
	}

	if argCount > multisig.MaxArgs {
		return multisig.ErrTooManyArgs
	}

	if argCount != len(args) {
		return multisig.ErrArgCountMismatch
	}

	if signature == "" && argCount != 0 {
		return multisig.ErrArgsWithoutMethod
	}

	if value == nil {
		value = common.Big0
	}

	if value.Sign() < 0 {
		return multisig.ErrNegativeValue
	}

	w.votes = map[common.Address]bool{}
	w.proposal = multisig.Proposal{
		Target:    target,
		Signature: signature,
		Args:      append([]multisig.Word(nil), args...),
		Value:     new(big.Int).Set(value),
		CreatedAt: w.now(),
	}
	w.status = multisig.RoundOpen

	return nil
}

// Vote sets the caller's agreement flag for the current round. Voting twice
// is a no-op, there is no retraction.
func (w *Wallet) Vote(caller common.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dispatching {
		return multisig.ErrReentrantCall
	}

	if !w.voters.contains(caller) {
		return multisig.ErrNotVoter
	}

	if !w.isOpen() {
		return multisig.ErrRoundClosed
	}

	w.votes[caller] = true

	return nil
}

// countAgreed counts agreement flags of current voters only
func (w *Wallet) countAgreed() int {
	count := 0
	for _, addr := range w.voters.list {
		if w.votes[addr] {
			count++
		}
	}

	return count
}

func (w *Wallet) quorumReached() bool {
	return w.countAgreed() >= Quorum(w.voters.len())
}

// Execute performs the proposal's external call exactly once. The round is
// consumed regardless of the call's outcome; a failed call is recorded, not
// propagated, so ok reports the call result while err reports a rejected
// precondition.
//
// The wallet's lock is released for the duration of the dispatch with the
// dispatching flag held, so a target calling back into the wallet's state
// machine gets ErrReentrantCall instead of deadlocking. Self-governance
// calls are the exception, they are exactly the calls a dispatch is meant
// to reach.
func (w *Wallet) Execute(ctx context.Context, caller common.Address) (bool, []byte, error) {
	w.mu.Lock()

	if w.dispatching {
		w.mu.Unlock()
		return false, nil, multisig.ErrReentrantCall
	}

	if !w.voters.contains(caller) {
		w.mu.Unlock()
		return false, nil, multisig.ErrNotVoter
	}

	if !w.isOpen() {
		w.mu.Unlock()
		return false, nil, multisig.ErrRoundClosed
	}

	if !w.quorumReached() {
		w.mu.Unlock()
		return false, nil, multisig.ErrNoQuorum
	}

	rec := &multisig.ExecutionRecord{
		Target:    w.proposal.Target,
		Signature: w.proposal.Signature,
		Args:      append([]multisig.Word(nil), w.proposal.Args...),
		Value:     new(big.Int).Set(w.proposal.Value),
		CreatedAt: w.proposal.CreatedAt,
		Executor:  caller,
	}

	req := multisig.DispatchRequest{
		From:   w.addr,
		Target: rec.Target,
		Data:   w.proposal.Calldata(),
		Value:  new(big.Int).Set(rec.Value),
	}

	w.dispatching = true
	w.mu.Unlock()

	ret, callErr := w.dispatcher.Dispatch(ctx, req)

	w.mu.Lock()
	w.dispatching = false

	// consumed either way, a failed call needs a fresh round
	w.status = multisig.RoundConsumed

	rec.ExecutedAt = w.now()
	rec.Success = callErr == nil
	rec.Data = ret
	w.mu.Unlock()

	w.emitExecution(ctx, rec, callErr)

	return rec.Success, ret, nil
}

func (w *Wallet) emitExecution(ctx context.Context, rec *multisig.ExecutionRecord, callErr error) {
	if w.store != nil {
		if err := w.store.AddExecution(rec); err != nil {
			log.Printf("warning: failed to store execution record: %v", err)
		}
	}

	if w.notifier == nil {
		return
	}

	if callErr != nil {
		w.notifier.NotifyWarning(ctx, fmt.Errorf("execution of proposal to %s failed: %w", rec.Target.Hex(), callErr))
		return
	}

	w.notifier.Notify(ctx, fmt.Sprintf("executed proposal: %s to %s, value %s", rec.Signature, rec.Target.Hex(), rec.Value.String()))
}

// Fund records a value transfer into the wallet. Zero and negative amounts
// are rejected. The actual balance movement belongs to the host environment.
func (w *Wallet) Fund(ctx context.Context, giver common.Address, amount *big.Int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dispatching {
		return multisig.ErrReentrantCall
	}

	if amount == nil || amount.Sign() <= 0 {
		return multisig.ErrZeroFund
	}

	rec := &multisig.FundingRecord{
		Giver:     giver,
		Amount:    new(big.Int).Set(amount),
		CreatedAt: w.now(),
	}

	if w.store != nil {
		if err := w.store.AddFunding(rec); err != nil {
			log.Printf("warning: failed to store funding record: %v", err)
		}
	}

	if w.notifier != nil {
		w.notifier.Notify(ctx, fmt.Sprintf("received %s from %s", rec.Amount.String(), rec.Giver.Hex()))
	}

	return nil
}

// CurrentProposal returns the pending proposal while a round is open
func (w *Wallet) CurrentProposal() (multisig.Proposal, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.isOpen() {
		return multisig.Proposal{}, multisig.ErrNoActiveProposal
	}

	p := w.proposal
	p.Args = append([]multisig.Word(nil), w.proposal.Args...)
	p.Value = new(big.Int).Set(w.proposal.Value)

	return p, nil
}

// QuorumReached reports whether the open round has enough votes to execute
func (w *Wallet) QuorumReached() (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.isOpen() {
		return false, multisig.ErrNoActiveProposal
	}

	return w.quorumReached(), nil
}
