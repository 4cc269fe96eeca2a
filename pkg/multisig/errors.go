package multisig

import "errors"

var (
	// authorization
	ErrNotVoter    = errors.New("caller is not a voter")
	ErrNotProposer = errors.New("caller is not a proposer")
	ErrNotSelf     = errors.New("caller is not the wallet itself")

	// window state
	ErrRoundOpen   = errors.New("a proposal round is still open")
	ErrRoundClosed = errors.New("the proposal round is closed")

	// validation
	ErrTooManyArgs       = errors.New("too many call arguments")
	ErrArgCountMismatch  = errors.New("declared argument count does not match arguments")
	ErrArgsWithoutMethod = errors.New("arguments given without a call signature")
	ErrNegativeValue     = errors.New("negative transfer value")
	ErrAlreadyVoter      = errors.New("address is already a voter")
	ErrInvalidDuration   = errors.New("voting duration must be positive")

	// quorum
	ErrNoQuorum = errors.New("not enough votes")

	// inspection
	ErrNoActiveProposal = errors.New("no active proposal")

	// funding
	ErrZeroFund = errors.New("zero value funding")

	// reentrancy
	ErrReentrantCall = errors.New("reentrant call during dispatch")
)
