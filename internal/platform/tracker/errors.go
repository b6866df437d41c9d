package tracker

import "errors"

var (
	ErrAttemptInFlight    = errors.New("a transfer for this swap is already in flight")
	ErrNotReady           = errors.New("no prepared transfer to submit")
	ErrAlreadyCompleted   = errors.New("transfer for this swap is already completed")
	ErrNothingToConfirm   = errors.New("no broadcast transaction to confirm")
	ErrSigningUnavailable = errors.New("no wallet signer configured")
	ErrSwapNotFound       = errors.New("no transfer published for this swap")
	ErrStateUnavailable   = errors.New("transfer state is temporarily unavailable")

	errRevertedOnChain = errors.New("transaction reverted on-chain")
)
