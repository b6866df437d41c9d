// Package tracker drives a swap's transfer from preparation through signing,
// broadcast and confirmation, and reports its status to the swap tracker.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kislikjeka/swapwallet/internal/platform/fee"
	"github.com/kislikjeka/swapwallet/internal/platform/payload"
	"github.com/kislikjeka/swapwallet/internal/platform/txerror"
	"github.com/kislikjeka/swapwallet/pkg/logger"
)

// Dependencies are the collaborators a Tracker drives
type Dependencies struct {
	Gas    GasResolver
	Signer WalletSigner
	Waiter ConfirmationWaiter
	Swaps  SwapTracker
	Cache  AttemptCache
}

// Tracker owns the single transfer attempt of one swap. All methods are safe
// for concurrent use; external calls are made without holding the lock, and
// the in-flight phases keep a second caller from interleaving.
type Tracker struct {
	deps     Dependencies
	config   *Config
	logger   *logger.Logger
	observer Observer
	now      func() time.Time

	// initMu is held for the whole cache read so no caller acts on the
	// attempt before a persisted hash has been applied
	initMu sync.Mutex

	mu          sync.Mutex
	attempt     Attempt
	intent      *TransferIntent
	initialized bool
	waiting     bool
}

// NewTracker creates a tracker for swapID. observer may be nil.
func NewTracker(swapID string, deps Dependencies, config *Config, log *logger.Logger, observer Observer) *Tracker {
	if config == nil {
		config = DefaultConfig()
	}
	config.applyDefaults()

	t := &Tracker{
		deps:     deps,
		config:   config,
		logger:   log.WithFields(map[string]interface{}{"component": "tracker", "swap_id": swapID}),
		observer: observer,
		now:      time.Now,
	}
	t.attempt = Attempt{SwapID: swapID, Phase: PhaseIdle, UpdatedAt: t.now().UTC()}
	return t
}

// Snapshot returns a copy of the current attempt
func (t *Tracker) Snapshot() Attempt {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attempt
}

// Init reads the attempt cache until one read succeeds. A stored hash moves
// the attempt straight to Confirming without re-broadcasting; only the call
// that applied it reports resumed. Concurrent callers wait for the read, and a
// failed read leaves the tracker uninitialized so nothing can be broadcast.
func (t *Tracker) Init(ctx context.Context) (bool, error) {
	t.initMu.Lock()
	defer t.initMu.Unlock()

	t.mu.Lock()
	done := t.initialized
	swapID := t.attempt.SwapID
	t.mu.Unlock()
	if done {
		return false, nil
	}

	cached, err := t.deps.Cache.Get(ctx, swapID)
	if err != nil {
		t.logger.WithContext(ctx).WithError(err).Warn("failed to read attempt cache")
		return false, fmt.Errorf("%w: %w", ErrStateUnavailable, err)
	}

	t.mu.Lock()
	t.initialized = true
	if cached == nil || cached.Hash == "" {
		t.mu.Unlock()
		return false, nil
	}
	t.attempt.ID = uuid.New()
	t.attempt.NetworkID = cached.NetworkID
	t.attempt.Hash = cached.Hash
	snap := t.setPhaseLocked(PhaseConfirming)
	t.mu.Unlock()

	t.notify(ctx, snap)
	return true, nil
}

// Prepare encodes and prices intent. Validation errors are returned and leave
// the tracker ready for a corrected intent; chain failures move the attempt to
// Failed with a classification.
func (t *Tracker) Prepare(ctx context.Context, intent TransferIntent) (Attempt, error) {
	if _, err := t.Init(ctx); err != nil {
		return Attempt{}, err
	}

	t.mu.Lock()
	switch {
	case t.attempt.Phase == PhaseCompleted:
		t.mu.Unlock()
		return Attempt{}, ErrAlreadyCompleted
	case t.attempt.Phase.InFlight():
		t.mu.Unlock()
		return Attempt{}, ErrAttemptInFlight
	case t.attempt.Phase == PhasePreparing:
		t.mu.Unlock()
		return Attempt{}, ErrAttemptInFlight
	}
	if t.attempt.Phase != PhaseReadyToSign {
		t.attempt.ID = uuid.New()
	}
	t.attempt.NetworkID = intent.NetworkID
	t.attempt.Hash = ""
	t.attempt.Error = nil
	t.attempt.Fee = nil
	t.attempt.StillPending = false
	t.intent = nil
	snap := t.setPhaseLocked(PhasePreparing)
	t.mu.Unlock()
	t.notify(ctx, snap)

	amount := intent.Amount
	estimate, err := t.deps.Gas.ResolveGas(ctx, fee.GasRequest{
		NetworkID:      intent.NetworkID,
		Asset:          intent.Asset,
		Account:        intent.Signer,
		Destination:    intent.Destination,
		UltimateOwner:  intent.UltimateOwner,
		Amount:         &amount,
		SequenceNumber: intent.SequenceNumber,
	})
	if err != nil {
		if isValidationError(err) || errors.Is(err, fee.ErrFeeUnavailable) {
			t.mu.Lock()
			snap := t.setPhaseLocked(PhaseIdle)
			t.mu.Unlock()
			t.notify(ctx, snap)
			return snap, err
		}
		return t.fail(ctx, fmt.Errorf("prepare transfer: %w", err)), nil
	}

	t.mu.Lock()
	t.intent = &intent
	t.attempt.Fee = estimate
	snap = t.setPhaseLocked(PhaseReadyToSign)
	t.mu.Unlock()
	t.notify(ctx, snap)

	return snap, nil
}

// Submit signs, broadcasts and waits for confirmation
func (t *Tracker) Submit(ctx context.Context) (Attempt, error) {
	if _, err := t.Broadcast(ctx); err != nil {
		return t.Snapshot(), err
	}
	if t.Snapshot().Phase != PhaseConfirming {
		return t.Snapshot(), nil
	}
	return t.AwaitConfirmation(ctx)
}

// Broadcast hands the prepared transaction to the wallet. The hash is reported
// as pending and cached before it returns in Confirming.
func (t *Tracker) Broadcast(ctx context.Context) (Attempt, error) {
	if _, err := t.Init(ctx); err != nil {
		return Attempt{}, err
	}

	t.mu.Lock()
	switch {
	case t.attempt.Phase.InFlight():
		t.mu.Unlock()
		return Attempt{}, ErrAttemptInFlight
	case t.attempt.Phase == PhaseCompleted:
		t.mu.Unlock()
		return Attempt{}, ErrAlreadyCompleted
	case t.attempt.Phase != PhaseReadyToSign || t.intent == nil:
		t.mu.Unlock()
		return Attempt{}, ErrNotReady
	case t.deps.Signer == nil:
		t.mu.Unlock()
		return Attempt{}, ErrSigningUnavailable
	}
	intent := *t.intent
	estimate := t.attempt.Fee
	swapID := t.attempt.SwapID
	snap := t.setPhaseLocked(PhaseAwaitingSignature)
	t.mu.Unlock()
	t.notify(ctx, snap)

	hash, err := t.deps.Signer.SignAndBroadcast(ctx, SignRequest{
		NetworkID: intent.NetworkID,
		Signer:    intent.Signer,
		Call:      estimate.Call,
		GasLimit:  estimate.GasLimit(),
	})
	if err != nil {
		return t.fail(ctx, fmt.Errorf("sign and broadcast: %w", err)), nil
	}

	t.mu.Lock()
	t.attempt.Hash = hash
	snap = t.setPhaseLocked(PhaseBroadcasting)
	t.mu.Unlock()
	t.notify(ctx, snap)

	log := t.logger.WithContext(ctx).WithField("hash", hash)
	if err := t.deps.Swaps.PublishTransaction(ctx, swapID, StatusPending, hash); err != nil {
		log.WithError(err).Error("failed to publish pending transaction")
	}
	if err := t.deps.Cache.Set(ctx, CachedAttempt{
		SwapID:    swapID,
		NetworkID: intent.NetworkID,
		Hash:      hash,
		UpdatedAt: t.now().UTC(),
	}); err != nil {
		log.WithError(err).Warn("failed to cache transaction hash")
	}

	t.mu.Lock()
	snap = t.setPhaseLocked(PhaseConfirming)
	t.mu.Unlock()
	t.notify(ctx, snap)

	return snap, nil
}

// AwaitConfirmation waits, bounded by the configured timeout, for the
// broadcast transaction's receipt. On timeout the attempt stays Confirming
// with StillPending set and can be awaited again.
func (t *Tracker) AwaitConfirmation(ctx context.Context) (Attempt, error) {
	t.mu.Lock()
	if t.attempt.Phase != PhaseConfirming || t.attempt.Hash == "" {
		t.mu.Unlock()
		return Attempt{}, ErrNothingToConfirm
	}
	if t.waiting {
		t.mu.Unlock()
		return Attempt{}, ErrAttemptInFlight
	}
	t.waiting = true
	t.attempt.StillPending = false
	networkID, hash, swapID := t.attempt.NetworkID, t.attempt.Hash, t.attempt.SwapID
	t.mu.Unlock()

	waitCtx, cancel := context.WithTimeout(ctx, t.config.ConfirmationTimeout)
	defer cancel()

	receipt, err := t.deps.Waiter.WaitForReceipt(waitCtx, networkID, hash)

	if err != nil && waitCtx.Err() != nil {
		t.mu.Lock()
		t.waiting = false
		t.attempt.StillPending = true
		t.attempt.UpdatedAt = t.now().UTC()
		snap := t.attempt
		t.mu.Unlock()
		t.logger.WithContext(ctx).Info("transaction still pending", "hash", hash)
		return snap, nil
	}

	if err != nil || !receipt.Success {
		if err == nil {
			err = errRevertedOnChain
		} else {
			err = fmt.Errorf("wait for receipt: %w", err)
		}
		snap := t.fail(ctx, err)
		t.mu.Lock()
		t.waiting = false
		t.mu.Unlock()
		return snap, nil
	}

	confirmed := receipt.Hash
	if confirmed == "" {
		confirmed = hash
	}

	t.mu.Lock()
	t.waiting = false
	t.attempt.Hash = confirmed
	snap := t.setPhaseLocked(PhaseCompleted)
	t.mu.Unlock()
	t.notify(ctx, snap)

	if err := t.deps.Swaps.PublishTransaction(ctx, swapID, StatusCompleted, confirmed); err != nil {
		t.logger.WithContext(ctx).WithError(err).Error("failed to publish completed transaction", "hash", confirmed)
	}

	return snap, nil
}

// fail classifies err, moves the attempt to Failed and reports it
func (t *Tracker) fail(ctx context.Context, err error) Attempt {
	classification := txerror.Classify(err)

	t.mu.Lock()
	t.attempt.Error = classification
	t.attempt.StillPending = false
	snap := t.setPhaseLocked(PhaseFailed)
	t.mu.Unlock()

	log := t.logger.WithContext(ctx).WithField("reason", string(classification.Reason))
	if classification.Reason == txerror.ReasonUnexpected {
		log.WithError(err).Error("transfer failed")
	} else {
		log.Info("transfer failed", "message", classification.Message)
	}

	t.notify(ctx, snap)

	if perr := t.deps.Swaps.PublishTransaction(ctx, snap.SwapID, StatusError, ""); perr != nil {
		t.logger.WithContext(ctx).WithError(perr).Error("failed to publish transfer error")
	}
	return snap
}

// setPhaseLocked must be called with mu held
func (t *Tracker) setPhaseLocked(phase Phase) Attempt {
	t.attempt.Phase = phase
	t.attempt.UpdatedAt = t.now().UTC()
	return t.attempt
}

func (t *Tracker) notify(ctx context.Context, snap Attempt) {
	t.logger.WithContext(ctx).Info("transfer phase changed", "phase", string(snap.Phase), "attempt_id", snap.ID)
	if t.observer != nil {
		t.observer(snap)
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, payload.ErrInvalidAmount) ||
		errors.Is(err, payload.ErrInvalidDestination) ||
		errors.Is(err, payload.ErrInvalidAccount)
}
