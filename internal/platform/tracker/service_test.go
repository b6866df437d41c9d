package tracker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/swapwallet/internal/platform/tracker"
	"github.com/kislikjeka/swapwallet/pkg/logger"
)

func waitForPhase(t *testing.T, svc *tracker.Service, id string, phase tracker.Phase) tracker.Attempt {
	t.Helper()
	var snap tracker.Attempt
	require.Eventually(t, func() bool {
		var err error
		snap, err = svc.Attempt(context.Background(), id)
		return err == nil && snap.Phase == phase
	}, 2*time.Second, 10*time.Millisecond)
	return snap
}

func TestService_SubmitConfirmsInBackground(t *testing.T) {
	f := newFixture()
	f.gas.On("ResolveGas", mock.Anything, mock.Anything).Return(sampleEstimate(), nil)
	f.signer.On("SignAndBroadcast", mock.Anything, mock.Anything).Return(txHash, nil)
	f.waiter.On("WaitForReceipt", mock.Anything, networkID, txHash).Return(&tracker.Receipt{Hash: txHash, Success: true}, nil)

	svc := tracker.NewService(nil, f.deps(), logger.NewNop(), nil)
	defer svc.Close()

	prepared, err := svc.Prepare(context.Background(), swapID, intent(signerAddress))
	require.NoError(t, err)
	assert.Equal(t, tracker.PhaseReadyToSign, prepared.Phase)

	submitted, err := svc.Submit(context.Background(), swapID)
	require.NoError(t, err)
	assert.Equal(t, tracker.PhaseConfirming, submitted.Phase)
	assert.Equal(t, txHash, submitted.Hash)

	done := waitForPhase(t, svc, swapID, tracker.PhaseCompleted)
	assert.Equal(t, txHash, done.Hash)
}

func TestService_ResumesCachedSwapOnFirstAccess(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.cache.Set(context.Background(), tracker.CachedAttempt{SwapID: swapID, NetworkID: networkID, Hash: txHash}))
	f.waiter.On("WaitForReceipt", mock.Anything, networkID, txHash).Return(&tracker.Receipt{Hash: txHash, Success: true}, nil)

	svc := tracker.NewService(nil, f.deps(), logger.NewNop(), nil)
	defer svc.Close()

	waitForPhase(t, svc, swapID, tracker.PhaseCompleted)
	f.signer.AssertNotCalled(t, "SignAndBroadcast", mock.Anything, mock.Anything)
	assert.Equal(t, 1, f.cache.readCount())
}

func TestService_ConcurrentAccessWaitsForCacheRead(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.cache.Set(context.Background(), tracker.CachedAttempt{SwapID: swapID, NetworkID: networkID, Hash: txHash}))
	release, entered := f.cache.holdReads()
	f.waiter.On("WaitForReceipt", mock.Anything, networkID, txHash).
		Run(func(args mock.Arguments) { <-args.Get(0).(context.Context).Done() }).
		Return(nil, context.Canceled)

	svc := tracker.NewService(nil, f.deps(), logger.NewNop(), nil)
	defer svc.Close()

	go func() { _, _ = svc.Attempt(context.Background(), swapID) }()
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("cache read never started")
	}

	prepared := make(chan error, 1)
	go func() {
		_, err := svc.Prepare(context.Background(), swapID, intent(signerAddress))
		prepared <- err
	}()

	select {
	case err := <-prepared:
		t.Fatalf("prepare returned before the cache read finished: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-prepared:
		assert.ErrorIs(t, err, tracker.ErrAttemptInFlight)
	case <-time.After(2 * time.Second):
		t.Fatal("prepare did not return")
	}

	_, err := svc.Submit(context.Background(), swapID)
	assert.ErrorIs(t, err, tracker.ErrAttemptInFlight)

	snap, err := svc.Attempt(context.Background(), swapID)
	require.NoError(t, err)
	assert.Equal(t, tracker.PhaseConfirming, snap.Phase)
	assert.Equal(t, txHash, snap.Hash)
	assert.Equal(t, 1, f.cache.readCount())
	f.gas.AssertNotCalled(t, "ResolveGas", mock.Anything, mock.Anything)
	f.signer.AssertNotCalled(t, "SignAndBroadcast", mock.Anything, mock.Anything)
}

func TestService_CacheFailureThenResume(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.cache.Set(context.Background(), tracker.CachedAttempt{SwapID: swapID, NetworkID: networkID, Hash: txHash}))
	f.cache.failReads(2)
	f.waiter.On("WaitForReceipt", mock.Anything, networkID, txHash).Return(&tracker.Receipt{Hash: txHash, Success: true}, nil)

	svc := tracker.NewService(nil, f.deps(), logger.NewNop(), nil)
	defer svc.Close()

	_, err := svc.Prepare(context.Background(), swapID, intent(signerAddress))
	assert.ErrorIs(t, err, tracker.ErrStateUnavailable)
	_, err = svc.Submit(context.Background(), swapID)
	assert.ErrorIs(t, err, tracker.ErrStateUnavailable)

	// once the cache answers, the stored hash is resumed and confirmed
	done := waitForPhase(t, svc, swapID, tracker.PhaseCompleted)
	assert.Equal(t, txHash, done.Hash)
	f.gas.AssertNotCalled(t, "ResolveGas", mock.Anything, mock.Anything)
	f.signer.AssertNotCalled(t, "SignAndBroadcast", mock.Anything, mock.Anything)
}

func TestService_OneTrackerPerSwap(t *testing.T) {
	f := newFixture()
	svc := tracker.NewService(nil, f.deps(), logger.NewNop(), nil)
	defer svc.Close()

	a, err := svc.Tracker(context.Background(), "swap-a")
	require.NoError(t, err)
	again, err := svc.Tracker(context.Background(), "swap-a")
	require.NoError(t, err)
	b, err := svc.Tracker(context.Background(), "swap-b")
	require.NoError(t, err)

	assert.Same(t, a, again)
	assert.NotSame(t, a, b)
}

func TestService_ResumeAfterTimeout(t *testing.T) {
	f := newFixture()
	f.gas.On("ResolveGas", mock.Anything, mock.Anything).Return(sampleEstimate(), nil)
	f.signer.On("SignAndBroadcast", mock.Anything, mock.Anything).Return(txHash, nil)
	f.waiter.On("WaitForReceipt", mock.Anything, networkID, txHash).
		Run(func(args mock.Arguments) { <-args.Get(0).(context.Context).Done() }).
		Return(nil, context.DeadlineExceeded).Once()
	f.waiter.On("WaitForReceipt", mock.Anything, networkID, txHash).
		Return(&tracker.Receipt{Hash: txHash, Success: true}, nil)

	svc := tracker.NewService(&tracker.Config{ConfirmationTimeout: 20 * time.Millisecond}, f.deps(), logger.NewNop(), nil)
	defer svc.Close()

	_, err := svc.Prepare(context.Background(), swapID, intent(signerAddress))
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), swapID)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snap, err := svc.Attempt(context.Background(), swapID)
		return err == nil && snap.StillPending
	}, 2*time.Second, 10*time.Millisecond)

	_, err = svc.Resume(context.Background(), swapID)
	require.NoError(t, err)
	waitForPhase(t, svc, swapID, tracker.PhaseCompleted)
}

func TestService_ResumeWithoutBroadcast(t *testing.T) {
	f := newFixture()
	svc := tracker.NewService(nil, f.deps(), logger.NewNop(), nil)
	defer svc.Close()

	_, err := svc.Resume(context.Background(), swapID)
	assert.ErrorIs(t, err, tracker.ErrNothingToConfirm)
}
