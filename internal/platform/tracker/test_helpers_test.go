package tracker_test

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	"github.com/kislikjeka/swapwallet/internal/platform/fee"
	"github.com/kislikjeka/swapwallet/internal/platform/network"
	"github.com/kislikjeka/swapwallet/internal/platform/tracker"
)

// =============================================================================
// Mock Gas Resolver
// =============================================================================

type MockGasResolver struct {
	mock.Mock
}

func (m *MockGasResolver) ResolveGas(ctx context.Context, req fee.GasRequest) (*fee.Estimate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.Estimate), args.Error(1)
}

var _ tracker.GasResolver = (*MockGasResolver)(nil)

// =============================================================================
// Mock Wallet Signer
// =============================================================================

type MockWalletSigner struct {
	mock.Mock
}

func (m *MockWalletSigner) SignAndBroadcast(ctx context.Context, req tracker.SignRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

var _ tracker.WalletSigner = (*MockWalletSigner)(nil)

// =============================================================================
// Mock Confirmation Waiter
// =============================================================================

type MockConfirmationWaiter struct {
	mock.Mock
}

func (m *MockConfirmationWaiter) WaitForReceipt(ctx context.Context, networkID, hash string) (*tracker.Receipt, error) {
	args := m.Called(ctx, networkID, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracker.Receipt), args.Error(1)
}

var _ tracker.ConfirmationWaiter = (*MockConfirmationWaiter)(nil)

// blockingWaiter waits until ctx ends
type blockingWaiter struct{}

func (blockingWaiter) WaitForReceipt(ctx context.Context, _, _ string) (*tracker.Receipt, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// =============================================================================
// Recording Swap Tracker
// =============================================================================

type publishedStatus struct {
	SwapID string
	Status tracker.PublishStatus
	Hash   string
}

type recordingSwapTracker struct {
	mu        sync.Mutex
	published []publishedStatus
}

func (r *recordingSwapTracker) PublishTransaction(_ context.Context, swapID string, status tracker.PublishStatus, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, publishedStatus{SwapID: swapID, Status: status, Hash: hash})
	return nil
}

func (r *recordingSwapTracker) statuses() []publishedStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]publishedStatus, len(r.published))
	copy(out, r.published)
	return out
}

// =============================================================================
// In-memory Attempt Cache
// =============================================================================

type memoryCache struct {
	mu       sync.Mutex
	entries  map[string]tracker.CachedAttempt
	gets     int
	failures int
	gate     chan struct{}
	entered  chan struct{}
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]tracker.CachedAttempt)}
}

func (c *memoryCache) Get(_ context.Context, swapID string) (*tracker.CachedAttempt, error) {
	c.mu.Lock()
	c.gets++
	if c.failures > 0 {
		c.failures--
		c.mu.Unlock()
		return nil, context.DeadlineExceeded
	}
	gate, entered := c.gate, c.entered
	c.mu.Unlock()

	if gate != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-gate
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[swapID]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (c *memoryCache) Set(_ context.Context, attempt tracker.CachedAttempt) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[attempt.SwapID] = attempt
	return nil
}

// holdReads makes Get block until the returned channel is closed. entered
// receives once a read is blocked.
func (c *memoryCache) holdReads() (release chan struct{}, entered chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gate = make(chan struct{})
	c.entered = make(chan struct{}, 1)
	return c.gate, c.entered
}

// failReads makes the next n reads fail
func (c *memoryCache) failReads(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = n
}

func (c *memoryCache) readCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets
}

func (c *memoryCache) hash(swapID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[swapID].Hash
}

// =============================================================================
// Chain fakes for the real fee dispatcher
// =============================================================================

type fixedFeeReader struct{}

func (fixedFeeReader) GasPrice(context.Context, string) (*big.Int, error) {
	return big.NewInt(20_000_000_000), nil
}

func (fixedFeeReader) FeesPerGas(context.Context, string) (*big.Int, *big.Int, error) {
	return big.NewInt(30_000_000_000), big.NewInt(1_000_000_000), nil
}

type recordingEstimator struct {
	mu    sync.Mutex
	calls []ethereum.CallMsg
}

func (e *recordingEstimator) EstimateGas(_ context.Context, _ string, call ethereum.CallMsg) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, call)
	return 21000 + 16*uint64(len(call.Data)), nil
}

type singleNetworkCatalog struct{}

func (singleNetworkCatalog) Strategy(string) network.FeeStrategy { return network.FeeStrategyStandard }

func (singleNetworkCatalog) NativeAsset(string) (network.Asset, error) {
	return network.Asset{Symbol: "ETH", Decimals: 18, Active: true}, nil
}

// =============================================================================
// Fixtures
// =============================================================================

const (
	swapID         = "swap-123"
	networkID      = "ETHEREUM_MAINNET"
	signerAddress  = "0x1111111111111111111111111111111111111111"
	ownerAddress   = "0x2222222222222222222222222222222222222222"
	depositAddress = "0x3333333333333333333333333333333333333333"
	txHash         = "0xabc0000000000000000000000000000000000000000000000000000000000001"
)

var usdc = network.Asset{
	Symbol:          "USDC",
	Decimals:        6,
	ContractAddress: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
	Active:          true,
}

func sampleEstimate() *fee.Estimate {
	to := common.HexToAddress(usdc.ContractAddress)
	return &fee.Estimate{
		Symbol:  "ETH",
		Details: &fee.GasDetails{GasLimit: 65000},
		Call:    ethereum.CallMsg{To: &to, Data: []byte{0xa9, 0x05, 0x9c, 0xbb}},
	}
}
