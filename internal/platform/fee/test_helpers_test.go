package fee_test

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/stretchr/testify/mock"

	"github.com/kislikjeka/swapwallet/internal/platform/fee"
	"github.com/kislikjeka/swapwallet/internal/platform/network"
)

// =============================================================================
// Mock Fee Reader
// =============================================================================

type MockFeeReader struct {
	mock.Mock
}

func (m *MockFeeReader) GasPrice(ctx context.Context, networkID string) (*big.Int, error) {
	args := m.Called(ctx, networkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockFeeReader) FeesPerGas(ctx context.Context, networkID string) (*big.Int, *big.Int, error) {
	args := m.Called(ctx, networkID)
	var maxFee, maxPriority *big.Int
	if v := args.Get(0); v != nil {
		maxFee = v.(*big.Int)
	}
	if v := args.Get(1); v != nil {
		maxPriority = v.(*big.Int)
	}
	return maxFee, maxPriority, args.Error(2)
}

var _ fee.FeeReader = (*MockFeeReader)(nil)

// =============================================================================
// Mock Gas Estimator
// =============================================================================

type MockGasEstimator struct {
	mock.Mock
}

func (m *MockGasEstimator) EstimateGas(ctx context.Context, networkID string, call ethereum.CallMsg) (uint64, error) {
	args := m.Called(ctx, networkID, call)
	return args.Get(0).(uint64), args.Error(1)
}

var _ fee.GasEstimator = (*MockGasEstimator)(nil)

// calldataGasEstimator charges a fixed base plus 16 gas per call-data byte
type calldataGasEstimator struct {
	calls []ethereum.CallMsg
}

func (e *calldataGasEstimator) EstimateGas(_ context.Context, _ string, call ethereum.CallMsg) (uint64, error) {
	e.calls = append(e.calls, call)
	return 21000 + 16*uint64(len(call.Data)), nil
}

// =============================================================================
// Mock Rollup Fee Estimator
// =============================================================================

type MockRollupFeeEstimator struct {
	mock.Mock
}

func (m *MockRollupFeeEstimator) EstimateRollupFee(ctx context.Context, networkID string, call ethereum.CallMsg) (*big.Int, error) {
	args := m.Called(ctx, networkID, call)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

var _ fee.RollupFeeEstimator = (*MockRollupFeeEstimator)(nil)

// =============================================================================
// Fixtures
// =============================================================================

type staticCatalog struct {
	strategies map[string]network.FeeStrategy
}

func (c staticCatalog) Strategy(networkID string) network.FeeStrategy {
	if s, ok := c.strategies[networkID]; ok {
		return s
	}
	return network.FeeStrategyStandard
}

func (c staticCatalog) NativeAsset(networkID string) (network.Asset, error) {
	if networkID == "MISSING" {
		return network.Asset{}, network.ErrNetworkNotFound
	}
	return ethAsset, nil
}

var (
	ethAsset  = network.Asset{Symbol: "ETH", Decimals: 18, Active: true}
	usdcAsset = network.Asset{
		Symbol:          "USDC",
		Decimals:        6,
		ContractAddress: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		Active:          true,
	}
)

const (
	signerAddress  = "0x1111111111111111111111111111111111111111"
	ownerAddress   = "0x2222222222222222222222222222222222222222"
	depositAddress = "0x3333333333333333333333333333333333333333"
)

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}
