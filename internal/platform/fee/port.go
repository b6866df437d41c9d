package fee

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
)

// FeeReader reads network fee parameters
type FeeReader interface {
	GasPrice(ctx context.Context, networkID string) (*big.Int, error)
	// FeesPerGas returns nil values on networks without EIP-1559
	FeesPerGas(ctx context.Context, networkID string) (maxFeePerGas, maxPriorityFeePerGas *big.Int, err error)
}

// GasEstimator simulates a call and returns its gas limit
type GasEstimator interface {
	EstimateGas(ctx context.Context, networkID string, call ethereum.CallMsg) (uint64, error)
}

// RollupFeeEstimator returns the combined L2 execution and L1 data fee of a call, in wei
type RollupFeeEstimator interface {
	EstimateRollupFee(ctx context.Context, networkID string, call ethereum.CallMsg) (*big.Int, error)
}
