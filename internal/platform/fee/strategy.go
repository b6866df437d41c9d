package fee

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/kislikjeka/swapwallet/internal/platform/payload"
	"github.com/kislikjeka/swapwallet/pkg/evmabi"
	"github.com/kislikjeka/swapwallet/pkg/money"
)

// Strategy prices a transfer on one kind of network
type Strategy interface {
	Estimate(ctx context.Context, req StrategyRequest) (*Estimate, error)
}

// StandardStrategy prices a transfer as gas limit times the current per-gas price
type StandardStrategy struct {
	fees      *FeeDataResolver
	estimator GasEstimator
}

// NewStandardStrategy creates a new StandardStrategy
func NewStandardStrategy(fees *FeeDataResolver, estimator GasEstimator) *StandardStrategy {
	return &StandardStrategy{fees: fees, estimator: estimator}
}

// Estimate implements Strategy
func (s *StandardStrategy) Estimate(ctx context.Context, req StrategyRequest) (*Estimate, error) {
	data := s.fees.GetFeeData(ctx, req.NetworkID)
	if data == nil || data.PerGas() == nil {
		return nil, ErrFeeUnavailable
	}

	gasLimit, err := s.estimator.EstimateGas(ctx, req.NetworkID, req.Call)
	if err != nil {
		return nil, &GasEstimationRevertedError{Cause: err}
	}

	total := money.GasCost(data.PerGas(), gasLimit)

	return &Estimate{
		Fee:    money.FromBaseUnits(total, req.Native.Decimals),
		Symbol: req.Native.Symbol,
		Details: &GasDetails{
			GasLimit:             gasLimit,
			MaxFeePerGas:         gweiOrNull(data.MaxFeePerGas),
			GasPrice:             gweiOrNull(data.GasPrice),
			MaxPriorityFeePerGas: gweiOrNull(data.MaxPriorityFeePerGas),
		},
	}, nil
}

// Representative transfer priced on rollups: a token transfer of 1e9 units
// to a fixed placeholder address.
var (
	rollupPlaceholder = common.HexToAddress("0x3535353535353535353535353535353535353535")
	rollupAmount      = big.NewInt(1_000_000_000)
)

// RollupStrategy asks the provider for the combined L2 execution and L1 data fee
type RollupStrategy struct {
	estimator RollupFeeEstimator
}

// NewRollupStrategy creates a new RollupStrategy
func NewRollupStrategy(estimator RollupFeeEstimator) *RollupStrategy {
	return &RollupStrategy{estimator: estimator}
}

// Estimate implements Strategy
func (s *RollupStrategy) Estimate(ctx context.Context, req StrategyRequest) (*Estimate, error) {
	data, err := evmabi.PackTransfer(rollupPlaceholder, rollupAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack representative transfer: %w", err)
	}
	data = append(data, previewTag()...)

	call := ethereum.CallMsg{
		From: req.Call.From,
		To:   &rollupPlaceholder,
		Data: data,
	}

	total, err := s.estimator.EstimateRollupFee(ctx, req.NetworkID, call)
	if err != nil {
		return nil, &GasEstimationRevertedError{Cause: err}
	}

	return &Estimate{
		Fee:    money.FromBaseUnits(total, req.Native.Decimals),
		Symbol: req.Native.Symbol,
	}, nil
}

func previewTag() []byte {
	tag, _ := payload.TagBytes(payload.PreviewSequenceNumber)
	return tag
}
