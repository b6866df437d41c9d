package evmrpc

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/kislikjeka/swapwallet/internal/platform/fee"
	"github.com/kislikjeka/swapwallet/pkg/evmabi"
)

var (
	_ fee.FeeReader          = (*Client)(nil)
	_ fee.GasEstimator       = (*Client)(nil)
	_ fee.RollupFeeEstimator = (*Client)(nil)
)

// Base fee headroom applied to the latest block, as a ratio of tenths.
const baseFeeMultiplierTenths = 12

// GasPrice returns the legacy gas price suggestion in wei
func (c *Client) GasPrice(ctx context.Context, networkID string) (*big.Int, error) {
	cc, err := c.client(ctx, networkID)
	if err != nil {
		return nil, err
	}

	price, err := cc.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, wrapError(networkID, "eth_gasPrice", err, false)
	}
	return price, nil
}

// FeesPerGas returns EIP-1559 fee caps. Both values are nil when the latest
// block carries no base fee.
func (c *Client) FeesPerGas(ctx context.Context, networkID string) (*big.Int, *big.Int, error) {
	cc, err := c.client(ctx, networkID)
	if err != nil {
		return nil, nil, err
	}

	head, err := cc.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, nil, wrapError(networkID, "eth_getBlockByNumber", err, false)
	}
	if head.BaseFee == nil {
		return nil, nil, nil
	}

	tip, err := cc.eth.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, nil, wrapError(networkID, "eth_maxPriorityFeePerGas", err, false)
	}

	maxFee := new(big.Int).Mul(head.BaseFee, big.NewInt(baseFeeMultiplierTenths))
	maxFee.Quo(maxFee, big.NewInt(10))
	maxFee.Add(maxFee, tip)

	return maxFee, tip, nil
}

// EstimateGas simulates call and returns the gas it needs
func (c *Client) EstimateGas(ctx context.Context, networkID string, call ethereum.CallMsg) (uint64, error) {
	cc, err := c.client(ctx, networkID)
	if err != nil {
		return 0, err
	}

	gas, err := cc.eth.EstimateGas(ctx, call)
	if err != nil {
		return 0, wrapError(networkID, "eth_estimateGas", err, true)
	}
	return gas, nil
}

// EstimateRollupFee prices call on an OP-stack network: L2 execution at the
// current gas price plus the L1 data fee reported by the gas price oracle.
func (c *Client) EstimateRollupFee(ctx context.Context, networkID string, call ethereum.CallMsg) (*big.Int, error) {
	gas, err := c.EstimateGas(ctx, networkID, call)
	if err != nil {
		return nil, err
	}

	price, err := c.GasPrice(ctx, networkID)
	if err != nil {
		return nil, err
	}

	cc, err := c.client(ctx, networkID)
	if err != nil {
		return nil, err
	}

	nonce, err := cc.eth.PendingNonceAt(ctx, call.From)
	if err != nil {
		return nil, wrapError(networkID, "eth_getTransactionCount", err, false)
	}

	unsigned := types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(cc.network.ChainID),
		Nonce:     nonce,
		GasTipCap: price,
		GasFeeCap: price,
		Gas:       gas,
		To:        call.To,
		Value:     valueOrZero(call.Value),
		Data:      call.Data,
	})
	raw, err := unsigned.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("serialize transaction: %w", err)
	}

	data, err := evmabi.PackGetL1Fee(raw)
	if err != nil {
		return nil, fmt.Errorf("pack getL1Fee: %w", err)
	}

	oracle := evmabi.GasPriceOracleAddress
	out, err := cc.eth.CallContract(ctx, ethereum.CallMsg{To: &oracle, Data: data}, nil)
	if err != nil {
		return nil, wrapError(networkID, "eth_call", err, false)
	}

	l1Fee, err := evmabi.UnpackUint256(evmabi.GasPriceOracle, "getL1Fee", out)
	if err != nil {
		return nil, err
	}

	total := new(big.Int).Mul(new(big.Int).SetUint64(gas), price)
	return total.Add(total, l1Fee), nil
}

func valueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
