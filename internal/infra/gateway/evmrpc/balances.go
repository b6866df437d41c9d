package evmrpc

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/kislikjeka/swapwallet/internal/platform/balance"
	"github.com/kislikjeka/swapwallet/pkg/evmabi"
)

var _ balance.ChainReader = (*Client)(nil)

// NativeBalance returns the latest native balance of address in wei
func (c *Client) NativeBalance(ctx context.Context, networkID, address string) (*big.Int, error) {
	cc, err := c.client(ctx, networkID)
	if err != nil {
		return nil, err
	}

	bal, err := cc.eth.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, wrapError(networkID, "eth_getBalance", err, false)
	}
	return bal, nil
}

// TokenBalance returns the ERC-20 balance of address in base units
func (c *Client) TokenBalance(ctx context.Context, networkID, contract, address string) (*big.Int, error) {
	cc, err := c.client(ctx, networkID)
	if err != nil {
		return nil, err
	}

	data, err := evmabi.PackBalanceOf(common.HexToAddress(address))
	if err != nil {
		return nil, fmt.Errorf("pack balanceOf: %w", err)
	}

	to := common.HexToAddress(contract)
	out, err := cc.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, wrapError(networkID, "eth_call", err, false)
	}

	return evmabi.UnpackBalanceOf(out)
}

// MulticallTokenBalances reads every contract's balanceOf(address) in one
// aggregate3 call. Individual failures are reported per result.
func (c *Client) MulticallTokenBalances(ctx context.Context, networkID string, contracts []string, address string) ([]balance.TokenBalanceResult, error) {
	if len(contracts) == 0 {
		return nil, nil
	}

	cc, err := c.client(ctx, networkID)
	if err != nil {
		return nil, err
	}
	if cc.network.MulticallAddress == "" {
		return nil, fmt.Errorf("%s has no multicall contract configured", networkID)
	}

	balanceOf, err := evmabi.PackBalanceOf(common.HexToAddress(address))
	if err != nil {
		return nil, fmt.Errorf("pack balanceOf: %w", err)
	}

	calls := make([]evmabi.Call3, len(contracts))
	for i, contract := range contracts {
		calls[i] = evmabi.Call3{
			Target:       common.HexToAddress(contract),
			AllowFailure: true,
			CallData:     balanceOf,
		}
	}

	data, err := evmabi.PackAggregate3(calls)
	if err != nil {
		return nil, fmt.Errorf("pack aggregate3: %w", err)
	}

	multicall := common.HexToAddress(cc.network.MulticallAddress)
	out, err := cc.eth.CallContract(ctx, ethereum.CallMsg{To: &multicall, Data: data}, nil)
	if err != nil {
		return nil, wrapError(networkID, "eth_call", err, false)
	}

	results, err := evmabi.UnpackAggregate3(out)
	if err != nil {
		return nil, err
	}
	if len(results) != len(contracts) {
		return nil, fmt.Errorf("aggregate3 returned %d results for %d calls", len(results), len(contracts))
	}

	balances := make([]balance.TokenBalanceResult, len(results))
	for i, r := range results {
		if !r.Success {
			balances[i].Err = fmt.Errorf("balanceOf failed on %s", contracts[i])
			continue
		}
		balances[i].Balance, balances[i].Err = evmabi.UnpackBalanceOf(r.ReturnData)
	}

	return balances, nil
}
