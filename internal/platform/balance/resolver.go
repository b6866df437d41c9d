// Package balance reads native and token balances for an address.
package balance

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/kislikjeka/swapwallet/internal/platform/network"
	"github.com/kislikjeka/swapwallet/pkg/logger"
	"github.com/kislikjeka/swapwallet/pkg/money"
)

// Resolver reads balances for every active asset of a network
type Resolver struct {
	catalog NetworkCatalog
	reader  ChainReader
	logger  *logger.Logger
	now     func() time.Time
}

// NewResolver creates a new balance Resolver
func NewResolver(catalog NetworkCatalog, reader ChainReader, log *logger.Logger) *Resolver {
	return &Resolver{
		catalog: catalog,
		reader:  reader,
		logger:  log.WithField("component", "balance"),
		now:     time.Now,
	}
}

// GetBalances reads the native balance and all active token balances of address.
// Per-asset failures are reported in Result.Failures; only a batch that cannot be
// issued fails the whole call with ErrUnreachableNetwork.
func (r *Resolver) GetBalances(ctx context.Context, networkID, address string) (*Result, error) {
	addr, err := network.ValidateAddress(address)
	if err != nil {
		return nil, err
	}
	n, err := r.catalog.Network(networkID)
	if err != nil {
		return nil, err
	}
	native, err := r.catalog.NativeAsset(networkID)
	if err != nil {
		return nil, err
	}
	tokens, err := r.catalog.ActiveTokenAssets(networkID)
	if err != nil {
		return nil, err
	}

	log := r.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"network": networkID,
		"address": addr,
	})

	var tokenResults []TokenBalanceResult
	if n.Multicall && len(tokens) > 0 {
		tokenResults, err = r.batchRead(ctx, networkID, tokens, addr)
		if err != nil {
			log.WithError(err).Warn("multicall balance read failed")
			return nil, err
		}
	} else {
		tokenResults = r.sequentialRead(ctx, networkID, tokens, addr)
	}

	result := &Result{Balances: []Balance{}, Failures: []AssetFailure{}}

	if native.Active {
		raw, err := r.reader.NativeBalance(ctx, networkID, addr)
		if err != nil {
			log.WithError(err).Warn("native balance read failed")
			result.Failures = append(result.Failures, AssetFailure{Symbol: native.Symbol, Error: err.Error()})
		} else {
			result.Balances = append(result.Balances, r.toBalance(networkID, native, raw))
		}
	}

	for i, token := range tokens {
		tr := tokenResults[i]
		if tr.Err != nil {
			log.WithError(tr.Err).Debug("token balance read failed", "asset", token.Symbol)
			result.Failures = append(result.Failures, AssetFailure{Symbol: token.Symbol, Error: tr.Err.Error()})
			continue
		}
		result.Balances = append(result.Balances, r.toBalance(networkID, token, tr.Balance))
	}

	return result, nil
}

func (r *Resolver) batchRead(ctx context.Context, networkID string, tokens []network.Asset, address string) ([]TokenBalanceResult, error) {
	contracts := make([]string, len(tokens))
	for i, t := range tokens {
		contracts[i] = t.ContractAddress
	}

	results, err := r.reader.MulticallTokenBalances(ctx, networkID, contracts, address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreachableNetwork, networkID, err)
	}
	if len(results) != len(tokens) {
		return nil, fmt.Errorf("%w: %s: multicall returned %d results for %d calls",
			ErrUnreachableNetwork, networkID, len(results), len(tokens))
	}
	return results, nil
}

func (r *Resolver) sequentialRead(ctx context.Context, networkID string, tokens []network.Asset, address string) []TokenBalanceResult {
	results := make([]TokenBalanceResult, len(tokens))
	for i, t := range tokens {
		raw, err := r.reader.TokenBalance(ctx, networkID, t.ContractAddress, address)
		results[i] = TokenBalanceResult{Balance: raw, Err: err}
	}
	return results
}

func (r *Resolver) toBalance(networkID string, asset network.Asset, raw *big.Int) Balance {
	return Balance{
		Network:     networkID,
		Symbol:      asset.Symbol,
		Amount:      money.FromBaseUnits(raw, asset.Decimals),
		Decimals:    asset.Decimals,
		IsNative:    asset.IsNative(),
		RequestTime: r.now().UTC(),
	}
}
