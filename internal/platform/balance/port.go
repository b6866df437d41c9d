package balance

import (
	"context"
	"math/big"

	"github.com/kislikjeka/swapwallet/internal/platform/network"
)

// TokenBalanceResult is one entry of a batched balance read
type TokenBalanceResult struct {
	Balance *big.Int
	Err     error
}

// ChainReader reads balances from a network
type ChainReader interface {
	NativeBalance(ctx context.Context, networkID, address string) (*big.Int, error)
	TokenBalance(ctx context.Context, networkID, contract, address string) (*big.Int, error)
	// MulticallTokenBalances returns one result per contract, in order. An error
	// means the batch itself could not be issued.
	MulticallTokenBalances(ctx context.Context, networkID string, contracts []string, address string) ([]TokenBalanceResult, error)
}

// NetworkCatalog is the part of the network registry the resolver needs
type NetworkCatalog interface {
	Network(id string) (*network.Network, error)
	NativeAsset(id string) (network.Asset, error)
	ActiveTokenAssets(id string) ([]network.Asset, error)
}
