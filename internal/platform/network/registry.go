package network

import (
	"fmt"
	"strings"

	"github.com/kislikjeka/swapwallet/pkg/config"
)

// Registry is the read-only network and asset catalogue built at startup
type Registry struct {
	networks   []*Network
	byID       map[string]*Network
	strategies map[string]FeeStrategy
}

// NewRegistry builds the registry from the validated networks file
func NewRegistry(cfg *config.NetworksConfig) (*Registry, error) {
	r := &Registry{
		byID:       make(map[string]*Network, len(cfg.Networks)),
		strategies: make(map[string]FeeStrategy, len(cfg.Networks)),
	}

	for _, nc := range cfg.Networks {
		n := &Network{
			ID:             nc.ID,
			ChainID:        nc.ChainID,
			DisplayName:    nc.DisplayName,
			NativeCurrency: nc.NativeCurrency,
			FeeStrategy:    FeeStrategy(nc.FeeStrategy),
			Multicall:      nc.Multicall,
			RPCURL:         nc.RPCURL,
		}
		if n.FeeStrategy == "" {
			n.FeeStrategy = FeeStrategyStandard
		}
		if n.DisplayName == "" {
			n.DisplayName = n.ID
		}

		if nc.MulticallAddress != "" {
			addr, err := normalizeConfigAddress(nc.MulticallAddress)
			if err != nil {
				return nil, fmt.Errorf("multicall address on %s: %w", nc.ID, err)
			}
			n.MulticallAddress = addr
		}
		if n.Multicall && n.MulticallAddress == "" {
			return nil, fmt.Errorf("network %s enables multicall without a multicall address", nc.ID)
		}

		// native first, then tokens in file order
		for _, ac := range nc.Assets {
			if strings.EqualFold(ac.Symbol, nc.NativeCurrency) {
				n.Assets = append([]Asset{{Symbol: ac.Symbol, Decimals: ac.Decimals, Active: ac.IsActive()}}, n.Assets...)
				continue
			}
			addr, err := normalizeConfigAddress(ac.ContractAddress)
			if err != nil {
				return nil, fmt.Errorf("contract address of %s on %s: %w", ac.Symbol, nc.ID, err)
			}
			n.Assets = append(n.Assets, Asset{
				Symbol:          ac.Symbol,
				Decimals:        ac.Decimals,
				ContractAddress: addr,
				Active:          ac.IsActive(),
			})
		}

		r.networks = append(r.networks, n)
		r.byID[n.ID] = n
		r.strategies[n.ID] = n.FeeStrategy
	}

	return r, nil
}

// normalizeConfigAddress checks the format and returns the checksummed form.
// Checksums in the file are not enforced.
func normalizeConfigAddress(addr string) (string, error) {
	if !addressPattern.MatchString(addr) {
		return "", ErrInvalidAddress
	}
	return ChecksumAddress(addr), nil
}

// Network returns a network by id
func (r *Registry) Network(id string) (*Network, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNetworkNotFound, id)
	}
	return n, nil
}

// Networks returns all networks in configuration order
func (r *Registry) Networks() []*Network {
	out := make([]*Network, len(r.networks))
	copy(out, r.networks)
	return out
}

// Strategy returns the fee strategy for a network. Unknown ids get the standard strategy.
func (r *Registry) Strategy(id string) FeeStrategy {
	if s, ok := r.strategies[id]; ok {
		return s
	}
	return FeeStrategyStandard
}

// NativeAsset returns the native currency of a network
func (r *Registry) NativeAsset(id string) (Asset, error) {
	n, err := r.Network(id)
	if err != nil {
		return Asset{}, err
	}
	// NewRegistry puts the native asset first
	return n.Assets[0], nil
}

// Asset looks up an asset by symbol (case-insensitive), active or not
func (r *Registry) Asset(id, symbol string) (Asset, error) {
	n, err := r.Network(id)
	if err != nil {
		return Asset{}, err
	}
	for _, a := range n.Assets {
		if strings.EqualFold(a.Symbol, symbol) {
			return a, nil
		}
	}
	return Asset{}, fmt.Errorf("%w: %s on %s", ErrAssetNotFound, symbol, id)
}

// TransferableAsset looks up an asset that can be used for a new transfer
func (r *Registry) TransferableAsset(id, symbol string) (Asset, error) {
	a, err := r.Asset(id, symbol)
	if err != nil {
		return Asset{}, err
	}
	if !a.Active {
		return Asset{}, fmt.Errorf("%w: %s on %s", ErrAssetInactive, symbol, id)
	}
	return a, nil
}

// ActiveTokenAssets returns the active, contract-backed assets of a network in configuration order
func (r *Registry) ActiveTokenAssets(id string) ([]Asset, error) {
	n, err := r.Network(id)
	if err != nil {
		return nil, err
	}
	var out []Asset
	for _, a := range n.Assets {
		if a.Active && !a.IsNative() {
			out = append(out, a)
		}
	}
	return out, nil
}
