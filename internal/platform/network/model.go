package network

// FeeStrategy selects how transfer fees are computed on a network
type FeeStrategy string

const (
	// FeeStrategyStandard estimates gas and prices it with the network fee data
	FeeStrategyStandard FeeStrategy = "standard"
	// FeeStrategyRollupL1Fee asks the provider for L2 execution plus L1 data fee
	FeeStrategyRollupL1Fee FeeStrategy = "rollup_l1_fee"
)

// Asset is a native currency or token listed on a network.
// ContractAddress is empty exactly for the network's native currency.
type Asset struct {
	Symbol          string `json:"symbol"`
	Decimals        int    `json:"decimals"`
	ContractAddress string `json:"contract_address,omitempty"`
	Active          bool   `json:"active"`
}

// IsNative reports whether the asset is the network's native currency
func (a Asset) IsNative() bool {
	return a.ContractAddress == ""
}

// Network is a supported EVM network
type Network struct {
	ID               string      `json:"id"`
	ChainID          int64       `json:"chain_id"`
	DisplayName      string      `json:"display_name"`
	NativeCurrency   string      `json:"native_currency"`
	FeeStrategy      FeeStrategy `json:"fee_strategy"`
	Multicall        bool        `json:"multicall"`
	MulticallAddress string      `json:"-"`
	RPCURL           string      `json:"-"`
	Assets           []Asset     `json:"assets"`
}
