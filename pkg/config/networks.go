package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fee strategy names accepted in the networks file
const (
	FeeStrategyStandard    = "standard"
	FeeStrategyRollupL1Fee = "rollup_l1_fee"
)

// Asset status names accepted in the networks file
const (
	AssetStatusActive   = "active"
	AssetStatusInactive = "inactive"
)

// AssetConfig is a token or native currency listed for a network
type AssetConfig struct {
	Symbol          string `yaml:"symbol"`
	Decimals        int    `yaml:"decimals"`
	ContractAddress string `yaml:"contract_address"`
	Status          string `yaml:"status"`
}

// IsActive treats an empty status as active
func (a AssetConfig) IsActive() bool {
	return a.Status != AssetStatusInactive
}

// NetworkConfig represents a supported EVM network
type NetworkConfig struct {
	ID               string        `yaml:"id"`
	ChainID          int64         `yaml:"chain_id"`
	DisplayName      string        `yaml:"display_name"`
	NativeCurrency   string        `yaml:"native_currency"`
	FeeStrategy      string        `yaml:"fee_strategy"`
	Multicall        bool          `yaml:"multicall"`
	MulticallAddress string        `yaml:"multicall_address"`
	RPCURL           string        `yaml:"rpc_url"`
	Assets           []AssetConfig `yaml:"assets"`
}

// NetworksConfig holds all supported networks
type NetworksConfig struct {
	Networks []NetworkConfig `yaml:"networks"`

	byID map[string]*NetworkConfig
}

// LoadNetworksConfig loads the network registry from a YAML file
func LoadNetworksConfig(path string) (*NetworksConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read networks config file: %w", err)
	}
	return ParseNetworksConfig(data)
}

// ParseNetworksConfig parses and validates a YAML network registry
func ParseNetworksConfig(data []byte) (*NetworksConfig, error) {
	var config NetworksConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse networks config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.byID = make(map[string]*NetworkConfig, len(config.Networks))
	for i := range config.Networks {
		n := &config.Networks[i]
		config.byID[n.ID] = n
	}

	return &config, nil
}

// Validate validates the networks configuration
func (c *NetworksConfig) Validate() error {
	if len(c.Networks) == 0 {
		return fmt.Errorf("at least one network must be configured")
	}

	seen := make(map[string]bool)
	for _, n := range c.Networks {
		if n.ID == "" {
			return fmt.Errorf("network id is required (chain_id %d)", n.ChainID)
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate network id %s", n.ID)
		}
		seen[n.ID] = true

		if n.ChainID <= 0 {
			return fmt.Errorf("invalid chain_id for network %s", n.ID)
		}
		if n.NativeCurrency == "" {
			return fmt.Errorf("native_currency is required for network %s", n.ID)
		}
		if n.RPCURL == "" {
			return fmt.Errorf("rpc_url is required for network %s", n.ID)
		}
		switch n.FeeStrategy {
		case "", FeeStrategyStandard, FeeStrategyRollupL1Fee:
		default:
			return fmt.Errorf("unknown fee_strategy %q for network %s", n.FeeStrategy, n.ID)
		}
		if err := validateAssets(n); err != nil {
			return err
		}
	}

	return nil
}

// validateAssets enforces: decimals >= 0, and a contract address is present
// exactly when the asset is not the network's native currency.
func validateAssets(n NetworkConfig) error {
	hasNative := false
	symbols := make(map[string]bool, len(n.Assets))
	for _, a := range n.Assets {
		if a.Symbol == "" {
			return fmt.Errorf("asset symbol is required on network %s", n.ID)
		}
		key := strings.ToUpper(a.Symbol)
		if symbols[key] {
			return fmt.Errorf("duplicate asset %s on network %s", a.Symbol, n.ID)
		}
		symbols[key] = true

		if a.Decimals < 0 || a.Decimals > 78 {
			return fmt.Errorf("invalid decimals for %s on network %s", a.Symbol, n.ID)
		}
		switch a.Status {
		case "", AssetStatusActive, AssetStatusInactive:
		default:
			return fmt.Errorf("unknown status %q for %s on network %s", a.Status, a.Symbol, n.ID)
		}

		native := strings.EqualFold(a.Symbol, n.NativeCurrency)
		if native {
			hasNative = true
			if a.ContractAddress != "" {
				return fmt.Errorf("native currency %s on network %s must not have a contract address", a.Symbol, n.ID)
			}
		} else if a.ContractAddress == "" {
			return fmt.Errorf("token %s on network %s requires a contract address", a.Symbol, n.ID)
		}
	}
	if !hasNative {
		return fmt.Errorf("native currency %s is not listed in the assets of network %s", n.NativeCurrency, n.ID)
	}
	return nil
}

// GetNetwork returns the configuration for a network id
func (c *NetworksConfig) GetNetwork(id string) (*NetworkConfig, bool) {
	n, ok := c.byID[id]
	return n, ok
}

// GetNetworkIDs returns all configured network ids in file order
func (c *NetworksConfig) GetNetworkIDs() []string {
	ids := make([]string, 0, len(c.Networks))
	for _, n := range c.Networks {
		ids = append(ids, n.ID)
	}
	return ids
}
