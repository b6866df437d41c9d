package fee

import (
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/shopspring/decimal"

	"github.com/kislikjeka/swapwallet/internal/platform/network"
	"github.com/kislikjeka/swapwallet/pkg/money"
)

// FeeData holds current fee parameters in wei. EIP-1559 fields are nil on legacy networks.
type FeeData struct {
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// PerGas is the price used to total a fee: max fee when known, else gas price
func (f *FeeData) PerGas() *big.Int {
	if f.MaxFeePerGas != nil {
		return f.MaxFeePerGas
	}
	return f.GasPrice
}

// GasDetails is the standard-strategy breakdown. Per-gas prices are in gwei.
type GasDetails struct {
	GasLimit             uint64              `json:"gas_limit"`
	MaxFeePerGas         decimal.NullDecimal `json:"max_fee_per_gas"`
	GasPrice             decimal.NullDecimal `json:"gas_price"`
	MaxPriorityFeePerGas decimal.NullDecimal `json:"max_priority_fee_per_gas"`
}

// Estimate is a normalized fee estimate in native currency units
type Estimate struct {
	Fee     decimal.Decimal `json:"fee"`
	Symbol  string          `json:"symbol"`
	Details *GasDetails     `json:"gas_details,omitempty"`

	// Call is the transaction the estimate was computed for
	Call   ethereum.CallMsg `json:"-"`
	Tagged bool             `json:"tagged"`
}

// GasLimit returns the estimated gas limit, or zero when the strategy has no breakdown
func (e *Estimate) GasLimit() uint64 {
	if e.Details == nil {
		return 0
	}
	return e.Details.GasLimit
}

// GasRequest describes the transfer to price. A nil Amount requests a
// preview priced with a representative amount and a worst-case tag.
type GasRequest struct {
	NetworkID      string
	Asset          network.Asset
	Account        string
	Destination    string
	UltimateOwner  string
	Amount         *decimal.Decimal
	SequenceNumber uint64
}

// IsPreview reports whether the request has no amount yet
func (r GasRequest) IsPreview() bool {
	return r.Amount == nil
}

// StrategyRequest is what a Strategy prices
type StrategyRequest struct {
	NetworkID string
	Native    network.Asset
	Call      ethereum.CallMsg
}

func gweiOrNull(wei *big.Int) decimal.NullDecimal {
	if wei == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(money.WeiToGwei(wei))
}
