package money

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// GweiDecimals is the scale between wei and gwei
const GweiDecimals = 9

// GasCost computes perGas × gasLimit in wei. A nil price yields nil.
func GasCost(perGas *big.Int, gasLimit uint64) *big.Int {
	if perGas == nil {
		return nil
	}
	return new(big.Int).Mul(perGas, new(big.Int).SetUint64(gasLimit))
}

// WeiToGwei converts a wei-denominated per-gas price to gwei. Nil yields zero.
func WeiToGwei(wei *big.Int) decimal.Decimal {
	return FromBaseUnits(wei, GweiDecimals)
}
