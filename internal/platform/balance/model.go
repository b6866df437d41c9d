package balance

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnreachableNetwork is returned when a batched balance read cannot be issued
var ErrUnreachableNetwork = errors.New("network unreachable")

// Balance is an asset balance scaled to user units
type Balance struct {
	Network     string          `json:"network"`
	Symbol      string          `json:"token"`
	Amount      decimal.Decimal `json:"amount"`
	Decimals    int             `json:"decimals"`
	IsNative    bool            `json:"is_native_currency"`
	RequestTime time.Time       `json:"request_time"`
}

// AssetFailure records an asset whose balance could not be read
type AssetFailure struct {
	Symbol string `json:"token"`
	Error  string `json:"error"`
}

// Result is the outcome of a balance read. The native balance, when readable,
// comes first, followed by tokens in configuration order.
type Result struct {
	Balances []Balance      `json:"balances"`
	Failures []AssetFailure `json:"failures"`
}
