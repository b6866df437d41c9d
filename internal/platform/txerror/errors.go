package txerror

import "fmt"

// Kind marks a provider error with a known failure category
type Kind string

const (
	KindNone                 Kind = ""
	KindInsufficientFunds    Kind = "InsufficientFundsError"
	KindEstimateGasExecution Kind = "EstimateGasExecutionError"
	KindUserRejected         Kind = "UserRejectedRequestError"
)

// Well-known JSON-RPC and wallet error codes
const (
	CodeUserRejected   = 4001
	CodeInternal       = -32603
	CodeServer         = -32000
	CodeExecutionError = 3
)

// ErrorData is the data member of a JSON-RPC error
type ErrorData struct {
	Code    int      `json:"code,omitempty"`
	Message string   `json:"message,omitempty"`
	Args    []string `json:"args,omitempty"`
}

// ProviderError is a failure reported by a chain provider or wallet.
// Name carries string codes such as INSUFFICIENT_FUNDS; Code carries
// numeric JSON-RPC codes. Either may be empty.
type ProviderError struct {
	Kind    Kind
	Code    int
	Name    string
	Message string
	Data    *ErrorData
	Cause   error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Name != "":
		return e.Name
	default:
		return fmt.Sprintf("provider error (code %d)", e.Code)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
