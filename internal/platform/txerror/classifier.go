// Package txerror turns chain and wallet failures into a small set of
// user-actionable reasons.
package txerror

import (
	"errors"
	"strings"
)

// Reason is the user-facing category of a failed transfer
type Reason string

const (
	ReasonInsufficientFunds   Reason = "insufficient_funds"
	ReasonTransactionRejected Reason = "transaction_rejected"
	ReasonUnexpected          Reason = "unexpected"
)

// maxWalkDepth bounds the cause-chain walk
const maxWalkDepth = 16

const (
	insufficientFundsMessage = "insufficient funds to cover the transfer amount and network fee"
	rejectedMessage          = "the transaction was rejected in the wallet"
)

// Classification is the outcome of classifying a failure
type Classification struct {
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

// Classify maps err to a Classification. Insufficient-funds signals win over
// user rejection. A nil error yields nil.
func Classify(err error) *Classification {
	if err == nil {
		return nil
	}

	if walk(err, 0, isInsufficientFunds) {
		return &Classification{Reason: ReasonInsufficientFunds, Message: insufficientFundsMessage}
	}
	if walk(err, 0, isUserRejected) {
		return &Classification{Reason: ReasonTransactionRejected, Message: rejectedMessage}
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		if reason, ok := classifyCodes(pe); ok {
			msg := insufficientFundsMessage
			if reason == ReasonTransactionRejected {
				msg = rejectedMessage
			}
			return &Classification{Reason: reason, Message: msg}
		}
	}

	return &Classification{Reason: ReasonUnexpected, Message: displayMessage(err)}
}

// walk visits err and its causes depth-first, including joined errors,
// and reports whether match holds for any of them.
func walk(err error, depth int, match func(error) bool) bool {
	if err == nil || depth >= maxWalkDepth {
		return false
	}
	if match(err) {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if walk(e, depth+1, match) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return walk(u.Unwrap(), depth+1, match)
	}
	return false
}

func isInsufficientFunds(err error) bool {
	pe, ok := err.(*ProviderError)
	if !ok {
		return false
	}
	if pe.Kind == KindInsufficientFunds || pe.Kind == KindEstimateGasExecution {
		return true
	}
	if pe.Data != nil {
		for _, arg := range pe.Data.Args {
			if strings.Contains(arg, "amount exceeds") {
				return true
			}
		}
	}
	return false
}

func isUserRejected(err error) bool {
	pe, ok := err.(*ProviderError)
	return ok && pe.Kind == KindUserRejected
}

// classifyCodes is the fallback over flat codes and names
func classifyCodes(pe *ProviderError) (Reason, bool) {
	inner := innerCode(pe)

	switch {
	case pe.Name == "INSUFFICIENT_FUNDS",
		pe.Name == "UNPREDICTABLE_GAS_LIMIT",
		pe.Name == string(KindEstimateGasExecution),
		pe.Code == CodeInternal && inner == CodeExecutionError,
		inner == CodeServer:
		return ReasonInsufficientFunds, true
	case pe.Code == CodeUserRejected:
		return ReasonTransactionRejected, true
	}
	return "", false
}

// innerCode is the data code, or else the first non-zero code among the causes
func innerCode(pe *ProviderError) int {
	if pe.Data != nil && pe.Data.Code != 0 {
		return pe.Data.Code
	}
	cause := pe.Cause
	for depth := 0; cause != nil && depth < maxWalkDepth; depth++ {
		var inner *ProviderError
		if !errors.As(cause, &inner) {
			return 0
		}
		if inner.Code != 0 {
			return inner.Code
		}
		cause = inner.Cause
	}
	return 0
}

// displayMessage prefers the provider's data message over the error text
func displayMessage(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Data != nil && pe.Data.Message != "" {
		return pe.Data.Message
	}
	return err.Error()
}
