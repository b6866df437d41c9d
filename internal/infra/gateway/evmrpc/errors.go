package evmrpc

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/kislikjeka/swapwallet/internal/platform/txerror"
)

// RateLimitError is returned when a provider answers HTTP 429
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s (retry after %s)", e.Message, e.RetryAfter)
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// wrapError converts JSON-RPC failures into provider errors the classifier
// understands. estimating marks errors raised by gas estimation.
func wrapError(networkID, method string, err error, estimating bool) error {
	if err == nil {
		return nil
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{
			RetryAfter: time.Minute,
			Message:    fmt.Sprintf("%s RPC rate limit exceeded", networkID),
		}
	}

	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) {
		return fmt.Errorf("%s %s: %w", networkID, method, err)
	}

	pe := &txerror.ProviderError{
		Code:    rpcErr.ErrorCode(),
		Message: rpcErr.Error(),
		Cause:   err,
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		pe.Data = errorData(dataErr.ErrorData())
	}

	msg := strings.ToLower(pe.Message)
	switch {
	case strings.Contains(msg, "insufficient funds"):
		pe.Kind = txerror.KindInsufficientFunds
	case estimating && (pe.Code == txerror.CodeExecutionError ||
		strings.Contains(msg, "execution reverted") ||
		strings.Contains(msg, "gas required exceeds")):
		pe.Kind = txerror.KindEstimateGasExecution
	}

	return pe
}

// errorData decodes the data member of a JSON-RPC error: either ABI-encoded
// revert data or a nested {code, message} object.
func errorData(data interface{}) *txerror.ErrorData {
	switch v := data.(type) {
	case string:
		raw, err := hexutil.Decode(v)
		if err != nil {
			return &txerror.ErrorData{Message: v}
		}
		if reason, err := abi.UnpackRevert(raw); err == nil {
			return &txerror.ErrorData{Args: []string{reason}}
		}
		return nil
	case map[string]interface{}:
		d := &txerror.ErrorData{}
		if code, ok := v["code"].(float64); ok {
			d.Code = int(code)
		}
		if message, ok := v["message"].(string); ok {
			d.Message = message
		}
		return d
	}
	return nil
}
