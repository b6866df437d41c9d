package fee

import (
	"errors"
	"fmt"
)

var (
	// ErrFeeUnavailable is returned when fee parameters could not be read
	ErrFeeUnavailable = errors.New("network fee data unavailable")
)

// GasEstimationRevertedError wraps a failed gas simulation
type GasEstimationRevertedError struct {
	Cause error
}

func (e *GasEstimationRevertedError) Error() string {
	return fmt.Sprintf("gas estimation reverted: %v", e.Cause)
}

func (e *GasEstimationRevertedError) Unwrap() error {
	return e.Cause
}
