package fee

import (
	"context"

	"github.com/kislikjeka/swapwallet/pkg/logger"
)

// FeeDataResolver reads current fee parameters. Failures degrade to nil.
type FeeDataResolver struct {
	reader FeeReader
	logger *logger.Logger
}

// NewFeeDataResolver creates a new FeeDataResolver
func NewFeeDataResolver(reader FeeReader, log *logger.Logger) *FeeDataResolver {
	return &FeeDataResolver{
		reader: reader,
		logger: log.WithField("component", "fee_data"),
	}
}

// GetFeeData returns the network's fee parameters, or nil if any read fails
func (r *FeeDataResolver) GetFeeData(ctx context.Context, networkID string) *FeeData {
	log := r.logger.WithContext(ctx).WithField("network", networkID)

	gasPrice, err := r.reader.GasPrice(ctx, networkID)
	if err != nil {
		log.WithError(err).Warn("failed to read gas price")
		return nil
	}

	maxFee, maxPriority, err := r.reader.FeesPerGas(ctx, networkID)
	if err != nil {
		log.WithError(err).Warn("failed to read fees per gas")
		return nil
	}

	return &FeeData{
		GasPrice:             gasPrice,
		MaxFeePerGas:         maxFee,
		MaxPriorityFeePerGas: maxPriority,
	}
}
