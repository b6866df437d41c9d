// Package fee estimates transfer fees across networks with different fee models.
package fee

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/kislikjeka/swapwallet/internal/platform/network"
	"github.com/kislikjeka/swapwallet/internal/platform/payload"
	"github.com/kislikjeka/swapwallet/pkg/logger"
	"github.com/kislikjeka/swapwallet/pkg/money"
)

// previewTokenUnits is the token amount, in base units, priced when no amount is known
const previewTokenUnits = 1000

// NetworkCatalog is the part of the network registry the dispatcher needs
type NetworkCatalog interface {
	Strategy(networkID string) network.FeeStrategy
	NativeAsset(networkID string) (network.Asset, error)
}

// Dispatcher selects the fee strategy for a network and prices a transfer with it
type Dispatcher struct {
	catalog    NetworkCatalog
	strategies map[network.FeeStrategy]Strategy
	logger     *logger.Logger
}

// NewDispatcher creates a new Dispatcher. strategies must contain FeeStrategyStandard.
func NewDispatcher(catalog NetworkCatalog, strategies map[network.FeeStrategy]Strategy, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		catalog:    catalog,
		strategies: strategies,
		logger:     log.WithField("component", "fee_dispatcher"),
	}
}

// ResolveGas encodes the transfer, including any correlation tag, and prices it
func (d *Dispatcher) ResolveGas(ctx context.Context, req GasRequest) (*Estimate, error) {
	native, err := d.catalog.NativeAsset(req.NetworkID)
	if err != nil {
		return nil, err
	}

	call, tagged, err := buildCall(req)
	if err != nil {
		return nil, err
	}

	kind := d.catalog.Strategy(req.NetworkID)
	strategy, ok := d.strategies[kind]
	if !ok {
		strategy = d.strategies[network.FeeStrategyStandard]
	}

	d.logger.WithContext(ctx).Debug("resolving gas",
		"network", req.NetworkID,
		"asset", req.Asset.Symbol,
		"strategy", string(kind),
		"tagged", tagged,
		"preview", req.IsPreview(),
	)

	estimate, err := strategy.Estimate(ctx, StrategyRequest{
		NetworkID: req.NetworkID,
		Native:    native,
		Call:      call,
	})
	if err != nil {
		return nil, err
	}

	estimate.Call = call
	estimate.Tagged = tagged
	return estimate, nil
}

// buildCall encodes the payload and wraps it in the call the wallet will send
func buildCall(req GasRequest) (ethereum.CallMsg, bool, error) {
	if _, err := network.ValidateAddress(req.Account); err != nil {
		return ethereum.CallMsg{}, false, fmt.Errorf("%w: account: %w", payload.ErrInvalidAccount, err)
	}
	// a preview always carries the tag, so the owner only matters for a real amount
	if !req.IsPreview() {
		if _, err := network.ValidateAddress(req.UltimateOwner); err != nil {
			return ethereum.CallMsg{}, false, fmt.Errorf("%w: ultimate owner: %w", payload.ErrInvalidAccount, err)
		}
	}

	var (
		encoded *payload.EncodedPayload
		amount  decimal.Decimal
		err     error
	)
	if req.IsPreview() {
		amount = previewAmount(req.Asset)
		encoded, err = payload.EncodeTagged(req.Asset, amount, req.Destination, payload.PreviewSequenceNumber)
	} else {
		amount = *req.Amount
		encoded, err = payload.EncodeTransfer(req.Asset, amount, req.Destination, req.Account, req.UltimateOwner, req.SequenceNumber)
	}
	if err != nil {
		return ethereum.CallMsg{}, false, err
	}

	if !common.IsHexAddress(req.Destination) {
		return ethereum.CallMsg{}, false, fmt.Errorf("%w: %s", payload.ErrInvalidDestination, req.Destination)
	}

	call := ethereum.CallMsg{
		From: common.HexToAddress(req.Account),
		Data: encoded.Data,
	}
	if req.Asset.IsNative() {
		value, err := payload.BaseUnits(req.Asset, amount)
		if err != nil {
			return ethereum.CallMsg{}, false, err
		}
		to := common.HexToAddress(req.Destination)
		call.To = &to
		call.Value = value
	} else {
		contract := common.HexToAddress(req.Asset.ContractAddress)
		call.To = &contract
		call.Value = new(big.Int)
	}

	return call, encoded.Tagged, nil
}

func previewAmount(asset network.Asset) decimal.Decimal {
	if asset.IsNative() {
		return decimal.Zero
	}
	return money.FromBaseUnits(big.NewInt(previewTokenUnits), asset.Decimals)
}
