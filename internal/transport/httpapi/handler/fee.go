package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kislikjeka/swapwallet/internal/platform/fee"
	"github.com/kislikjeka/swapwallet/internal/platform/network"
	"github.com/kislikjeka/swapwallet/internal/platform/payload"
	"github.com/kislikjeka/swapwallet/internal/platform/txerror"
)

// GasServiceInterface prices transfers
type GasServiceInterface interface {
	ResolveGas(ctx context.Context, req fee.GasRequest) (*fee.Estimate, error)
}

// FeeHandler serves fee estimates
type FeeHandler struct {
	catalog NetworkCatalog
	gas     GasServiceInterface
}

// NewFeeHandler creates a new fee handler
func NewFeeHandler(catalog NetworkCatalog, gas GasServiceInterface) *FeeHandler {
	return &FeeHandler{catalog: catalog, gas: gas}
}

// EstimateFeeRequest describes the transfer to price. Omitting amount asks
// for a preview estimate.
type EstimateFeeRequest struct {
	Network        string           `json:"network"`
	Asset          string           `json:"asset"`
	Account        string           `json:"account"`
	Destination    string           `json:"destination"`
	UltimateOwner  string           `json:"ultimate_owner"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	SequenceNumber uint64           `json:"sequence_number"`
}

// EstimateFeeResponse is a fee estimate, or a classified reason it failed
type EstimateFeeResponse struct {
	Estimate *fee.Estimate           `json:"estimate,omitempty"`
	Error    *txerror.Classification `json:"error,omitempty"`
}

// EstimateFee handles POST /fees/estimate
func (h *FeeHandler) EstimateFee(w http.ResponseWriter, r *http.Request) {
	var req EstimateFeeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	asset, ok := resolveAsset(w, h.catalog, req.Network, req.Asset)
	if !ok {
		return
	}

	estimate, err := h.gas.ResolveGas(r.Context(), fee.GasRequest{
		NetworkID:      req.Network,
		Asset:          asset,
		Account:        req.Account,
		Destination:    req.Destination,
		UltimateOwner:  req.UltimateOwner,
		Amount:         req.Amount,
		SequenceNumber: req.SequenceNumber,
	})
	if err != nil {
		if respondIfRateLimited(w, err) {
			return
		}
		var reverted *fee.GasEstimationRevertedError
		switch {
		case errors.Is(err, payload.ErrInvalidAmount),
			errors.Is(err, payload.ErrInvalidDestination),
			errors.Is(err, payload.ErrInvalidAccount):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, network.ErrNetworkNotFound):
			respondWithError(w, http.StatusNotFound, "network not found")
		case errors.Is(err, fee.ErrFeeUnavailable):
			respondWithError(w, http.StatusServiceUnavailable, "fee data unavailable")
		case errors.As(err, &reverted):
			respondWithJSON(w, http.StatusUnprocessableEntity, EstimateFeeResponse{Error: txerror.Classify(err)})
		default:
			respondWithJSON(w, http.StatusBadGateway, EstimateFeeResponse{Error: txerror.Classify(err)})
		}
		return
	}

	respondWithJSON(w, http.StatusOK, EstimateFeeResponse{Estimate: estimate})
}

// resolveAsset looks up a transferable asset, writing the error response when it fails
func resolveAsset(w http.ResponseWriter, catalog NetworkCatalog, networkID, symbol string) (network.Asset, bool) {
	if strings.TrimSpace(networkID) == "" || strings.TrimSpace(symbol) == "" {
		respondWithError(w, http.StatusBadRequest, "network and asset are required")
		return network.Asset{}, false
	}

	asset, err := catalog.TransferableAsset(networkID, symbol)
	if err != nil {
		switch {
		case errors.Is(err, network.ErrNetworkNotFound):
			respondWithError(w, http.StatusNotFound, "network not found")
		case errors.Is(err, network.ErrAssetNotFound):
			respondWithError(w, http.StatusNotFound, "asset not found")
		case errors.Is(err, network.ErrAssetInactive):
			respondWithError(w, http.StatusBadRequest, "asset is not active")
		default:
			respondWithError(w, http.StatusInternalServerError, "failed to resolve asset")
		}
		return network.Asset{}, false
	}
	return asset, true
}
