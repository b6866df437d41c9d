package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/kislikjeka/swapwallet/internal/platform/fee"
	"github.com/kislikjeka/swapwallet/internal/platform/payload"
	"github.com/kislikjeka/swapwallet/internal/platform/tracker"
)

// TransferServiceInterface drives a swap's transfer attempt
type TransferServiceInterface interface {
	Attempt(ctx context.Context, swapID string) (tracker.Attempt, error)
	Prepare(ctx context.Context, swapID string, intent tracker.TransferIntent) (tracker.Attempt, error)
	Submit(ctx context.Context, swapID string) (tracker.Attempt, error)
	Resume(ctx context.Context, swapID string) (tracker.Attempt, error)
}

// SwapStoreInterface reads published swap transfer statuses
type SwapStoreInterface interface {
	GetTransaction(ctx context.Context, swapID string) (*tracker.SwapTransaction, error)
}

// TransferHandler handles transfer-attempt requests
type TransferHandler struct {
	catalog   NetworkCatalog
	transfers TransferServiceInterface
	swaps     SwapStoreInterface
}

// NewTransferHandler creates a new transfer handler. swaps may be nil.
func NewTransferHandler(catalog NetworkCatalog, transfers TransferServiceInterface, swaps SwapStoreInterface) *TransferHandler {
	return &TransferHandler{catalog: catalog, transfers: transfers, swaps: swaps}
}

// PrepareTransferRequest is a transfer intent
type PrepareTransferRequest struct {
	Network        string          `json:"network"`
	Asset          string          `json:"asset"`
	Amount         decimal.Decimal `json:"amount"`
	Signer         string          `json:"signer"`
	Destination    string          `json:"destination"`
	UltimateOwner  string          `json:"ultimate_owner"`
	SequenceNumber uint64          `json:"sequence_number"`
}

// TransferResponse is an attempt with the status last published for the swap
type TransferResponse struct {
	Attempt   tracker.Attempt          `json:"attempt"`
	Published *tracker.SwapTransaction `json:"published,omitempty"`
}

// PrepareTransfer handles POST /transfers/{swapID}/prepare
func (h *TransferHandler) PrepareTransfer(w http.ResponseWriter, r *http.Request) {
	swapID := chi.URLParam(r, "swapID")

	var req PrepareTransferRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	asset, ok := resolveAsset(w, h.catalog, req.Network, req.Asset)
	if !ok {
		return
	}

	attempt, err := h.transfers.Prepare(r.Context(), swapID, tracker.TransferIntent{
		NetworkID:      req.Network,
		Asset:          asset,
		Amount:         req.Amount,
		Signer:         req.Signer,
		Destination:    req.Destination,
		UltimateOwner:  req.UltimateOwner,
		SequenceNumber: req.SequenceNumber,
	})
	if err != nil {
		respondTransferError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, TransferResponse{Attempt: attempt})
}

// SubmitTransfer handles POST /transfers/{swapID}/submit. It returns once the
// transaction is broadcast; confirmation continues in the background.
func (h *TransferHandler) SubmitTransfer(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.transfers.Submit(r.Context(), chi.URLParam(r, "swapID"))
	if err != nil {
		respondTransferError(w, err)
		return
	}
	respondWithJSON(w, http.StatusAccepted, TransferResponse{Attempt: attempt})
}

// ResumeTransfer handles POST /transfers/{swapID}/resume
func (h *TransferHandler) ResumeTransfer(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.transfers.Resume(r.Context(), chi.URLParam(r, "swapID"))
	if err != nil {
		respondTransferError(w, err)
		return
	}
	respondWithJSON(w, http.StatusAccepted, TransferResponse{Attempt: attempt})
}

// GetTransfer handles GET /transfers/{swapID}
func (h *TransferHandler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	swapID := chi.URLParam(r, "swapID")

	attempt, err := h.transfers.Attempt(r.Context(), swapID)
	if err != nil {
		respondTransferError(w, err)
		return
	}

	resp := TransferResponse{Attempt: attempt}
	if h.swaps != nil {
		published, err := h.swaps.GetTransaction(r.Context(), swapID)
		switch {
		case err == nil:
			resp.Published = published
		case !errors.Is(err, tracker.ErrSwapNotFound):
			respondWithError(w, http.StatusInternalServerError, "failed to load swap status")
			return
		}
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// respondTransferError maps tracker errors to status codes. Chain failures
// never reach here: they come back as a Failed attempt with a classification.
func respondTransferError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, payload.ErrInvalidAmount),
		errors.Is(err, payload.ErrInvalidDestination),
		errors.Is(err, payload.ErrInvalidAccount):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tracker.ErrAttemptInFlight),
		errors.Is(err, tracker.ErrAlreadyCompleted),
		errors.Is(err, tracker.ErrNotReady),
		errors.Is(err, tracker.ErrNothingToConfirm):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, tracker.ErrSigningUnavailable):
		respondWithError(w, http.StatusNotImplemented, err.Error())
	case errors.Is(err, fee.ErrFeeUnavailable):
		respondWithError(w, http.StatusServiceUnavailable, "fee data unavailable")
	case errors.Is(err, tracker.ErrStateUnavailable):
		respondWithError(w, http.StatusServiceUnavailable, "transfer state unavailable, retry later")
	default:
		respondWithError(w, http.StatusInternalServerError, "transfer request failed")
	}
}
