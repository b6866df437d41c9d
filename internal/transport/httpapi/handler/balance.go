package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kislikjeka/swapwallet/internal/platform/balance"
	"github.com/kislikjeka/swapwallet/internal/platform/network"
)

// BalanceServiceInterface reads an address's balances on a network
type BalanceServiceInterface interface {
	GetBalances(ctx context.Context, networkID, address string) (*balance.Result, error)
}

// BalanceHandler serves balance reads
type BalanceHandler struct {
	balances BalanceServiceInterface
}

// NewBalanceHandler creates a new balance handler
func NewBalanceHandler(balances BalanceServiceInterface) *BalanceHandler {
	return &BalanceHandler{balances: balances}
}

// GetBalances handles GET /networks/{network}/balances/{address}
func (h *BalanceHandler) GetBalances(w http.ResponseWriter, r *http.Request) {
	result, err := h.balances.GetBalances(r.Context(), chi.URLParam(r, "network"), chi.URLParam(r, "address"))
	if err != nil {
		if respondIfRateLimited(w, err) {
			return
		}
		switch {
		case errors.Is(err, network.ErrNetworkNotFound):
			respondWithError(w, http.StatusNotFound, "network not found")
		case errors.Is(err, network.ErrMissingAddress),
			errors.Is(err, network.ErrInvalidAddress),
			errors.Is(err, network.ErrInvalidChecksum):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, balance.ErrUnreachableNetwork):
			respondWithError(w, http.StatusBadGateway, "network is unreachable")
		default:
			respondWithError(w, http.StatusInternalServerError, "failed to read balances")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
