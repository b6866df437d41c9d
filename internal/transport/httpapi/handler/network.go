package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kislikjeka/swapwallet/internal/platform/network"
)

// NetworkCatalog lists supported networks and their assets
type NetworkCatalog interface {
	Networks() []*network.Network
	Network(id string) (*network.Network, error)
	TransferableAsset(id, symbol string) (network.Asset, error)
}

// NetworkHandler serves the network registry
type NetworkHandler struct {
	catalog NetworkCatalog
}

// NewNetworkHandler creates a new network handler
func NewNetworkHandler(catalog NetworkCatalog) *NetworkHandler {
	return &NetworkHandler{catalog: catalog}
}

// NetworksListResponse represents the response for listing networks
type NetworksListResponse struct {
	Networks []*network.Network `json:"networks"`
}

// ListNetworks handles GET /networks
func (h *NetworkHandler) ListNetworks(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, NetworksListResponse{Networks: h.catalog.Networks()})
}

// GetNetwork handles GET /networks/{network}
func (h *NetworkHandler) GetNetwork(w http.ResponseWriter, r *http.Request) {
	n, err := h.catalog.Network(chi.URLParam(r, "network"))
	if err != nil {
		if errors.Is(err, network.ErrNetworkNotFound) {
			respondWithError(w, http.StatusNotFound, "network not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to load network")
		return
	}
	respondWithJSON(w, http.StatusOK, n)
}
