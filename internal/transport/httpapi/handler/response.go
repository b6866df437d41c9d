package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kislikjeka/swapwallet/internal/infra/gateway/evmrpc"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError sends an error response
func respondWithError(w http.ResponseWriter, code int, message string) {
	response, _ := json.Marshal(ErrorResponse{Error: message})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondIfRateLimited answers 503 when a chain provider throttled the request
func respondIfRateLimited(w http.ResponseWriter, err error) bool {
	if !evmrpc.IsRateLimitError(err) {
		return false
	}
	w.Header().Set("Retry-After", "60")
	respondWithError(w, http.StatusServiceUnavailable, "chain provider rate limit exceeded")
	return true
}

// decodeJSON decodes a request body, rejecting unknown fields
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
