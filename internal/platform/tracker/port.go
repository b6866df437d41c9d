package tracker

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum"

	"github.com/kislikjeka/swapwallet/internal/platform/fee"
)

// GasResolver prices and encodes a transfer
type GasResolver interface {
	ResolveGas(ctx context.Context, req fee.GasRequest) (*fee.Estimate, error)
}

// SignRequest is a prepared transaction handed to the wallet
type SignRequest struct {
	NetworkID string
	Signer    string
	Call      ethereum.CallMsg
	// GasLimit is zero when the fee strategy gave no breakdown
	GasLimit uint64
}

// WalletSigner signs and broadcasts a transaction, returning its hash
type WalletSigner interface {
	SignAndBroadcast(ctx context.Context, req SignRequest) (string, error)
}

// Receipt is the outcome of a mined transaction
type Receipt struct {
	Hash        string
	Success     bool
	BlockNumber uint64
}

// ConfirmationWaiter blocks until a transaction is mined or ctx ends
type ConfirmationWaiter interface {
	WaitForReceipt(ctx context.Context, networkID, hash string) (*Receipt, error)
}

// SwapTracker receives transfer status updates for a swap
type SwapTracker interface {
	PublishTransaction(ctx context.Context, swapID string, status PublishStatus, hash string) error
}

// CachedAttempt is the persisted trace of a broadcast transaction
type CachedAttempt struct {
	SwapID    string    `json:"swap_id"`
	NetworkID string    `json:"network"`
	Hash      string    `json:"hash"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AttemptCache persists broadcast hashes so an attempt can be resumed.
// Get returns nil when nothing is stored for the swap.
type AttemptCache interface {
	Get(ctx context.Context, swapID string) (*CachedAttempt, error)
	Set(ctx context.Context, attempt CachedAttempt) error
}

// Observer is notified after every phase change
type Observer func(Attempt)
