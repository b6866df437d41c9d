package tracker

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kislikjeka/swapwallet/internal/platform/fee"
	"github.com/kislikjeka/swapwallet/internal/platform/network"
	"github.com/kislikjeka/swapwallet/internal/platform/txerror"
)

// Phase is the lifecycle stage of a transfer attempt
type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhasePreparing         Phase = "preparing"
	PhaseReadyToSign       Phase = "ready_to_sign"
	PhaseAwaitingSignature Phase = "awaiting_signature"
	PhaseBroadcasting      Phase = "broadcasting"
	PhaseConfirming        Phase = "confirming"
	PhaseCompleted         Phase = "completed"
	PhaseFailed            Phase = "failed"
)

// InFlight reports whether a transaction may be on its way to the chain
func (p Phase) InFlight() bool {
	switch p {
	case PhaseAwaitingSignature, PhaseBroadcasting, PhaseConfirming:
		return true
	}
	return false
}

// PublishStatus is the status reported to the swap-tracking collaborator
type PublishStatus string

const (
	StatusPending   PublishStatus = "pending"
	StatusCompleted PublishStatus = "completed"
	StatusError     PublishStatus = "error"
)

// TransferIntent is everything needed to build one transfer attempt
type TransferIntent struct {
	NetworkID      string
	Asset          network.Asset
	Amount         decimal.Decimal
	Signer         string
	Destination    string
	UltimateOwner  string
	SequenceNumber uint64
}

// Attempt is the observable state of a swap's transfer
type Attempt struct {
	ID        uuid.UUID               `json:"id"`
	SwapID    string                  `json:"swap_id"`
	NetworkID string                  `json:"network,omitempty"`
	Phase     Phase                   `json:"phase"`
	Hash      string                  `json:"hash,omitempty"`
	Error     *txerror.Classification `json:"error,omitempty"`
	Fee       *fee.Estimate           `json:"fee,omitempty"`
	// StillPending is set when the confirmation wait timed out without a receipt
	StillPending bool      `json:"still_pending"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SwapTransaction is the transfer status last published for a swap
type SwapTransaction struct {
	SwapID    string                 `json:"swap_id"`
	Status    PublishStatus          `json:"status"`
	Hash      string                 `json:"hash,omitempty"`
	UpdatedAt time.Time              `json:"updated_at"`
	Events    []SwapTransactionEvent `json:"events,omitempty"`
}

// SwapTransactionEvent is one published status change
type SwapTransactionEvent struct {
	Status    PublishStatus `json:"status"`
	Hash      string        `json:"hash,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
