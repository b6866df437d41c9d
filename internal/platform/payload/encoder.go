// Package payload builds transfer call-data, including the correlation tag
// that links an on-chain transfer back to its swap.
package payload

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/kislikjeka/swapwallet/internal/platform/network"
	"github.com/kislikjeka/swapwallet/pkg/evmabi"
	"github.com/kislikjeka/swapwallet/pkg/money"
)

var (
	// ErrInvalidAmount is returned when an amount cannot be expressed in the asset's base units
	ErrInvalidAmount = errors.New("invalid transfer amount")
	// ErrInvalidDestination is returned when the destination is not an EVM address
	ErrInvalidDestination = errors.New("invalid destination address")
	// ErrInvalidAccount is returned when the sending account or ultimate owner is not an EVM address
	ErrInvalidAccount = errors.New("invalid account address")
)

// PreviewSequenceNumber is the largest sequence number used when pricing a
// transfer before the real one is known.
const PreviewSequenceNumber uint64 = 99999999

// EncodedPayload is the call-data of a transfer transaction. A native
// transfer carries only the tag bytes (or nothing); a token transfer carries
// the transfer(address,uint256) call with the tag appended.
type EncodedPayload struct {
	Data   []byte
	Tagged bool
}

// CorrelationTag renders a sequence number as an even-length hex string
func CorrelationTag(sequenceNumber uint64) string {
	tag := strconv.FormatUint(sequenceNumber, 16)
	if len(tag)%2 == 1 {
		tag = "0" + tag
	}
	return tag
}

// NeedsTag reports whether a transfer signed by signer must carry the tag.
// Deposits made from the ultimate owner's own wallet are matched without one.
func NeedsTag(signer, ultimateOwner string) bool {
	return !network.AddressesEqual(signer, ultimateOwner)
}

// EncodeTransfer builds the call-data for sending amount of asset to destination
func EncodeTransfer(asset network.Asset, amount decimal.Decimal, destination, signer, ultimateOwner string, sequenceNumber uint64) (*EncodedPayload, error) {
	return encode(asset, amount, destination, NeedsTag(signer, ultimateOwner), sequenceNumber)
}

// EncodeTagged builds the call-data with the tag regardless of signer and owner.
// Used for fee previews so they never under-price a tagged transfer.
func EncodeTagged(asset network.Asset, amount decimal.Decimal, destination string, sequenceNumber uint64) (*EncodedPayload, error) {
	return encode(asset, amount, destination, true, sequenceNumber)
}

func encode(asset network.Asset, amount decimal.Decimal, destination string, tagged bool, sequenceNumber uint64) (*EncodedPayload, error) {
	units, err := BaseUnits(asset, amount)
	if err != nil {
		return nil, err
	}

	var data []byte
	if !asset.IsNative() {
		if !common.IsHexAddress(destination) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDestination, destination)
		}
		data, err = evmabi.PackTransfer(common.HexToAddress(destination), units)
		if err != nil {
			return nil, fmt.Errorf("failed to pack transfer: %w", err)
		}
	}

	if tagged {
		// even length, so decoding cannot fail
		tag, _ := TagBytes(sequenceNumber)
		data = append(data, tag...)
	}

	return &EncodedPayload{Data: data, Tagged: tagged}, nil
}

// BaseUnits scales a user amount to the asset's integer units
func BaseUnits(asset network.Asset, amount decimal.Decimal) (*big.Int, error) {
	units, err := money.ToBaseUnits(amount, asset.Decimals)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	return units, nil
}

// TagBytes returns the correlation tag as raw bytes
func TagBytes(sequenceNumber uint64) ([]byte, error) {
	return hex.DecodeString(CorrelationTag(sequenceNumber))
}
