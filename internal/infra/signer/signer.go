// Package signer holds the server-side wallet used when a private key is configured.
package signer

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/kislikjeka/swapwallet/internal/platform/network"
	"github.com/kislikjeka/swapwallet/internal/platform/tracker"
	"github.com/kislikjeka/swapwallet/internal/platform/txerror"
	"github.com/kislikjeka/swapwallet/pkg/logger"
)

var ErrInvalidKey = errors.New("invalid signer private key")

// Chain is the part of the RPC gateway the signer needs
type Chain interface {
	ChainID(ctx context.Context, networkID string) (*big.Int, error)
	PendingNonce(ctx context.Context, networkID string, address common.Address) (uint64, error)
	GasPrice(ctx context.Context, networkID string) (*big.Int, error)
	FeesPerGas(ctx context.Context, networkID string) (*big.Int, *big.Int, error)
	EstimateGas(ctx context.Context, networkID string, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, networkID string, tx *types.Transaction) error
}

// KeySigner signs with a single secp256k1 key and broadcasts through the gateway
type KeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chain   Chain
	logger  *logger.Logger

	// nonce reads and broadcasts are serialized per signer
	mu sync.Mutex
}

var _ tracker.WalletSigner = (*KeySigner)(nil)

// NewKeySigner parses a hex private key (with or without 0x)
func NewKeySigner(hexKey string, chain Chain, log *logger.Logger) (*KeySigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	return &KeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chain:   chain,
		logger:  log.WithField("component", "signer"),
	}, nil
}

// Address returns the signing account
func (s *KeySigner) Address() string {
	return s.address.Hex()
}

// SignAndBroadcast builds, signs and sends the transaction described by req.
// Requests for any account other than the configured key are rejected the
// way a wallet would reject them.
func (s *KeySigner) SignAndBroadcast(ctx context.Context, req tracker.SignRequest) (string, error) {
	if !network.AddressesEqual(req.Signer, s.address.Hex()) {
		return "", &txerror.ProviderError{
			Kind:    txerror.KindUserRejected,
			Code:    txerror.CodeUserRejected,
			Message: fmt.Sprintf("account %s is not managed by this signer", req.Signer),
		}
	}

	call := req.Call
	call.From = s.address

	chainID, err := s.chain.ChainID(ctx, req.NetworkID)
	if err != nil {
		return "", err
	}

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		if gasLimit, err = s.chain.EstimateGas(ctx, req.NetworkID, call); err != nil {
			return "", err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nonce, err := s.chain.PendingNonce(ctx, req.NetworkID, s.address)
	if err != nil {
		return "", err
	}

	tx, err := s.buildTx(ctx, req.NetworkID, chainID, nonce, gasLimit, call)
	if err != nil {
		return "", err
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}

	if err := s.chain.SendTransaction(ctx, req.NetworkID, signed); err != nil {
		return "", err
	}

	hash := signed.Hash().Hex()
	s.logger.WithContext(ctx).Info("transaction broadcast",
		"network", req.NetworkID,
		"hash", hash,
		"nonce", nonce,
		"gas_limit", gasLimit,
	)

	return hash, nil
}

func (s *KeySigner) buildTx(ctx context.Context, networkID string, chainID *big.Int, nonce, gasLimit uint64, call ethereum.CallMsg) (*types.Transaction, error) {
	value := call.Value
	if value == nil {
		value = new(big.Int)
	}

	maxFee, tip, err := s.chain.FeesPerGas(ctx, networkID)
	if err != nil {
		return nil, err
	}
	if maxFee != nil {
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: maxFee,
			Gas:       gasLimit,
			To:        call.To,
			Value:     value,
			Data:      call.Data,
		}), nil
	}

	price, err := s.chain.GasPrice(ctx, networkID)
	if err != nil {
		return nil, err
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: price,
		Gas:      gasLimit,
		To:       call.To,
		Value:    value,
		Data:     call.Data,
	}), nil
}
