package evmrpc

import (
	"context"
	"errors"
	"math/big"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/kislikjeka/swapwallet/internal/platform/tracker"
)

var _ tracker.ConfirmationWaiter = (*Client)(nil)

// ChainID returns the configured chain id of a network
func (c *Client) ChainID(ctx context.Context, networkID string) (*big.Int, error) {
	cc, err := c.connect(ctx, networkID)
	if err != nil {
		return nil, err
	}
	return big.NewInt(cc.network.ChainID), nil
}

// PendingNonce returns the next nonce for address including pending transactions
func (c *Client) PendingNonce(ctx context.Context, networkID string, address common.Address) (uint64, error) {
	cc, err := c.client(ctx, networkID)
	if err != nil {
		return 0, err
	}

	nonce, err := cc.eth.PendingNonceAt(ctx, address)
	if err != nil {
		return 0, wrapError(networkID, "eth_getTransactionCount", err, false)
	}
	return nonce, nil
}

// SendTransaction broadcasts a signed transaction
func (c *Client) SendTransaction(ctx context.Context, networkID string, tx *types.Transaction) error {
	cc, err := c.client(ctx, networkID)
	if err != nil {
		return err
	}

	if err := cc.eth.SendTransaction(ctx, tx); err != nil {
		return wrapError(networkID, "eth_sendRawTransaction", err, false)
	}
	return nil
}

// WaitForReceipt polls for the receipt of hash with exponential backoff
// until it is mined or ctx ends.
func (c *Client) WaitForReceipt(ctx context.Context, networkID, hash string) (*tracker.Receipt, error) {
	txHash := common.HexToHash(hash)
	log := c.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"network": networkID,
		"hash":    hash,
	})

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.opts.PollInterval
	b.MaxInterval = maxPollInterval
	b.Multiplier = 1.5
	b.MaxElapsedTime = 0

	operation := func() (*types.Receipt, error) {
		cc, err := c.client(ctx, networkID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			return nil, err
		}

		receipt, err := cc.eth.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		if !errors.Is(err, ethereum.NotFound) {
			log.WithError(err).Warn("receipt poll failed")
		}
		return nil, err
	}

	receipt, err := backoff.RetryWithData[*types.Receipt](operation, backoff.WithContext(b, ctx))
	if err != nil {
		return nil, err
	}

	var block uint64
	if receipt.BlockNumber != nil {
		block = receipt.BlockNumber.Uint64()
	}
	log.Debug("receipt received", "status", receipt.Status, "block", block)

	return &tracker.Receipt{
		Hash:        receipt.TxHash.Hex(),
		Success:     receipt.Status == types.ReceiptStatusSuccessful,
		BlockNumber: block,
	}, nil
}
