package payload_test

import (
	"encoding/hex"
	"math"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/swapwallet/internal/platform/network"
	"github.com/kislikjeka/swapwallet/internal/platform/payload"
	"github.com/kislikjeka/swapwallet/pkg/money"
)

var (
	usdc = network.Asset{
		Symbol:          "USDC",
		Decimals:        6,
		ContractAddress: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		Active:          true,
	}
	eth = network.Asset{Symbol: "ETH", Decimals: 18, Active: true}
)

const (
	depositAddress = "0x1111111111111111111111111111111111111111"
	ownerAddress   = "0x2222222222222222222222222222222222222222"
	otherSigner    = "0x3333333333333333333333333333333333333333"
)

// transfer(address,uint256) selector + two 32-byte words
const transferCallLength = 4 + 32 + 32

func TestCorrelationTag(t *testing.T) {
	tests := []struct {
		seq      uint64
		expected string
	}{
		{0, "00"},
		{1, "01"},
		{10, "0a"},
		{255, "ff"},
		{256, "0100"},
		{4095, "0fff"},
		{payload.PreviewSequenceNumber, "05f5e0ff"},
		{math.MaxUint32, "ffffffff"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, payload.CorrelationTag(tt.seq))
		})
	}
}

func TestCorrelationTag_EvenLength(t *testing.T) {
	for _, seq := range []uint64{0, 7, 15, 16, 17, 4096, 65535, 65536, 1 << 20, math.MaxUint32 - 1} {
		tag := payload.CorrelationTag(seq)
		assert.Zero(t, len(tag)%2, "tag %q for %d", tag, seq)

		raw, err := hex.DecodeString(tag)
		require.NoError(t, err)
		assert.Equal(t, seq, new(big.Int).SetBytes(raw).Uint64())
	}
}

func TestEncodeTransfer_TokenUntagged(t *testing.T) {
	p, err := payload.EncodeTransfer(usdc, decimal.RequireFromString("1.5"), depositAddress, ownerAddress, ownerAddress, 42)
	require.NoError(t, err)

	assert.False(t, p.Tagged)
	require.Len(t, p.Data, transferCallLength)
	assert.Equal(t, "a9059cbb", hex.EncodeToString(p.Data[:4]))
	assert.Equal(t, depositAddress[2:], hex.EncodeToString(p.Data[4+12:36]))
	assert.Equal(t, 0, new(big.Int).SetBytes(p.Data[36:68]).Cmp(big.NewInt(1_500_000)))
}

func TestEncodeTransfer_TokenTagged(t *testing.T) {
	p, err := payload.EncodeTransfer(usdc, decimal.RequireFromString("1.5"), depositAddress, otherSigner, ownerAddress, 256)
	require.NoError(t, err)

	assert.True(t, p.Tagged)
	require.Len(t, p.Data, transferCallLength+2)
	assert.Equal(t, "0100", hex.EncodeToString(p.Data[transferCallLength:]))
}

func TestEncodeTransfer_SignerComparisonIgnoresCase(t *testing.T) {
	upper := "0x" + "ABCDEFABCDEFABCDEFABCDEFABCDEFABCDEFABCD"
	lower := "0x" + "abcdefabcdefabcdefabcdefabcdefabcdefabcd"

	p, err := payload.EncodeTransfer(usdc, decimal.NewFromInt(1), depositAddress, upper, lower, 10)
	require.NoError(t, err)
	assert.False(t, p.Tagged)
}

func TestEncodeTransfer_Native(t *testing.T) {
	untagged, err := payload.EncodeTransfer(eth, decimal.RequireFromString("0.1"), depositAddress, ownerAddress, ownerAddress, 10)
	require.NoError(t, err)
	assert.Empty(t, untagged.Data)

	tagged, err := payload.EncodeTransfer(eth, decimal.RequireFromString("0.1"), depositAddress, otherSigner, ownerAddress, 10)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a}, tagged.Data)
}

func TestEncodeTransfer_TagOnlyAddsLength(t *testing.T) {
	for _, seq := range []uint64{1, 255, 256, 70000, payload.PreviewSequenceNumber} {
		base, err := payload.EncodeTransfer(usdc, decimal.NewFromInt(3), depositAddress, ownerAddress, ownerAddress, seq)
		require.NoError(t, err)
		tagged, err := payload.EncodeTransfer(usdc, decimal.NewFromInt(3), depositAddress, otherSigner, ownerAddress, seq)
		require.NoError(t, err)

		assert.Equal(t, transferCallLength, len(base.Data))
		assert.Equal(t, base.Data, tagged.Data[:len(base.Data)])
		assert.Equal(t, len(payload.CorrelationTag(seq))/2, len(tagged.Data)-len(base.Data))
	}
}

func TestEncodeTagged_ForcesTag(t *testing.T) {
	p, err := payload.EncodeTagged(usdc, decimal.NewFromInt(1), depositAddress, payload.PreviewSequenceNumber)
	require.NoError(t, err)
	assert.True(t, p.Tagged)
	assert.Len(t, p.Data, transferCallLength+4)
}

func TestEncodeTransfer_InvalidAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		cause  error
	}{
		{"negative", "-1", money.ErrNegativeAmount},
		{"excess precision", "1.0000001", money.ErrExcessPrecision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := payload.EncodeTransfer(usdc, decimal.RequireFromString(tt.amount), depositAddress, ownerAddress, ownerAddress, 1)
			assert.ErrorIs(t, err, payload.ErrInvalidAmount)
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestEncodeTransfer_InvalidDestination(t *testing.T) {
	_, err := payload.EncodeTransfer(usdc, decimal.NewFromInt(1), "not-an-address", ownerAddress, ownerAddress, 1)
	assert.ErrorIs(t, err, payload.ErrInvalidDestination)
}
