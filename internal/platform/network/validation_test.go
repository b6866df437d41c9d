package network_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kislikjeka/swapwallet/internal/platform/network"
)

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		err      error
	}{
		{"checksummed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", nil},
		{"lowercase", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", nil},
		{"uppercase body", "0xFB6916095CA1DF60BB79CE92CE3EA74C37C5D359", "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359", nil},
		{"bad checksum", "0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "", network.ErrInvalidChecksum},
		{"too short", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeA", "", network.ErrInvalidAddress},
		{"no prefix", "5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "", network.ErrInvalidAddress},
		{"empty", "", "", network.ErrMissingAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := network.ValidateAddress(tt.input)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAddressesEqual(t *testing.T) {
	assert.True(t, network.AddressesEqual(
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
	))
	assert.False(t, network.AddressesEqual(
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
	))
	assert.True(t, network.AddressesEqual(
		"0X5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED",
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	))
}
