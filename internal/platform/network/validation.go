package network

import (
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// ValidateAddress checks an EVM address and returns its EIP-55 form.
// Mixed-case input must carry a correct checksum; all-lower and all-upper
// input is accepted as unchecksummed.
func ValidateAddress(address string) (string, error) {
	if address == "" {
		return "", ErrMissingAddress
	}
	if !addressPattern.MatchString(address) {
		return "", ErrInvalidAddress
	}

	checksummed := ChecksumAddress(address)
	body := address[2:]
	if body != strings.ToLower(body) && body != strings.ToUpper(body) && address != checksummed {
		return "", ErrInvalidChecksum
	}
	return checksummed, nil
}

// ChecksumAddress converts a well-formed address to EIP-55 mixed case.
// https://eips.ethereum.org/EIPS/eip-55
func ChecksumAddress(address string) string {
	lower := strings.ToLower(strings.TrimPrefix(address, "0x"))

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := h.Sum(nil)

	out := []byte(lower)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			out[i] = c - 32
		}
	}
	return "0x" + string(out)
}

// AddressesEqual compares two EVM addresses case-insensitively, prefix included
func AddressesEqual(a, b string) bool {
	return strings.TrimPrefix(strings.ToLower(a), "0x") == strings.TrimPrefix(strings.ToLower(b), "0x")
}
