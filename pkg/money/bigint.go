package money

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// BigInt is a wrapper around big.Int for JSON payloads. It marshals as a
// decimal string and accepts decimal strings, 0x-prefixed hex strings,
// bare JSON numbers and null.
type BigInt struct {
	*big.Int
}

// NewBigInt creates a new BigInt from a big.Int
func NewBigInt(i *big.Int) *BigInt {
	if i == nil {
		return nil
	}
	return &BigInt{Int: i}
}

// NewBigIntFromUint64 creates a new BigInt from a uint64
func NewBigIntFromUint64(i uint64) *BigInt {
	return &BigInt{Int: new(big.Int).SetUint64(i)}
}

// ParseBigInt parses a decimal or 0x-prefixed hex string
func ParseBigInt(s string) (*big.Int, bool) {
	i := new(big.Int)
	if hex, ok := strings.CutPrefix(s, "0x"); ok {
		if hex == "" {
			return i, true
		}
		_, ok := i.SetString(hex, 16)
		return i, ok
	}
	_, ok := i.SetString(s, 10)
	return i, ok
}

// UnmarshalJSON implements json.Unmarshaler
func (b *BigInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		b.Int = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		i, ok := ParseBigInt(s)
		if !ok {
			return fmt.Errorf("invalid BigInt string: %s", s)
		}
		b.Int = i
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		i, ok := new(big.Int).SetString(n.String(), 10)
		if !ok {
			return fmt.Errorf("invalid BigInt number: %s", n.String())
		}
		b.Int = i
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into BigInt", string(data))
}

// MarshalJSON implements json.Marshaler
func (b *BigInt) MarshalJSON() ([]byte, error) {
	if b == nil || b.Int == nil {
		return []byte("null"), nil
	}
	return json.Marshal(b.Int.String())
}

// ToBigInt returns the underlying *big.Int
func (b *BigInt) ToBigInt() *big.Int {
	if b == nil {
		return nil
	}
	return b.Int
}

// IsNil returns true if the BigInt is nil
func (b *BigInt) IsNil() bool {
	return b == nil || b.Int == nil
}
