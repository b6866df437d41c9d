package network

import "errors"

var (
	ErrNetworkNotFound = errors.New("network not found")
	ErrAssetNotFound   = errors.New("asset not found on network")
	ErrAssetInactive   = errors.New("asset is inactive on network")

	// Address validation errors
	ErrMissingAddress  = errors.New("address is required")
	ErrInvalidAddress  = errors.New("invalid EVM address format (must be 0x followed by 40 hex characters)")
	ErrInvalidChecksum = errors.New("invalid EVM address checksum")
)
