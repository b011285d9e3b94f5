// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"encoding/hex"
	"fmt"
)

// Valid hex lengths for SHA-1 and SHA-256 object IDs.
const (
	sha1HexLength   = 40
	sha256HexLength = 64
)

// Hash is a Git object ID in hex form. Hashes are comparable with == and
// usable as map keys; ZeroHash stands in for "no object".
type Hash struct {
	hex string
}

// ZeroHash is the all-zero SHA-1 object ID.
var ZeroHash = Hash{hex: "0000000000000000000000000000000000000000"}

func (h Hash) String() string {
	return h.hex
}

func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// NewHash validates h as a hex-encoded object ID of a supported length and
// wraps it.
func NewHash(h string) (Hash, error) {
	if len(h) != sha1HexLength && len(h) != sha256HexLength {
		return ZeroHash, fmt.Errorf("'%s' has invalid length for a Git ID", h)
	}

	if _, err := hex.DecodeString(h); err != nil {
		return ZeroHash, fmt.Errorf("'%s' is not hex encoded", h)
	}

	return Hash{hex: h}, nil
}
