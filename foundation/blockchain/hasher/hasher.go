// Package hasher produces the content fingerprints used to link blocks
// together and to detect tampering.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/ardanlabs/ledger/foundation/blockchain/canonical"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// Size is the length of a fingerprint in hex characters.
const Size = 2 * sha256.Size

// Hash returns the sha256 fingerprint of the canonical encoding of the value
// as lowercase hex. A value that cannot be encoded hashes to ZeroHash.
func Hash(value any) string {
	data, err := canonical.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// IsHash reports whether the string has the shape of a fingerprint.
func IsHash(s string) bool {
	if len(s) != Size {
		return false
	}

	for _, c := range []byte(s) {
		if !('0' <= c && c <= '9') && !('a' <= c && c <= 'f') {
			return false
		}
	}

	return true
}
