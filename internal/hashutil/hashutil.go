// Package hashutil computes the content fingerprints used to detect
// changed files and chunks throughout the store and indexer.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// Sum returns the SHA-256 fingerprint of b.
func Sum(b []byte) [32]byte {
	return sha256.Sum256(b)
}

// SumReader streams r through SHA-256 without buffering the whole
// input, for files too large to comfortably hold twice in memory.
func SumReader(r io.Reader) ([32]byte, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return [32]byte{}, err
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// Hex renders a fingerprint as a stable lowercase hex string.
func Hex(sum [32]byte) string {
	return hex.EncodeToString(sum[:])
}

// Equal reports whether two fingerprints match.
func Equal(a, b [32]byte) bool {
	return a == b
}
