// Package trace records the ambient inputs a program read as a canonical,
// hashable access trace.
package trace

import (
	"crypto/sha256"
	"encoding/hex"
)

// ComputeTraceHash computes the deterministic hash of a canonical trace encoding.
//
// The input must already be canonical (AccessTrace.CanonicalJSON()), so the
// hash covers the sorted, de-duplicated events rather than the order in which
// reads happened. Empty input hashes to "".
//
// Hash function: sha256 over the canonical bytes, hex-encoded.
func ComputeTraceHash(canonicalEncoding []byte) string {
	if len(canonicalEncoding) == 0 {
		return ""
	}
	sum := sha256.Sum256(canonicalEncoding)
	return hex.EncodeToString(sum[:])
}
