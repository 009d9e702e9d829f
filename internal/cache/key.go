// Package cache stores per-file lint results on disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a SHA-256 value, compatible with source.File.Hash.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports whether d was never set.
func (d Digest) IsZero() bool { return d == Digest{} }

// Key derives the entry key from the tool version, the resolved rule
// fingerprint and the file content hash.
func Key(version, fingerprint string, content Digest) Digest {
	h := sha256.New()
	_, _ = h.Write([]byte(version))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(fingerprint))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(content[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
