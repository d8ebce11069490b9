// Package hash implements content hashing used for module-cache keys.
package hash

import "crypto/sha256"

// Hash is a 32-byte content hash.
type Hash [32]byte

// String computes the content hash of a string.
func String(s string) Hash { return Bytes([]byte(s)) }

// Bytes computes the content hash of a byte slice.
func Bytes(data []byte) Hash { return sha256.Sum256(data) }

// Add combines h and other sequentially (order-dependent), as when
// appending a new logical piece to an existing hash.
func (h Hash) Add(other Hash) Hash {
	buf := make([]byte, 0, len(h)+len(other))
	buf = append(buf, h[:]...)
	buf = append(buf, other[:]...)
	return sha256.Sum256(buf)
}

// Merge combines h and other order-independently (h.Merge(x) ==
// x.Merge(h)), as when combining the hashes of an object's unordered
// fields.
func (h Hash) Merge(other Hash) Hash {
	var combined Hash
	for i := range h {
		combined[i] = h[i] ^ other[i]
	}
	return combined
}
