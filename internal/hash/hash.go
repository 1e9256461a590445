// Package hash wraps xxHash64 for fast channel/channel-group name fingerprinting,
// reused verbatim in spirit from github.com/arloliu/mebo/internal/hash.
package hash

import "github.com/cespare/xxhash/v2"

// Name computes the xxHash64 of the given string, used by the index for
// O(1)-ish name-collision detection.
func Name(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Bytes computes the xxHash64 of the given byte slice, used as the
// lightweight header fingerprint for data-block locations (see
// index.Location.Fingerprint).
func Bytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}
