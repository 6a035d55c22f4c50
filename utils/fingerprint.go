package utils

import "hash/fnv"

// FingerprintString returns the 64-bit FNV-1a hash of s.
func FingerprintString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// ShortFingerprint is FingerprintString folded to 32 bits, for log output.
func ShortFingerprint(s string) uint32 {
	f := FingerprintString(s)
	return uint32(f>>32) ^ uint32(f)
}
