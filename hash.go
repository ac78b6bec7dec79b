package familyone

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the lowercase hex SHA-256 of b. It is the content address of assets.
func Digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// DigestString hashes the UTF-8 encoding of s.
func DigestString(s string) string {
	return Digest([]byte(s))
}
