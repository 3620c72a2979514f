package knowledge

import (
	"crypto/sha256"
	"encoding/hex"
)

// AddressOf returns the content address of a fragment: the hex SHA-256 of its exact bytes.
func AddressOf(fragment string) string {
	sum := sha256.Sum256([]byte(fragment))
	return hex.EncodeToString(sum[:])
}
