// crypto/rand.go
package crypto

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex returns n random bytes as 2n lowercase hex chars.
func RandomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b)
}

// NewRecordID generates the 16-hex-char identifier used for ledger records.
func NewRecordID() string {
	return RandomHex(8)
}
