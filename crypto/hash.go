// crypto/hash.go
package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// GenesisHash is the previous_hash of the first event in a chain.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// HashData computes the canonical hash H(x) = SHA256(canonical_json(x)).
func HashData(v any) (string, error) {
	b, err := CanonicalJSON(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// HashWithPrevious computes the chain hash
// Hc(data, prev) = SHA256(canonical_json(data) || prev) with prev as ASCII hex.
func HashWithPrevious(v any, previousHash string) (string, error) {
	b, err := CanonicalJSON(v)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write(b)
	h.Write([]byte(previousHash))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// CombineHashes computes the Merkle node hash Hn(l, r) = SHA256(l || r)
// over the ASCII hex concatenation of the children.
func CombineHashes(left, right string) string {
	sum := sha256.Sum256([]byte(left + right))
	return hex.EncodeToString(sum[:])
}

// HashString hashes a raw string to lowercase hex SHA-256.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// AnonymousID derives the pseudonymous identifier
// "anon_" || first12(hex(SHA256(identity || "||" || salt))).
// Neither input is ever persisted.
func AnonymousID(identity, salt string) string {
	return "anon_" + HashString(identity+"||"+salt)[:12]
}

// VerifyAnonymousID reports whether identity and salt derive anonymousID.
func VerifyAnonymousID(identity, salt, anonymousID string) bool {
	return AnonymousID(identity, salt) == anonymousID
}

// IsHexHash reports whether s is a 64-char lowercase hex string.
func IsHexHash(s string) bool {
	if len(s) != 64 {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f')
	}) < 0
}
