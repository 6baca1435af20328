package credentials

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	iterations = 4096
	keyLength  = 32
)

// Hasher derives deterministic password digests. Verification is plain
// digest equality: the same plaintext always yields the same digest,
// so stored credentials can be compared without a per-account salt.
type Hasher struct {
	pepper []byte
}

// NewHasher creates a Hasher keyed by the server-wide pepper.
func NewHasher(pepper string) *Hasher {
	return &Hasher{pepper: []byte(pepper)}
}

// Hash derives the digest for a plaintext password.
func (h *Hasher) Hash(password string) string {
	key := pbkdf2.Key([]byte(password), h.pepper, iterations, keyLength, sha256.New)
	return hex.EncodeToString(key)
}

// Verify reports whether the plaintext password matches the stored digest.
func (h *Hasher) Verify(password, digest string) bool {
	computed := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
