// Package cryptox derives and verifies salted password digests.
package cryptox

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the length of a generated salt, in bytes.
	SaltSize = 16
	// DigestSize is the length of a derived digest, in bytes.
	DigestSize = 64
	// DefaultIterations is the PBKDF2 work factor used when none is configured.
	DefaultIterations = 1000
)

// Hasher derives PBKDF2-HMAC-SHA512 digests with a fixed iteration count.
// The zero value uses DefaultIterations.
type Hasher struct {
	Iterations int
}

// WorkFactor is the iteration count h actually uses. Store it next to the
// digest and verify with Hasher{Iterations: stored}.
func (h Hasher) WorkFactor() int {
	return h.iterations()
}

func (h Hasher) iterations() int {
	if h.Iterations < DefaultIterations {
		return DefaultIterations
	}
	return h.Iterations
}

// HashPassword derives a digest for password. When salt is nil a fresh random
// salt of SaltSize bytes is generated. The result is deterministic for a fixed
// (password, salt) pair.
func (h Hasher) HashPassword(password []byte, salt []byte) (digest, usedSalt []byte, err error) {
	if salt == nil {
		salt = make([]byte, SaltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, nil, fmt.Errorf("generate salt: %w", err)
		}
	}
	return pbkdf2.Key(password, salt, h.iterations(), DigestSize, sha512.New), salt, nil
}

// VerifyPassword recomputes the digest for password and compares it with the
// stored one in constant time.
func (h Hasher) VerifyPassword(password, digest, salt []byte) bool {
	if len(salt) == 0 || len(digest) != DigestSize {
		return false
	}
	candidate, _, err := h.HashPassword(password, salt)
	if err != nil {
		return false
	}
	defer common.WipeByteArray(candidate)
	return subtle.ConstantTimeCompare(candidate, digest) == 1
}

// HashPassword is Hasher{}.HashPassword.
func HashPassword(password, salt []byte) (digest, usedSalt []byte, err error) {
	return Hasher{}.HashPassword(password, salt)
}

// VerifyPassword is Hasher{}.VerifyPassword.
func VerifyPassword(password, digest, salt []byte) bool {
	return Hasher{}.VerifyPassword(password, digest, salt)
}
