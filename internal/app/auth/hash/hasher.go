package hash

import (
	"github.com/alexedwards/argon2id"
)

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// Hasher derives and verifies argon2id password hashes. A fresh random salt
// is embedded in every hash, so hashing the same plaintext twice yields
// different strings.
type Hasher struct {
	pepper string
}

func New(pepper string) *Hasher {
	return &Hasher{pepper: pepper}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	return argon2id.CreateHash(plaintext+h.pepper, argonParams)
}

// Verify reports whether plaintext matches the encoded hash. Comparison is
// constant-time; a malformed hash verifies false instead of erroring.
func (h *Hasher) Verify(plaintext, encoded string) bool {
	ok, err := argon2id.ComparePasswordAndHash(plaintext+h.pepper, encoded)
	if err != nil {
		return false
	}
	return ok
}
