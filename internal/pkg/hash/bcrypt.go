package hash

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes a secret and checks a candidate against a stored digest.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(hashed, plaintext string) bool
}

// Bcrypt implements Hasher. Pepper is appended to the plaintext before
// hashing and verifying.
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt returns a bcrypt hasher. A cost outside bcrypt's range falls back
// to bcrypt.DefaultCost.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &Bcrypt{cost: cost, pepper: pepper}
}

func (h *Bcrypt) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext+h.pepper), h.cost)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext+h.pepper)) == nil
}
