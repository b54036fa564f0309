package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// IV is the per-vault initialization vector. It is generated exactly once, when the
// vault is created, and is stored in the vault header.
type IV [IVSize]byte

// NewIV draws a fresh IV from the system CSPRNG.
func NewIV() (IV, error) {
	var iv IV
	if _, err := rand.Read(iv[:]); err != nil {
		return IV{}, fmt.Errorf("%w: %v", ErrRandomSource, err)
	}
	return iv, nil
}

// String returns the IV in hex, suitable for diagnostics. The IV is not secret.
func (iv IV) String() string {
	return hex.EncodeToString(iv[:])
}
