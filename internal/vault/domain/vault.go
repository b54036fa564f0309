// Package domain defines the vault model, its binary file format and vault errors.
//
// A Vault holds a per-vault IV and a map of secret name to sealed Entry. The IV is
// generated once by New and never changes; it salts password derivation and the HKDF
// subkeys that seal entries, so rewriting it would orphan every entry.
package domain

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
)

// Entry is one sealed value: an AEAD nonce and the ciphertext with its tag appended.
type Entry struct {
	Nonce      []byte
	Ciphertext []byte
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	return Entry{
		Nonce:      slices.Clone(e.Nonce),
		Ciphertext: slices.Clone(e.Ciphertext),
	}
}

// Vault is the persisted container.
type Vault struct {
	// ID identifies the vault instance. Informational only.
	ID uuid.UUID
	// Algorithm is the AEAD used for every entry of this vault.
	Algorithm cryptoDomain.Algorithm
	// IV is set by New and FromFile. It is nil only for a zero Vault built by hand.
	IV *cryptoDomain.IV
	// Sentinel is a known value sealed with the vault keys. Opening it proves the keys.
	Sentinel Entry
	// Entries maps secret names to sealed values.
	Entries map[string]Entry
	// MAC authenticates the encoded vault body. Recomputed on every save.
	MAC []byte
}

// New creates an empty vault with a fresh random IV. Nothing is written to disk.
func New(alg cryptoDomain.Algorithm) (*Vault, error) {
	if _, err := cryptoDomain.ParseAlgorithm(string(alg)); err != nil {
		return nil, err
	}

	iv, err := cryptoDomain.NewIV()
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate vault id: %v", cryptoDomain.ErrRandomSource, err)
	}

	return &Vault{
		ID:        id,
		Algorithm: alg,
		IV:        &iv,
		Entries:   make(map[string]Entry),
	}, nil
}

// Names returns the entry names in ascending order.
func (v *Vault) Names() []string {
	names := make([]string, 0, len(v.Entries))
	for name := range v.Entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Info is a log-safe summary of a vault.
type Info struct {
	ID        uuid.UUID              `json:"id"`
	Path      string                 `json:"path"`
	Algorithm cryptoDomain.Algorithm `json:"algorithm"`
	IV        string                 `json:"iv"`
	KeySource string                 `json:"key_source"`
	Entries   int                    `json:"entries"`
}
