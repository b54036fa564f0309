package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
)

// HKDF info strings. Versioned so a future format can derive unrelated subkeys from the
// same KeyMaterial.
const (
	entryKeyInfo = "securevault-entry-v1"
	macKeyInfo   = "securevault-mac-v1"
)

// entrySealer seals entries with an AEAD keyed by an HKDF subkey of the encryption key
// and authenticates the vault body with an HMAC keyed by an HKDF subkey of the
// authentication key. Both derivations are salted with the vault IV.
type entrySealer struct {
	aead   AEAD
	macKey []byte
}

// SealerFactoryService implements SealerFactory on top of an AEADManager.
type SealerFactoryService struct {
	aeadManager AEADManager
}

// NewSealerFactory creates a SealerFactoryService.
func NewSealerFactory(aeadManager AEADManager) *SealerFactoryService {
	return &SealerFactoryService{aeadManager: aeadManager}
}

// NewSealer derives the entry and MAC subkeys for one vault.
func (f *SealerFactoryService) NewSealer(
	keys *cryptoDomain.KeyMaterial,
	iv cryptoDomain.IV,
	alg cryptoDomain.Algorithm,
) (EntrySealer, error) {
	if keys == nil {
		return nil, cryptoDomain.ErrInvalidKeyfile
	}

	encKey := keys.EncryptionKey()
	authKey := keys.AuthenticationKey()
	defer cryptoDomain.Zero(encKey, authKey)

	entryKey, err := deriveSubkey(encKey, iv[:], entryKeyInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to derive entry key: %w", err)
	}
	defer cryptoDomain.Zero(entryKey)

	macKey, err := deriveSubkey(authKey, iv[:], macKeyInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to derive mac key: %w", err)
	}

	aead, err := f.aeadManager.CreateCipher(entryKey, alg)
	if err != nil {
		cryptoDomain.Zero(macKey)
		return nil, err
	}

	return &entrySealer{aead: aead, macKey: macKey}, nil
}

// deriveSubkey expands secret into an EntryKeySize key with HKDF-SHA256.
func deriveSubkey(secret, salt []byte, info string) ([]byte, error) {
	reader := hkdf.New(sha256.New, secret, salt, []byte(info))

	key := make([]byte, cryptoDomain.EntryKeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

func (s *entrySealer) Seal(plaintext, aad []byte) ([]byte, []byte, error) {
	return s.aead.Encrypt(plaintext, aad)
}

func (s *entrySealer) Open(ciphertext, nonce, aad []byte) ([]byte, error) {
	plaintext, err := s.aead.Decrypt(ciphertext, nonce, aad)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

func (s *entrySealer) MAC(body []byte) []byte {
	mac := hmac.New(sha256.New, s.macKey)
	mac.Write(body)
	return mac.Sum(nil)
}

func (s *entrySealer) VerifyMAC(body, tag []byte) bool {
	return hmac.Equal(s.MAC(body), tag)
}

func (s *entrySealer) Close() {
	cryptoDomain.Zero(s.macKey)
}
