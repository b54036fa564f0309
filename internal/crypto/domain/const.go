package domain

// Fixed sizes of the key file and vault header. Changing any of them changes the
// on-disk formats.
const (
	// KeyCount is the number of independent keys held in KeyMaterial.
	// Slot 0 is the encryption key, slot 1 the authentication key.
	KeyCount = 2

	// KeyLength is the length in bytes of each key slot.
	KeyLength = 16

	// KeyMaterialSize is the exact size of a key file and of every key buffer accepted
	// by ImportKeys.
	KeyMaterialSize = KeyCount * KeyLength

	// IVSize is the size of the per-vault IV. The IV salts password derivation and the
	// HKDF subkeys; it is never used as an AEAD nonce.
	IVSize = 16

	// PBKDF2Rounds is the fixed PBKDF2-HMAC-SHA256 iteration count for password keys.
	PBKDF2Rounds = 256000

	// EntryKeySize is the size of the AEAD and MAC subkeys derived from KeyMaterial.
	EntryKeySize = 32
)

// Key slot indexes inside KeyMaterial.
const (
	encryptionSlot     = 0
	authenticationSlot = 1
)

// Algorithm represents the AEAD algorithm used to seal vault entries.
//
// Both algorithms provide authenticated encryption with a 256-bit key, a 12-byte nonce
// and a 16-byte tag appended to the ciphertext.
type Algorithm string

const (
	// AESGCM is AES-256-GCM. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305. Preferred where AES has no hardware support.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts a user supplied algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
