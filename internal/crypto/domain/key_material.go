package domain

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"

	apperrors "github.com/allisson/securevault/internal/errors"
	"github.com/allisson/securevault/internal/fsutil"
)

// KeyMaterial is the resolved set of raw symmetric keys protecting a vault: KeyCount
// fixed-length slots (slot 0 encryption, slot 1 authentication).
//
// KeyMaterial is built once per SecretsManager and never mutated afterwards except by
// Zero when the owner is closed. Accessors return copies.
type KeyMaterial struct {
	keys [KeyCount][KeyLength]byte
}

// ImportKeyBytes builds KeyMaterial from a flat buffer of exactly KeyMaterialSize bytes.
// Any other length fails with ErrInvalidKeyfile.
func ImportKeyBytes(b []byte) (*KeyMaterial, error) {
	if len(b) != KeyMaterialSize {
		return nil, fmt.Errorf(
			"%w: expected %d bytes, got %d",
			ErrInvalidKeyfile,
			KeyMaterialSize,
			len(b),
		)
	}

	km := &KeyMaterial{}
	for slot := range KeyCount {
		copy(km.keys[slot][:], b[slot*KeyLength:(slot+1)*KeyLength])
	}
	return km, nil
}

// ImportKeys streams exactly KeyMaterialSize bytes from r. A short stream or a stream
// carrying extra bytes fails with ErrInvalidKeyfile; read failures are ErrIO.
func ImportKeys(r io.Reader) (*KeyMaterial, error) {
	buf := make([]byte, KeyMaterialSize)
	defer Zero(buf)

	n, err := io.ReadFull(r, buf)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf(
				"%w: expected %d bytes, got %d",
				ErrInvalidKeyfile,
				KeyMaterialSize,
				n,
			)
		}
		return nil, apperrors.IO(err, "failed to read key material")
	}

	var extra [1]byte
	if m, _ := r.Read(extra[:]); m > 0 {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrInvalidKeyfile, KeyMaterialSize)
	}

	return ImportKeyBytes(buf)
}

// Bytes returns the concatenated key slots in the key file layout. The caller owns the
// returned slice and should Zero it after use.
func (k *KeyMaterial) Bytes() []byte {
	out := make([]byte, 0, KeyMaterialSize)
	for slot := range KeyCount {
		out = append(out, k.keys[slot][:]...)
	}
	return out
}

// Clone returns an independent copy of k. Zeroing one never affects the other.
func (k *KeyMaterial) Clone() *KeyMaterial {
	if k == nil {
		return nil
	}
	clone := &KeyMaterial{}
	clone.keys = k.keys
	return clone
}

// EncryptionKey returns a copy of the encryption key slot.
func (k *KeyMaterial) EncryptionKey() []byte {
	return k.slot(encryptionSlot)
}

// AuthenticationKey returns a copy of the authentication key slot.
func (k *KeyMaterial) AuthenticationKey() []byte {
	return k.slot(authenticationSlot)
}

func (k *KeyMaterial) slot(i int) []byte {
	out := make([]byte, KeyLength)
	copy(out, k.keys[i][:])
	return out
}

// Equal compares two KeyMaterial values in constant time.
func (k *KeyMaterial) Equal(other *KeyMaterial) bool {
	if k == nil || other == nil {
		return k == other
	}
	a, b := k.Bytes(), other.Bytes()
	defer Zero(a)
	defer Zero(b)
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Export writes the raw key bytes to path in the layout ImportKeys expects. The file is
// written atomically and is readable by the owner only.
func (k *KeyMaterial) Export(path string) error {
	data := k.Bytes()
	defer Zero(data)

	if err := fsutil.WriteFileAtomic(path, data, fsutil.FilePermissions); err != nil {
		return fmt.Errorf("failed to export keyfile: %w", err)
	}
	return nil
}

// Zero wipes every key slot.
func (k *KeyMaterial) Zero() {
	if k == nil {
		return
	}
	for slot := range KeyCount {
		Zero(k.keys[slot][:])
	}
}
