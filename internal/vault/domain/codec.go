package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	apperrors "github.com/allisson/securevault/internal/errors"
)

// Vault file layout, version 1. All integers are big-endian.
//
//	magic      "SVLT"                                   4
//	version    0x01                                     1
//	algorithm  0x01 aes-gcm | 0x02 chacha20-poly1305    1
//	vault id   uuid                                     16
//	iv                                                  IVSize
//	sentinel   entry
//	count      uint32
//	entries    count x (nameLen uint16, name, entry), names unique and ascending
//	mac        HMAC-SHA256 over every preceding byte    MACSize
//
//	entry := nonceLen uint8, nonce, ctLen uint32, ciphertext
const (
	Magic         = "SVLT"
	FormatVersion = 0x01
	MACSize       = sha256.Size

	headerSize   = len(Magic) + 1 + 1 + 16 + cryptoDomain.IVSize
	minEntrySize = 1 + 4
)

var algorithmCodes = map[cryptoDomain.Algorithm]byte{
	cryptoDomain.AESGCM:   0x01,
	cryptoDomain.ChaCha20: 0x02,
}

func algorithmFromCode(code byte) (cryptoDomain.Algorithm, bool) {
	for alg, c := range algorithmCodes {
		if c == code {
			return alg, true
		}
	}
	return "", false
}

func formatError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrVaultFormat, fmt.Sprintf(format, args...))
}

// Body encodes every field covered by the MAC, that is the whole file minus the trailer.
// Entries are written in ascending name order so equal vaults encode to equal bytes.
func Body(v *Vault) ([]byte, error) {
	if v.IV == nil {
		return nil, cryptoDomain.ErrMissingVaultIV
	}
	code, ok := algorithmCodes[v.Algorithm]
	if !ok {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}

	var buf bytes.Buffer
	buf.WriteString(Magic)
	buf.WriteByte(FormatVersion)
	buf.WriteByte(code)
	buf.Write(v.ID[:])
	buf.Write(v.IV[:])

	if err := writeEntry(&buf, v.Sentinel); err != nil {
		return nil, err
	}

	if uint64(len(v.Entries)) > math.MaxUint32 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "too many entries")
	}
	buf.Write(binary.BigEndian.AppendUint32(nil, uint32(len(v.Entries))))

	for _, name := range v.Names() {
		if name == "" || len(name) > math.MaxUint16 || !utf8.ValidString(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSecretName, name)
		}
		buf.Write(binary.BigEndian.AppendUint16(nil, uint16(len(name))))
		buf.WriteString(name)

		if err := writeEntry(&buf, v.Entries[name]); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func writeEntry(buf *bytes.Buffer, e Entry) error {
	if len(e.Nonce) > math.MaxUint8 || uint64(len(e.Ciphertext)) > math.MaxUint32 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "entry too large")
	}
	buf.WriteByte(byte(len(e.Nonce)))
	buf.Write(e.Nonce)
	buf.Write(binary.BigEndian.AppendUint32(nil, uint32(len(e.Ciphertext))))
	buf.Write(e.Ciphertext)
	return nil
}

// Marshal encodes the vault body followed by its MAC. v.MAC must already be computed.
func Marshal(v *Vault) ([]byte, error) {
	if len(v.MAC) != MACSize {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "vault mac is not computed")
	}

	body, err := Body(v)
	if err != nil {
		return nil, err
	}
	return append(body, v.MAC...), nil
}

// Unmarshal parses a vault file. Any structural problem is reported as ErrVaultFormat.
// The MAC is returned in v.MAC but not verified; verification needs the vault keys.
func Unmarshal(data []byte) (*Vault, error) {
	if len(data) < headerSize+minEntrySize+4+MACSize {
		return nil, formatError("file too short (%d bytes)", len(data))
	}

	d := &decoder{data: data}

	magic, _ := d.take(len(Magic), "magic")
	if string(magic) != Magic {
		return nil, formatError("bad magic %q", magic)
	}

	version, _ := d.readByte("version")
	if version != FormatVersion {
		return nil, formatError("unsupported version %d", version)
	}

	code, _ := d.readByte("algorithm")
	alg, ok := algorithmFromCode(code)
	if !ok {
		return nil, formatError("unknown algorithm 0x%02x", code)
	}

	v := &Vault{Algorithm: alg}

	id, _ := d.take(16, "vault id")
	v.ID = uuid.UUID(id)

	ivBytes, _ := d.take(cryptoDomain.IVSize, "iv")
	iv := cryptoDomain.IV(ivBytes)
	v.IV = &iv

	sentinel, err := d.entry("sentinel")
	if err != nil {
		return nil, err
	}
	v.Sentinel = sentinel

	count, err := d.readUint32("entry count")
	if err != nil {
		return nil, err
	}
	// Each entry needs at least a name length, one name byte and an empty entry.
	if uint64(count)*uint64(2+1+minEntrySize) > uint64(d.remaining()) {
		return nil, formatError("entry count %d exceeds file size", count)
	}

	v.Entries = make(map[string]Entry, count)
	prev := ""
	for i := range count {
		nameLen, err := d.readUint16("name length")
		if err != nil {
			return nil, err
		}
		nameBytes, err := d.take(int(nameLen), "name")
		if err != nil {
			return nil, err
		}
		name := string(nameBytes)
		if name == "" || !utf8.ValidString(name) {
			return nil, formatError("invalid name at entry %d", i)
		}
		if i > 0 && name <= prev {
			return nil, formatError("entry %q is duplicated or out of order", name)
		}
		prev = name

		entry, err := d.entry(name)
		if err != nil {
			return nil, err
		}
		v.Entries[name] = entry
	}

	mac, err := d.take(MACSize, "mac")
	if err != nil {
		return nil, err
	}
	v.MAC = bytes.Clone(mac)

	if d.remaining() != 0 {
		return nil, formatError("%d trailing bytes", d.remaining())
	}

	return v, nil
}

type decoder struct {
	data []byte
	off  int
}

func (d *decoder) remaining() int {
	return len(d.data) - d.off
}

func (d *decoder) take(n int, field string) ([]byte, error) {
	if n > d.remaining() {
		return nil, formatError("truncated %s", field)
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *decoder) readByte(field string) (byte, error) {
	b, err := d.take(1, field)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) readUint16(field string) (uint16, error) {
	b, err := d.take(2, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *decoder) readUint32(field string) (uint32, error) {
	b, err := d.take(4, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *decoder) entry(field string) (Entry, error) {
	nonceLen, err := d.readByte(field + " nonce length")
	if err != nil {
		return Entry{}, err
	}
	nonce, err := d.take(int(nonceLen), field+" nonce")
	if err != nil {
		return Entry{}, err
	}
	ctLen, err := d.readUint32(field + " ciphertext length")
	if err != nil {
		return Entry{}, err
	}
	if uint64(ctLen) > uint64(d.remaining()) {
		return Entry{}, formatError("truncated %s ciphertext", field)
	}
	ciphertext, _ := d.take(int(ctLen), field+" ciphertext")

	return Entry{Nonce: bytes.Clone(nonce), Ciphertext: bytes.Clone(ciphertext)}, nil
}
