package domain

import "context"

// KMSKeeper is the subset of *secrets.Keeper (gocloud.dev/secrets) used to wrap and
// unwrap exported key files.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
