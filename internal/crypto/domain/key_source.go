package domain

// KeySource describes where a SecretsManager obtains its KeyMaterial. It is a closed
// set of variants; only the types in this file implement it.
type KeySource interface {
	keySource()
}

// FileKeySource loads raw key material from a key file on disk.
type FileKeySource struct {
	Path string
}

// PasswordKeySource derives key material from a password salted with the vault IV.
type PasswordKeySource struct {
	Password string
}

// GenerateKeySource draws fresh key material from the system CSPRNG.
type GenerateKeySource struct{}

// WrappedFileKeySource loads a key file that was encrypted by a KMS keeper
// (gocloud.dev/secrets URI such as "base64key://..." or "hashivault://...").
type WrappedFileKeySource struct {
	Path      string
	KeeperURI string
}

func (FileKeySource) keySource()        {}
func (PasswordKeySource) keySource()    {}
func (GenerateKeySource) keySource()    {}
func (WrappedFileKeySource) keySource() {}

// DescribeKeySource returns a log-safe name for the source variant. Passwords and
// keeper URIs are never included.
func DescribeKeySource(src KeySource) string {
	switch src.(type) {
	case FileKeySource, *FileKeySource:
		return "file"
	case PasswordKeySource, *PasswordKeySource:
		return "password"
	case GenerateKeySource, *GenerateKeySource:
		return "generate"
	case WrappedFileKeySource, *WrappedFileKeySource:
		return "wrapped-file"
	default:
		return "unknown"
	}
}
