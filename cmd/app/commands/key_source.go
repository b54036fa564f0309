package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/allisson/securevault/internal/config"
	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	apperrors "github.com/allisson/securevault/internal/errors"
)

// PromptValue is the --password value that asks for the password interactively.
const PromptValue = "-"

// KeyOptions collects the key source flags of a command.
type KeyOptions struct {
	Keyfile        string
	Password       string
	Generate       bool
	WrappedKeyfile string
	KMSKeyURI      string
}

// hasSource reports whether any key source flag was given.
func (o KeyOptions) hasSource() bool {
	return o.Keyfile != "" || o.Password != "" || o.Generate || o.WrappedKeyfile != ""
}

// WithConfigDefaults fills the options from cfg. Key sources from the environment are
// only used when no key source flag was given.
func (o KeyOptions) WithConfigDefaults(cfg *config.Config) KeyOptions {
	if o.KMSKeyURI == "" {
		o.KMSKeyURI = cfg.KMSKeyURI
	}
	if o.hasSource() {
		return o
	}
	o.Keyfile = cfg.Keyfile
	if o.Keyfile == "" {
		o.Password = cfg.Password
	}
	return o
}

// PasswordPrompter asks the user for a password.
type PasswordPrompter interface {
	Password(prompt string) (string, error)
}

// TerminalPrompter reads passwords without echo when in is a terminal and one line at
// a time otherwise.
type TerminalPrompter struct {
	file   *os.File
	reader *bufio.Reader
	out    io.Writer
}

// NewTerminalPrompter creates a prompter reading from in and writing prompts to out.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	p := &TerminalPrompter{reader: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.file = f
	}
	return p
}

// Reader returns the input stream shared with the prompter. Commands that read data
// from stdin must use it so that no buffered input is lost.
func (p *TerminalPrompter) Reader() io.Reader {
	return p.reader
}

// Password prints prompt and reads a password.
func (p *TerminalPrompter) Password(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.out, prompt)

	if p.file != nil {
		// #nosec G115 -- file descriptors fit in int
		password, err := term.ReadPassword(int(p.file.Fd()))
		_, _ = fmt.Fprintln(p.out)
		if err != nil {
			return "", apperrors.IO(err, "failed to read password")
		}
		return string(password), nil
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", apperrors.IO(err, "failed to read password")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ResolveKeySource picks the key source for an existing vault. A wrapped key file wins
// over a key file, which wins over a password. With no source at all, or with the
// password "-", the password is prompted for.
func ResolveKeySource(opts KeyOptions, prompter PasswordPrompter) (cryptoDomain.KeySource, error) {
	if opts.Generate {
		return nil, fmt.Errorf("%w: --generate is only valid for create", apperrors.ErrInvalidInput)
	}
	if err := checkSingleSource(opts); err != nil {
		return nil, err
	}

	switch {
	case opts.WrappedKeyfile != "":
		if opts.KMSKeyURI == "" {
			return nil, fmt.Errorf("%w: --wrapped-keyfile requires --kms-key-uri", apperrors.ErrInvalidInput)
		}
		return cryptoDomain.WrappedFileKeySource{Path: opts.WrappedKeyfile, KeeperURI: opts.KMSKeyURI}, nil
	case opts.Keyfile != "":
		return cryptoDomain.FileKeySource{Path: opts.Keyfile}, nil
	case opts.Password != "" && opts.Password != PromptValue:
		return cryptoDomain.PasswordKeySource{Password: opts.Password}, nil
	default:
		password, err := prompter.Password("Vault password: ")
		if err != nil {
			return nil, err
		}
		return cryptoDomain.PasswordKeySource{Password: password}, nil
	}
}

// CreatePlan is the key source for a new vault plus where its keys are exported.
type CreatePlan struct {
	Source          cryptoDomain.KeySource
	ExportKeyfile   string
	ExportWrapped   string
	ExportKMSKeyURI string
}

// ResolveCreateSource picks the key source for a new vault. With --generate the
// --keyfile and --wrapped-keyfile flags name where the generated keys are written and
// at least one of them is required. A prompted password is asked for twice.
func ResolveCreateSource(opts KeyOptions, prompter PasswordPrompter) (*CreatePlan, error) {
	if opts.Generate {
		if opts.Password != "" {
			return nil, fmt.Errorf("%w: --generate and --password are mutually exclusive", apperrors.ErrInvalidInput)
		}
		if opts.Keyfile == "" && opts.WrappedKeyfile == "" {
			return nil, fmt.Errorf(
				"%w: generated keys must be exported with --keyfile or --wrapped-keyfile",
				apperrors.ErrInvalidInput,
			)
		}
		if opts.WrappedKeyfile != "" && opts.KMSKeyURI == "" {
			return nil, fmt.Errorf("%w: --wrapped-keyfile requires --kms-key-uri", apperrors.ErrInvalidInput)
		}
		return &CreatePlan{
			Source:          cryptoDomain.GenerateKeySource{},
			ExportKeyfile:   opts.Keyfile,
			ExportWrapped:   opts.WrappedKeyfile,
			ExportKMSKeyURI: opts.KMSKeyURI,
		}, nil
	}

	if opts.hasSource() && opts.Password != PromptValue {
		source, err := ResolveKeySource(opts, prompter)
		if err != nil {
			return nil, err
		}
		return &CreatePlan{Source: source}, nil
	}
	if err := checkSingleSource(opts); err != nil {
		return nil, err
	}

	password, err := prompter.Password("New vault password: ")
	if err != nil {
		return nil, err
	}
	confirmation, err := prompter.Password("Confirm vault password: ")
	if err != nil {
		return nil, err
	}
	if password != confirmation {
		return nil, fmt.Errorf("%w: passwords do not match", apperrors.ErrInvalidInput)
	}
	return &CreatePlan{Source: cryptoDomain.PasswordKeySource{Password: password}}, nil
}

func checkSingleSource(opts KeyOptions) error {
	count := 0
	for _, set := range []bool{opts.Keyfile != "", opts.Password != "", opts.WrappedKeyfile != ""} {
		if set {
			count++
		}
	}
	if count > 1 {
		return fmt.Errorf(
			"%w: --keyfile, --password and --wrapped-keyfile are mutually exclusive",
			apperrors.ErrInvalidInput,
		)
	}
	return nil
}
