package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/securevault/cmd/app/commands"
	"github.com/allisson/securevault/internal/app"
	"github.com/allisson/securevault/internal/config"
	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	vaultUsecase "github.com/allisson/securevault/internal/vault/usecase"
)

// stdio is the process standard streams; tests replace it.
var stdio = commands.DefaultIO()

func getCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create",
			Usage: "Create a new vault",
			Flags: append(vaultFlags(),
				&cli.BoolFlag{
					Name:  "generate",
					Usage: "Generate random keys and write them to --keyfile and/or --wrapped-keyfile",
				},
				&cli.StringFlag{
					Name:    "algorithm",
					Aliases: []string{"alg"},
					Usage:   "Encryption algorithm (aes-gcm or chacha20-poly1305)",
				},
			),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				env, err := newEnvironment(cmd)
				if err != nil {
					return err
				}
				defer env.close()

				plan, err := commands.ResolveCreateSource(env.keyOptions, env.prompter)
				if err != nil {
					return err
				}

				algorithm := env.cfg.Algorithm
				if cmd.IsSet("algorithm") {
					algorithm = cmd.String("algorithm")
				}

				return commands.RunCreate(
					ctx,
					env.opener,
					env.locker,
					env.logger,
					stdio.Writer,
					env.cfg.VaultPath,
					algorithm,
					plan,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "info",
			Usage: "Show the vault header",
			Flags: vaultFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withSource(cmd, func(env *environment, source cryptoDomain.KeySource) error {
					return commands.RunInfo(
						ctx,
						env.opener,
						stdio.Writer,
						env.cfg.VaultPath,
						source,
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:      "set",
			Usage:     "Store a secret; the value is read from stdin unless --value is given",
			ArgsUsage: "NAME",
			Flags: append(vaultFlags(),
				&cli.StringFlag{
					Name:  "value",
					Usage: "Secret value (visible in the process list; prefer stdin)",
				},
			),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withSource(cmd, func(env *environment, source cryptoDomain.KeySource) error {
					var value []byte
					if cmd.IsSet("value") {
						value = []byte(cmd.String("value"))
					}
					return commands.RunSet(
						ctx,
						env.opener,
						env.locker,
						env.logger,
						env.prompter.Reader(),
						env.cfg.VaultPath,
						source,
						cmd.Args().First(),
						value,
					)
				})
			},
		},
		{
			Name:      "get",
			Usage:     "Print a secret",
			ArgsUsage: "NAME",
			Flags:     vaultFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withSource(cmd, func(env *environment, source cryptoDomain.KeySource) error {
					return commands.RunGet(
						ctx,
						env.opener,
						stdio.Writer,
						env.cfg.VaultPath,
						source,
						cmd.Args().First(),
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:      "delete",
			Usage:     "Delete a secret",
			ArgsUsage: "NAME",
			Flags:     vaultFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withSource(cmd, func(env *environment, source cryptoDomain.KeySource) error {
					return commands.RunDelete(
						ctx,
						env.opener,
						env.locker,
						env.logger,
						env.cfg.VaultPath,
						source,
						cmd.Args().First(),
					)
				})
			},
		},
		{
			Name:  "list",
			Usage: "List secret names",
			Flags: vaultFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withSource(cmd, func(env *environment, source cryptoDomain.KeySource) error {
					return commands.RunList(
						ctx,
						env.opener,
						stdio.Writer,
						env.cfg.VaultPath,
						source,
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "export-key",
			Usage: "Write the vault keys to a key file or a KMS wrapped key file",
			Flags: append(vaultFlags(),
				&cli.StringFlag{
					Name:    "out",
					Aliases: []string{"o"},
					Usage:   "Raw key file to write",
				},
				&cli.StringFlag{
					Name:  "wrapped-out",
					Usage: "KMS wrapped key file to write (uses --kms-key-uri)",
				},
			),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withSource(cmd, func(env *environment, source cryptoDomain.KeySource) error {
					return commands.RunExportKey(
						ctx,
						env.opener,
						env.logger,
						env.cfg.VaultPath,
						source,
						cmd.String("out"),
						cmd.String("wrapped-out"),
						env.keyOptions.KMSKeyURI,
					)
				})
			},
		},
	}
}

// vaultFlags returns the flags shared by every vault command.
func vaultFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "vault",
			Aliases: []string{"v"},
			Usage:   "Vault file (default from VAULT_PATH)",
		},
		&cli.StringFlag{
			Name:    "keyfile",
			Aliases: []string{"k"},
			Usage:   "Raw key file",
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "Vault password; '-' prompts for it",
		},
		&cli.StringFlag{
			Name:  "wrapped-keyfile",
			Usage: "Key file wrapped by the KMS keeper at --kms-key-uri",
		},
		&cli.StringFlag{
			Name:  "kms-key-uri",
			Usage: "KMS keeper URI (e.g., base64key://..., hashivault://..., awskms://...)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   "text",
			Usage:   "Output format: 'text' or 'json'",
		},
	}
}

// environment is the per-invocation wiring shared by the command actions.
type environment struct {
	cfg        *config.Config
	container  *app.Container
	logger     *slog.Logger
	opener     vaultUsecase.Opener
	locker     commands.Locker
	prompter   *commands.TerminalPrompter
	keyOptions commands.KeyOptions
}

func newEnvironment(cmd *cli.Command) (*environment, error) {
	cfg := config.Load()
	if cmd.IsSet("vault") {
		cfg.VaultPath = cmd.String("vault")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	container := app.NewContainer(cfg)
	opener, err := container.Opener()
	if err != nil {
		commands.CloseContainer(container)
		return nil, err
	}

	keyOptions := commands.KeyOptions{
		Keyfile:        cmd.String("keyfile"),
		Password:       cmd.String("password"),
		Generate:       cmd.Bool("generate"),
		WrappedKeyfile: cmd.String("wrapped-keyfile"),
		KMSKeyURI:      cmd.String("kms-key-uri"),
	}

	return &environment{
		cfg:        cfg,
		container:  container,
		logger:     container.Logger(),
		opener:     opener,
		locker:     commands.NewLocker(container.VaultRepository(), cfg.LockEnabled),
		prompter:   commands.NewTerminalPrompter(stdio.Reader, stdio.ErrWriter),
		keyOptions: keyOptions.WithConfigDefaults(cfg),
	}, nil
}

func (e *environment) close() {
	commands.CloseContainer(e.container)
}

// withSource builds the environment, resolves the key source of an existing vault
// and runs fn.
func withSource(cmd *cli.Command, fn func(env *environment, source cryptoDomain.KeySource) error) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	source, err := commands.ResolveKeySource(env.keyOptions, env.prompter)
	if err != nil {
		return err
	}

	return fn(env, source)
}
