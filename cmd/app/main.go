// Package main provides the entry point for the securevault CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/securevault/cmd/app/commands"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// -v selects the vault file, so the version flag keeps only its long name.
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "print the version"}

	cmd := &cli.Command{
		Name:     "securevault",
		Usage:    "Store named secrets in an encrypted local vault file",
		Version:  version,
		Commands: getCommands(),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, commands.Describe(err))
		os.Exit(commands.ExitCode(err))
	}
}
