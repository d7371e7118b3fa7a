// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/plantwatch-project/plantwatch/cmd/plantwatch/cli"
)

func loginCommand() *cli.Command {
	var configPath string
	var passwordFile string

	return &cli.Command{
		Name:    "login",
		Summary: "Authenticate with the monitoring service",
		Description: `Log in to the monitoring service and save the session locally.

After login, every other command uses the saved session transparently.
The session file is stored at ~/.config/plantwatch/session.json (or
$PLANTWATCH_SESSION_FILE if set, or under $XDG_CONFIG_HOME). The file
is written with mode 0600 since it contains an access token.

The password can be provided via --password-file (a path to a file
containing the password) or prompted interactively if --password-file
is "-" or omitted.`,
		Usage: "plantwatch login <email> [flags]",
		Examples: []cli.Example{
			{
				Description: "Log in interactively (prompts for password)",
				Command:     "plantwatch login operator@plant.example",
			},
			{
				Description: "Log in with password from file",
				Command:     "plantwatch login operator@plant.example --password-file /path/to/password",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("login", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
			flags.StringVar(&passwordFile, "password-file", "", "path to file containing password, or - to prompt interactively (default: prompt)")
			return flags
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) < 1 {
				return cli.Validation("email is required\n\nUsage: plantwatch login <email> [flags]")
			}
			email := args[0]
			if len(args) > 1 {
				return cli.Validation("unexpected argument: %s", args[1])
			}

			passwordBuffer, err := cli.ReadPassword(passwordFile)
			if err != nil {
				return err
			}
			defer passwordBuffer.Close()

			console, err := cli.OpenConsole(ctx, configPath)
			if err != nil {
				return err
			}

			if err := console.Session.Login(ctx, email, passwordBuffer.String()); err != nil {
				return cli.Classify(err)
			}

			user := console.Session.User()
			fmt.Fprintf(os.Stderr, "Logged in as %s (%s)\n", user.Username, user.Role)
			fmt.Fprintf(os.Stderr, "Session saved to %s\n", console.Store.Path())
			return nil
		},
	}
}
