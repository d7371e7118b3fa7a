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

func logoutCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "logout",
		Summary: "End the current session",
		Description: `Log out of the monitoring service and remove the saved session.

The local session is cleared even when the service cannot be reached;
a token the service has already forgotten is not worth keeping.`,
		Usage: "plantwatch logout [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("logout", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
			return flags
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			console, err := cli.OpenConsole(ctx, configPath)
			if err != nil {
				return err
			}
			if err := console.Session.Logout(ctx); err != nil {
				return cli.Internal("clearing session: %w", err)
			}
			fmt.Fprintln(os.Stderr, "Logged out")
			return nil
		},
	}
}

func whoamiCommand() *cli.Command {
	var configPath string
	var jsonOutput bool

	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the authenticated user",
		Usage:   "plantwatch whoami [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
			flags.BoolVar(&jsonOutput, "json", false, "emit JSON instead of text")
			return flags
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			console, err := cli.OpenConsole(ctx, configPath)
			if err != nil {
				return err
			}
			if err := console.RequireAuth(); err != nil {
				return err
			}

			user, err := console.Client().Me(ctx)
			if err != nil {
				return cli.Classify(err)
			}
			if jsonOutput {
				return cli.PrintJSON(os.Stdout, user)
			}
			fmt.Fprintf(os.Stdout, "%s (%s)\n", user.Username, user.Email)
			fmt.Fprintf(os.Stdout, "Role: %s\n", user.Role)
			if user.Department != "" {
				fmt.Fprintf(os.Stdout, "Department: %s\n", user.Department)
			}
			return nil
		},
	}
}
