// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the plantwatch CLI command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/plantwatch-project/plantwatch/cmd/plantwatch/cli"
	"github.com/plantwatch-project/plantwatch/lib/version"
)

// Root returns the top-level plantwatch command.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "plantwatch",
		Summary: "Operator console for the plant monitoring service",
		Description: `plantwatch is the command-line console for an industrial plant
monitoring service: equipment fleet state, live sensor data, the
alert feed, and failure predictions.

Authenticate once with "plantwatch login"; the session persists at
~/.config/plantwatch/session.json and every other command uses it
transparently.`,
		Subcommands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			devicesCommand(),
			eventsCommand(),
			sensorsCommand(),
			predictCommand(),
			dashboardCommand(),
			usersCommand(),
			versionCommand(),
		},
	}
}

func versionCommand() *cli.Command {
	var full bool
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("version", pflag.ContinueOnError)
			flags.BoolVar(&full, "full", false, "include Go and platform details")
			return flags
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if full {
				fmt.Fprintln(os.Stdout, version.Full())
			} else {
				fmt.Fprintln(os.Stdout, version.Info())
			}
			return nil
		},
	}
}
