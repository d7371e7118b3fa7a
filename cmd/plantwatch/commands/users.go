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
	"github.com/plantwatch-project/plantwatch/monitoring"
)

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:    "users",
		Summary: "Manage user accounts (administrator only)",
		Subcommands: []*cli.Command{
			usersListCommand(),
			usersOperatorsCommand(),
			usersCreateCommand(),
		},
	}
}

func usersListCommand() *cli.Command {
	var configPath string
	var jsonOutput bool

	return &cli.Command{
		Name:    "list",
		Summary: "List all user accounts",
		Usage:   "plantwatch users list [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("users list", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
			flags.BoolVar(&jsonOutput, "json", false, "emit JSON instead of a table")
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
			if !console.Session.CanAdminister() {
				return cli.Forbidden("listing users requires an administrator or manager role")
			}

			users, err := console.Client().Users(ctx)
			if err != nil {
				return cli.Classify(err)
			}
			if jsonOutput {
				return cli.PrintJSON(os.Stdout, users)
			}
			printUsers(users)
			return nil
		},
	}
}

func usersOperatorsCommand() *cli.Command {
	var configPath string
	var jsonOutput bool

	return &cli.Command{
		Name:    "operators",
		Summary: "List users with the operator role",
		Usage:   "plantwatch users operators [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("users operators", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
			flags.BoolVar(&jsonOutput, "json", false, "emit JSON instead of a table")
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

			operators, err := console.Client().Operators(ctx)
			if err != nil {
				return cli.Classify(err)
			}
			if jsonOutput {
				return cli.PrintJSON(os.Stdout, operators)
			}
			printUsers(operators)
			return nil
		},
	}
}

func usersCreateCommand() *cli.Command {
	var configPath string
	var jsonOutput bool
	var username, email, role, department, passwordFile string

	return &cli.Command{
		Name:    "create",
		Summary: "Create a user account",
		Usage:   "plantwatch users create --username <name> --email <email> --role <role> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("users create", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
			flags.BoolVar(&jsonOutput, "json", false, "emit JSON instead of text")
			flags.StringVar(&username, "username", "", "login name (required)")
			flags.StringVar(&email, "email", "", "email address (required)")
			flags.StringVar(&role, "role", string(monitoring.RoleOperator), "role (operator, administrator, manager)")
			flags.StringVar(&department, "department", "", "department")
			flags.StringVar(&passwordFile, "password-file", "", "path to file containing the new user's password, or - to prompt (default: prompt)")
			return flags
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if username == "" {
				return cli.Validation("--username is required")
			}
			if email == "" {
				return cli.Validation("--email is required")
			}
			userRole := monitoring.Role(role)
			switch userRole {
			case monitoring.RoleOperator, monitoring.RoleAdministrator, monitoring.RoleManager:
			default:
				return cli.Validation("invalid role %q (want operator, administrator, or manager)", role)
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
			if err := console.RequireAuth(); err != nil {
				return err
			}
			if !console.Session.CanAdminister() {
				return cli.Forbidden("creating users requires an administrator or manager role")
			}

			created, err := console.Client().CreateUser(ctx, monitoring.NewUser{
				Username:   username,
				Email:      email,
				Password:   passwordBuffer.String(),
				Role:       userRole,
				Department: department,
			})
			if err != nil {
				return cli.Classify(err)
			}
			if jsonOutput {
				return cli.PrintJSON(os.Stdout, created)
			}
			fmt.Fprintf(os.Stdout, "Created %s (%s, %s)\n", created.Username, created.Email, created.Role)
			return nil
		},
	}
}

func printUsers(users []monitoring.UserProfile) {
	table := cli.NewTable(os.Stdout)
	table.Row("ID", "USERNAME", "EMAIL", "ROLE", "DEPARTMENT")
	for _, user := range users {
		table.Row(user.UserID, user.Username, user.Email, user.Role, user.Department)
	}
	table.Flush()
}
