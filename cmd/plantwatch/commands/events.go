// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/plantwatch-project/plantwatch/cmd/plantwatch/cli"
	"github.com/plantwatch-project/plantwatch/monitoring"
)

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:    "events",
		Summary: "Browse and acknowledge the alert feed",
		Subcommands: []*cli.Command{
			eventsListCommand(),
			eventsReadCommand(),
			eventsReadAllCommand(),
			eventsStatsCommand(),
		},
	}
}

func eventsListCommand() *cli.Command {
	var configPath string
	var jsonOutput bool
	var level string
	var hours int
	var unreadOnly bool

	return &cli.Command{
		Name:    "list",
		Summary: "List recent alerts",
		Usage:   "plantwatch events list [flags]",
		Examples: []cli.Example{
			{
				Description: "Critical alerts from the last day",
				Command:     "plantwatch events list --level critical --hours 24",
			},
			{
				Description: "The unread backlog, with full alert records",
				Command:     "plantwatch events list --unread --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("events list", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
			flags.BoolVar(&jsonOutput, "json", false, "emit JSON instead of a table")
			flags.StringVar(&level, "level", "", "filter by severity (warning, critical)")
			flags.IntVar(&hours, "hours", 0, "lookback window in hours (default: service default, 72)")
			flags.BoolVar(&unreadOnly, "unread", false, "only unread alerts (uses the full alert records)")
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

			if unreadOnly {
				alerts, err := console.Client().Alerts(ctx, true)
				if err != nil {
					return cli.Classify(err)
				}
				if jsonOutput {
					return cli.PrintJSON(os.Stdout, alerts)
				}
				table := cli.NewTable(os.Stdout)
				table.Row("ID", "SEVERITY", "EQUIPMENT", "MESSAGE", "TIME")
				for _, alert := range alerts {
					table.Row(alert.ID, alert.Severity, alert.EquipmentName,
						alert.Message, alert.Timestamp.Format("2006-01-02 15:04"))
				}
				table.Flush()
				return nil
			}

			events, err := console.Client().Events(ctx, monitoring.EventQuery{
				Level: level,
				Hours: hours,
			})
			if err != nil {
				return cli.Classify(err)
			}
			if jsonOutput {
				return cli.PrintJSON(os.Stdout, events)
			}
			table := cli.NewTable(os.Stdout)
			table.Row("ID", "TYPE", "DEVICE", "MESSAGE", "TIME")
			for _, event := range events {
				table.Row(event.ID, event.Type, event.Device, event.Message, event.Timestamp)
			}
			table.Flush()
			return nil
		},
	}
}

func eventsReadCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "read",
		Summary: "Mark an alert as read",
		Usage:   "plantwatch events read <id> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("events read", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
			return flags
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one event id is required")
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return cli.Validation("invalid event id %q", args[0])
			}

			console, err := cli.OpenConsole(ctx, configPath)
			if err != nil {
				return err
			}
			if err := console.RequireAuth(); err != nil {
				return err
			}
			if err := console.Client().MarkEventRead(ctx, id); err != nil {
				return cli.Classify(err)
			}
			fmt.Fprintf(os.Stdout, "Event %d marked read\n", id)
			return nil
		},
	}
}

func eventsReadAllCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "read-all",
		Summary: "Mark every alert as read",
		Usage:   "plantwatch events read-all [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("events read-all", pflag.ContinueOnError)
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
			if err := console.RequireAuth(); err != nil {
				return err
			}
			if err := console.Client().MarkAllEventsRead(ctx); err != nil {
				return cli.Classify(err)
			}
			fmt.Fprintln(os.Stdout, "All events marked read")
			return nil
		},
	}
}

func eventsStatsCommand() *cli.Command {
	var configPath string
	var jsonOutput bool

	return &cli.Command{
		Name:    "stats",
		Summary: "Summarize the alert backlog",
		Usage:   "plantwatch events stats [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("events stats", pflag.ContinueOnError)
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

			stats, err := console.Client().EventStats(ctx)
			if err != nil {
				return cli.Classify(err)
			}
			if jsonOutput {
				return cli.PrintJSON(os.Stdout, stats)
			}
			fmt.Fprintf(os.Stdout, "Unread: %d (critical: %d)\n", stats.UnreadCount, stats.CriticalUnread)
			fmt.Fprintf(os.Stdout, "Today: %d\n", stats.TodayCount)
			fmt.Fprintf(os.Stdout, "This week: %d\n", stats.WeekCount)
			return nil
		},
	}
}
