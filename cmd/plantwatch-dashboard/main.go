// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

// plantwatch-dashboard is the full-screen live dashboard for the
// plant monitoring service: fleet statistics, the 24-hour temperature
// aggregate, and the alert feed, each refreshing on its own cadence.
//
// It authenticates using the session saved by "plantwatch login".
// When the service rejects the session mid-flight, every pane's
// refresh loop halts and the dashboard exits with a login hint.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/plantwatch-project/plantwatch/cmd/plantwatch/cli"
	"github.com/plantwatch-project/plantwatch/lib/dashboardui"
	"github.com/plantwatch-project/plantwatch/lib/version"
	"github.com/plantwatch-project/plantwatch/monitoring"
	"github.com/plantwatch-project/plantwatch/viewsync"
)

func main() {
	if err := run(); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string

	flagSet := pflag.NewFlagSet("plantwatch-dashboard", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Fprintln(os.Stdout, version.Info())
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return cli.Validation("unexpected argument: %s", args[0])
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	console, err := cli.OpenConsole(ctx, configPath)
	if err != nil {
		return err
	}
	if err := console.RequireAuth(); err != nil {
		return err
	}

	// Background logging must not write to stderr while the alt
	// screen is up; feed warnings surface in the panes instead.
	logger := cli.NewCommandLogger()

	feeds := dashboardui.Feeds{}
	feeds.Stats, err = viewsync.Start(ctx, viewsync.Config[struct{}, *monitoring.DashboardStats]{
		Fetch: func(ctx context.Context, _ struct{}) (*monitoring.DashboardStats, error) {
			return console.Client().DashboardStats(ctx)
		},
		Interval: console.Config.DashboardInterval(),
		Halt:     monitoring.IsSessionExpired,
		Logger:   logger,
	})
	if err != nil {
		return cli.Internal("starting stats feed: %w", err)
	}
	feeds.Chart, err = viewsync.Start(ctx, viewsync.Config[struct{}, *monitoring.TemperatureChart]{
		Fetch: func(ctx context.Context, _ struct{}) (*monitoring.TemperatureChart, error) {
			return console.Client().TemperatureChart(ctx)
		},
		Interval: console.Config.DashboardInterval(),
		Halt:     monitoring.IsSessionExpired,
		Logger:   logger,
	})
	if err != nil {
		return cli.Internal("starting chart feed: %w", err)
	}
	feeds.Events, err = viewsync.Start(ctx, viewsync.Config[monitoring.EventQuery, []monitoring.Event]{
		Fetch: func(ctx context.Context, query monitoring.EventQuery) ([]monitoring.Event, error) {
			return console.Client().Events(ctx, query)
		},
		Interval: console.Config.EventsInterval(),
		Halt:     monitoring.IsSessionExpired,
		Logger:   logger,
	})
	if err != nil {
		return cli.Internal("starting events feed: %w", err)
	}

	model := dashboardui.NewModel(feeds, console.Session.User().Username)
	program := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := program.Run()
	if err != nil {
		return err
	}

	if final, ok := finalModel.(dashboardui.Model); ok && final.SessionLost() {
		return cli.Unauthenticated("session expired — run \"plantwatch login <email>\" again")
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Plantwatch live dashboard — full-screen fleet overview.

Shows fleet status counts, the 24-hour temperature aggregate, and
the alert feed, each refreshing at the cadence set in the config
file. Requires a session from "plantwatch login".

Usage:
  plantwatch-dashboard [flags]

Keys:
  r   refresh every pane now
  f   cycle the alert severity filter (all, warning, critical)
  q   quit

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
