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
	"github.com/plantwatch-project/plantwatch/viewsync"
)

func dashboardCommand() *cli.Command {
	var configPath string
	var jsonOutput bool
	var watch bool

	return &cli.Command{
		Name:    "dashboard",
		Summary: "Show plant-wide statistics",
		Description: `Show the dashboard summary: fleet status counts, today's alert
totals, and the 24-hour temperature aggregate.

With --watch, keeps running and reprints the summary at the
configured dashboard cadence until interrupted. For the full-screen
interactive dashboard, use plantwatch-dashboard instead.`,
		Usage: "plantwatch dashboard [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("dashboard", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
			flags.BoolVar(&jsonOutput, "json", false, "emit JSON instead of text")
			flags.BoolVar(&watch, "watch", false, "keep refreshing until interrupted")
			return flags
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			console, err := cli.OpenConsole(ctx, configPath)
			if err != nil {
				return err
			}
			if err := console.RequireAuth(); err != nil {
				return err
			}

			if !watch {
				stats, err := console.Client().DashboardStats(ctx)
				if err != nil {
					return cli.Classify(err)
				}
				if jsonOutput {
					return cli.PrintJSON(os.Stdout, stats)
				}
				printStats(stats)
				return nil
			}

			// Watch mode: a synchronizer polls at the configured
			// cadence; a collapsed session ends the loop.
			synchronizer, err := viewsync.Start(ctx, viewsync.Config[struct{}, *monitoring.DashboardStats]{
				Fetch: func(ctx context.Context, _ struct{}) (*monitoring.DashboardStats, error) {
					return console.Client().DashboardStats(ctx)
				},
				Interval: console.Config.DashboardInterval(),
				Halt:     monitoring.IsSessionExpired,
				Logger:   logger,
			})
			if err != nil {
				return cli.Internal("starting dashboard loop: %w", err)
			}
			defer synchronizer.Stop()

			for update := range synchronizer.Updates() {
				if update.Err != nil {
					if monitoring.IsSessionExpired(update.Err) {
						return cli.Classify(update.Err)
					}
					fmt.Fprintf(os.Stderr, "refresh failed: %v\n", update.Err)
					continue
				}
				if jsonOutput {
					if err := cli.PrintJSON(os.Stdout, update.Data); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintf(os.Stdout, "--- %s ---\n", update.FetchedAt.Format("15:04:05"))
				printStats(update.Data)
			}
			return ctx.Err()
		},
	}
}

func printStats(stats *monitoring.DashboardStats) {
	fmt.Fprintf(os.Stdout, "Devices: %d total, %d online, %d error, %d offline, %d maintenance\n",
		stats.TotalDevices, stats.OnlineDevices, stats.ErrorDevices,
		stats.OfflineDevices, stats.MaintenanceDevices)
	fmt.Fprintf(os.Stdout, "Alerts today: %d (%d critical)\n",
		stats.TotalAlertsToday, stats.CriticalAlerts)
}
