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

func sensorsCommand() *cli.Command {
	return &cli.Command{
		Name:    "sensors",
		Summary: "Read sensor time series and latest values",
		Subcommands: []*cli.Command{
			sensorsDataCommand(),
			sensorsLatestCommand(),
		},
	}
}

func sensorsDataCommand() *cli.Command {
	var configPath string
	var jsonOutput bool
	var hours int
	var sensorType string

	return &cli.Command{
		Name:    "data",
		Summary: "Fetch a device's sensor time series",
		Usage:   "plantwatch sensors data <equipment-id> [flags]",
		Examples: []cli.Example{
			{
				Description: "Last 6 hours of vibration on device 3",
				Command:     "plantwatch sensors data 3 --hours 6 --type vibration",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("sensors data", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
			flags.BoolVar(&jsonOutput, "json", false, "emit JSON instead of a table")
			flags.IntVar(&hours, "hours", 0, "lookback window in hours (default: service default, 24)")
			flags.StringVar(&sensorType, "type", "", "restrict to one sensor type (temperature, vibration, pressure, current)")
			return flags
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			id, err := deviceIDArg(args)
			if err != nil {
				return err
			}
			console, err := cli.OpenConsole(ctx, configPath)
			if err != nil {
				return err
			}
			if err := console.RequireAuth(); err != nil {
				return err
			}

			series, err := console.Client().SensorData(ctx, id, monitoring.SensorDataQuery{
				Hours: hours,
				Type:  monitoring.SensorType(sensorType),
			})
			if err != nil {
				return cli.Classify(err)
			}
			if jsonOutput {
				return cli.PrintJSON(os.Stdout, series)
			}

			for kind, sensorSeries := range series {
				fmt.Fprintf(os.Stdout, "%s (%s): %d points\n",
					kind, sensorSeries.SensorID, len(sensorSeries.Data))
				table := cli.NewTable(os.Stdout)
				for _, point := range sensorSeries.Data {
					table.Row("  "+point.Timestamp.Format("15:04:05"),
						fmt.Sprintf("%.2f %s", point.Value, point.Unit))
				}
				table.Flush()
			}
			return nil
		},
	}
}

func sensorsLatestCommand() *cli.Command {
	var configPath string
	var jsonOutput bool

	return &cli.Command{
		Name:    "latest",
		Summary: "Show a device's newest reading from each sensor",
		Usage:   "plantwatch sensors latest <equipment-id> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("sensors latest", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
			flags.BoolVar(&jsonOutput, "json", false, "emit JSON instead of a table")
			return flags
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			id, err := deviceIDArg(args)
			if err != nil {
				return err
			}
			console, err := cli.OpenConsole(ctx, configPath)
			if err != nil {
				return err
			}
			if err := console.RequireAuth(); err != nil {
				return err
			}

			readings, err := console.Client().LatestReadings(ctx, id)
			if err != nil {
				return cli.Classify(err)
			}
			if jsonOutput {
				return cli.PrintJSON(os.Stdout, readings)
			}
			table := cli.NewTable(os.Stdout)
			table.Row("SENSOR", "VALUE", "TIME")
			for kind, reading := range readings {
				table.Row(kind, fmt.Sprintf("%.2f %s", reading.Value, reading.Unit),
					reading.Timestamp.Format("2006-01-02 15:04:05"))
			}
			table.Flush()
			return nil
		},
	}
}
