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
	"github.com/plantwatch-project/plantwatch/viewsync"
)

func devicesCommand() *cli.Command {
	return &cli.Command{
		Name:    "devices",
		Summary: "Inspect and manage the equipment fleet",
		Subcommands: []*cli.Command{
			devicesListCommand(),
			devicesShowCommand(),
			devicesCreateCommand(),
			devicesSetStatusCommand(),
			devicesMaintainCommand(),
			devicesHistoryCommand(),
		},
	}
}

func devicesListCommand() *cli.Command {
	var configPath string
	var jsonOutput bool
	var status string

	return &cli.Command{
		Name:    "list",
		Summary: "List equipment, optionally filtered by status",
		Usage:   "plantwatch devices list [flags]",
		Examples: []cli.Example{
			{
				Description: "Equipment currently in error",
				Command:     "plantwatch devices list --status error",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("devices list", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
			flags.BoolVar(&jsonOutput, "json", false, "emit JSON instead of a table")
			flags.StringVar(&status, "status", "", "filter by status (online, offline, error, maintenance)")
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

			devices, err := console.Client().Devices(ctx, status)
			if err != nil {
				return cli.Classify(err)
			}
			if jsonOutput {
				return cli.PrintJSON(os.Stdout, devices)
			}

			table := cli.NewTable(os.Stdout)
			table.Row("ID", "EQUIPMENT", "NAME", "TYPE", "STATUS", "LOCATION")
			for _, device := range devices {
				table.Row(device.ID, device.EquipmentID, device.Name,
					device.Type, device.Status, device.Location)
			}
			table.Flush()
			return nil
		},
	}
}

func devicesShowCommand() *cli.Command {
	var configPath string
	var jsonOutput bool

	return &cli.Command{
		Name:    "show",
		Summary: "Show one device with live readings and history",
		Description: `Show a device in detail: its record and sensors, the latest
reading from each sensor, the maintenance history, and the operator
roster. The endpoints are fetched concurrently; panels whose endpoint
fails are reported without blanking the rest.`,
		Usage: "plantwatch devices show <id> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("devices show", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
			flags.BoolVar(&jsonOutput, "json", false, "emit JSON instead of text")
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

			var device *monitoring.Device
			var readings monitoring.LatestReadingsByType
			var history []monitoring.MaintenanceRecord
			var operators []monitoring.UserProfile
			var deviceErr, readingsErr, historyErr, operatorsErr error

			gatherErr := viewsync.Gather(ctx,
				func(ctx context.Context) error {
					device, deviceErr = console.Client().Device(ctx, id)
					return deviceErr
				},
				func(ctx context.Context) error {
					readings, readingsErr = console.Client().LatestReadings(ctx, id)
					return readingsErr
				},
				func(ctx context.Context) error {
					history, historyErr = console.Client().MaintenanceHistory(ctx, id)
					return historyErr
				},
				func(ctx context.Context) error {
					operators, operatorsErr = console.Client().Operators(ctx)
					return operatorsErr
				},
			)
			// The device record itself is the one panel that cannot
			// degrade gracefully.
			if deviceErr != nil {
				return cli.Classify(deviceErr)
			}
			if monitoring.IsSessionExpired(gatherErr) {
				return cli.Classify(gatherErr)
			}

			if jsonOutput {
				return cli.PrintJSON(os.Stdout, map[string]any{
					"device":    device,
					"readings":  readings,
					"history":   history,
					"operators": operators,
				})
			}

			fmt.Fprintf(os.Stdout, "%s (%s)\n", device.Name, device.EquipmentID)
			fmt.Fprintf(os.Stdout, "Status: %s\n", device.Status)
			if device.Location != "" {
				fmt.Fprintf(os.Stdout, "Location: %s\n", device.Location)
			}

			fmt.Fprintf(os.Stdout, "\nLatest readings:\n")
			if readingsErr != nil {
				fmt.Fprintf(os.Stdout, "  (unavailable: %v)\n", readingsErr)
			} else {
				table := cli.NewTable(os.Stdout)
				for sensorType, reading := range readings {
					table.Row("  "+string(sensorType), fmt.Sprintf("%.2f %s", reading.Value, reading.Unit),
						reading.Timestamp.Format("2006-01-02 15:04:05"))
				}
				table.Flush()
			}

			fmt.Fprintf(os.Stdout, "\nMaintenance history:\n")
			switch {
			case historyErr != nil:
				fmt.Fprintf(os.Stdout, "  (unavailable: %v)\n", historyErr)
			case len(history) == 0:
				fmt.Fprintln(os.Stdout, "  (none)")
			default:
				table := cli.NewTable(os.Stdout)
				for _, record := range history {
					table.Row("  "+record.Date.Format("2006-01-02"), record.Technician, record.Description)
				}
				table.Flush()
			}

			fmt.Fprintf(os.Stdout, "\nOn-shift operators:\n")
			switch {
			case operatorsErr != nil:
				fmt.Fprintf(os.Stdout, "  (unavailable: %v)\n", operatorsErr)
			case len(operators) == 0:
				fmt.Fprintln(os.Stdout, "  (none)")
			default:
				table := cli.NewTable(os.Stdout)
				for _, operator := range operators {
					table.Row("  "+operator.Username, operator.Department, string(operator.Role))
				}
				table.Flush()
			}
			return nil
		},
	}
}

func devicesCreateCommand() *cli.Command {
	var configPath string
	var jsonOutput bool
	var name, deviceType, location, description, installationDate string

	return &cli.Command{
		Name:    "create",
		Summary: "Register new equipment (administrator only)",
		Usage:   "plantwatch devices create --name <name> --type <type> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("devices create", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
			flags.BoolVar(&jsonOutput, "json", false, "emit JSON instead of text")
			flags.StringVar(&name, "name", "", "device name (required)")
			flags.StringVar(&deviceType, "type", "", "device type, e.g. pump, compressor (required)")
			flags.StringVar(&location, "location", "", "physical location")
			flags.StringVar(&description, "description", "", "free-form description")
			flags.StringVar(&installationDate, "installation-date", "", "installation date (YYYY-MM-DD)")
			return flags
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if name == "" {
				return cli.Validation("--name is required")
			}
			if deviceType == "" {
				return cli.Validation("--type is required")
			}
			console, err := cli.OpenConsole(ctx, configPath)
			if err != nil {
				return err
			}
			if err := console.RequireAuth(); err != nil {
				return err
			}

			created, err := console.Client().CreateDevice(ctx, monitoring.NewDevice{
				Name:             name,
				Type:             deviceType,
				Location:         location,
				Description:      description,
				InstallationDate: installationDate,
			})
			if err != nil {
				return cli.Classify(err)
			}
			if jsonOutput {
				return cli.PrintJSON(os.Stdout, created)
			}
			fmt.Fprintf(os.Stdout, "Created %s (%s)\n", created.Name, created.EquipmentID)
			return nil
		},
	}
}

func devicesSetStatusCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "set-status",
		Summary: "Change a device's operational status",
		Usage:   "plantwatch devices set-status <id> <online|offline|error|maintenance> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("devices set-status", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
			return flags
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 2 {
				return cli.Validation("usage: plantwatch devices set-status <id> <status>")
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return cli.Validation("invalid device id %q", args[0])
			}
			status := monitoring.DeviceStatus(args[1])
			switch status {
			case monitoring.StatusOnline, monitoring.StatusOffline,
				monitoring.StatusError, monitoring.StatusMaintenance:
			default:
				return cli.Validation("invalid status %q (want online, offline, error, or maintenance)", args[1])
			}

			console, err := cli.OpenConsole(ctx, configPath)
			if err != nil {
				return err
			}
			if err := console.RequireAuth(); err != nil {
				return err
			}
			if err := console.Client().UpdateDeviceStatus(ctx, id, status); err != nil {
				return cli.Classify(err)
			}
			fmt.Fprintf(os.Stdout, "Device %d is now %s\n", id, status)
			return nil
		},
	}
}

func devicesMaintainCommand() *cli.Command {
	var configPath string
	var description, technician, date string

	return &cli.Command{
		Name:    "maintain",
		Summary: "Log a maintenance record against a device",
		Usage:   "plantwatch devices maintain <id> --description <text> --technician <name> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("devices maintain", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
			flags.StringVar(&description, "description", "", "what was done (required)")
			flags.StringVar(&technician, "technician", "", "who did it (required)")
			flags.StringVar(&date, "date", "", "when (YYYY-MM-DD, default: today)")
			return flags
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			id, err := deviceIDArg(args)
			if err != nil {
				return err
			}
			if description == "" {
				return cli.Validation("--description is required")
			}
			if technician == "" {
				return cli.Validation("--technician is required")
			}

			console, err := cli.OpenConsole(ctx, configPath)
			if err != nil {
				return err
			}
			if err := console.RequireAuth(); err != nil {
				return err
			}
			record := monitoring.NewMaintenanceRecord{
				Date:        date,
				Description: description,
				Technician:  technician,
			}
			if err := console.Client().AddMaintenanceRecord(ctx, id, record); err != nil {
				return cli.Classify(err)
			}
			fmt.Fprintf(os.Stdout, "Maintenance logged for device %d\n", id)
			return nil
		},
	}
}

func devicesHistoryCommand() *cli.Command {
	var configPath string
	var jsonOutput bool

	return &cli.Command{
		Name:    "history",
		Summary: "Show a device's maintenance history",
		Usage:   "plantwatch devices history <id> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("devices history", pflag.ContinueOnError)
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

			history, err := console.Client().MaintenanceHistory(ctx, id)
			if err != nil {
				return cli.Classify(err)
			}
			if jsonOutput {
				return cli.PrintJSON(os.Stdout, history)
			}
			table := cli.NewTable(os.Stdout)
			table.Row("DATE", "TECHNICIAN", "DESCRIPTION", "COMPLETED")
			for _, record := range history {
				table.Row(record.Date.Format("2006-01-02"), record.Technician,
					record.Description, record.IsCompleted)
			}
			table.Flush()
			return nil
		},
	}
}

// deviceIDArg parses the single positional device ID argument.
func deviceIDArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, cli.Validation("exactly one device id is required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, cli.Validation("invalid device id %q", args[0])
	}
	return id, nil
}
