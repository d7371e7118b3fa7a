// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/plantwatch-project/plantwatch/cmd/plantwatch/cli"
)

func predictCommand() *cli.Command {
	return &cli.Command{
		Name:    "predict",
		Summary: "Run failure predictions and anomaly checks",
		Subcommands: []*cli.Command{
			predictRunCommand(),
			predictAnomaliesCommand(),
			predictBatchCommand(),
		},
	}
}

func predictRunCommand() *cli.Command {
	var configPath string
	var jsonOutput bool
	var horizon int

	return &cli.Command{
		Name:    "run",
		Summary: "Predict failure risk for one device",
		Usage:   "plantwatch predict run <equipment-id> [flags]",
		Examples: []cli.Example{
			{
				Description: "Failure risk for device 3 over the next week",
				Command:     "plantwatch predict run 3 --horizon 168",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("predict run", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $PLANTWATCH_CONFIG)")
			flags.BoolVar(&jsonOutput, "json", false, "emit JSON instead of text")
			flags.IntVar(&horizon, "horizon", 24, "prediction window in hours")
			return flags
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			id, err := deviceIDArg(args)
			if err != nil {
				return err
			}
			if horizon <= 0 {
				return cli.Validation("--horizon must be positive")
			}
			console, err := cli.OpenConsole(ctx, configPath)
			if err != nil {
				return err
			}
			if err := console.RequireAuth(); err != nil {
				return err
			}

			prediction, err := console.Client().PredictFailure(ctx, id, horizon)
			if err != nil {
				return cli.Classify(err)
			}
			if jsonOutput {
				return cli.PrintJSON(os.Stdout, prediction)
			}

			failure := prediction.FailurePrediction
			fmt.Fprintf(os.Stdout, "%s: %s risk\n", prediction.EquipmentName, failure.RiskLevel)
			fmt.Fprintf(os.Stdout, "Failure probability: %.0f%% over %dh (confidence %.0f%%)\n",
				failure.Probability*100, failure.TimeWindowHours, failure.Confidence*100)
			if len(failure.Factors) > 0 {
				fmt.Fprintf(os.Stdout, "Factors: %s\n", strings.Join(failure.Factors, ", "))
			}
			for _, recommendation := range prediction.Recommendations {
				fmt.Fprintf(os.Stdout, "  - %s\n", recommendation)
			}

			// High-risk predictions exit non-zero so cron jobs can
			// page on it without parsing output.
			if failure.RiskLevel == "high" || failure.RiskLevel == "critical" {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

func predictAnomaliesCommand() *cli.Command {
	var configPath string
	var jsonOutput bool

	return &cli.Command{
		Name:    "anomalies",
		Summary: "Check a device's sensors for anomalies",
		Usage:   "plantwatch predict anomalies <equipment-id> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("predict anomalies", pflag.ContinueOnError)
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

			report, err := console.Client().Anomalies(ctx, id)
			if err != nil {
				return cli.Classify(err)
			}
			if jsonOutput {
				return cli.PrintJSON(os.Stdout, report)
			}

			if !report.HasAnomalies {
				fmt.Fprintf(os.Stdout, "%s: no anomalies\n", report.EquipmentName)
				return nil
			}
			fmt.Fprintf(os.Stdout, "%s:\n", report.EquipmentName)
			for _, anomaly := range report.Anomalies {
				if !anomaly.IsAnomaly {
					continue
				}
				fmt.Fprintf(os.Stdout, "  %s: %.2f (score %.2f) — %s\n",
					anomaly.SensorType, anomaly.CurrentValue, anomaly.AnomalyScore, anomaly.Message)
			}
			return &cli.ExitError{Code: 1}
		},
	}
}

func predictBatchCommand() *cli.Command {
	var configPath string
	var jsonOutput bool

	return &cli.Command{
		Name:    "batch",
		Summary: "Summarize failure risk across the whole fleet",
		Usage:   "plantwatch predict batch [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("predict batch", pflag.ContinueOnError)
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

			batch, err := console.Client().PredictAll(ctx)
			if err != nil {
				return cli.Classify(err)
			}
			if jsonOutput {
				return cli.PrintJSON(os.Stdout, batch)
			}

			fmt.Fprintf(os.Stdout, "%d devices, %d high risk\n\n",
				batch.TotalEquipment, batch.HighRiskCount)
			table := cli.NewTable(os.Stdout)
			table.Row("EQUIPMENT", "RISK", "PROBABILITY")
			for _, summary := range batch.Predictions {
				table.Row(summary.EquipmentName, summary.RiskLevel,
					fmt.Sprintf("%.0f%%", summary.Probability*100))
			}
			table.Flush()
			return nil
		},
	}
}
