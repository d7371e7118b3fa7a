// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestDispatch(t *testing.T) {
	var ran []string
	leaf := func(name string) *Command {
		return &Command{
			Name:    name,
			Summary: name,
			Run: func(_ context.Context, args []string, _ *slog.Logger) error {
				ran = append(ran, name)
				return nil
			},
		}
	}
	root := &Command{
		Name: "plantwatch",
		Subcommands: []*Command{
			{Name: "devices", Subcommands: []*Command{leaf("list"), leaf("show")}},
			leaf("whoami"),
		},
	}

	if err := root.Execute(context.Background(), []string{"devices", "list"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if err := root.Execute(context.Background(), []string{"whoami"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(ran) != 2 || ran[0] != "list" || ran[1] != "whoami" {
		t.Errorf("ran = %v", ran)
	}
}

func TestUnknownCommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "plantwatch",
		Subcommands: []*Command{
			{Name: "devices", Summary: "devices"},
			{Name: "events", Summary: "events"},
		},
	}

	err := root.Execute(context.Background(), []string{"devcies"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "devices"`) {
		t.Errorf("error %q lacks suggestion", err)
	}
}

func TestUnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "list",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flags.String("status", "", "")
			return flags
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			return nil
		},
	}

	err := command.Execute(context.Background(), []string{"--staus", "online"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "--status") {
		t.Errorf("error %q lacks flag suggestion", err)
	}
}

func TestFlagParsing(t *testing.T) {
	var status string
	var gotArgs []string
	command := &Command{
		Name: "list",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flags.StringVar(&status, "status", "", "")
			return flags
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			gotArgs = args
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"--status", "error", "extra"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if status != "error" {
		t.Errorf("status = %q", status)
	}
	if len(gotArgs) != 1 || gotArgs[0] != "extra" {
		t.Errorf("args = %v", gotArgs)
	}
}

func TestHelpOutput(t *testing.T) {
	root := &Command{
		Name:        "plantwatch",
		Description: "The console.",
		Subcommands: []*Command{
			{Name: "devices", Summary: "Inspect the fleet"},
		},
	}

	var help strings.Builder
	root.PrintHelp(&help)
	for _, want := range []string{"The console.", "devices", "Inspect the fleet", "--help"} {
		if !strings.Contains(help.String(), want) {
			t.Errorf("help output missing %q:\n%s", want, help.String())
		}
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"devices", "devices", 0},
		{"devcies", "devices", 2},
		{"lst", "list", 1},
		{"whoami", "logout", 6},
	}
	for _, testCase := range cases {
		if got := levenshtein(testCase.a, testCase.b); got != testCase.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", testCase.a, testCase.b, got, testCase.want)
		}
	}
}
