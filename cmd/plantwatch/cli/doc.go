// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command framework for the plantwatch CLI:
// a Command tree with pflag parsing, structured help output, typo
// suggestions for unknown commands and flags, categorized errors, and
// shared helpers for session loading and secret prompting. Commands
// are assembled into a tree in cmd/plantwatch/commands and dispatched
// from main.
package cli
