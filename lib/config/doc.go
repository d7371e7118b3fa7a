// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the Plantwatch
// console.
//
// Configuration is loaded from a single YAML file specified by:
//   - PLANTWATCH_CONFIG environment variable, or
//   - --config flag passed to the command
//
// When neither is present the built-in defaults apply. Environment
// variables never override individual config values; the only
// expansion performed is ${HOME} and similar path variables for
// portability.
package config
