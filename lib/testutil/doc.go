// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds small test helpers shared across packages:
// channel assertions with timeouts, so tests of the asynchronous
// synchronization layer cannot hang the suite.
package testutil
