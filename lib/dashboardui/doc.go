// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package dashboardui implements the full-screen live dashboard: a
// bubbletea model with three panes (fleet statistics, 24-hour
// temperature aggregate, alert feed), each kept fresh by its own
// viewsync synchronizer. The model never fetches anything itself; it
// renders whatever the synchronizers last published, so a slow or
// failing endpoint degrades one pane instead of freezing the UI.
package dashboardui
