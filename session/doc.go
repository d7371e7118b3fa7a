// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package session owns the console's authentication lifecycle.
//
// The Manager is the single authority on who is logged in. It
// constructs the monitoring gateway client itself, wiring its own
// token as the client's credential and its own invalidation as the
// client's session-expiry hook, so a rejected credential anywhere in
// the console collapses the session exactly once, from one place.
//
// Lifecycle: a Manager starts Initializing, and Hydrate moves it to
// Authenticated (a stored token was found and validated) or
// Unauthenticated. Login and Logout move between the two settled
// states. Invalidate forces Unauthenticated from anywhere and is safe
// to call repeatedly and concurrently.
package session
