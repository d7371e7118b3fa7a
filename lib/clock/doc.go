// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for the polling layer.
//
// Production code injects [Real]; tests inject [Fake] and drive time
// with [FakeClock.Advance], so refresh schedules can be tested without
// sleeping. Code that polls or waits should accept a [Clock] instead
// of calling the time package directly.
package clock
