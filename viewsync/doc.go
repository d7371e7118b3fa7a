// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package viewsync keeps a console view's data fresh by polling a
// fetch function on an interval.
//
// A Synchronizer owns one view's refresh loop: it fetches on start,
// re-fetches on a timer, and re-fetches immediately when the view's
// query changes. Every fetch carries a sequence number, and only the
// newest issued fetch may publish — a slow response can never
// overwrite the result of a fetch issued after it. At most one
// scheduled fetch is outstanding at a time: a tick that finds the
// previous fetch still in flight is skipped, so fetches never stack
// up behind a slow service.
//
// Fetch errors are published like results and the schedule carries on
// at the same cadence; there is no backoff. A Halt predicate lets the
// owner name errors that should end the loop instead, which is how a
// collapsed session stops every view's polling.
//
// Gather complements the Synchronizer for detail views that need
// several endpoints at once: it fans out the fetches and settles them
// all, so one failed panel doesn't blank the rest.
package viewsync
