// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package credstore persists a console session (bearer token plus the
// user profile it belongs to) across process restarts.
//
// The session lives in a single JSON file, owner-readable only, at a
// well-known path under the user's config directory. The store is
// deliberately forgiving on the read side: a missing, unreadable, or
// corrupt file means "no stored session", never an error, so a damaged
// file degrades to a fresh login prompt instead of a broken console.
package credstore
