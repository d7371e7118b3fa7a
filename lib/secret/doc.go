// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret provides a memory-safe buffer for sensitive data such
// as passwords and access tokens.
//
// [Buffer] allocates memory outside the Go heap via mmap(MAP_ANONYMOUS),
// locks it into physical RAM via mlock so it cannot be swapped to disk,
// and marks it excluded from core dumps via madvise(MADV_DONTDUMP). On
// Close the memory is zeroed, unlocked, and unmapped. Because the
// region is invisible to the garbage collector, no stray copies of the
// secret outlive the buffer.
package secret
