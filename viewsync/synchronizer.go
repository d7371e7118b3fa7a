// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package viewsync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/plantwatch-project/plantwatch/lib/clock"
)

// Update is one publication from a Synchronizer: either fresh data or
// the error that prevented it.
type Update[T any] struct {
	// Seq is the fetch's sequence number. Strictly increasing across
	// the updates a consumer receives.
	Seq uint64

	// Data is the fetched result. Meaningful only when Err is nil.
	Data T

	// Err is the fetch failure, if any. The view keeps showing its
	// previous data and the schedule continues.
	Err error

	// FetchedAt is when the fetch was issued.
	FetchedAt time.Time
}

// Config configures a Synchronizer.
type Config[Q, T any] struct {
	// Fetch retrieves the view's data for a query. Required. Called
	// from the synchronizer's goroutines; it must honor ctx.
	Fetch func(ctx context.Context, query Q) (T, error)

	// Query is the initial query.
	Query Q

	// Interval is the polling cadence. Required, positive.
	Interval time.Duration

	// Halt, when set, names fetch errors that end the loop: the
	// error is published and then the synchronizer stops itself.
	// Used to stop polling when the session collapses.
	Halt func(error) bool

	// Clock defaults to clock.Real(). Tests inject a fake.
	Clock clock.Clock

	// Logger receives fetch failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// Synchronizer runs one view's refresh loop. Create with Start; all
// methods are safe for concurrent use.
type Synchronizer[Q, T any] struct {
	updates chan Update[T]
	done    chan struct{}

	setQuery chan Q
	refresh  chan struct{}
	stop     chan struct{}
}

// fetchResult carries a completed fetch back to the loop.
type fetchResult[T any] struct {
	seq      uint64
	data     T
	err      error
	issuedAt time.Time
}

// Start launches the refresh loop. The first fetch is issued
// immediately. The loop runs until Stop is called, ctx is canceled,
// or a fetch error satisfies config.Halt; the updates channel is
// closed on the way out.
func Start[Q, T any](ctx context.Context, config Config[Q, T]) (*Synchronizer[Q, T], error) {
	if config.Fetch == nil {
		return nil, fmt.Errorf("viewsync: config.Fetch is required")
	}
	if config.Interval <= 0 {
		return nil, fmt.Errorf("viewsync: config.Interval must be positive, got %v", config.Interval)
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	synchronizer := &Synchronizer[Q, T]{
		updates:  make(chan Update[T], 1),
		done:     make(chan struct{}),
		setQuery: make(chan Q),
		refresh:  make(chan struct{}),
		stop:     make(chan struct{}),
	}
	go synchronizer.run(ctx, config)
	return synchronizer, nil
}

// Updates returns the channel updates are published on. The channel
// has capacity 1 and stale updates are replaced, not queued: a
// consumer that falls behind sees the newest state, not a backlog.
// Closed when the loop ends.
func (s *Synchronizer[Q, T]) Updates() <-chan Update[T] {
	return s.updates
}

// SetQuery changes the view's query. A fetch for the new query is
// issued immediately, and any in-flight fetch for the old query is
// barred from publishing. No-op after the loop has ended.
func (s *Synchronizer[Q, T]) SetQuery(query Q) {
	select {
	case s.setQuery <- query:
	case <-s.done:
	}
}

// Refresh issues an immediate fetch with the current query, unless
// one is already in flight. No-op after the loop has ended.
func (s *Synchronizer[Q, T]) Refresh() {
	select {
	case s.refresh <- struct{}{}:
	case <-s.done:
	}
}

// Stop ends the loop. Blocks until the loop has shut down; nothing is
// published afterward. Safe to call more than once.
func (s *Synchronizer[Q, T]) Stop() {
	select {
	case s.stop <- struct{}{}:
	case <-s.done:
	}
	<-s.done
}

// Done is closed once the loop has fully shut down.
func (s *Synchronizer[Q, T]) Done() <-chan struct{} {
	return s.done
}

func (s *Synchronizer[Q, T]) run(ctx context.Context, config Config[Q, T]) {
	defer close(s.done)
	defer close(s.updates)

	ticker := config.Clock.NewTicker(config.Interval)
	defer ticker.Stop()

	results := make(chan fetchResult[T], 1)
	query := config.Query

	var issuedSeq, settledSeq uint64

	issue := func() {
		issuedSeq++
		seq := issuedSeq
		currentQuery := query
		issuedAt := config.Clock.Now()
		go func() {
			data, err := config.Fetch(ctx, currentQuery)
			select {
			case results <- fetchResult[T]{seq: seq, data: data, err: err, issuedAt: issuedAt}:
			case <-s.done:
			}
		}()
	}

	publish := func(update Update[T]) {
		// Replace a stale unconsumed update rather than queueing
		// behind it.
		for {
			select {
			case s.updates <- update:
				return
			default:
			}
			select {
			case <-s.updates:
			default:
			}
		}
	}

	issue()

	for {
		select {
		case <-ctx.Done():
			return

		case <-s.stop:
			return

		case newQuery := <-s.setQuery:
			// The new query supersedes whatever is in flight; the
			// superseded fetch loses the sequence gate below.
			query = newQuery
			issue()
			ticker.Reset(config.Interval)

		case <-s.refresh:
			if settledSeq == issuedSeq {
				issue()
			}

		case <-ticker.C:
			// Skip the tick when the previous fetch is still out;
			// scheduled fetches never stack.
			if settledSeq == issuedSeq {
				issue()
			}

		case result := <-results:
			if result.seq > settledSeq {
				settledSeq = result.seq
			}
			if result.seq != issuedSeq {
				// A newer fetch was issued after this one; its
				// answer is already stale.
				continue
			}
			if result.err != nil {
				config.Logger.Warn("view fetch failed", "seq", result.seq, "error", result.err)
			}
			publish(Update[T]{
				Seq:       result.seq,
				Data:      result.data,
				Err:       result.err,
				FetchedAt: result.issuedAt,
			})
			if result.err != nil && config.Halt != nil && config.Halt(result.err) {
				return
			}
		}
	}
}
