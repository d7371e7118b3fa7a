// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package viewsync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/plantwatch-project/plantwatch/lib/clock"
	"github.com/plantwatch-project/plantwatch/lib/testutil"
)

const interval = 30 * time.Second

var testEpoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestInitialFetch(t *testing.T) {
	fake := clock.Fake(testEpoch)
	synchronizer, err := Start(context.Background(), Config[string, string]{
		Fetch: func(ctx context.Context, query string) (string, error) {
			return "data for " + query, nil
		},
		Query:    "all",
		Interval: interval,
		Clock:    fake,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer synchronizer.Stop()

	// The first fetch happens on start, before any tick.
	update := testutil.RequireReceive(t, synchronizer.Updates(), time.Second, "initial update")
	if update.Err != nil {
		t.Fatalf("initial update carried error: %v", update.Err)
	}
	if update.Data != "data for all" {
		t.Errorf("Data = %q", update.Data)
	}
	if update.Seq != 1 {
		t.Errorf("Seq = %d, want 1", update.Seq)
	}
	if !update.FetchedAt.Equal(testEpoch) {
		t.Errorf("FetchedAt = %v, want clock time", update.FetchedAt)
	}
}

func TestScheduledRefetch(t *testing.T) {
	fake := clock.Fake(testEpoch)
	var fetchCount atomic.Int64
	synchronizer, err := Start(context.Background(), Config[struct{}, int64]{
		Fetch: func(ctx context.Context, _ struct{}) (int64, error) {
			return fetchCount.Add(1), nil
		},
		Interval: interval,
		Clock:    fake,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer synchronizer.Stop()

	first := testutil.RequireReceive(t, synchronizer.Updates(), time.Second, "initial update")
	fake.Advance(interval)
	second := testutil.RequireReceive(t, synchronizer.Updates(), time.Second, "scheduled update")

	if second.Seq <= first.Seq {
		t.Errorf("Seq not increasing: %d then %d", first.Seq, second.Seq)
	}
	if second.Data != 2 {
		t.Errorf("second fetch returned %d, want 2", second.Data)
	}
}

func TestTickSkippedWhileFetchOutstanding(t *testing.T) {
	fake := clock.Fake(testEpoch)
	release := make(chan struct{})
	var fetchCount atomic.Int64
	synchronizer, err := Start(context.Background(), Config[struct{}, int64]{
		Fetch: func(ctx context.Context, _ struct{}) (int64, error) {
			count := fetchCount.Add(1)
			if count > 1 {
				<-release
			}
			return count, nil
		},
		Interval: interval,
		Clock:    fake,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer synchronizer.Stop()

	testutil.RequireReceive(t, synchronizer.Updates(), time.Second, "initial update")

	// Second fetch starts on the tick and blocks.
	fake.Advance(interval)
	for fetchCount.Load() < 2 {
		time.Sleep(time.Millisecond)
	}

	// Further ticks while it is outstanding must not stack fetches.
	fake.Advance(interval)
	fake.Advance(interval)
	testutil.RequireNoReceive(t, synchronizer.Updates(), 50*time.Millisecond, "update while fetch blocked")
	if count := fetchCount.Load(); count != 2 {
		t.Fatalf("fetch count = %d during outstanding fetch, want 2", count)
	}

	close(release)
	update := testutil.RequireReceive(t, synchronizer.Updates(), time.Second, "released update")
	if update.Data != 2 {
		t.Errorf("Data = %d, want 2", update.Data)
	}
}

func TestQueryChangeDiscardsStaleResult(t *testing.T) {
	fake := clock.Fake(testEpoch)
	releaseSlow := make(chan struct{})
	synchronizer, err := Start(context.Background(), Config[string, string]{
		Fetch: func(ctx context.Context, query string) (string, error) {
			if query == "online" {
				<-releaseSlow
			}
			return "devices: " + query, nil
		},
		Query:    "online",
		Interval: interval,
		Clock:    fake,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer synchronizer.Stop()

	// While the fetch for "online" hangs, the user switches the
	// filter. The new fetch goes out immediately.
	synchronizer.SetQuery("error")
	update := testutil.RequireReceive(t, synchronizer.Updates(), time.Second, "update for new query")
	if update.Data != "devices: error" {
		t.Fatalf("Data = %q, want result for new query", update.Data)
	}

	// The slow response finally lands — for the superseded query.
	// It must never be published.
	close(releaseSlow)
	testutil.RequireNoReceive(t, synchronizer.Updates(), 50*time.Millisecond, "stale result published")

	// The schedule carries on with the new query, sequence still
	// increasing.
	fake.Advance(interval)
	next := testutil.RequireReceive(t, synchronizer.Updates(), time.Second, "scheduled update")
	if next.Data != "devices: error" {
		t.Errorf("Data = %q", next.Data)
	}
	if next.Seq <= update.Seq {
		t.Errorf("Seq not increasing: %d then %d", update.Seq, next.Seq)
	}
}

func TestFetchErrorKeepsSchedule(t *testing.T) {
	fake := clock.Fake(testEpoch)
	var fetchCount atomic.Int64
	fetchFailure := errors.New("service hiccup")
	synchronizer, err := Start(context.Background(), Config[struct{}, int64]{
		Fetch: func(ctx context.Context, _ struct{}) (int64, error) {
			count := fetchCount.Add(1)
			if count == 1 {
				return 0, fetchFailure
			}
			return count, nil
		},
		Interval: interval,
		Clock:    fake,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer synchronizer.Stop()

	first := testutil.RequireReceive(t, synchronizer.Updates(), time.Second, "failed update")
	if !errors.Is(first.Err, fetchFailure) {
		t.Fatalf("Err = %v, want the fetch failure", first.Err)
	}

	// No backoff: the next tick fetches again at the same cadence.
	fake.Advance(interval)
	second := testutil.RequireReceive(t, synchronizer.Updates(), time.Second, "recovered update")
	if second.Err != nil {
		t.Fatalf("Err = %v after recovery", second.Err)
	}
	if second.Data != 2 {
		t.Errorf("Data = %d, want 2", second.Data)
	}
}

func TestHaltEndsLoop(t *testing.T) {
	fake := clock.Fake(testEpoch)
	sessionDead := errors.New("session expired")
	synchronizer, err := Start(context.Background(), Config[struct{}, int]{
		Fetch: func(ctx context.Context, _ struct{}) (int, error) {
			return 0, sessionDead
		},
		Interval: interval,
		Halt:     func(err error) bool { return errors.Is(err, sessionDead) },
		Clock:    fake,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	update := testutil.RequireReceive(t, synchronizer.Updates(), time.Second, "halting update")
	if !errors.Is(update.Err, sessionDead) {
		t.Fatalf("Err = %v, want the halting error", update.Err)
	}
	testutil.RequireClosed(t, synchronizer.Done(), time.Second, "loop end after halt")

	// The updates channel closes; nothing further arrives.
	if _, open := <-synchronizer.Updates(); open {
		t.Error("updates channel still open after halt")
	}
}

func TestRefresh(t *testing.T) {
	fake := clock.Fake(testEpoch)
	var fetchCount atomic.Int64
	synchronizer, err := Start(context.Background(), Config[struct{}, int64]{
		Fetch: func(ctx context.Context, _ struct{}) (int64, error) {
			return fetchCount.Add(1), nil
		},
		Interval: interval,
		Clock:    fake,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer synchronizer.Stop()

	testutil.RequireReceive(t, synchronizer.Updates(), time.Second, "initial update")

	// Refresh fetches now, without waiting for the tick.
	synchronizer.Refresh()
	update := testutil.RequireReceive(t, synchronizer.Updates(), time.Second, "refreshed update")
	if update.Data != 2 {
		t.Errorf("Data = %d, want 2", update.Data)
	}
}

func TestStop(t *testing.T) {
	fake := clock.Fake(testEpoch)
	synchronizer, err := Start(context.Background(), Config[struct{}, int]{
		Fetch: func(ctx context.Context, _ struct{}) (int, error) {
			return 1, nil
		},
		Interval: interval,
		Clock:    fake,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	testutil.RequireReceive(t, synchronizer.Updates(), time.Second, "initial update")
	synchronizer.Stop()
	testutil.RequireClosed(t, synchronizer.Done(), time.Second, "loop end after Stop")

	if _, open := <-synchronizer.Updates(); open {
		t.Error("updates channel still open after Stop")
	}

	// Stop again, and poke the dead loop; all no-ops.
	synchronizer.Stop()
	synchronizer.Refresh()
	synchronizer.SetQuery(struct{}{})
}

func TestContextCancel(t *testing.T) {
	fake := clock.Fake(testEpoch)
	ctx, cancel := context.WithCancel(context.Background())
	synchronizer, err := Start(ctx, Config[struct{}, int]{
		Fetch: func(ctx context.Context, _ struct{}) (int, error) {
			return 1, nil
		},
		Interval: interval,
		Clock:    fake,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	testutil.RequireReceive(t, synchronizer.Updates(), time.Second, "initial update")
	cancel()
	testutil.RequireClosed(t, synchronizer.Done(), time.Second, "loop end after cancel")
}

func TestStartValidation(t *testing.T) {
	if _, err := Start(context.Background(), Config[int, int]{Interval: interval}); err == nil {
		t.Error("expected error for missing Fetch")
	}
	if _, err := Start(context.Background(), Config[int, int]{
		Fetch: func(ctx context.Context, _ int) (int, error) { return 0, nil },
	}); err == nil {
		t.Error("expected error for missing Interval")
	}
}
