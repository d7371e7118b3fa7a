// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package viewsync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestGather(t *testing.T) {
	t.Run("all succeed", func(t *testing.T) {
		var completed atomic.Int64
		task := func(ctx context.Context) error {
			completed.Add(1)
			return nil
		}
		if err := Gather(context.Background(), task, task, task); err != nil {
			t.Fatalf("Gather failed: %v", err)
		}
		if completed.Load() != 3 {
			t.Errorf("completed = %d, want 3", completed.Load())
		}
	})

	t.Run("one failure does not cancel the rest", func(t *testing.T) {
		historyDown := errors.New("history endpoint down")
		var completed atomic.Int64
		err := Gather(context.Background(),
			func(ctx context.Context) error {
				completed.Add(1)
				return nil
			},
			func(ctx context.Context) error {
				return historyDown
			},
			func(ctx context.Context) error {
				completed.Add(1)
				return nil
			},
		)
		if !errors.Is(err, historyDown) {
			t.Fatalf("err = %v, want the task failure", err)
		}
		if completed.Load() != 2 {
			t.Errorf("completed = %d, want 2", completed.Load())
		}
	})

	t.Run("multiple failures all reported", func(t *testing.T) {
		first := errors.New("first")
		second := errors.New("second")
		err := Gather(context.Background(),
			func(ctx context.Context) error { return first },
			func(ctx context.Context) error { return second },
		)
		if !errors.Is(err, first) || !errors.Is(err, second) {
			t.Errorf("err = %v, want both failures", err)
		}
	})

	t.Run("no tasks", func(t *testing.T) {
		if err := Gather(context.Background()); err != nil {
			t.Errorf("Gather with no tasks returned %v", err)
		}
	})
}
