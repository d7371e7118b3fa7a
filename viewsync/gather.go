// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package viewsync

import (
	"context"
	"errors"
	"sync"
)

// Gather runs the tasks concurrently and waits for all of them to
// settle. Every task runs to completion regardless of the others'
// failures, so a detail view renders the panels that loaded even when
// one endpoint is down. The returned error joins the failures, in
// task order.
func Gather(ctx context.Context, tasks ...func(ctx context.Context) error) error {
	taskErrors := make([]error, len(tasks))

	var group sync.WaitGroup
	for i, task := range tasks {
		group.Add(1)
		go func() {
			defer group.Done()
			taskErrors[i] = task(ctx)
		}()
	}
	group.Wait()

	return errors.Join(taskErrors...)
}
