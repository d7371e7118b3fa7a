// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashboardui

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/plantwatch-project/plantwatch/lib/clock"
	"github.com/plantwatch-project/plantwatch/monitoring"
	"github.com/plantwatch-project/plantwatch/viewsync"
)

// testFeeds starts three synchronizers against stub fetches and
// returns them with the query the events feed last saw.
func testFeeds(t *testing.T) (Feeds, *atomic.Value) {
	t.Helper()
	fake := clock.Fake(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	var lastEventQuery atomic.Value
	lastEventQuery.Store(monitoring.EventQuery{})

	stats, err := viewsync.Start(ctx, viewsync.Config[struct{}, *monitoring.DashboardStats]{
		Fetch: func(context.Context, struct{}) (*monitoring.DashboardStats, error) {
			return &monitoring.DashboardStats{TotalDevices: 5, OnlineDevices: 4, ErrorDevices: 1}, nil
		},
		Interval: time.Minute,
		Clock:    fake,
	})
	if err != nil {
		t.Fatalf("starting stats feed: %v", err)
	}
	chart, err := viewsync.Start(ctx, viewsync.Config[struct{}, *monitoring.TemperatureChart]{
		Fetch: func(context.Context, struct{}) (*monitoring.TemperatureChart, error) {
			return &monitoring.TemperatureChart{
				Data:     []monitoring.ChartPoint{{Time: "09:00", Value: 61.5}, {Time: "10:00", Value: 64.0}},
				AvgValue: 62.75, MinValue: 61.5, MaxValue: 64.0,
			}, nil
		},
		Interval: time.Minute,
		Clock:    fake,
	})
	if err != nil {
		t.Fatalf("starting chart feed: %v", err)
	}
	events, err := viewsync.Start(ctx, viewsync.Config[monitoring.EventQuery, []monitoring.Event]{
		Fetch: func(_ context.Context, query monitoring.EventQuery) ([]monitoring.Event, error) {
			lastEventQuery.Store(query)
			return []monitoring.Event{
				{ID: 1, Type: "critical", Device: "Compressor B", Message: "temperature high"},
			}, nil
		},
		Interval: time.Minute,
		Clock:    fake,
	})
	if err != nil {
		t.Fatalf("starting events feed: %v", err)
	}

	feeds := Feeds{Stats: stats, Chart: chart, Events: events}
	t.Cleanup(func() {
		feeds.Stats.Stop()
		feeds.Chart.Stop()
		feeds.Events.Stop()
	})
	return feeds, &lastEventQuery
}

// apply feeds one message to the model and returns the updated model.
func apply(t *testing.T, model Model, message tea.Msg) Model {
	t.Helper()
	updated, _ := model.Update(message)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T", updated)
	}
	return next
}

func TestPanesRenderPublishedData(t *testing.T) {
	feeds, _ := testFeeds(t)
	model := NewModel(feeds, "admin")

	statsUpdate := <-feeds.Stats.Updates()
	chartUpdate := <-feeds.Chart.Updates()
	eventsUpdate := <-feeds.Events.Updates()

	model = apply(t, model, statsMsg(statsUpdate))
	model = apply(t, model, chartMsg(chartUpdate))
	model = apply(t, model, eventsMsg(eventsUpdate))

	view := model.View()
	for _, want := range []string{"5 devices", "4 online", "1 error", "avg 62.8", "Compressor B", "admin"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestFailedRefreshKeepsOldData(t *testing.T) {
	feeds, _ := testFeeds(t)
	model := NewModel(feeds, "admin")

	model = apply(t, model, statsMsg(<-feeds.Stats.Updates()))
	model = apply(t, model, statsMsg{Seq: 2, Err: errors.New("service hiccup")})

	view := model.View()
	if !strings.Contains(view, "5 devices") {
		t.Error("previous data gone after a failed refresh")
	}
	if !strings.Contains(view, "stale") {
		t.Error("failed refresh not marked stale")
	}
}

func TestFilterKeyCyclesEventQuery(t *testing.T) {
	feeds, lastQuery := testFeeds(t)
	model := NewModel(feeds, "admin")
	<-feeds.Events.Updates()

	model = apply(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	<-feeds.Events.Updates()
	if query := lastQuery.Load().(monitoring.EventQuery); query.Level != "warning" {
		t.Errorf("level after one cycle = %q, want warning", query.Level)
	}

	model = apply(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	<-feeds.Events.Updates()
	if query := lastQuery.Load().(monitoring.EventQuery); query.Level != "critical" {
		t.Errorf("level after two cycles = %q, want critical", query.Level)
	}
}

func TestFeedClosureMeansSessionLoss(t *testing.T) {
	feeds, _ := testFeeds(t)
	model := NewModel(feeds, "admin")

	model = apply(t, model, feedClosedMsg{name: "stats"})
	if !model.SessionLost() {
		t.Error("unexpected feed closure not treated as session loss")
	}
}

func TestQuitKey(t *testing.T) {
	feeds, _ := testFeeds(t)
	model := NewModel(feeds, "admin")

	updated, command := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	model = updated.(Model)
	if command == nil {
		t.Fatal("quit key produced no command")
	}
	if model.SessionLost() {
		t.Error("user quit misreported as session loss")
	}
	// The feeds are stopped; their channels close.
	if _, open := <-feeds.Stats.Updates(); open {
		// An in-flight first update may still be buffered; the
		// channel must close right after.
		if _, stillOpen := <-feeds.Stats.Updates(); stillOpen {
			t.Error("stats feed still publishing after quit")
		}
	}
}
