// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Events fetches the event feed, newest first, bounded by the query's
// severity level and lookback window.
func (c *Client) Events(ctx context.Context, eventQuery EventQuery) ([]Event, error) {
	query := url.Values{}
	if eventQuery.Level != "" {
		query.Set("level", eventQuery.Level)
	}
	if eventQuery.Hours > 0 {
		query.Set("hours", strconv.Itoa(eventQuery.Hours))
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/events", query, nil)
	if err != nil {
		return nil, fmt.Errorf("monitoring: fetching events: %w", err)
	}

	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("monitoring: parsing events: %w", err)
	}
	return events, nil
}

// Alerts fetches full alert records, optionally restricted to unread
// ones.
func (c *Client) Alerts(ctx context.Context, unreadOnly bool) ([]Alert, error) {
	var query url.Values
	if unreadOnly {
		query = url.Values{"unread_only": {"true"}}
	}
	body, err := c.doRequest(ctx, http.MethodGet, "/events/alerts", query, nil)
	if err != nil {
		return nil, fmt.Errorf("monitoring: fetching alerts: %w", err)
	}

	var alerts []Alert
	if err := json.Unmarshal(body, &alerts); err != nil {
		return nil, fmt.Errorf("monitoring: parsing alerts: %w", err)
	}
	return alerts, nil
}

// MarkEventRead marks one alert as read.
func (c *Client) MarkEventRead(ctx context.Context, id int64) error {
	path := "/events/" + strconv.FormatInt(id, 10) + "/read"
	if _, err := c.doRequest(ctx, http.MethodPut, path, nil, nil); err != nil {
		return fmt.Errorf("monitoring: marking event %d read: %w", id, err)
	}
	return nil
}

// MarkAllEventsRead marks every unread alert as read.
func (c *Client) MarkAllEventsRead(ctx context.Context) error {
	if _, err := c.doRequest(ctx, http.MethodPut, "/events/read-all", nil, nil); err != nil {
		return fmt.Errorf("monitoring: marking all events read: %w", err)
	}
	return nil
}

// EventStats fetches the alert backlog summary.
func (c *Client) EventStats(ctx context.Context) (*EventStats, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/events/stats", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("monitoring: fetching event stats: %w", err)
	}

	var stats EventStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("monitoring: parsing event stats: %w", err)
	}
	return &stats, nil
}
