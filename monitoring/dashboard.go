// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// DashboardStats fetches the fleet summary for the dashboard view.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/dashboard/stats", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("monitoring: fetching dashboard stats: %w", err)
	}

	var stats DashboardStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("monitoring: parsing dashboard stats: %w", err)
	}
	return &stats, nil
}

// TemperatureChart fetches the 24-hour fleet temperature aggregate.
func (c *Client) TemperatureChart(ctx context.Context) (*TemperatureChart, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/dashboard/temperature-chart", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("monitoring: fetching temperature chart: %w", err)
	}

	var chart TemperatureChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("monitoring: parsing temperature chart: %w", err)
	}
	return &chart, nil
}
