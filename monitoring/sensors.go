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

// SensorData fetches a device's sensor readings over the query
// window, grouped by sensor type.
func (c *Client) SensorData(ctx context.Context, deviceID int64, dataQuery SensorDataQuery) (SensorSeriesByType, error) {
	query := url.Values{}
	if dataQuery.Hours > 0 {
		query.Set("hours", strconv.Itoa(dataQuery.Hours))
	}
	if dataQuery.Type != "" {
		query.Set("sensor_type", string(dataQuery.Type))
	}

	path := "/sensors/" + strconv.FormatInt(deviceID, 10) + "/data"
	body, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, fmt.Errorf("monitoring: fetching sensor data for equipment %d: %w", deviceID, err)
	}

	var series SensorSeriesByType
	if err := json.Unmarshal(body, &series); err != nil {
		return nil, fmt.Errorf("monitoring: parsing sensor data: %w", err)
	}
	return series, nil
}

// LatestReadings fetches the newest reading from each of a device's
// sensors, keyed by sensor type. Sensors with no data yet are absent
// from the map.
func (c *Client) LatestReadings(ctx context.Context, deviceID int64) (LatestReadingsByType, error) {
	path := "/sensors/" + strconv.FormatInt(deviceID, 10) + "/latest"
	body, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("monitoring: fetching latest readings for equipment %d: %w", deviceID, err)
	}

	var readings LatestReadingsByType
	if err := json.Unmarshal(body, &readings); err != nil {
		return nil, fmt.Errorf("monitoring: parsing latest readings: %w", err)
	}
	return readings, nil
}
