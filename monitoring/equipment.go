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

// Devices lists monitored equipment. statusFilter restricts to one
// DeviceStatus; empty or "all" returns the whole fleet.
func (c *Client) Devices(ctx context.Context, statusFilter string) ([]Device, error) {
	var query url.Values
	if statusFilter != "" {
		query = url.Values{"status_filter": {statusFilter}}
	}
	body, err := c.doRequest(ctx, http.MethodGet, "/equipment", query, nil)
	if err != nil {
		return nil, fmt.Errorf("monitoring: listing equipment: %w", err)
	}

	var devices []Device
	if err := json.Unmarshal(body, &devices); err != nil {
		return nil, fmt.Errorf("monitoring: parsing equipment list: %w", err)
	}
	return devices, nil
}

// Device fetches one device with its sensors and current metrics.
func (c *Client) Device(ctx context.Context, id int64) (*Device, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/equipment/"+strconv.FormatInt(id, 10), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("monitoring: fetching equipment %d: %w", id, err)
	}

	var device Device
	if err := json.Unmarshal(body, &device); err != nil {
		return nil, fmt.Errorf("monitoring: parsing equipment %d: %w", id, err)
	}
	return &device, nil
}

// CreateDevice registers new equipment. The service restricts this to
// administrators.
func (c *Client) CreateDevice(ctx context.Context, device NewDevice) (*Device, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/equipment", nil, device)
	if err != nil {
		return nil, fmt.Errorf("monitoring: creating equipment: %w", err)
	}

	var created Device
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("monitoring: parsing created equipment: %w", err)
	}
	return &created, nil
}

// UpdateDeviceStatus sets a device's operational status. The new
// status travels as a query parameter, matching the service contract.
func (c *Client) UpdateDeviceStatus(ctx context.Context, id int64, status DeviceStatus) error {
	query := url.Values{"new_status": {string(status)}}
	path := "/equipment/" + strconv.FormatInt(id, 10) + "/status"
	if _, err := c.doRequest(ctx, http.MethodPut, path, query, nil); err != nil {
		return fmt.Errorf("monitoring: updating status of equipment %d: %w", id, err)
	}
	return nil
}

// MaintenanceHistory lists a device's maintenance records, newest
// first.
func (c *Client) MaintenanceHistory(ctx context.Context, id int64) ([]MaintenanceRecord, error) {
	path := "/equipment/" + strconv.FormatInt(id, 10) + "/history"
	body, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("monitoring: fetching maintenance history for equipment %d: %w", id, err)
	}

	var records []MaintenanceRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("monitoring: parsing maintenance history: %w", err)
	}
	return records, nil
}

// AddMaintenanceRecord logs a maintenance entry against a device.
func (c *Client) AddMaintenanceRecord(ctx context.Context, id int64, record NewMaintenanceRecord) error {
	path := "/equipment/" + strconv.FormatInt(id, 10) + "/maintenance"
	if _, err := c.doRequest(ctx, http.MethodPost, path, nil, record); err != nil {
		return fmt.Errorf("monitoring: adding maintenance record for equipment %d: %w", id, err)
	}
	return nil
}
