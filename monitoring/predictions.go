// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// PredictFailure runs a failure prediction for one device over the
// given horizon. A horizon of 0 uses the service default (48 hours).
// The service restricts predictions to administrators and managers.
func (c *Client) PredictFailure(ctx context.Context, deviceID int64, horizonHours int) (*Prediction, error) {
	requestBody := map[string]any{
		"equipment_id": deviceID,
	}
	if horizonHours > 0 {
		requestBody["horizon_hours"] = horizonHours
	}

	path := "/predictions/" + strconv.FormatInt(deviceID, 10)
	body, err := c.doRequest(ctx, http.MethodPost, path, nil, requestBody)
	if err != nil {
		return nil, fmt.Errorf("monitoring: predicting failure for equipment %d: %w", deviceID, err)
	}

	var prediction Prediction
	if err := json.Unmarshal(body, &prediction); err != nil {
		return nil, fmt.Errorf("monitoring: parsing prediction: %w", err)
	}
	return &prediction, nil
}

// Anomalies checks a device's recent sensor data for anomalies.
func (c *Client) Anomalies(ctx context.Context, deviceID int64) (*AnomalyReport, error) {
	path := "/predictions/" + strconv.FormatInt(deviceID, 10) + "/anomalies"
	body, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("monitoring: checking anomalies for equipment %d: %w", deviceID, err)
	}

	var report AnomalyReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("monitoring: parsing anomaly report: %w", err)
	}
	return &report, nil
}

// PredictAll runs a fleet-wide risk prediction and returns the
// summary, most critical first.
func (c *Client) PredictAll(ctx context.Context) (*BatchPrediction, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/predictions/batch", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("monitoring: running batch prediction: %w", err)
	}

	var batch BatchPrediction
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, fmt.Errorf("monitoring: parsing batch prediction: %w", err)
	}
	return &batch, nil
}
