// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package monitoring wraps the remote equipment-monitoring service's
// REST API.
//
// [Client] is the single gateway through which every outbound request
// passes. It attaches the base address, JSON content negotiation, and
// the bearer credential obtained from a [TokenProvider] (in practice
// the session manager). The gateway is also the only component that
// reacts to authorization failures: any 401 response synchronously
// invokes the configured SessionExpired hook and surfaces to the
// caller as an error wrapping [ErrSessionExpired]. No retries are
// attempted.
//
// All other non-2xx responses are returned verbatim as [*APIError]
// with the HTTP status code and the service's detail message, for the
// caller to interpret per operation. Transport failures (unreachable
// service, timeout) are wrapped and returned without touching session
// state.
//
// One typed method exists per remote operation: authentication
// (Login, Logout, Me, Operators), equipment (Devices, Device,
// CreateDevice, UpdateDeviceStatus, MaintenanceHistory,
// AddMaintenanceRecord), sensor data (SensorData, LatestReadings),
// the event feed (Events, Alerts, MarkEventRead, MarkAllEventsRead,
// EventStats), failure prediction (PredictFailure, Anomalies,
// PredictAll), and the dashboard (DashboardStats, TemperatureChart).
// Wire types pass the service's payloads through unmodified; the
// client does not interpret business fields.
package monitoring
