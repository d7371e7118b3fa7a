// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package monitoring

import (
	"fmt"
	"time"
)

// Role is a user's access role.
type Role string

const (
	RoleOperator      Role = "operator"
	RoleAdministrator Role = "administrator"
	RoleManager       Role = "manager"
)

// DeviceStatus is the operational state of a piece of equipment.
type DeviceStatus string

const (
	StatusOnline      DeviceStatus = "online"
	StatusOffline     DeviceStatus = "offline"
	StatusError       DeviceStatus = "error"
	StatusMaintenance DeviceStatus = "maintenance"
)

// AlertSeverity is the criticality of an alert.
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// SensorType identifies what a sensor measures.
type SensorType string

const (
	SensorTemperature SensorType = "temperature"
	SensorVibration   SensorType = "vibration"
	SensorPressure    SensorType = "pressure"
	SensorCurrent     SensorType = "current"
)

// Timestamp is a time.Time that tolerates the service's timestamp
// formats. The service serializes naive UTC datetimes (no timezone
// offset) as well as RFC 3339 and bare dates; encoding/json's
// time.Time accepts only RFC 3339.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" {
		return nil
	}
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return fmt.Errorf("monitoring: invalid timestamp %s", raw)
	}
	raw = raw[1 : len(raw)-1]

	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("monitoring: unparseable timestamp %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}

// UserProfile describes an authenticated user. Immutable for the
// lifetime of a session; replaced wholesale on the next login.
type UserProfile struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"user_id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Role            Role      `json:"user_type"`
	Department      string    `json:"department,omitempty"`
	AccessLevel     int       `json:"access_level,omitempty"`
	RoleDescription string    `json:"role_description,omitempty"`
	CreatedAt       Timestamp `json:"created_at"`
}

// LoginResult is the response to a successful login.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        UserProfile `json:"user"`
}

// NewUser is the request body for creating a user account.
type NewUser struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	Role            Role   `json:"user_type"`
	Department      string `json:"department,omitempty"`
	AccessLevel     int    `json:"access_level,omitempty"`
	RoleDescription string `json:"role_description,omitempty"`
}

// Metric is a sensor's most recent reading, keyed by sensor type in
// Device.CurrentMetrics.
type Metric struct {
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
	Status string  `json:"status,omitempty"` // normal, warning, critical
}

// Sensor describes one sensor attached to a device, including its
// latest reading when the service has one.
type Sensor struct {
	ID              int64      `json:"id"`
	SensorID        string     `json:"sensor_id"`
	Type            SensorType `json:"type"`
	Location        string     `json:"location,omitempty"`
	CalibrationDate *Timestamp `json:"calibration_date,omitempty"`
	EquipmentID     int64      `json:"equipment_id"`
	LatestValue     *float64   `json:"latest_value,omitempty"`
	LatestUnit      string     `json:"latest_unit,omitempty"`
	LatestTimestamp *Timestamp `json:"latest_timestamp,omitempty"`
}

// Device is a piece of monitored equipment with its sensors and
// current metrics.
type Device struct {
	ID               int64                 `json:"id"`
	EquipmentID      string                `json:"equipment_id"`
	Name             string                `json:"name"`
	Type             string                `json:"type"`
	Status           DeviceStatus          `json:"status"`
	Location         string                `json:"location,omitempty"`
	Description      string                `json:"description,omitempty"`
	InstallationDate *Timestamp            `json:"installation_date,omitempty"`
	CreatedAt        Timestamp             `json:"created_at"`
	UpdatedAt        Timestamp             `json:"updated_at"`
	Sensors          []Sensor              `json:"sensors"`
	CurrentMetrics   map[SensorType]Metric `json:"current_metrics,omitempty"`
	LastUpdate       *Timestamp            `json:"last_update,omitempty"`
}

// NewDevice is the request body for registering equipment.
type NewDevice struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	Location         string `json:"location,omitempty"`
	Description      string `json:"description,omitempty"`
	InstallationDate string `json:"installation_date,omitempty"` // YYYY-MM-DD
}

// MaintenanceRecord is one entry in a device's maintenance history.
type MaintenanceRecord struct {
	ID          int64      `json:"id"`
	RecordID    string     `json:"record_id"`
	Date        Timestamp  `json:"date"`
	Description string     `json:"description"`
	Technician  string     `json:"technician"`
	EquipmentID int64      `json:"equipment_id"`
	Notes       string     `json:"notes,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *Timestamp `json:"completed_at,omitempty"`
	CreatedAt   Timestamp  `json:"created_at"`
}

// NewMaintenanceRecord is the request body for logging maintenance.
type NewMaintenanceRecord struct {
	Date        string `json:"date,omitempty"` // YYYY-MM-DD; server defaults to today
	Description string `json:"description"`
	Technician  string `json:"technician"`
}

// Event is the feed-oriented view of an alert: flattened, with the
// device name resolved and the timestamp preformatted by the service.
type Event struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"` // "critical" or "warning"
	Device    string `json:"device"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// EventQuery filters the event feed.
type EventQuery struct {
	// Level restricts to one severity ("warning", "critical");
	// empty or "all" returns everything.
	Level string
	// Hours is the lookback window; the service defaults to 72.
	Hours int
}

// Alert is the full alert record behind an Event.
type Alert struct {
	ID            int64         `json:"id"`
	AlertID       string        `json:"alert_id"`
	Severity      AlertSeverity `json:"severity"`
	Message       string        `json:"message"`
	Timestamp     Timestamp     `json:"timestamp"`
	EquipmentID   int64         `json:"equipment_id"`
	EquipmentName string        `json:"equipment_name,omitempty"`
	SensorID      *int64        `json:"sensor_id,omitempty"`
	IsRead        bool          `json:"is_read"`
	IsEmailSent   bool          `json:"is_email_sent"`
}

// EventStats summarizes the alert backlog.
type EventStats struct {
	UnreadCount    int `json:"unread_count"`
	TodayCount     int `json:"today_count"`
	WeekCount      int `json:"week_count"`
	CriticalUnread int `json:"critical_unread"`
}

// SensorPoint is one reading in a time series.
type SensorPoint struct {
	Timestamp Timestamp `json:"timestamp"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
}

// SensorSeries is a single sensor's readings over the query window.
type SensorSeries struct {
	SensorID string        `json:"sensor_id"`
	Data     []SensorPoint `json:"data"`
}

// SensorSeriesByType groups series by sensor type, as returned by
// the sensor-data endpoint.
type SensorSeriesByType map[SensorType]SensorSeries

// SensorDataQuery bounds a sensor-data request.
type SensorDataQuery struct {
	// Hours is the lookback window; the service defaults to 24.
	Hours int
	// Type restricts to one sensor type; empty returns all.
	Type SensorType
}

// LatestReading is the newest value from one sensor.
type LatestReading struct {
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
	Timestamp Timestamp `json:"timestamp"`
	SensorID  string    `json:"sensor_id"`
}

// LatestReadingsByType groups latest readings by sensor type.
type LatestReadingsByType map[SensorType]LatestReading

// FailurePrediction is the model's failure estimate for a device.
type FailurePrediction struct {
	Probability     float64  `json:"probability"`
	Confidence      float64  `json:"confidence"`
	TimeWindowHours int      `json:"time_window_hours"`
	RiskLevel       string   `json:"risk_level"` // low, medium, high, critical
	Factors         []string `json:"factors"`
}

// Prediction is the response to a failure-prediction request.
type Prediction struct {
	EquipmentID       int64             `json:"equipment_id"`
	EquipmentName     string            `json:"equipment_name"`
	PredictionTime    Timestamp         `json:"prediction_time"`
	FailurePrediction FailurePrediction `json:"failure_prediction"`
	Recommendations   []string          `json:"recommendations"`
	CurrentStatus     string            `json:"current_status"`
}

// Anomaly is one sensor's anomaly-detection verdict.
type Anomaly struct {
	IsAnomaly     bool      `json:"is_anomaly"`
	AnomalyScore  float64   `json:"anomaly_score"`
	SensorType    string    `json:"sensor_type"`
	CurrentValue  float64   `json:"current_value"`
	ExpectedRange []float64 `json:"expected_range"`
	Message       string    `json:"message,omitempty"`
}

// AnomalyReport is the response to an anomaly check.
type AnomalyReport struct {
	EquipmentID   int64     `json:"equipment_id"`
	EquipmentName string    `json:"equipment_name"`
	CheckTime     Timestamp `json:"check_time"`
	Anomalies     []Anomaly `json:"anomalies"`
	HasAnomalies  bool      `json:"has_anomalies"`
}

// RiskSummary is one device's entry in a batch prediction.
type RiskSummary struct {
	EquipmentID   int64   `json:"equipment_id"`
	EquipmentName string  `json:"equipment_name"`
	RiskLevel     string  `json:"risk_level"`
	Probability   float64 `json:"probability"`
}

// BatchPrediction is the fleet-wide risk summary, sorted most
// critical first by the service.
type BatchPrediction struct {
	TotalEquipment int           `json:"total_equipment"`
	HighRiskCount  int           `json:"high_risk_count"`
	Predictions    []RiskSummary `json:"predictions"`
}

// DashboardStats is the summary for the dashboard view.
type DashboardStats struct {
	TotalDevices       int `json:"total_devices"`
	OnlineDevices      int `json:"online_devices"`
	ErrorDevices       int `json:"error_devices"`
	OfflineDevices     int `json:"offline_devices"`
	MaintenanceDevices int `json:"maintenance_devices"`
	TotalAlertsToday   int `json:"total_alerts_today"`
	CriticalAlerts     int `json:"critical_alerts"`
}

// ChartPoint is one aggregated point on the temperature chart.
type ChartPoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
	Label string  `json:"label,omitempty"`
}

// TemperatureChart is the 24-hour fleet temperature aggregate.
type TemperatureChart struct {
	Data     []ChartPoint `json:"data"`
	AvgValue float64      `json:"avg_value"`
	MinValue float64      `json:"min_value"`
	MaxValue float64      `json:"max_value"`
}
