// Package models contains the value objects exchanged between the
// synthesis engine and the HTTP API.
package models

import "time"

// MachineState enumerates equipment running states.
type MachineState string

const (
	StateRunning     MachineState = "running"
	StateIdle        MachineState = "idle"
	StateMaintenance MachineState = "maintenance"
	StateAlarm       MachineState = "alarm"
)

// AlertLevel enumerates alert severities attached to machines.
type AlertLevel string

const (
	LevelNormal   AlertLevel = "normal"
	LevelInfo     AlertLevel = "info"
	LevelWarning  AlertLevel = "warning"
	LevelCritical AlertLevel = "critical"
)

// EventType enumerates the lifecycle steps of a lot journey.
type EventType string

const (
	EventRawMaterialArrival EventType = "raw_material_arrival"
	EventProcessStart       EventType = "process_start"
	EventProcessEnd         EventType = "process_end"
	EventProductCompletion  EventType = "product_completion"
	EventShipment           EventType = "shipment"
)

// QualityReading is a single quality measurement. IsOK is always derived
// from the limit band, never set independently.
type QualityReading struct {
	Timestamp  time.Time `json:"timestamp"`
	Parameter  string    `json:"parameter"`
	Value      float64   `json:"value"`
	Target     float64   `json:"target"`
	UpperLimit float64   `json:"upper_limit"`
	LowerLimit float64   `json:"lower_limit"`
	IsOK       bool      `json:"is_ok"`
	Unit       string    `json:"unit,omitempty"`
	CDProfile  []float64 `json:"cd_profile,omitempty"`
}

// InBand reports whether value lies within [lower, upper].
func InBand(value, lower, upper float64) bool {
	return value >= lower && value <= upper
}

// MachineStatus is an ephemeral equipment snapshot, regenerated wholesale
// on each refresh.
type MachineStatus struct {
	MachineID  string       `json:"machine_id"`
	Status     MachineState `json:"status"`
	LastUpdate time.Time    `json:"last_update"`
	AlertLevel AlertLevel   `json:"alert_level"`
}

// Alert is a single fault notification. ID is a dedup key for UI lists.
type Alert struct {
	ID        string     `json:"id"`
	MachineID string     `json:"machine_id"`
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
	Level     AlertLevel `json:"level"`
}

// KPIMetric is one key performance indicator with its derived achievement rate.
type KPIMetric struct {
	Value           float64 `json:"value"`
	Target          float64 `json:"target"`
	Unit            string  `json:"unit"`
	AchievementRate float64 `json:"achievement_rate"`
}

// ProcessState summarises one pipeline stage for the factory-flow view.
type ProcessState struct {
	Status        MachineState `json:"status"`
	ActiveBatches int          `json:"active_batches"`
	RecentAlerts  int          `json:"recent_alerts"`
}

// TimelineEvent is one lifecycle step in a lot journey. Data holds
// free-form attributes relevant to the event type.
type TimelineEvent struct {
	Timestamp   time.Time              `json:"timestamp"`
	EventType   EventType              `json:"event_type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data"`
}

// SearchResult is one entry in a traceability search response. Type is
// "product", "batch" or "raw_material".
type SearchResult struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// TimeRange bounds a monitoring window.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SummaryResponse is the payload of GET /dashboard/summary.
type SummaryResponse struct {
	KPIs           map[string]KPIMetric `json:"kpis"`
	ActiveBatches  int                  `json:"active_batches"`
	CriticalAlerts []Alert              `json:"critical_alerts"`
	LastUpdated    time.Time            `json:"last_updated"`
}

// ProcessFlowResponse is the payload of GET /dashboard/process-flow.
type ProcessFlowResponse struct {
	Processes map[string]ProcessState `json:"processes"`
}

// ProcessMonitoringResponse is the payload of GET /dashboard/process/{code}.
type ProcessMonitoringResponse struct {
	ProcessCode   string           `json:"process_code"`
	TimeRange     TimeRange        `json:"time_range"`
	QualityData   []QualityReading `json:"quality_data"`
	MachineStatus []MachineStatus  `json:"machine_status"`
	TotalRecords  int              `json:"total_records"`
}

// QualityTrendResponse is the payload of GET /dashboard/quality-trend/{parameter}.
type QualityTrendResponse struct {
	Parameter string           `json:"parameter"`
	Data      []QualityReading `json:"data"`
	TimeRange TrendRange       `json:"time_range"`
}

// TrendRange describes the trailing window of a quality trend.
type TrendRange struct {
	Hours     int       `json:"hours"`
	StartTime time.Time `json:"start_time"`
}

// SearchResponse is the payload of GET /traceability/search.
type SearchResponse struct {
	SearchResults []SearchResult `json:"search_results"`
}

// YieldSummary is the derived mass balance of a lot journey.
type YieldSummary struct {
	InitialKg float64 `json:"initial_kg"`
	FinalKg   float64 `json:"final_kg"`
	YieldPct  float64 `json:"yield_pct"`
}

// JourneyResponse is the payload of GET /traceability/journey/{lotId}.
// Yield is omitted entirely when it is not computable from the timeline.
type JourneyResponse struct {
	LotID    string          `json:"lot_id"`
	BatchID  string          `json:"batch_id"`
	Timeline []TimelineEvent `json:"timeline"`
	Yield    *YieldSummary   `json:"yield,omitempty"`
}

// HealthStatus is the payload of GET /health. Counters are present only
// when Redis is connected.
type HealthStatus struct {
	Status      string           `json:"status"`
	Timestamp   time.Time        `json:"timestamp"`
	Environment string           `json:"environment"`
	Redis       string           `json:"redis"`
	Uptime      string           `json:"uptime"`
	Counters    map[string]int64 `json:"counters,omitempty"`
}
