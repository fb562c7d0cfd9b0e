package domain

import "time"

// AlertMetric names a measurable the alert engine can test.
type AlertMetric string

const (
	MetricOpenTickets        AlertMetric = "open_tickets"
	MetricBreachedTickets    AlertMetric = "breached_tickets"
	MetricTicketsToday       AlertMetric = "tickets_today"
	MetricAvgResolutionHours AlertMetric = "avg_resolution_hours"
)

// AlertOperator compares a metric against the threshold.
type AlertOperator string

const (
	OperatorGreaterThan AlertOperator = "gt"
	OperatorLessThan    AlertOperator = "lt"
	OperatorEquals      AlertOperator = "eq"
)

// SmartAlert is a configured threshold check evaluated on a schedule.
type SmartAlert struct {
	ID              string
	Name            string
	Metric          AlertMetric
	Operator        AlertOperator
	Threshold       float64
	Enabled         bool
	CooldownMinutes int
	LastTriggeredAt *time.Time
	CreatedBy       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AlertHistory records a single alert trigger.
type AlertHistory struct {
	ID          string
	AlertID     string
	Metric      AlertMetric
	Value       float64
	Threshold   float64
	TriggeredAt time.Time
}
