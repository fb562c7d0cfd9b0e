package domain

import "time"

// ReportPeriod selects the window an auto report covers.
type ReportPeriod string

const (
	ReportPeriodDaily   ReportPeriod = "daily"
	ReportPeriodWeekly  ReportPeriod = "weekly"
	ReportPeriodMonthly ReportPeriod = "monthly"
)

// ReportFormat selects the export rendering.
type ReportFormat string

const (
	ReportFormatCSV   ReportFormat = "csv"
	ReportFormatExcel ReportFormat = "xlsx"
	ReportFormatJSON  ReportFormat = "json"
)

// AutoReport is a scheduled report configuration row.
type AutoReport struct {
	ID         string
	Name       string
	Period     ReportPeriod
	Format     ReportFormat
	Recipients []string
	Enabled    bool
	LastRunAt  *time.Time
	NextRunAt  *time.Time
	CreatedBy  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ReportHistory records one generated report run.
type ReportHistory struct {
	ID          string
	ReportID    string
	Period      ReportPeriod
	RangeFrom   time.Time
	RangeTo     time.Time
	Payload     map[string]any
	GeneratedAt time.Time
}
