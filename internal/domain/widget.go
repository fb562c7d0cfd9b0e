package domain

import "time"

// WidgetType enumerates supported dashboard widgets.
type WidgetType string

const (
	WidgetTicketStats     WidgetType = "ticket_stats"
	WidgetStatusBreakdown WidgetType = "status_breakdown"
	WidgetCategoryChart   WidgetType = "category_chart"
	WidgetAgentLoad       WidgetType = "agent_load"
	WidgetDailyTrend      WidgetType = "daily_trend"
)

// WidgetPosition places a widget on the dashboard grid.
type WidgetPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// DashboardWidget is a persisted widget configuration row.
type DashboardWidget struct {
	ID        string
	OwnerID   string
	Type      WidgetType
	Title     string
	Position  WidgetPosition
	Config    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}
