package analytics

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestStatsScenario(t *testing.T) {
	now := time.Date(2024, 6, 1, 17, 0, 0, 0, time.UTC)
	fiveHoursAgo := now.Add(-5 * time.Hour)

	tickets := []domain.Ticket{
		{ID: "a", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh, CreatedAt: fiveHoursAgo},
		{ID: "b", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityMedium, CreatedAt: fiveHoursAgo},
		{ID: "c", Status: domain.TicketStatusResolved, Priority: domain.TicketPriorityHigh, CreatedAt: fiveHoursAgo, ResolvedAt: timePtr(now)},
	}

	stats := Stats(tickets)
	if stats.Total != 3 {
		t.Errorf("total = %d, want 3", stats.Total)
	}
	if stats.Open != 2 || stats.Resolved != 1 {
		t.Errorf("open=%d resolved=%d, want 2/1", stats.Open, stats.Resolved)
	}
	if stats.ByPriority["high"] != 2 {
		t.Errorf("high priority = %d, want 2", stats.ByPriority["high"])
	}
	if math.Abs(stats.AvgResolutionHours-5) > 1e-9 {
		t.Errorf("avg resolution = %v, want 5", stats.AvgResolutionHours)
	}
}

func TestStatsDraftCountedOnce(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "a", Status: domain.TicketStatusDraft, Priority: domain.TicketPriorityLow},
		{ID: "b", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow},
	}
	stats := Stats(tickets)

	if stats.Total != 2 {
		t.Errorf("total = %d, want 2 (draft must not be dropped)", stats.Total)
	}
	bucketSum := stats.Open + stats.InProgress + stats.Resolved + stats.Closed
	if bucketSum != 1 {
		t.Errorf("lifecycle bucket sum = %d, want 1 (draft must not be double-counted)", bucketSum)
	}
	if stats.Draft != 1 {
		t.Errorf("draft = %d, want 1", stats.Draft)
	}
}

func TestStatsBucketSumNeverExceedsTotal(t *testing.T) {
	statuses := []domain.TicketStatus{
		domain.TicketStatusOpen, domain.TicketStatusInProgress, domain.TicketStatusResolved,
		domain.TicketStatusClosed, domain.TicketStatusDraft, domain.TicketStatus("unknown"),
	}
	var tickets []domain.Ticket
	for i, status := range statuses {
		tickets = append(tickets, domain.Ticket{ID: string(rune('a' + i)), Status: status})
	}

	stats := Stats(tickets)
	if sum := stats.Open + stats.InProgress + stats.Resolved + stats.Closed; sum > stats.Total {
		t.Errorf("bucket sum %d exceeds total %d", sum, stats.Total)
	}
	if stats.Total != len(tickets) {
		t.Errorf("total = %d, want %d", stats.Total, len(tickets))
	}
}

func TestCategoryBreakdown(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "a", Category: "billing"},
		{ID: "b", Category: "billing"},
		{ID: "c", Category: "technical"},
		{ID: "d", Category: ""},
	}

	stats := CategoryBreakdown(tickets)
	if len(stats) != 3 {
		t.Fatalf("got %d categories, want 3", len(stats))
	}
	if stats[0].Category != "billing" || stats[0].Count != 2 {
		t.Errorf("top category = %+v, want billing/2", stats[0])
	}
	if math.Abs(stats[0].Percent-50) > 1e-9 {
		t.Errorf("billing percent = %v, want 50", stats[0].Percent)
	}
	var sawUncategorized bool
	for _, s := range stats {
		if s.Category == "uncategorized" {
			sawUncategorized = true
		}
	}
	if !sawUncategorized {
		t.Error("empty category not mapped to uncategorized")
	}
}

func TestAgentBreakdown(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	score := 4.5
	tickets := []domain.Ticket{
		{ID: "a", AgentID: strPtr("ag1"), CustomerID: "cu1", CreatedAt: created, ResolvedAt: timePtr(created.Add(2 * time.Hour))},
		{ID: "b", AgentID: strPtr("ag1"), CustomerID: "cu1", CreatedAt: created, ResolvedAt: timePtr(created.Add(4 * time.Hour))},
		{ID: "c", AgentID: strPtr("ag2"), CustomerID: "cu2", CreatedAt: created},
		{ID: "d", CustomerID: "cu1", CreatedAt: created},
	}
	satisfaction := map[string]*float64{"cu1": &score}

	stats := AgentBreakdown(tickets, satisfaction)
	if len(stats) != 2 {
		t.Fatalf("got %d agents, want 2", len(stats))
	}
	top := stats[0]
	if top.AgentID != "ag1" || top.Assigned != 2 || top.Resolved != 2 {
		t.Errorf("top agent = %+v", top)
	}
	if math.Abs(top.AvgResolutionHours-3) > 1e-9 {
		t.Errorf("avg resolution = %v, want 3", top.AvgResolutionHours)
	}
	if math.Abs(top.AvgSatisfaction-4.5) > 1e-9 {
		t.Errorf("avg satisfaction = %v, want 4.5", top.AvgSatisfaction)
	}
}

func TestDailyTrendWindow(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	tickets := []domain.Ticket{
		{ID: "a", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "b", CreatedAt: now.AddDate(0, 0, -29), ResolvedAt: timePtr(now)},
		{ID: "c", CreatedAt: now.AddDate(0, 0, -35)}, // outside the window
	}

	trend := DailyTrend(tickets, now)
	if len(trend) != TrendDays {
		t.Fatalf("got %d points, want %d", len(trend), TrendDays)
	}
	if trend[0].Date != "2024-06-01" || trend[len(trend)-1].Date != "2024-06-30" {
		t.Errorf("window = %s..%s, want 2024-06-01..2024-06-30", trend[0].Date, trend[len(trend)-1].Date)
	}
	if trend[0].Created != 1 {
		t.Errorf("oldest day created = %d, want 1", trend[0].Created)
	}
	last := trend[len(trend)-1]
	if last.Created != 1 || last.Resolved != 1 {
		t.Errorf("latest day = %+v, want created=1 resolved=1", last)
	}
	var total int
	for _, p := range trend {
		total += p.Created
	}
	if total != 2 {
		t.Errorf("windowed created total = %d, want 2 (out-of-window ticket leaked in)", total)
	}
}

func TestSummaryJSONRoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 1, 17, 0, 0, 0, time.UTC)
	tickets := []domain.Ticket{
		{ID: "a", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh, Category: "billing", CustomerID: "cu1", AgentID: strPtr("ag1"), CreatedAt: now.Add(-5 * time.Hour)},
		{ID: "b", Status: domain.TicketStatusResolved, Priority: domain.TicketPriorityLow, Category: "technical", CustomerID: "cu1", AgentID: strPtr("ag1"), CreatedAt: now.Add(-30 * time.Hour), ResolvedAt: timePtr(now.Add(-2 * time.Hour))},
	}
	score := 3.5
	customers := []domain.Customer{{ID: "cu1", Name: "Acme", SatisfactionScore: &score}}

	summary := Aggregate(tickets, customers, now)

	raw, err := json.Marshal(summary)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var parsed Summary
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(summary, parsed) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", parsed, summary)
	}
}
