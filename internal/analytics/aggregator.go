package analytics

import (
	"sort"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketStats summarizes a filtered ticket collection. Draft tickets count
// toward Total but sit outside the four lifecycle buckets, so the bucket sum
// may be less than Total.
type TicketStats struct {
	Total              int            `json:"total"`
	Open               int            `json:"open"`
	InProgress         int            `json:"in_progress"`
	Resolved           int            `json:"resolved"`
	Closed             int            `json:"closed"`
	Draft              int            `json:"draft"`
	ByPriority         map[string]int `json:"by_priority"`
	AvgResolutionHours float64        `json:"avg_resolution_hours"`
}

// CategoryStat is one per-category rollup row.
type CategoryStat struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

// AgentStat aggregates per-agent performance.
type AgentStat struct {
	AgentID            string  `json:"agent_id"`
	Assigned           int     `json:"assigned"`
	Resolved           int     `json:"resolved"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
	AvgSatisfaction    float64 `json:"avg_satisfaction"`
}

// TrendPoint is one calendar day in the daily trend.
type TrendPoint struct {
	Date     string `json:"date"`
	Created  int    `json:"created"`
	Resolved int    `json:"resolved"`
}

// Summary bundles every aggregate the reports page renders. It is plain data
// and survives a JSON round trip unchanged.
type Summary struct {
	Stats      TicketStats    `json:"stats"`
	Categories []CategoryStat `json:"categories"`
	Agents     []AgentStat    `json:"agents"`
	Trend      []TrendPoint   `json:"trend"`
}

// TrendDays is the fixed window of the daily trend.
const TrendDays = 30

// Aggregate folds a ticket slice into the full summary. Satisfaction scores
// come from the customer collection keyed by ticket customer id. All passes
// are O(n) over the input; callers re-run it per request.
func Aggregate(tickets []domain.Ticket, customers []domain.Customer, now time.Time) Summary {
	satisfaction := make(map[string]*float64, len(customers))
	for i := range customers {
		satisfaction[customers[i].ID] = customers[i].SatisfactionScore
	}

	return Summary{
		Stats:      Stats(tickets),
		Categories: CategoryBreakdown(tickets),
		Agents:     AgentBreakdown(tickets, satisfaction),
		Trend:      DailyTrend(tickets, now),
	}
}

// Stats computes the status/priority counters and mean resolution time.
func Stats(tickets []domain.Ticket) TicketStats {
	stats := TicketStats{
		Total:      len(tickets),
		ByPriority: map[string]int{},
	}

	var resolvedHours float64
	var resolvedCount int

	for i := range tickets {
		t := &tickets[i]
		switch t.Status {
		case domain.TicketStatusOpen:
			stats.Open++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusResolved:
			stats.Resolved++
		case domain.TicketStatusClosed:
			stats.Closed++
		case domain.TicketStatusDraft:
			stats.Draft++
		}
		stats.ByPriority[string(t.Priority)]++

		if t.ResolvedAt != nil {
			resolvedHours += t.ResolvedAt.Sub(t.CreatedAt).Hours()
			resolvedCount++
		}
	}

	if resolvedCount > 0 {
		stats.AvgResolutionHours = resolvedHours / float64(resolvedCount)
	}
	return stats
}

// CategoryBreakdown counts tickets per category with percentage of total,
// sorted by count descending then category name for a stable order.
func CategoryBreakdown(tickets []domain.Ticket) []CategoryStat {
	counts := map[string]int{}
	for i := range tickets {
		category := tickets[i].Category
		if category == "" {
			category = "uncategorized"
		}
		counts[category]++
	}

	result := make([]CategoryStat, 0, len(counts))
	for category, count := range counts {
		stat := CategoryStat{Category: category, Count: count}
		if len(tickets) > 0 {
			stat.Percent = float64(count) * 100 / float64(len(tickets))
		}
		result = append(result, stat)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Category < result[j].Category
	})
	return result
}

// AgentBreakdown rolls up assigned/resolved counts, mean resolution time and
// mean requester satisfaction per agent. Unassigned tickets are skipped.
func AgentBreakdown(tickets []domain.Ticket, satisfaction map[string]*float64) []AgentStat {
	type acc struct {
		assigned      int
		resolved      int
		resolvedHours float64
		satSum        float64
		satCount      int
	}
	byAgent := map[string]*acc{}

	for i := range tickets {
		t := &tickets[i]
		if t.AgentID == nil || *t.AgentID == "" {
			continue
		}
		a := byAgent[*t.AgentID]
		if a == nil {
			a = &acc{}
			byAgent[*t.AgentID] = a
		}
		a.assigned++
		if t.ResolvedAt != nil {
			a.resolved++
			a.resolvedHours += t.ResolvedAt.Sub(t.CreatedAt).Hours()
		}
		if score := satisfaction[t.CustomerID]; score != nil {
			a.satSum += *score
			a.satCount++
		}
	}

	result := make([]AgentStat, 0, len(byAgent))
	for agentID, a := range byAgent {
		stat := AgentStat{AgentID: agentID, Assigned: a.assigned, Resolved: a.resolved}
		if a.resolved > 0 {
			stat.AvgResolutionHours = a.resolvedHours / float64(a.resolved)
		}
		if a.satCount > 0 {
			stat.AvgSatisfaction = a.satSum / float64(a.satCount)
		}
		result = append(result, stat)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Resolved != result[j].Resolved {
			return result[i].Resolved > result[j].Resolved
		}
		return result[i].AgentID < result[j].AgentID
	})
	return result
}

// DailyTrend buckets created/resolved counts into the trailing 30 calendar
// days keyed by date string, oldest first. Every day appears even when empty.
func DailyTrend(tickets []domain.Ticket, now time.Time) []TrendPoint {
	const layout = "2006-01-02"

	points := make([]TrendPoint, TrendDays)
	index := make(map[string]int, TrendDays)
	for i := 0; i < TrendDays; i++ {
		day := now.AddDate(0, 0, i-TrendDays+1).Format(layout)
		points[i] = TrendPoint{Date: day}
		index[day] = i
	}

	for i := range tickets {
		t := &tickets[i]
		if pos, ok := index[t.CreatedAt.Format(layout)]; ok {
			points[pos].Created++
		}
		if t.ResolvedAt != nil {
			if pos, ok := index[t.ResolvedAt.Format(layout)]; ok {
				points[pos].Resolved++
			}
		}
	}
	return points
}
