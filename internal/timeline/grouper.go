package timeline

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Group is one calendar bucket of timeline items, newest first.
type Group struct {
	Label string                `json:"label"`
	Items []domain.TimelineItem `json:"items"`
}

// GroupByDay buckets timeline items (already sorted descending by created_at)
// under day labels relative to now: "Today", "Yesterday", the weekday name
// within the current week, "02 January" within the current year, and
// "02 January 2006" for anything older. Bucket order follows item order.
func GroupByDay(items []domain.TimelineItem, now time.Time) []Group {
	var groups []Group
	index := map[string]int{}

	for _, item := range items {
		label := DayLabel(item.CreatedAt, now)
		pos, ok := index[label]
		if !ok {
			pos = len(groups)
			index[label] = pos
			groups = append(groups, Group{Label: label})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}
	return groups
}

// DayLabel renders the calendar bucket label for a timestamp.
func DayLabel(ts, now time.Time) string {
	ts = ts.In(now.Location())

	if sameDay(ts, now) {
		return "Today"
	}
	if sameDay(ts, now.AddDate(0, 0, -1)) {
		return "Yesterday"
	}
	if weekStart := startOfWeek(now); !ts.Before(weekStart) && ts.Before(now) {
		return ts.Weekday().String()
	}
	if ts.Year() == now.Year() {
		return ts.Format("02 January")
	}
	return ts.Format("02 January 2006")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// startOfWeek returns midnight Monday of the week containing t.
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	y, m, d := t.AddDate(0, 0, -(weekday - 1)).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
