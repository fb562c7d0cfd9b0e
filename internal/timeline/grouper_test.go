package timeline

import (
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func item(id string, createdAt time.Time) domain.TimelineItem {
	return domain.TimelineItem{
		ID:         id,
		TicketID:   "t1",
		ActionType: domain.ActionStatusChange,
		UserType:   domain.ActorTypeAgent,
		CreatedAt:  createdAt,
	}
}

func TestDayLabel(t *testing.T) {
	// Wednesday.
	now := time.Date(2024, 6, 12, 15, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		ts   time.Time
		want string
	}{
		{"same day", time.Date(2024, 6, 12, 1, 0, 0, 0, time.UTC), "Today"},
		{"previous calendar day", time.Date(2024, 6, 11, 23, 30, 0, 0, time.UTC), "Yesterday"},
		{"exactly 24h earlier", now.Add(-24 * time.Hour), "Yesterday"},
		{"monday this week", time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC), "Monday"},
		{"last week same year", time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC), "03 June"},
		{"earlier this year", time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC), "05 January"},
		{"previous year", time.Date(2023, 12, 31, 8, 0, 0, 0, time.UTC), "31 December 2023"},
	}
	for _, tc := range cases {
		if got := DayLabel(tc.ts, now); got != tc.want {
			t.Errorf("%s: DayLabel = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDayLabelSundayWeek(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday.
	now := time.Date(2024, 6, 16, 12, 0, 0, 0, time.UTC)
	tuesday := time.Date(2024, 6, 11, 9, 0, 0, 0, time.UTC)
	if got := DayLabel(tuesday, now); got != "Tuesday" {
		t.Errorf("DayLabel = %q, want Tuesday", got)
	}
}

func TestGroupByDayPreservesOrder(t *testing.T) {
	now := time.Date(2024, 6, 12, 15, 0, 0, 0, time.UTC)
	items := []domain.TimelineItem{
		item("a", now.Add(-time.Hour)),
		item("b", now.Add(-2*time.Hour)),
		item("c", now.Add(-24*time.Hour)),
		item("d", time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)),
	}

	groups := GroupByDay(items, now)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	if groups[0].Label != "Today" || len(groups[0].Items) != 2 {
		t.Errorf("group 0 = %q with %d items, want Today with 2", groups[0].Label, len(groups[0].Items))
	}
	if groups[1].Label != "Yesterday" || groups[1].Items[0].ID != "c" {
		t.Errorf("group 1 = %q first item %q, want Yesterday/c", groups[1].Label, groups[1].Items[0].ID)
	}
	if groups[2].Label != "Monday" {
		t.Errorf("group 2 = %q, want Monday", groups[2].Label)
	}
}

func TestGroupByDayEmpty(t *testing.T) {
	if groups := GroupByDay(nil, time.Now()); len(groups) != 0 {
		t.Errorf("got %d groups for empty input, want 0", len(groups))
	}
}

func strPtr(s string) *string { return &s }

func TestResolveActor(t *testing.T) {
	agents := []domain.Agent{
		{ID: "ag1", Name: "Dana Reyes", Email: "dana@example.com"},
		{ID: "ag2", Name: "", Email: "oncall@example.com"},
	}
	customers := []domain.Customer{
		{ID: "cu1", Name: "Acme Ops", Email: "ops@acme.test"},
	}
	resolver := NewResolver(agents, customers)

	entry := domain.TimelineItem{UserID: strPtr("ag1"), UserType: domain.ActorTypeAgent}
	if actor := resolver.Resolve(entry); actor.Name != "Dana Reyes" || actor.Unknown {
		t.Errorf("agent lookup = %+v", actor)
	}

	entry = domain.TimelineItem{UserID: strPtr("ag2"), UserType: domain.ActorTypeAgent}
	if actor := resolver.Resolve(entry); actor.Name != "oncall" {
		t.Errorf("email fallback = %+v, want local part", actor)
	}

	entry = domain.TimelineItem{UserID: strPtr("cu1"), UserType: domain.ActorTypeCustomer}
	if actor := resolver.Resolve(entry); actor.Name != "Acme Ops" {
		t.Errorf("customer lookup = %+v", actor)
	}
}

func TestResolveUnknownActor(t *testing.T) {
	resolver := NewResolver(nil, nil)

	entry := domain.TimelineItem{UserID: strPtr("missing"), UserType: domain.ActorTypeCustomer}
	actor := resolver.Resolve(entry)
	if !actor.Unknown || actor.Name != UnknownActorName {
		t.Errorf("missing id resolved to %+v, want tagged Unknown", actor)
	}

	entry = domain.TimelineItem{UserID: nil, UserType: domain.ActorTypeAgent}
	if actor := resolver.Resolve(entry); !actor.Unknown {
		t.Errorf("nil user id resolved to %+v, want tagged Unknown", actor)
	}
}

func TestResolveSystemActor(t *testing.T) {
	resolver := NewResolver(nil, nil)
	entry := domain.TimelineItem{UserType: domain.ActorTypeSystem}
	if actor := resolver.Resolve(entry); actor.Name != "System" || actor.Unknown {
		t.Errorf("system entry resolved to %+v", actor)
	}
}
