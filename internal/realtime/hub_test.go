package realtime

import "testing"

func TestSubscriptionMatches(t *testing.T) {
	cases := []struct {
		name string
		sub  Subscription
		n    Notification
		want bool
	}{
		{"empty matches all", Subscription{}, Notification{Table: "tickets"}, true},
		{"table match", Subscription{Table: "tickets"}, Notification{Table: "tickets"}, true},
		{"table mismatch", Subscription{Table: "tickets"}, Notification{Table: "alert_history"}, false},
		{"ticket filter match", Subscription{Table: "ticket_timeline", TicketID: "t1"}, Notification{Table: "ticket_timeline", TicketID: "t1"}, true},
		{"ticket filter mismatch", Subscription{TicketID: "t1"}, Notification{Table: "ticket_timeline", TicketID: "t2"}, false},
		{"agent filter", Subscription{AgentID: "ag1"}, Notification{Table: "tickets", AgentID: "ag2"}, false},
	}
	for _, tc := range cases {
		if got := tc.sub.Matches(tc.n); got != tc.want {
			t.Errorf("%s: Matches = %v, want %v", tc.name, got, tc.want)
		}
	}
}
