package realtime

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
)

// Bridge forwards every published domain event to the hub as a change
// notification, so connected dashboards see writes as they happen.
func Bridge(dispatcher events.Dispatcher, hub *Hub) {
	dispatcher.SubscribeAll(func(_ context.Context, event events.Event) error {
		n := Notification{
			Table:    event.Table,
			Change:   string(event.Change),
			TicketID: event.TicketID,
			Payload: map[string]any{
				"event_id": event.ID,
				"type":     event.Type,
				"actor":    event.Actor,
				"at":       event.Timestamp,
				"data":     event.Payload,
			},
		}
		if event.Actor.ID != nil && (event.Actor.Type == domain.ActorTypeAgent || event.Actor.Type == domain.ActorTypeAdmin) {
			n.AgentID = *event.Actor.ID
		}
		hub.Broadcast(n)
		return nil
	})
}
