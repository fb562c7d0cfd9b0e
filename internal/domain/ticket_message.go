package domain

import "time"

// TicketMessage is a single entry in a ticket conversation thread.
type TicketMessage struct {
	ID         string
	TicketID   string
	AuthorType ActorType
	AuthorID   *string
	Body       string
	Internal   bool
	CreatedAt  time.Time
}
