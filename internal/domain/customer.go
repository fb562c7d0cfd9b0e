package domain

import "time"

// Customer is a person who files tickets.
type Customer struct {
	ID                string
	Name              string
	Email             string
	Phone             string
	Company           string
	SatisfactionScore *float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
