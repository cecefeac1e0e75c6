package domain

import "time"

// Customer represents a sender or business account placing orders. Identity
// and KYC are owned by the auth collaborator; the core only needs contact
// details for payment initiation and notifications.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
}
