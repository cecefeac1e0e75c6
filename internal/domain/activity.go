package domain

import "time"

// ActivityLevel grades an activity entry.
type ActivityLevel string

const (
	ActivityInfo    ActivityLevel = "INFO"
	ActivityWarning ActivityLevel = "WARNING"
	ActivityError   ActivityLevel = "ERROR"
)

// ActivityEntry is one append-only record of a domain event, kept for
// after-the-fact traceability. It enforces no business rules.
type ActivityEntry struct {
	ID        string
	Category  string // e.g. "order", "ledger", "dispatch"
	Action    string // e.g. "status_changed", "transaction_settled"
	Level     ActivityLevel
	ActorID   string
	ActorRole ActorRole
	TargetID  string // the entity the event is about
	Context   map[string]string
	CreatedAt time.Time
}
