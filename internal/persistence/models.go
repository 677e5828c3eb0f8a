package persistence

import "time"

// JournalEntry records one applied command in the audit trail. Entries are
// never replayed into the schedule.
type JournalEntry struct {
	ID         string
	Command    string
	Arguments  string
	Outcome    string
	RecordedAt time.Time
}

// Journal outcomes.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
)
