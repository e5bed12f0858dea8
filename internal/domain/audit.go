package domain

import "time"

// FieldChange records a before/after pair for one mutated field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// AuditEntry is the immutable record of one authorized mutation. Entries are
// append-only; nothing in the system updates or deletes them.
type AuditEntry struct {
	ID           string
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	Changes      map[string]FieldChange
	ClientIP     string
	UserAgent    string
	CreatedAt    time.Time
}

// State is read-mostly jurisdiction reference data, seeded once.
type State struct {
	ID        int
	Name      string
	Code      string
	Language  string
	CreatedAt time.Time
}

// District belongs to exactly one State.
type District struct {
	ID        int
	Name      string
	StateID   int
	CreatedAt time.Time
}
