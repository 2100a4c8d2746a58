package models

import "time"

// SyncItem is a queued change for the remote sync that is not built yet.
// Nothing drains the queue.
type SyncItem struct {
	ID            string     `json:"id"`
	EntityType    string     `json:"entity_type"`
	EntityID      string     `json:"entity_id"`
	Payload       string     `json:"payload"`
	Status        SyncStatus `json:"status"`
	Attempts      int        `json:"attempts"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
}
