package models

import "time"

// HistoryEntry is one row of the append-only audit trail. Rows are never
// updated or deleted.
type HistoryEntry struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
