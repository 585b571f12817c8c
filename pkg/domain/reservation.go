package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reservation is one user's booking against a class session, one row in the
// remote "reservations" table.
type Reservation struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	SessionID uuid.UUID `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry is a reservation joined with its session's display fields,
// as returned by the embedded select on the reservations table.
type HistoryEntry struct {
	ID        uuid.UUID     `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Session   *SessionBrief `json:"sessions"`
}

// SessionBrief is the slice of session columns embedded in a history row.
// Nil when the session row has been removed server-side.
type SessionBrief struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}
