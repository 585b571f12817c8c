package domain

import "github.com/google/uuid"

// ClassSession is a bookable studio class slot, one row in the remote
// "sessions" table. Rows are created by the studio staff; the client only
// reads them. Date and Time arrive as the plain strings stored in the table
// ("2024-05-01", "09:00") and are rendered verbatim.
type ClassSession struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Date  string    `json:"date"`
	Time  string    `json:"time"`
	Spots int       `json:"spots"`
}
