package entity

import "time"

// Event is one line of the append-only audit log.
type Event struct {
	Line string    `json:"line"`
	At   time.Time `json:"at"`
}
