package model

import "time"

type Debate struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Body            string       `json:"body"`
	Status          DebateStatus `json:"status"`
	CreatedAt       time.Time    `json:"createdAt"`
	CreatedByUserID string       `json:"createdByUserId"`
}

// QueueEntry is a pending request to be matched into a debate. It exists
// between join and either match creation or withdrawal, and always belongs
// to the session's user.
type QueueEntry struct {
	DebateID string    `json:"debateId"`
	Side     Side      `json:"side"`
	JoinedAt time.Time `json:"joinedAt"`
}
