package domain

import "time"

// Broadcast is a named fan-out list of recipients, not a chat. Sending
// through it delivers one private message per recipient.
type Broadcast struct {
	ID           string
	Name         string
	Participants []string
	CreatedBy    string
	CreatedAt    time.Time
	MessageCount int
}

func NewBroadcast(id, name, createdBy string, participants []string, now time.Time) *Broadcast {
	return &Broadcast{
		ID:           id,
		Name:         name,
		Participants: participants,
		CreatedBy:    createdBy,
		CreatedAt:    now,
	}
}
