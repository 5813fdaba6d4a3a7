package domain

import "time"

type CallType string

const (
	CallTypeAudio CallType = "audio"
	CallTypeVideo CallType = "video"
)

type CallDirection string

const (
	CallDirectionIncoming CallDirection = "incoming"
	CallDirectionOutgoing CallDirection = "outgoing"
)

type CallStatus string

const (
	CallStatusCalling   CallStatus = "calling"
	CallStatusCompleted CallStatus = "completed"
	CallStatusMissed    CallStatus = "missed"
)

type Call struct {
	ID           string
	Participants []string
	Type         CallType
	Direction    CallDirection
	Status       CallStatus
	Timestamp    time.Time
	// Duration in seconds, nil until the call completes.
	Duration *int
}

func (c *Call) Involves(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

func NewCall(id, callerID, calleeID string, callType CallType, direction CallDirection, now time.Time) *Call {
	return &Call{
		ID:           id,
		Participants: []string{callerID, calleeID},
		Type:         callType,
		Direction:    direction,
		Status:       CallStatusCalling,
		Timestamp:    now,
	}
}
