package domain

import (
	"sync"
	"time"
)

type EventType string

const (
	EventTypeMessageSent    EventType = "message.sent"
	EventTypeMessageDeleted EventType = "message.deleted"
	EventTypeMessageRead    EventType = "message.read"
	EventTypeChatUpdated    EventType = "chat.updated"
	EventTypeMemberAdded    EventType = "member.added"
	EventTypeMemberRemoved  EventType = "member.removed"
	EventTypeMemberPromoted EventType = "member.promoted"
	EventTypeMemberDemoted  EventType = "member.demoted"
	EventTypeStoryPosted    EventType = "story.posted"
	EventTypeCallLogged     EventType = "call.logged"
)

type Event interface {
	Type() EventType
	Timestamp() time.Time
}

type MessageSentEvent struct {
	Message   *Message
	EventTime time.Time
}

func (e MessageSentEvent) Type() EventType      { return EventTypeMessageSent }
func (e MessageSentEvent) Timestamp() time.Time { return e.EventTime }

type MessageDeletedEvent struct {
	MessageID   string
	ChatID      string
	ForEveryone bool
	EventTime   time.Time
}

func (e MessageDeletedEvent) Type() EventType      { return EventTypeMessageDeleted }
func (e MessageDeletedEvent) Timestamp() time.Time { return e.EventTime }

type MessageReadEvent struct {
	ChatID    string
	ReaderID  string
	EventTime time.Time
}

func (e MessageReadEvent) Type() EventType      { return EventTypeMessageRead }
func (e MessageReadEvent) Timestamp() time.Time { return e.EventTime }

type ChatUpdatedEvent struct {
	Chat      *Chat
	EventTime time.Time
}

func (e ChatUpdatedEvent) Type() EventType      { return EventTypeChatUpdated }
func (e ChatUpdatedEvent) Timestamp() time.Time { return e.EventTime }

// MembershipEvent covers the four group governance transitions.
type MembershipEvent struct {
	Kind      EventType
	ChatID    string
	UserID    string
	ActorID   string
	EventTime time.Time
}

func (e MembershipEvent) Type() EventType      { return e.Kind }
func (e MembershipEvent) Timestamp() time.Time { return e.EventTime }

type StoryPostedEvent struct {
	Story     *Story
	EventTime time.Time
}

func (e StoryPostedEvent) Type() EventType      { return EventTypeStoryPosted }
func (e StoryPostedEvent) Timestamp() time.Time { return e.EventTime }

type CallLoggedEvent struct {
	Call      *Call
	EventTime time.Time
}

func (e CallLoggedEvent) Type() EventType      { return EventTypeCallLogged }
func (e CallLoggedEvent) Timestamp() time.Time { return e.EventTime }

// EventBus provides pub/sub for domain events.
type EventBus interface {
	Publish(event Event)
	Subscribe(eventTypes []EventType) <-chan Event
	Unsubscribe(ch <-chan Event)
}

// SimpleEventBus is a basic in-memory implementation of EventBus.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers map[<-chan Event]subscription
}

type subscription struct {
	ch         chan Event
	eventTypes map[EventType]bool
}

func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{
		subscribers: make(map[<-chan Event]subscription),
	}
}

func (b *SimpleEventBus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		if len(sub.eventTypes) == 0 || sub.eventTypes[event.Type()] {
			select {
			case sub.ch <- event:
			default:
				// Channel full, skip this subscriber
			}
		}
	}
}

func (b *SimpleEventBus) Subscribe(eventTypes []EventType) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 100)
	typeMap := make(map[EventType]bool)
	for _, t := range eventTypes {
		typeMap[t] = true
	}

	b.subscribers[ch] = subscription{
		ch:         ch,
		eventTypes: typeMap,
	}

	return ch
}

func (b *SimpleEventBus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[ch]; ok {
		close(sub.ch)
		delete(b.subscribers, ch)
	}
}
