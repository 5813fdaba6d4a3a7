package domain

import "time"

type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeImage    MessageType = "image"
	MessageTypeAudio    MessageType = "audio"
	MessageTypeDocument MessageType = "document"
	MessageTypeSystem   MessageType = "system"
	MessageTypeDeleted  MessageType = "deleted"
)

type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
)

// SystemSenderID is the reserved sender for governance audit messages.
const SystemSenderID = "system"

// DeletedMessagePlaceholder replaces the content of a message deleted
// for everyone. The tombstone keeps its id and position in the chat.
const DeletedMessagePlaceholder = "Ce message a été supprimé"

type Reaction struct {
	Emoji  string `json:"emoji"`
	UserID string `json:"userId"`
}

type Message struct {
	ID        string
	ChatID    string
	SenderID  string
	Type      MessageType
	Content   string
	Timestamp time.Time
	Status    MessageStatus
	ReplyTo   string
	Forwarded bool
	Edited    bool
	EditedAt  *time.Time
	Reactions []Reaction
	Mentions  []string
}

func (m *Message) IsSystem() bool {
	return m.SenderID == SystemSenderID
}

// Preview returns the denormalized chat-list preview for the message,
// type-dependent the way the chat list renders it.
func (m *Message) Preview() string {
	switch m.Type {
	case MessageTypeImage:
		return "📷 Image"
	case MessageTypeAudio:
		return "🎵 Audio"
	case MessageTypeDocument:
		return "📄 Document"
	case MessageTypeDeleted:
		return DeletedMessagePlaceholder
	default:
		return m.Content
	}
}

func NewMessage(id, chatID, senderID string, msgType MessageType, content string, now time.Time) *Message {
	if msgType == "" {
		msgType = MessageTypeText
	}
	return &Message{
		ID:        id,
		ChatID:    chatID,
		SenderID:  senderID,
		Type:      msgType,
		Content:   content,
		Timestamp: now,
		Status:    MessageStatusSent,
	}
}

func NewSystemMessage(id, chatID, content string, now time.Time) *Message {
	return &Message{
		ID:        id,
		ChatID:    chatID,
		SenderID:  SystemSenderID,
		Type:      MessageTypeSystem,
		Content:   content,
		Timestamp: now,
		Status:    MessageStatusRead,
	}
}
