package cli

import (
	"time"

	"github.com/chatterbox-im/chatterbox/internal/domain"
)

// Request represents a JSON request in headless mode
type Request struct {
	ID      string                 `json:"id,omitempty"`
	Command string                 `json:"command"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// Response represents a JSON response in headless mode
type Response struct {
	ID      string      `json:"id,omitempty"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Event represents a real-time event in headless mode
type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// UserInfo represents user information for responses
type UserInfo struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Status   string    `json:"status,omitempty"`
	IsOnline bool      `json:"is_online"`
	LastSeen time.Time `json:"last_seen,omitempty"`
}

// ChatInfo represents chat information for responses
type ChatInfo struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	Participants    []string  `json:"participants,omitempty"`
	Admins          []string  `json:"admins,omitempty"`
	UnreadCount     int       `json:"unread_count"`
	LastMessage     string    `json:"last_message,omitempty"`
	LastMessageTime time.Time `json:"last_message_time,omitempty"`
}

// MessageInfo represents message information for responses
type MessageInfo struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	SenderID  string    `json:"sender_id"`
	Type      string    `json:"type"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
	Forwarded bool      `json:"forwarded,omitempty"`
	Edited    bool      `json:"edited,omitempty"`
	Reactions []string  `json:"reactions,omitempty"`
}

// StoryInfo represents story information for responses
type StoryInfo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Caption   string    `json:"caption,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Views     int       `json:"views"`
}

// CallInfo represents a call log entry for responses
type CallInfo struct {
	ID        string    `json:"id"`
	PeerID    string    `json:"peer_id"`
	Type      string    `json:"type"`
	Direction string    `json:"direction"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Duration  *int      `json:"duration,omitempty"`
}

// BroadcastInfo represents a broadcast list for responses
type BroadcastInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
	MessageCount int      `json:"message_count"`
}

func userInfo(u *domain.User) UserInfo {
	return UserInfo{
		ID:       u.ID,
		Name:     u.FullName(),
		Phone:    u.Phone,
		Status:   u.Status,
		IsOnline: u.IsOnline,
		LastSeen: u.LastSeen,
	}
}

func chatInfo(c *domain.Chat) ChatInfo {
	return ChatInfo{
		ID:              c.ID,
		Name:            c.Name,
		Type:            string(c.Type),
		Participants:    c.Participants,
		Admins:          c.Admins,
		UnreadCount:     c.UnreadCount,
		LastMessage:     c.LastMessage,
		LastMessageTime: c.LastMessageTime,
	}
}

func messageInfo(m *domain.Message) MessageInfo {
	info := MessageInfo{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Type:      string(m.Type),
		Content:   m.Content,
		Timestamp: m.Timestamp,
		Status:    string(m.Status),
		Forwarded: m.Forwarded,
		Edited:    m.Edited,
	}
	for _, r := range m.Reactions {
		info.Reactions = append(info.Reactions, r.Emoji)
	}
	return info
}

func storyInfo(s *domain.Story) StoryInfo {
	return StoryInfo{
		ID:        s.ID,
		UserID:    s.UserID,
		Type:      string(s.Type),
		Content:   s.Content,
		Caption:   s.Caption,
		CreatedAt: s.CreatedAt,
		Views:     len(s.ViewedBy),
	}
}

func callInfo(c *domain.Call, currentUserID string) CallInfo {
	peer := ""
	for _, id := range c.Participants {
		if id != currentUserID {
			peer = id
			break
		}
	}
	return CallInfo{
		ID:        c.ID,
		PeerID:    peer,
		Type:      string(c.Type),
		Direction: string(c.Direction),
		Status:    string(c.Status),
		Timestamp: c.Timestamp,
		Duration:  c.Duration,
	}
}

func broadcastInfo(b *domain.Broadcast) BroadcastInfo {
	return BroadcastInfo{
		ID:           b.ID,
		Name:         b.Name,
		Participants: b.Participants,
		MessageCount: b.MessageCount,
	}
}
