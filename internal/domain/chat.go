package domain

import (
	"strings"
	"time"
)

type ChatType string

const (
	ChatTypePrivate   ChatType = "private"
	ChatTypeGroup     ChatType = "group"
	ChatTypeBroadcast ChatType = "broadcast"
)

// ChatSettings holds the per-chat behavior flags.
type ChatSettings struct {
	MuteNotifications    bool `json:"muteNotifications"`
	DisappearingMessages bool `json:"disappearingMessages"`
	OnlyAdminsCanMessage bool `json:"onlyAdminsCanMessage"`
	AllowMemberEdit      bool `json:"allowMemberEdit"`
}

func DefaultChatSettings() ChatSettings {
	return ChatSettings{AllowMemberEdit: true}
}

type Chat struct {
	ID              string
	Type            ChatType
	Name            string
	Description     string
	Participants    []string
	Admins          []string
	CreatedBy       string
	CreatedAt       time.Time
	LastMessage     string
	LastMessageTime time.Time
	UnreadCount     int
	Avatar          string
	Settings        ChatSettings
}

func (c *Chat) HasParticipant(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

func (c *Chat) IsAdmin(userID string) bool {
	for _, id := range c.Admins {
		if id == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the peer of a private chat, or "" when the
// chat is not private or the user is not in it.
func (c *Chat) OtherParticipant(userID string) string {
	if c.Type != ChatTypePrivate {
		return ""
	}
	for _, id := range c.Participants {
		if id != userID {
			return id
		}
	}
	return ""
}

func NewChat(id string, chatType ChatType, name, description, createdBy string, participants []string, now time.Time) *Chat {
	chat := &Chat{
		ID:              id,
		Type:            chatType,
		Name:            name,
		Description:     description,
		Participants:    participants,
		CreatedBy:       createdBy,
		CreatedAt:       now,
		LastMessageTime: now,
		Settings:        DefaultChatSettings(),
	}
	if chatType == ChatTypeGroup {
		chat.Admins = []string{createdBy}
	}
	return chat
}

// ChatNameFromNames builds the default chat name out of the other
// participants' display names.
func ChatNameFromNames(names []string) string {
	joined := strings.Join(names, ", ")
	if joined == "" {
		return "Chat"
	}
	return joined
}
