package repository

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/chatterbox-im/chatterbox/internal/domain"
)

type UserModel struct {
	ID        string    `gorm:"primaryKey;column:id"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Phone     string    `gorm:"column:phone;uniqueIndex"`
	Password  string    `gorm:"column:password"`
	Avatar    string    `gorm:"column:avatar"`
	Status    string    `gorm:"column:status"`
	LastSeen  time.Time `gorm:"column:last_seen"`
	IsOnline  bool      `gorm:"column:is_online"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (UserModel) TableName() string { return "users" }

type ChatModel struct {
	ID              string         `gorm:"primaryKey;column:id"`
	Type            string         `gorm:"column:type;index"`
	Name            string         `gorm:"column:name"`
	Description     string         `gorm:"column:description"`
	Participants    datatypes.JSON `gorm:"column:participants"`
	Admins          datatypes.JSON `gorm:"column:admins"`
	CreatedBy       string         `gorm:"column:created_by"`
	ChatCreatedAt   time.Time      `gorm:"column:chat_created_at"`
	LastMessage     string         `gorm:"column:last_message"`
	LastMessageTime time.Time      `gorm:"column:last_message_time;index"`
	UnreadCount     int            `gorm:"column:unread_count"`
	Avatar          string         `gorm:"column:avatar"`
	Settings        datatypes.JSON `gorm:"column:settings"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
}

func (ChatModel) TableName() string { return "chats" }

type MessageModel struct {
	ID        string         `gorm:"primaryKey;column:id"`
	ChatID    string         `gorm:"column:chat_id;index:idx_chat_timestamp"`
	SenderID  string         `gorm:"column:sender_id"`
	Type      string         `gorm:"column:type"`
	Content   string         `gorm:"column:content"`
	Timestamp time.Time      `gorm:"column:timestamp;index:idx_chat_timestamp"`
	Status    string         `gorm:"column:status;index"`
	ReplyTo   string         `gorm:"column:reply_to"`
	Forwarded bool           `gorm:"column:forwarded"`
	Edited    bool           `gorm:"column:edited"`
	EditedAt  *time.Time     `gorm:"column:edited_at"`
	Reactions datatypes.JSON `gorm:"column:reactions"`
	Mentions  datatypes.JSON `gorm:"column:mentions"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (MessageModel) TableName() string { return "messages" }

type StoryModel struct {
	ID              string         `gorm:"primaryKey;column:id"`
	UserID          string         `gorm:"column:user_id;index"`
	Type            string         `gorm:"column:type"`
	Content         string         `gorm:"column:content"`
	BackgroundColor string         `gorm:"column:background_color"`
	Caption         string         `gorm:"column:caption"`
	StoryCreatedAt  time.Time      `gorm:"column:story_created_at;index"`
	ViewedBy        datatypes.JSON `gorm:"column:viewed_by"`
	Privacy         string         `gorm:"column:privacy"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
}

func (StoryModel) TableName() string { return "stories" }

type CallModel struct {
	ID           string         `gorm:"primaryKey;column:id"`
	Participants datatypes.JSON `gorm:"column:participants"`
	Type         string         `gorm:"column:type"`
	Direction    string         `gorm:"column:direction"`
	Status       string         `gorm:"column:status"`
	Timestamp    time.Time      `gorm:"column:timestamp;index"`
	Duration     *int           `gorm:"column:duration"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
}

func (CallModel) TableName() string { return "calls" }

type BroadcastModel struct {
	ID                 string         `gorm:"primaryKey;column:id"`
	Name               string         `gorm:"column:name"`
	Participants       datatypes.JSON `gorm:"column:participants"`
	CreatedBy          string         `gorm:"column:created_by"`
	BroadcastCreatedAt time.Time      `gorm:"column:broadcast_created_at"`
	MessageCount       int            `gorm:"column:message_count"`
	CreatedAt          time.Time      `gorm:"column:created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at"`
}

func (BroadcastModel) TableName() string { return "broadcasts" }

// StateModel holds small app-level keys: the session snapshot, the
// logged-in flag, archived chat ids, blocked contact ids, theme and
// per-chat drafts.
type StateModel struct {
	Key       string         `gorm:"primaryKey;column:key"`
	Value     datatypes.JSON `gorm:"column:value"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (StateModel) TableName() string { return "app_state" }

// JSON column helpers

func jsonFrom(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(data)
}

func stringsFrom(j datatypes.JSON) []string {
	if len(j) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(j, &out); err != nil {
		return nil
	}
	return out
}

// Conversion functions

func UserModelToDomain(m *UserModel) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Phone:     m.Phone,
		Password:  m.Password,
		Avatar:    m.Avatar,
		Status:    m.Status,
		LastSeen:  m.LastSeen,
		IsOnline:  m.IsOnline,
		CreatedAt: m.CreatedAt,
	}
}

func UserDomainToModel(u *domain.User) *UserModel {
	if u == nil {
		return nil
	}
	return &UserModel{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Password:  u.Password,
		Avatar:    u.Avatar,
		Status:    u.Status,
		LastSeen:  u.LastSeen,
		IsOnline:  u.IsOnline,
		CreatedAt: u.CreatedAt,
	}
}

func ChatModelToDomain(m *ChatModel) *domain.Chat {
	if m == nil {
		return nil
	}

	chat := &domain.Chat{
		ID:              m.ID,
		Type:            domain.ChatType(m.Type),
		Name:            m.Name,
		Description:     m.Description,
		Participants:    stringsFrom(m.Participants),
		Admins:          stringsFrom(m.Admins),
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.ChatCreatedAt,
		LastMessage:     m.LastMessage,
		LastMessageTime: m.LastMessageTime,
		UnreadCount:     m.UnreadCount,
		Avatar:          m.Avatar,
		Settings:        domain.DefaultChatSettings(),
	}

	if len(m.Settings) > 0 {
		var settings domain.ChatSettings
		if err := json.Unmarshal(m.Settings, &settings); err == nil {
			chat.Settings = settings
		}
	}

	return chat
}

func ChatDomainToModel(chat *domain.Chat) *ChatModel {
	if chat == nil {
		return nil
	}
	return &ChatModel{
		ID:              chat.ID,
		Type:            string(chat.Type),
		Name:            chat.Name,
		Description:     chat.Description,
		Participants:    jsonFrom(chat.Participants),
		Admins:          jsonFrom(chat.Admins),
		CreatedBy:       chat.CreatedBy,
		ChatCreatedAt:   chat.CreatedAt,
		LastMessage:     chat.LastMessage,
		LastMessageTime: chat.LastMessageTime,
		UnreadCount:     chat.UnreadCount,
		Avatar:          chat.Avatar,
		Settings:        jsonFrom(chat.Settings),
	}
}

func MessageModelToDomain(m *MessageModel) *domain.Message {
	if m == nil {
		return nil
	}

	msg := &domain.Message{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Type:      domain.MessageType(m.Type),
		Content:   m.Content,
		Timestamp: m.Timestamp,
		Status:    domain.MessageStatus(m.Status),
		ReplyTo:   m.ReplyTo,
		Forwarded: m.Forwarded,
		Edited:    m.Edited,
		EditedAt:  m.EditedAt,
		Mentions:  stringsFrom(m.Mentions),
	}

	if len(m.Reactions) > 0 {
		var reactions []domain.Reaction
		if err := json.Unmarshal(m.Reactions, &reactions); err == nil {
			msg.Reactions = reactions
		}
	}

	return msg
}

func MessageDomainToModel(msg *domain.Message) *MessageModel {
	if msg == nil {
		return nil
	}
	return &MessageModel{
		ID:        msg.ID,
		ChatID:    msg.ChatID,
		SenderID:  msg.SenderID,
		Type:      string(msg.Type),
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
		Status:    string(msg.Status),
		ReplyTo:   msg.ReplyTo,
		Forwarded: msg.Forwarded,
		Edited:    msg.Edited,
		EditedAt:  msg.EditedAt,
		Reactions: jsonFrom(msg.Reactions),
		Mentions:  jsonFrom(msg.Mentions),
	}
}

func StoryModelToDomain(m *StoryModel) *domain.Story {
	if m == nil {
		return nil
	}
	return &domain.Story{
		ID:              m.ID,
		UserID:          m.UserID,
		Type:            domain.StoryType(m.Type),
		Content:         m.Content,
		BackgroundColor: m.BackgroundColor,
		Caption:         m.Caption,
		CreatedAt:       m.StoryCreatedAt,
		ViewedBy:        stringsFrom(m.ViewedBy),
		Privacy:         domain.StoryPrivacy(m.Privacy),
	}
}

func StoryDomainToModel(s *domain.Story) *StoryModel {
	if s == nil {
		return nil
	}
	return &StoryModel{
		ID:              s.ID,
		UserID:          s.UserID,
		Type:            string(s.Type),
		Content:         s.Content,
		BackgroundColor: s.BackgroundColor,
		Caption:         s.Caption,
		StoryCreatedAt:  s.CreatedAt,
		ViewedBy:        jsonFrom(s.ViewedBy),
		Privacy:         string(s.Privacy),
	}
}

func CallModelToDomain(m *CallModel) *domain.Call {
	if m == nil {
		return nil
	}
	return &domain.Call{
		ID:           m.ID,
		Participants: stringsFrom(m.Participants),
		Type:         domain.CallType(m.Type),
		Direction:    domain.CallDirection(m.Direction),
		Status:       domain.CallStatus(m.Status),
		Timestamp:    m.Timestamp,
		Duration:     m.Duration,
	}
}

func CallDomainToModel(c *domain.Call) *CallModel {
	if c == nil {
		return nil
	}
	return &CallModel{
		ID:           c.ID,
		Participants: jsonFrom(c.Participants),
		Type:         string(c.Type),
		Direction:    string(c.Direction),
		Status:       string(c.Status),
		Timestamp:    c.Timestamp,
		Duration:     c.Duration,
	}
}

func BroadcastModelToDomain(m *BroadcastModel) *domain.Broadcast {
	if m == nil {
		return nil
	}
	return &domain.Broadcast{
		ID:           m.ID,
		Name:         m.Name,
		Participants: stringsFrom(m.Participants),
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.BroadcastCreatedAt,
		MessageCount: m.MessageCount,
	}
}

func BroadcastDomainToModel(b *domain.Broadcast) *BroadcastModel {
	if b == nil {
		return nil
	}
	return &BroadcastModel{
		ID:                 b.ID,
		Name:               b.Name,
		Participants:       jsonFrom(b.Participants),
		CreatedBy:          b.CreatedBy,
		BroadcastCreatedAt: b.CreatedAt,
		MessageCount:       b.MessageCount,
	}
}
