package repository

import (
	"context"
	"time"

	"github.com/chatterbox-im/chatterbox/internal/domain"
)

// Not-found reads return (nil, nil); services decide whether absence is
// an error for the operation at hand.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Upsert(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	GetAll(ctx context.Context) ([]*domain.User, error)
	Search(ctx context.Context, query string) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat) error
	Upsert(ctx context.Context, chat *domain.Chat) error
	GetByID(ctx context.Context, id string) (*domain.Chat, error)
	GetAll(ctx context.Context) ([]*domain.Chat, error)
	SearchByName(ctx context.Context, query string) ([]*domain.Chat, error)
	UpdateLastMessage(ctx context.Context, id, preview string, timestamp time.Time) error
	UpdateUnreadCount(ctx context.Context, id string, count int) error
	IncrementUnreadCount(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	Update(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	GetByChatID(ctx context.Context, chatID string) ([]*domain.Message, error)
	GetAll(ctx context.Context) ([]*domain.Message, error)
	MarkChatRead(ctx context.Context, chatID, readerID string) error
	Search(ctx context.Context, query string, limit int) ([]*domain.Message, error)
	Delete(ctx context.Context, id string) error
	DeleteByChatID(ctx context.Context, chatID string) error
	DeleteAll(ctx context.Context) error
}

type StoryRepository interface {
	Create(ctx context.Context, story *domain.Story) error
	Update(ctx context.Context, story *domain.Story) error
	GetByID(ctx context.Context, id string) (*domain.Story, error)
	GetAll(ctx context.Context) ([]*domain.Story, error)
	GetByUserID(ctx context.Context, userID string) ([]*domain.Story, error)
	DeleteAll(ctx context.Context) error
}

type CallRepository interface {
	Create(ctx context.Context, call *domain.Call) error
	Update(ctx context.Context, call *domain.Call) error
	GetByID(ctx context.Context, id string) (*domain.Call, error)
	GetAll(ctx context.Context) ([]*domain.Call, error)
	DeleteAll(ctx context.Context) error
}

type BroadcastRepository interface {
	Create(ctx context.Context, broadcast *domain.Broadcast) error
	Update(ctx context.Context, broadcast *domain.Broadcast) error
	GetByID(ctx context.Context, id string) (*domain.Broadcast, error)
	GetAll(ctx context.Context) ([]*domain.Broadcast, error)
	DeleteAll(ctx context.Context) error
}

// StateRepository persists small app-level keys (session snapshot,
// archived chat ids, blocked contacts, theme, drafts) as JSON values.
type StateRepository interface {
	Get(ctx context.Context, key string, out interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
	DeleteAll(ctx context.Context) error
}
