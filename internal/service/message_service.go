package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chatterbox-im/chatterbox/internal/domain"
	"github.com/chatterbox-im/chatterbox/internal/logger"
	"github.com/chatterbox-im/chatterbox/internal/repository"
)

// MessageService appends messages to the flat message collection and
// keeps each chat's denormalized last-message preview in sync.
type MessageService struct {
	msgRepo       repository.MessageRepository
	chatRepo      repository.ChatRepository
	broadcastRepo repository.BroadcastRepository
	auth          *AuthService
	users         *UserService
	chats         *ChatService
	eventBus      domain.EventBus
	log           zerolog.Logger
}

func NewMessageService(
	msgRepo repository.MessageRepository,
	chatRepo repository.ChatRepository,
	broadcastRepo repository.BroadcastRepository,
	auth *AuthService,
	users *UserService,
	chats *ChatService,
	eventBus domain.EventBus,
) *MessageService {
	return &MessageService{
		msgRepo:       msgRepo,
		chatRepo:      chatRepo,
		broadcastRepo: broadcastRepo,
		auth:          auth,
		users:         users,
		chats:         chats,
		eventBus:      eventBus,
		log:           logger.Module("messages"),
	}
}

type SendInput struct {
	Type      domain.MessageType
	Content   string
	ReplyTo   string
	Forwarded bool
	Mentions  []string
}

// Send appends a message with status sent and updates the owning chat's
// preview and last-message time. Private chats with a blocked peer
// reject the send.
func (s *MessageService) Send(ctx context.Context, chatID string, input SendInput) (*domain.Message, error) {
	user, err := s.auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat: %w", err)
	}
	if chat == nil {
		return nil, domain.ErrNotFound
	}

	if peer := chat.OtherParticipant(user.ID); peer != "" {
		blocked, err := s.users.IsBlocked(ctx, peer)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, domain.ErrBlocked
		}
	}

	msg := domain.NewMessage(uuid.NewString(), chatID, user.ID, input.Type, input.Content, time.Now())
	msg.ReplyTo = input.ReplyTo
	msg.Forwarded = input.Forwarded
	msg.Mentions = input.Mentions

	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}
	if err := s.chatRepo.UpdateLastMessage(ctx, chatID, msg.Preview(), msg.Timestamp); err != nil {
		return nil, fmt.Errorf("failed to update chat preview: %w", err)
	}

	s.log.Debug().Str("chat_id", chatID).Str("message_id", msg.ID).Msg("message sent")
	s.eventBus.Publish(domain.MessageSentEvent{Message: msg, EventTime: time.Now()})
	return msg, nil
}

// SendBroadcast fans a message out to every recipient of the list as a
// forwarded private message, creating the private chat when none exists
// yet. Only the list's creator may send through it.
func (s *MessageService) SendBroadcast(ctx context.Context, broadcastID string, input SendInput) ([]*domain.Message, error) {
	user, err := s.auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	broadcast, err := s.broadcastRepo.GetByID(ctx, broadcastID)
	if err != nil {
		return nil, fmt.Errorf("failed to load broadcast: %w", err)
	}
	if broadcast == nil {
		return nil, domain.ErrNotFound
	}
	if broadcast.CreatedBy != user.ID {
		return nil, domain.ErrNotBroadcastOwner
	}

	forwarded := input
	forwarded.Forwarded = true

	var sent []*domain.Message
	for _, recipientID := range broadcast.Participants {
		chat, err := s.chats.FindPrivateChat(ctx, user.ID, recipientID)
		if err != nil {
			return nil, err
		}
		if chat == nil {
			chat, err = s.chats.CreateChat(ctx, domain.ChatTypePrivate, []string{recipientID}, "", "")
			if err != nil {
				s.log.Warn().Err(err).Str("recipient", recipientID).Msg("skipping broadcast recipient")
				continue
			}
		}

		msg, err := s.Send(ctx, chat.ID, forwarded)
		if err != nil {
			s.log.Warn().Err(err).Str("recipient", recipientID).Msg("broadcast delivery failed")
			continue
		}
		sent = append(sent, msg)
	}

	broadcast.MessageCount++
	if err := s.broadcastRepo.Update(ctx, broadcast); err != nil {
		return nil, fmt.Errorf("failed to update broadcast: %w", err)
	}

	s.log.Info().Str("broadcast_id", broadcastID).Int("delivered", len(sent)).Msg("broadcast sent")
	return sent, nil
}

// Forward re-sends the original message's type and content into each
// target chat. A missing source yields an empty result, not an error.
func (s *MessageService) Forward(ctx context.Context, messageID string, targetChatIDs []string) ([]*domain.Message, error) {
	original, err := s.msgRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load message: %w", err)
	}
	if original == nil {
		return nil, nil
	}

	var sent []*domain.Message
	for _, chatID := range targetChatIDs {
		msg, err := s.Send(ctx, chatID, SendInput{
			Type:      original.Type,
			Content:   original.Content,
			Forwarded: true,
		})
		if err != nil {
			s.log.Warn().Err(err).Str("chat_id", chatID).Msg("forward target skipped")
			continue
		}
		sent = append(sent, msg)
	}
	return sent, nil
}

// Delete removes a message for the caller only, or tombstones it for
// everyone: content replaced, type set to deleted, id and position kept.
func (s *MessageService) Delete(ctx context.Context, messageID string, forEveryone bool) error {
	msg, err := s.msgRepo.GetByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to load message: %w", err)
	}
	if msg == nil {
		return domain.ErrNotFound
	}

	if forEveryone {
		msg.Content = domain.DeletedMessagePlaceholder
		msg.Type = domain.MessageTypeDeleted
		if err := s.msgRepo.Update(ctx, msg); err != nil {
			return fmt.Errorf("failed to tombstone message: %w", err)
		}
	} else {
		if err := s.msgRepo.Delete(ctx, messageID); err != nil {
			return fmt.Errorf("failed to delete message: %w", err)
		}
	}

	s.eventBus.Publish(domain.MessageDeletedEvent{
		MessageID:   messageID,
		ChatID:      msg.ChatID,
		ForEveryone: forEveryone,
		EventTime:   time.Now(),
	})
	return nil
}

// MarkAsRead flips every message in the chat not sent by the current
// user to read and resets the chat's unread counter.
func (s *MessageService) MarkAsRead(ctx context.Context, chatID string) error {
	user, err := s.auth.RequireUser(ctx)
	if err != nil {
		return err
	}

	if err := s.msgRepo.MarkChatRead(ctx, chatID, user.ID); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	if err := s.chatRepo.UpdateUnreadCount(ctx, chatID, 0); err != nil {
		return fmt.Errorf("failed to reset unread count: %w", err)
	}

	s.eventBus.Publish(domain.MessageReadEvent{ChatID: chatID, ReaderID: user.ID, EventTime: time.Now()})
	return nil
}

// AddSystemMessage inserts a governance audit line authored by the
// reserved system sender.
func (s *MessageService) AddSystemMessage(ctx context.Context, chatID, content string) (*domain.Message, error) {
	msg := domain.NewSystemMessage(uuid.NewString(), chatID, content, time.Now())
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store system message: %w", err)
	}
	return msg, nil
}

// Edit replaces the content of the caller's own message and stamps it
// as edited.
func (s *MessageService) Edit(ctx context.Context, messageID, content string) (*domain.Message, error) {
	user, err := s.auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg, err := s.msgRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load message: %w", err)
	}
	if msg == nil {
		return nil, domain.ErrNotFound
	}
	if msg.SenderID != user.ID {
		return nil, domain.ErrNotSender
	}

	now := time.Now()
	msg.Content = content
	msg.Edited = true
	msg.EditedAt = &now
	if err := s.msgRepo.Update(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}
	return msg, nil
}

// React sets the caller's reaction on a message, replacing any previous
// one; a user holds at most one reaction per message.
func (s *MessageService) React(ctx context.Context, messageID, emoji string) (*domain.Message, error) {
	user, err := s.auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg, err := s.msgRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load message: %w", err)
	}
	if msg == nil {
		return nil, domain.ErrNotFound
	}

	reactions := msg.Reactions[:0]
	for _, r := range msg.Reactions {
		if r.UserID != user.ID {
			reactions = append(reactions, r)
		}
	}
	msg.Reactions = append(reactions, domain.Reaction{Emoji: emoji, UserID: user.ID})

	if err := s.msgRepo.Update(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save reaction: %w", err)
	}
	return msg, nil
}

func (s *MessageService) RemoveReaction(ctx context.Context, messageID string) (*domain.Message, error) {
	user, err := s.auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg, err := s.msgRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load message: %w", err)
	}
	if msg == nil {
		return nil, domain.ErrNotFound
	}

	reactions := msg.Reactions[:0]
	for _, r := range msg.Reactions {
		if r.UserID != user.ID {
			reactions = append(reactions, r)
		}
	}
	msg.Reactions = reactions

	if err := s.msgRepo.Update(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}
	return msg, nil
}

func (s *MessageService) Messages(ctx context.Context, chatID string) ([]*domain.Message, error) {
	return s.msgRepo.GetByChatID(ctx, chatID)
}

func (s *MessageService) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	msg, err := s.msgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load message: %w", err)
	}
	if msg == nil {
		return nil, domain.ErrNotFound
	}
	return msg, nil
}

func (s *MessageService) Search(ctx context.Context, query string, limit int) ([]*domain.Message, error) {
	return s.msgRepo.Search(ctx, query, limit)
}
