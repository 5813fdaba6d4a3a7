package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/chatterbox-im/chatterbox/internal/domain"
	"github.com/chatterbox-im/chatterbox/internal/logger"
	"github.com/chatterbox-im/chatterbox/internal/repository"
)

// UserService covers the contact directory: listing, blocking, global
// search and the small persisted preferences (theme, drafts).
type UserService struct {
	userRepo  repository.UserRepository
	chatRepo  repository.ChatRepository
	msgRepo   repository.MessageRepository
	stateRepo repository.StateRepository
	auth      *AuthService
	log       zerolog.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	chatRepo repository.ChatRepository,
	msgRepo repository.MessageRepository,
	stateRepo repository.StateRepository,
	auth *AuthService,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		chatRepo:  chatRepo,
		msgRepo:   msgRepo,
		stateRepo: stateRepo,
		auth:      auth,
		log:       logger.Module("users"),
	}
}

// Contacts lists every user except the caller.
func (s *UserService) Contacts(ctx context.Context) ([]*domain.User, error) {
	current, err := s.auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	contacts := make([]*domain.User, 0, len(users))
	for _, user := range users {
		if user.ID == current.ID {
			continue
		}
		contacts = append(contacts, user.Redacted())
	}
	return contacts, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user.Redacted(), nil
}

// DisplayName resolves a user id to a full name, with the original's
// fallback for unknown ids.
func (s *UserService) DisplayName(ctx context.Context, id string) string {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil || user == nil {
		return "Utilisateur"
	}
	return user.FullName()
}

func (s *UserService) blockedIDs(ctx context.Context) ([]string, error) {
	var blocked []string
	if _, err := s.stateRepo.Get(ctx, repository.StateKeyBlockedContacts, &blocked); err != nil {
		return nil, fmt.Errorf("failed to read blocked contacts: %w", err)
	}
	return blocked, nil
}

func (s *UserService) Block(ctx context.Context, userID string) error {
	blocked, err := s.blockedIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range blocked {
		if id == userID {
			return nil
		}
	}
	blocked = append(blocked, userID)
	s.log.Info().Str("user_id", userID).Msg("contact blocked")
	return s.stateRepo.Set(ctx, repository.StateKeyBlockedContacts, blocked)
}

func (s *UserService) Unblock(ctx context.Context, userID string) error {
	blocked, err := s.blockedIDs(ctx)
	if err != nil {
		return err
	}
	filtered := blocked[:0]
	for _, id := range blocked {
		if id != userID {
			filtered = append(filtered, id)
		}
	}
	return s.stateRepo.Set(ctx, repository.StateKeyBlockedContacts, filtered)
}

func (s *UserService) IsBlocked(ctx context.Context, userID string) (bool, error) {
	blocked, err := s.blockedIDs(ctx)
	if err != nil {
		return false, err
	}
	for _, id := range blocked {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

// GlobalSearchResult groups matches across chats, messages and contacts.
type GlobalSearchResult struct {
	Chats    []*domain.Chat
	Messages []*domain.Message
	Contacts []*domain.User
}

// SearchAll searches chats by name, messages by content and contacts by
// name or phone. Queries shorter than two characters return nothing.
func (s *UserService) SearchAll(ctx context.Context, query string) (*GlobalSearchResult, error) {
	result := &GlobalSearchResult{}
	if len(query) < 2 {
		return result, nil
	}

	chats, err := s.chatRepo.SearchByName(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("chat search failed: %w", err)
	}
	result.Chats = chats

	messages, err := s.msgRepo.Search(ctx, query, 0)
	if err != nil {
		return nil, fmt.Errorf("message search failed: %w", err)
	}
	result.Messages = messages

	users, err := s.userRepo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("contact search failed: %w", err)
	}
	for _, user := range users {
		result.Contacts = append(result.Contacts, user.Redacted())
	}

	return result, nil
}

// Theme and per-chat drafts live under their own keys, outside the data
// collections.

func (s *UserService) Theme(ctx context.Context) (string, error) {
	var theme string
	found, err := s.stateRepo.Get(ctx, repository.StateKeyTheme, &theme)
	if err != nil {
		return "", err
	}
	if !found {
		return "light", nil
	}
	return theme, nil
}

func (s *UserService) SetTheme(ctx context.Context, theme string) error {
	return s.stateRepo.Set(ctx, repository.StateKeyTheme, theme)
}

func (s *UserService) Draft(ctx context.Context, chatID string) (string, error) {
	var draft string
	if _, err := s.stateRepo.Get(ctx, repository.StateKeyDraftPrefix+chatID, &draft); err != nil {
		return "", err
	}
	return draft, nil
}

func (s *UserService) SetDraft(ctx context.Context, chatID, text string) error {
	if text == "" {
		return s.stateRepo.Delete(ctx, repository.StateKeyDraftPrefix+chatID)
	}
	return s.stateRepo.Set(ctx, repository.StateKeyDraftPrefix+chatID, text)
}
