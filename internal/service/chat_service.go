package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chatterbox-im/chatterbox/internal/domain"
	"github.com/chatterbox-im/chatterbox/internal/logger"
	"github.com/chatterbox-im/chatterbox/internal/repository"
)

// ChatService derives the visible conversation list for the current
// user, creates conversations and enforces group governance.
type ChatService struct {
	chatRepo      repository.ChatRepository
	msgRepo       repository.MessageRepository
	userRepo      repository.UserRepository
	broadcastRepo repository.BroadcastRepository
	stateRepo     repository.StateRepository
	auth          *AuthService
	eventBus      domain.EventBus
	log           zerolog.Logger
}

func NewChatService(
	chatRepo repository.ChatRepository,
	msgRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	broadcastRepo repository.BroadcastRepository,
	stateRepo repository.StateRepository,
	auth *AuthService,
	eventBus domain.EventBus,
) *ChatService {
	return &ChatService{
		chatRepo:      chatRepo,
		msgRepo:       msgRepo,
		userRepo:      userRepo,
		broadcastRepo: broadcastRepo,
		stateRepo:     stateRepo,
		auth:          auth,
		eventBus:      eventBus,
		log:           logger.Module("chats"),
	}
}

// Chats returns the chats the current user participates in, excluding
// archived ones, newest activity first.
func (s *ChatService) Chats(ctx context.Context) ([]*domain.Chat, error) {
	return s.chatList(ctx, false)
}

// ArchivedChats is the complementary filter: participant and archived.
func (s *ChatService) ArchivedChats(ctx context.Context) ([]*domain.Chat, error) {
	return s.chatList(ctx, true)
}

func (s *ChatService) chatList(ctx context.Context, archived bool) ([]*domain.Chat, error) {
	user, err := s.auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	chats, err := s.chatRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}

	archivedSet, err := s.archivedSet(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]*domain.Chat, 0, len(chats))
	for _, chat := range chats {
		if !chat.HasParticipant(user.ID) {
			continue
		}
		if archivedSet[chat.ID] != archived {
			continue
		}
		visible = append(visible, chat)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].LastMessageTime.After(visible[j].LastMessageTime)
	})
	return visible, nil
}

func (s *ChatService) GetChat(ctx context.Context, id string) (*domain.Chat, error) {
	chat, err := s.chatRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat: %w", err)
	}
	if chat == nil {
		return nil, domain.ErrNotFound
	}
	return chat, nil
}

func (s *ChatService) archivedSet(ctx context.Context) (map[string]bool, error) {
	var ids []string
	if _, err := s.stateRepo.Get(ctx, repository.StateKeyArchivedChats, &ids); err != nil {
		return nil, fmt.Errorf("failed to read archived chats: %w", err)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *ChatService) ArchiveChat(ctx context.Context, chatID string) error {
	set, err := s.archivedSet(ctx)
	if err != nil {
		return err
	}
	if set[chatID] {
		return nil
	}

	var ids []string
	if _, err := s.stateRepo.Get(ctx, repository.StateKeyArchivedChats, &ids); err != nil {
		return err
	}
	ids = append(ids, chatID)
	return s.stateRepo.Set(ctx, repository.StateKeyArchivedChats, ids)
}

func (s *ChatService) UnarchiveChat(ctx context.Context, chatID string) error {
	var ids []string
	if _, err := s.stateRepo.Get(ctx, repository.StateKeyArchivedChats, &ids); err != nil {
		return err
	}
	filtered := ids[:0]
	for _, id := range ids {
		if id != chatID {
			filtered = append(filtered, id)
		}
	}
	return s.stateRepo.Set(ctx, repository.StateKeyArchivedChats, filtered)
}

func (s *ChatService) IsArchived(ctx context.Context, chatID string) (bool, error) {
	set, err := s.archivedSet(ctx)
	if err != nil {
		return false, err
	}
	return set[chatID], nil
}

// FindPrivateChat returns the private chat containing both users, or
// nil when none exists.
func (s *ChatService) FindPrivateChat(ctx context.Context, userA, userB string) (*domain.Chat, error) {
	chats, err := s.chatRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	for _, chat := range chats {
		if chat.Type == domain.ChatTypePrivate && chat.HasParticipant(userA) && chat.HasParticipant(userB) {
			return chat, nil
		}
	}
	return nil, nil
}

// CreateChat builds a new conversation. The creator is always a member
// and, for groups, the sole initial admin. An empty name defaults to
// the other participants' full names joined by commas.
func (s *ChatService) CreateChat(ctx context.Context, chatType domain.ChatType, participants []string, name, description string) (*domain.Chat, error) {
	user, err := s.auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	members := make([]string, 0, len(participants)+1)
	seen := make(map[string]bool, len(participants)+1)
	for _, id := range append([]string{user.ID}, participants...) {
		if !seen[id] {
			seen[id] = true
			members = append(members, id)
		}
	}

	if name == "" {
		name, err = s.defaultChatName(ctx, user.ID, members)
		if err != nil {
			return nil, err
		}
	}

	chat := domain.NewChat(uuid.NewString(), chatType, name, description, user.ID, members, time.Now())
	if err := s.chatRepo.Create(ctx, chat); err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}

	s.log.Info().Str("chat_id", chat.ID).Str("type", string(chatType)).Msg("chat created")
	s.eventBus.Publish(domain.ChatUpdatedEvent{Chat: chat, EventTime: time.Now()})
	return chat, nil
}

func (s *ChatService) defaultChatName(ctx context.Context, currentUserID string, participants []string) (string, error) {
	var names []string
	for _, id := range participants {
		if id == currentUserID {
			continue
		}
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to load participant: %w", err)
		}
		if user != nil {
			names = append(names, user.FullName())
		}
	}
	return domain.ChatNameFromNames(names), nil
}

// CreateBroadcast stores a standalone fan-out list. No chats are
// created until a message is actually sent through it.
func (s *ChatService) CreateBroadcast(ctx context.Context, name string, participants []string) (*domain.Broadcast, error) {
	user, err := s.auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	broadcast := domain.NewBroadcast(uuid.NewString(), name, user.ID, participants, time.Now())
	if err := s.broadcastRepo.Create(ctx, broadcast); err != nil {
		return nil, fmt.Errorf("failed to create broadcast: %w", err)
	}

	s.log.Info().Str("broadcast_id", broadcast.ID).Int("recipients", len(participants)).Msg("broadcast created")
	return broadcast, nil
}

func (s *ChatService) Broadcasts(ctx context.Context) ([]*domain.Broadcast, error) {
	user, err := s.auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.broadcastRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list broadcasts: %w", err)
	}

	mine := make([]*domain.Broadcast, 0, len(all))
	for _, b := range all {
		if b.CreatedBy == user.ID {
			mine = append(mine, b)
		}
	}
	return mine, nil
}

// ClearChat removes every message of a chat but keeps the chat record.
func (s *ChatService) ClearChat(ctx context.Context, chatID string) error {
	if err := s.msgRepo.DeleteByChatID(ctx, chatID); err != nil {
		return fmt.Errorf("failed to clear chat: %w", err)
	}
	return nil
}

// DeleteChat removes the chat record and its messages.
func (s *ChatService) DeleteChat(ctx context.Context, chatID string) error {
	if err := s.chatRepo.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	if err := s.msgRepo.DeleteByChatID(ctx, chatID); err != nil {
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}
	return s.UnarchiveChat(ctx, chatID)
}

// --- Group governance ---

func (s *ChatService) loadGroup(ctx context.Context, chatID string) (*domain.Chat, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat: %w", err)
	}
	if chat == nil {
		return nil, domain.ErrNotFound
	}
	if chat.Type != domain.ChatTypeGroup {
		return nil, domain.ErrNotGroup
	}
	return chat, nil
}

func (s *ChatService) AddMember(ctx context.Context, chatID, userID, addedBy string) error {
	chat, err := s.loadGroup(ctx, chatID)
	if err != nil {
		return err
	}
	if chat.HasParticipant(userID) {
		return domain.ErrAlreadyMember
	}

	chat.Participants = append(chat.Participants, userID)
	if err := s.chatRepo.Upsert(ctx, chat); err != nil {
		return fmt.Errorf("failed to save chat: %w", err)
	}

	s.systemMessage(ctx, chatID, fmt.Sprintf("%s a été ajouté au groupe", s.userName(ctx, userID)))
	s.eventBus.Publish(domain.MembershipEvent{
		Kind:      domain.EventTypeMemberAdded,
		ChatID:    chatID,
		UserID:    userID,
		ActorID:   addedBy,
		EventTime: time.Now(),
	})
	return nil
}

func (s *ChatService) RemoveMember(ctx context.Context, chatID, userID, removedBy string) error {
	chat, err := s.loadGroup(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsAdmin(removedBy) {
		return domain.ErrNotAdmin
	}
	if userID == chat.CreatedBy {
		return domain.ErrCreatorProtected
	}
	if !chat.HasParticipant(userID) {
		return domain.ErrNotMember
	}

	chat.Participants = remove(chat.Participants, userID)
	chat.Admins = remove(chat.Admins, userID)
	if err := s.chatRepo.Upsert(ctx, chat); err != nil {
		return fmt.Errorf("failed to save chat: %w", err)
	}

	s.systemMessage(ctx, chatID, fmt.Sprintf("%s a été retiré du groupe", s.userName(ctx, userID)))
	s.eventBus.Publish(domain.MembershipEvent{
		Kind:      domain.EventTypeMemberRemoved,
		ChatID:    chatID,
		UserID:    userID,
		ActorID:   removedBy,
		EventTime: time.Now(),
	})
	return nil
}

func (s *ChatService) PromoteAdmin(ctx context.Context, chatID, userID, promotedBy string) error {
	chat, err := s.loadGroup(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsAdmin(promotedBy) {
		return domain.ErrNotAdmin
	}
	if !chat.HasParticipant(userID) {
		return domain.ErrNotMember
	}
	if chat.IsAdmin(userID) {
		return domain.ErrAlreadyAdmin
	}

	chat.Admins = append(chat.Admins, userID)
	if err := s.chatRepo.Upsert(ctx, chat); err != nil {
		return fmt.Errorf("failed to save chat: %w", err)
	}

	s.systemMessage(ctx, chatID, fmt.Sprintf("%s est maintenant administrateur", s.userName(ctx, userID)))
	s.eventBus.Publish(domain.MembershipEvent{
		Kind:      domain.EventTypeMemberPromoted,
		ChatID:    chatID,
		UserID:    userID,
		ActorID:   promotedBy,
		EventTime: time.Now(),
	})
	return nil
}

func (s *ChatService) DemoteAdmin(ctx context.Context, chatID, userID, demotedBy string) error {
	chat, err := s.loadGroup(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsAdmin(demotedBy) {
		return domain.ErrNotAdmin
	}
	if userID == chat.CreatedBy {
		return domain.ErrCreatorProtected
	}
	if !chat.IsAdmin(userID) {
		return domain.ErrNotMember
	}

	chat.Admins = remove(chat.Admins, userID)
	if err := s.chatRepo.Upsert(ctx, chat); err != nil {
		return fmt.Errorf("failed to save chat: %w", err)
	}

	s.systemMessage(ctx, chatID, fmt.Sprintf("%s n'est plus administrateur", s.userName(ctx, userID)))
	s.eventBus.Publish(domain.MembershipEvent{
		Kind:      domain.EventTypeMemberDemoted,
		ChatID:    chatID,
		UserID:    userID,
		ActorID:   demotedBy,
		EventTime: time.Now(),
	})
	return nil
}

type GroupInfoUpdate struct {
	Name        *string
	Description *string
	Avatar      *string
}

// UpdateGroupInfo applies name, description and avatar changes, each
// with its own audit message. Non-admins may edit only when the group
// allows member edits.
func (s *ChatService) UpdateGroupInfo(ctx context.Context, chatID string, update GroupInfoUpdate, updatedBy string) error {
	chat, err := s.loadGroup(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsAdmin(updatedBy) && !chat.Settings.AllowMemberEdit {
		return domain.ErrNotAdmin
	}

	if update.Name != nil && *update.Name != "" {
		oldName := chat.Name
		chat.Name = *update.Name
		s.systemMessage(ctx, chatID, fmt.Sprintf("Le nom du groupe a été changé de %q à %q", oldName, chat.Name))
	}
	if update.Description != nil {
		chat.Description = *update.Description
		s.systemMessage(ctx, chatID, "La description du groupe a été mise à jour")
	}
	if update.Avatar != nil && *update.Avatar != "" {
		chat.Avatar = *update.Avatar
		s.systemMessage(ctx, chatID, "La photo du groupe a été mise à jour")
	}

	if err := s.chatRepo.Upsert(ctx, chat); err != nil {
		return fmt.Errorf("failed to save chat: %w", err)
	}

	s.eventBus.Publish(domain.ChatUpdatedEvent{Chat: chat, EventTime: time.Now()})
	return nil
}

// systemMessage appends a governance audit line. Failures are logged,
// not propagated: the governance change itself already succeeded.
func (s *ChatService) systemMessage(ctx context.Context, chatID, content string) {
	msg := domain.NewSystemMessage(uuid.NewString(), chatID, content, time.Now())
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		s.log.Warn().Err(err).Str("chat_id", chatID).Msg("failed to record system message")
	}
}

func (s *ChatService) userName(ctx context.Context, userID string) string {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return "Utilisateur"
	}
	return user.FullName()
}

func remove(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
