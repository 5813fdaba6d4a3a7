package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatterbox-im/chatterbox/internal/domain"
	"github.com/chatterbox-im/chatterbox/internal/logger"
	"github.com/chatterbox-im/chatterbox/internal/repository"
)

// Snapshot is a full export of the data collections, suitable for JSON
// backup and restore.
type Snapshot struct {
	Users      []*domain.User      `json:"users"`
	Chats      []*domain.Chat      `json:"chats"`
	Messages   []*domain.Message   `json:"messages"`
	Stories    []*domain.Story     `json:"stories"`
	Calls      []*domain.Call      `json:"calls"`
	Broadcasts []*domain.Broadcast `json:"broadcasts"`
	ExportDate time.Time           `json:"exportDate"`
}

// BackupService exports, imports and resets the whole store.
type BackupService struct {
	userRepo      repository.UserRepository
	chatRepo      repository.ChatRepository
	msgRepo       repository.MessageRepository
	storyRepo     repository.StoryRepository
	callRepo      repository.CallRepository
	broadcastRepo repository.BroadcastRepository
	stateRepo     repository.StateRepository
	log           zerolog.Logger
}

func NewBackupService(
	userRepo repository.UserRepository,
	chatRepo repository.ChatRepository,
	msgRepo repository.MessageRepository,
	storyRepo repository.StoryRepository,
	callRepo repository.CallRepository,
	broadcastRepo repository.BroadcastRepository,
	stateRepo repository.StateRepository,
) *BackupService {
	return &BackupService{
		userRepo:      userRepo,
		chatRepo:      chatRepo,
		msgRepo:       msgRepo,
		storyRepo:     storyRepo,
		callRepo:      callRepo,
		broadcastRepo: broadcastRepo,
		stateRepo:     stateRepo,
		log:           logger.Module("backup"),
	}
}

func (s *BackupService) Export(ctx context.Context) (*Snapshot, error) {
	snapshot := &Snapshot{ExportDate: time.Now()}
	var err error

	if snapshot.Users, err = s.userRepo.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	if snapshot.Chats, err = s.chatRepo.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export chats: %w", err)
	}
	if snapshot.Messages, err = s.msgRepo.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export messages: %w", err)
	}
	if snapshot.Stories, err = s.storyRepo.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export stories: %w", err)
	}
	if snapshot.Calls, err = s.callRepo.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export calls: %w", err)
	}
	if snapshot.Broadcasts, err = s.broadcastRepo.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export broadcasts: %w", err)
	}

	return snapshot, nil
}

// Import replaces the collections present in the snapshot. Absent
// collections are left untouched.
func (s *BackupService) Import(ctx context.Context, snapshot *Snapshot) error {
	if snapshot.Users != nil {
		if err := s.userRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to reset users: %w", err)
		}
		for _, user := range snapshot.Users {
			if err := s.userRepo.Upsert(ctx, user); err != nil {
				return fmt.Errorf("failed to import user %s: %w", user.ID, err)
			}
		}
	}
	if snapshot.Chats != nil {
		if err := s.chatRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to reset chats: %w", err)
		}
		for _, chat := range snapshot.Chats {
			if err := s.chatRepo.Upsert(ctx, chat); err != nil {
				return fmt.Errorf("failed to import chat %s: %w", chat.ID, err)
			}
		}
	}
	if snapshot.Messages != nil {
		if err := s.msgRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to reset messages: %w", err)
		}
		for _, msg := range snapshot.Messages {
			if err := s.msgRepo.Create(ctx, msg); err != nil {
				return fmt.Errorf("failed to import message %s: %w", msg.ID, err)
			}
		}
	}
	if snapshot.Stories != nil {
		if err := s.storyRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to reset stories: %w", err)
		}
		for _, story := range snapshot.Stories {
			if err := s.storyRepo.Create(ctx, story); err != nil {
				return fmt.Errorf("failed to import story %s: %w", story.ID, err)
			}
		}
	}
	if snapshot.Calls != nil {
		if err := s.callRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to reset calls: %w", err)
		}
		for _, call := range snapshot.Calls {
			if err := s.callRepo.Create(ctx, call); err != nil {
				return fmt.Errorf("failed to import call %s: %w", call.ID, err)
			}
		}
	}
	if snapshot.Broadcasts != nil {
		if err := s.broadcastRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to reset broadcasts: %w", err)
		}
		for _, broadcast := range snapshot.Broadcasts {
			if err := s.broadcastRepo.Create(ctx, broadcast); err != nil {
				return fmt.Errorf("failed to import broadcast %s: %w", broadcast.ID, err)
			}
		}
	}

	s.log.Info().Msg("snapshot imported")
	return nil
}

// Reset clears every collection, including session and preferences.
func (s *BackupService) Reset(ctx context.Context) error {
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"users", s.userRepo.DeleteAll},
		{"chats", s.chatRepo.DeleteAll},
		{"messages", s.msgRepo.DeleteAll},
		{"stories", s.storyRepo.DeleteAll},
		{"calls", s.callRepo.DeleteAll},
		{"broadcasts", s.broadcastRepo.DeleteAll},
		{"state", s.stateRepo.DeleteAll},
	}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("failed to reset %s: %w", step.name, err)
		}
	}
	return nil
}
