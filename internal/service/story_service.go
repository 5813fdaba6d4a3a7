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

// StoryService posts and reads ephemeral stories. Expiry is applied at
// read time: records older than 24 hours stay in storage but are never
// returned.
type StoryService struct {
	storyRepo repository.StoryRepository
	auth      *AuthService
	eventBus  domain.EventBus
	log       zerolog.Logger
}

func NewStoryService(storyRepo repository.StoryRepository, auth *AuthService, eventBus domain.EventBus) *StoryService {
	return &StoryService{
		storyRepo: storyRepo,
		auth:      auth,
		eventBus:  eventBus,
		log:       logger.Module("stories"),
	}
}

func (s *StoryService) PostTextStory(ctx context.Context, content, backgroundColor string, privacy domain.StoryPrivacy) (*domain.Story, error) {
	user, err := s.auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if privacy == "" {
		privacy = domain.StoryPrivacyAll
	}

	story := domain.NewTextStory(uuid.NewString(), user.ID, content, backgroundColor, privacy, time.Now())
	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, fmt.Errorf("failed to store story: %w", err)
	}

	s.eventBus.Publish(domain.StoryPostedEvent{Story: story, EventTime: time.Now()})
	return story, nil
}

func (s *StoryService) PostImageStory(ctx context.Context, content, caption string, privacy domain.StoryPrivacy) (*domain.Story, error) {
	user, err := s.auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if privacy == "" {
		privacy = domain.StoryPrivacyAll
	}

	story := domain.NewImageStory(uuid.NewString(), user.ID, content, caption, privacy, time.Now())
	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, fmt.Errorf("failed to store story: %w", err)
	}

	s.eventBus.Publish(domain.StoryPostedEvent{Story: story, EventTime: time.Now()})
	return story, nil
}

// ActiveStories returns the unexpired stories visible to the current
// user, oldest first. Restricted privacy levels keep the story visible
// to its author only.
func (s *StoryService) ActiveStories(ctx context.Context) ([]*domain.Story, error) {
	user, err := s.auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	stories, err := s.storyRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	now := time.Now()
	visible := make([]*domain.Story, 0, len(stories))
	for _, story := range stories {
		if story.Expired(now) {
			continue
		}
		if story.Privacy != domain.StoryPrivacyAll && story.UserID != user.ID {
			continue
		}
		visible = append(visible, story)
	}
	return visible, nil
}

// UserStories returns one author's unexpired stories, under the same
// privacy rule as ActiveStories.
func (s *StoryService) UserStories(ctx context.Context, userID string) ([]*domain.Story, error) {
	user, err := s.auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	stories, err := s.storyRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	now := time.Now()
	active := make([]*domain.Story, 0, len(stories))
	for _, story := range stories {
		if story.Expired(now) {
			continue
		}
		if story.Privacy != domain.StoryPrivacyAll && story.UserID != user.ID {
			continue
		}
		active = append(active, story)
	}
	return active, nil
}

// MarkViewed records the current user in the story's viewer set once.
func (s *StoryService) MarkViewed(ctx context.Context, storyID string) error {
	user, err := s.auth.RequireUser(ctx)
	if err != nil {
		return err
	}

	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return fmt.Errorf("failed to load story: %w", err)
	}
	if story == nil {
		return domain.ErrNotFound
	}
	if story.ViewedByUser(user.ID) {
		return nil
	}

	story.ViewedBy = append(story.ViewedBy, user.ID)
	if err := s.storyRepo.Update(ctx, story); err != nil {
		return fmt.Errorf("failed to save story: %w", err)
	}
	return nil
}
