package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/chatterbox-im/chatterbox/internal/domain"
)

// Seed populates the demo content on first access: four demo users, two
// stories and two call log entries. It is idempotent; a database that
// already has users is left untouched.
func Seed(ctx context.Context, db *gorm.DB) error {
	userRepo := NewUserRepository(db)

	count, err := userRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()

	demoUsers := []*domain.User{
		{
			ID:        "u-amadou",
			FirstName: "Amadou dioulde",
			LastName:  "diallo",
			Phone:     "+33612345678",
			Password:  "123456",
			Avatar:    "https://images.pexels.com/photos/774909/pexels-photo-774909.jpeg?auto=compress&cs=tinysrgb&w=150",
			Status:    "Disponible pour discuter",
			LastSeen:  now,
			IsOnline:  true,
			CreatedAt: now,
		},
		{
			ID:        "u-mary",
			FirstName: "mary",
			LastName:  "Diallo",
			Phone:     "+33687654321",
			Password:  "123456",
			Avatar:    "https://images.pexels.com/photos/220453/pexels-photo-220453.jpeg?auto=compress&cs=tinysrgb&w=150",
			Status:    "Occupé au travail",
			LastSeen:  now.Add(-5 * time.Minute),
			IsOnline:  false,
			CreatedAt: now,
		},
		{
			ID:        "u-papa",
			FirstName: "papa",
			LastName:  "mary",
			Phone:     "+33698765432",
			Password:  "123456",
			Avatar:    "https://images.pexels.com/photos/415829/pexels-photo-415829.jpeg?auto=compress&cs=tinysrgb&w=150",
			Status:    "Ne pas déranger",
			LastSeen:  now.Add(-10 * time.Minute),
			IsOnline:  true,
			CreatedAt: now,
		},
		{
			ID:        "u-alamine",
			FirstName: "ala mine",
			LastName:  "sy",
			Phone:     "+33645123789",
			Password:  "123456",
			Avatar:    "https://images.pexels.com/photos/1222271/pexels-photo-1222271.jpeg?auto=compress&cs=tinysrgb&w=150",
			Status:    "En réunion",
			LastSeen:  now.Add(-30 * time.Minute),
			IsOnline:  false,
			CreatedAt: now,
		},
	}

	for _, user := range demoUsers {
		if err := userRepo.Upsert(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", user.ID, err)
		}
	}

	storyRepo := NewStoryRepository(db)

	demoStories := []*domain.Story{
		{
			ID:        "s-demo-1",
			UserID:    "u-mary",
			Type:      domain.StoryTypeImage,
			Content:   "https://images.pexels.com/photos/1640777/pexels-photo-1640777.jpeg?auto=compress&cs=tinysrgb&w=400",
			Caption:   "Belle journée !",
			CreatedAt: now.Add(-1 * time.Hour),
			Privacy:   domain.StoryPrivacyAll,
		},
		{
			ID:              "s-demo-2",
			UserID:          "u-papa",
			Type:            domain.StoryTypeText,
			Content:         "Nouveau projet en cours 🚀",
			BackgroundColor: "#25d366",
			CreatedAt:       now.Add(-2 * time.Hour),
			Privacy:         domain.StoryPrivacyAll,
		},
	}

	for _, story := range demoStories {
		if err := storyRepo.Create(ctx, story); err != nil {
			return fmt.Errorf("failed to seed story %s: %w", story.ID, err)
		}
	}

	callRepo := NewCallRepository(db)
	completedDuration := 245

	demoCalls := []*domain.Call{
		{
			ID:           "c-demo-1",
			Participants: []string{"u-amadou", "u-mary"},
			Type:         domain.CallTypeAudio,
			Direction:    domain.CallDirectionIncoming,
			Status:       domain.CallStatusCompleted,
			Timestamp:    now.Add(-30 * time.Minute),
			Duration:     &completedDuration,
		},
		{
			ID:           "c-demo-2",
			Participants: []string{"u-amadou", "u-papa"},
			Type:         domain.CallTypeVideo,
			Direction:    domain.CallDirectionOutgoing,
			Status:       domain.CallStatusMissed,
			Timestamp:    now.Add(-1 * time.Hour),
		},
	}

	for _, call := range demoCalls {
		if err := callRepo.Create(ctx, call); err != nil {
			return fmt.Errorf("failed to seed call %s: %w", call.ID, err)
		}
	}

	return nil
}
