package domain

import "time"

type StoryType string

const (
	StoryTypeText  StoryType = "text"
	StoryTypeImage StoryType = "image"
)

type StoryPrivacy string

const (
	StoryPrivacyAll          StoryPrivacy = "all"
	StoryPrivacyCloseFriends StoryPrivacy = "close_friends"
	StoryPrivacyExcept       StoryPrivacy = "except"
)

// StoryLifetime is how long a story stays visible. Expired stories are
// filtered at read time, never purged.
const StoryLifetime = 24 * time.Hour

type Story struct {
	ID              string
	UserID          string
	Type            StoryType
	Content         string
	BackgroundColor string
	Caption         string
	CreatedAt       time.Time
	ViewedBy        []string
	Privacy         StoryPrivacy
}

func (s *Story) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) >= StoryLifetime
}

func (s *Story) ViewedByUser(userID string) bool {
	for _, id := range s.ViewedBy {
		if id == userID {
			return true
		}
	}
	return false
}

func NewTextStory(id, userID, content, backgroundColor string, privacy StoryPrivacy, now time.Time) *Story {
	return &Story{
		ID:              id,
		UserID:          userID,
		Type:            StoryTypeText,
		Content:         content,
		BackgroundColor: backgroundColor,
		CreatedAt:       now,
		Privacy:         privacy,
	}
}

func NewImageStory(id, userID, content, caption string, privacy StoryPrivacy, now time.Time) *Story {
	return &Story{
		ID:        id,
		UserID:    userID,
		Type:      StoryTypeImage,
		Content:   content,
		Caption:   caption,
		CreatedAt: now,
		Privacy:   privacy,
	}
}
