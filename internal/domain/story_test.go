package domain

import (
	"testing"
	"time"
)

func TestStoryExpiry(t *testing.T) {
	now := time.Now()
	story := NewTextStory("s-1", "u-1", "texte", "", StoryPrivacyAll, now.Add(-23*time.Hour))
	if story.Expired(now) {
		t.Error("23h old story reported expired")
	}

	// Exactly at the lifetime boundary counts as expired
	boundary := NewTextStory("s-2", "u-1", "texte", "", StoryPrivacyAll, now.Add(-StoryLifetime))
	if !boundary.Expired(now) {
		t.Error("story at the 24h boundary reported active")
	}

	old := NewTextStory("s-3", "u-1", "texte", "", StoryPrivacyAll, now.Add(-25*time.Hour))
	if !old.Expired(now) {
		t.Error("25h old story reported active")
	}
}

func TestViewedByUser(t *testing.T) {
	story := NewTextStory("s-1", "u-1", "texte", "", StoryPrivacyAll, time.Now())
	if story.ViewedByUser("u-2") {
		t.Error("fresh story already viewed")
	}
	story.ViewedBy = append(story.ViewedBy, "u-2")
	if !story.ViewedByUser("u-2") {
		t.Error("viewer not found")
	}
}
