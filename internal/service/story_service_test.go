package service

import (
	"context"
	"testing"
	"time"

	"github.com/chatterbox-im/chatterbox/internal/domain"
)

func TestPostStories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	amadou := env.login(t, phoneAmadou)

	text, err := env.story.PostTextStory(ctx, "Bonne nouvelle !", "#128c7e", domain.StoryPrivacyAll)
	if err != nil {
		t.Fatalf("post text story: %v", err)
	}
	if text.Type != domain.StoryTypeText || text.UserID != amadou.ID {
		t.Errorf("story = %+v", text)
	}
	if text.BackgroundColor != "#128c7e" {
		t.Errorf("background = %q", text.BackgroundColor)
	}

	image, err := env.story.PostImageStory(ctx, "https://example.com/photo.jpg", "La vue", domain.StoryPrivacyAll)
	if err != nil {
		t.Fatalf("post image story: %v", err)
	}
	if image.Type != domain.StoryTypeImage || image.Caption != "La vue" {
		t.Errorf("story = %+v", image)
	}
}

func TestActiveStoriesFiltersExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.login(t, phoneAmadou)

	expired := domain.NewTextStory("s-old", "u-mary", "trop vieux", "", domain.StoryPrivacyAll,
		time.Now().Add(-25*time.Hour))
	if err := env.stories.Create(ctx, expired); err != nil {
		t.Fatalf("create story: %v", err)
	}
	fresh := domain.NewTextStory("s-fresh", "u-mary", "encore là", "", domain.StoryPrivacyAll,
		time.Now().Add(-23*time.Hour))
	if err := env.stories.Create(ctx, fresh); err != nil {
		t.Fatalf("create story: %v", err)
	}

	active, err := env.story.ActiveStories(ctx)
	if err != nil {
		t.Fatalf("active stories: %v", err)
	}
	seen := map[string]bool{}
	for _, s := range active {
		seen[s.ID] = true
	}
	if seen["s-old"] {
		t.Error("expired story still visible")
	}
	if !seen["s-fresh"] {
		t.Error("fresh story filtered out")
	}

	// Expired stories stay in storage, only reads filter them.
	stored, err := env.stories.GetByID(ctx, "s-old")
	if err != nil {
		t.Fatalf("get story: %v", err)
	}
	if stored == nil {
		t.Fatal("expired story was purged")
	}
}

func TestRestrictedStoryVisibleToAuthorOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.login(t, phoneMary)
	restricted, err := env.story.PostTextStory(ctx, "entre amis", "", domain.StoryPrivacyCloseFriends)
	if err != nil {
		t.Fatalf("post story: %v", err)
	}

	mine, err := env.story.ActiveStories(ctx)
	if err != nil {
		t.Fatalf("active stories: %v", err)
	}
	found := false
	for _, s := range mine {
		if s.ID == restricted.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("author cannot see own restricted story")
	}

	env.login(t, phoneAmadou)
	others, err := env.story.ActiveStories(ctx)
	if err != nil {
		t.Fatalf("active stories: %v", err)
	}
	for _, s := range others {
		if s.ID == restricted.ID {
			t.Fatal("restricted story leaked to another user")
		}
	}
}

func TestUserStoriesAppliesPrivacy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.login(t, phoneMary)
	public, err := env.story.PostTextStory(ctx, "pour tout le monde", "", domain.StoryPrivacyAll)
	if err != nil {
		t.Fatalf("post story: %v", err)
	}
	restricted, err := env.story.PostTextStory(ctx, "entre amis", "", domain.StoryPrivacyCloseFriends)
	if err != nil {
		t.Fatalf("post story: %v", err)
	}

	mine, err := env.story.UserStories(ctx, "u-mary")
	if err != nil {
		t.Fatalf("user stories: %v", err)
	}
	if len(mine) != 3 { // s-demo-1 + the two above
		t.Fatalf("author sees %d stories, want 3", len(mine))
	}

	env.login(t, phoneAmadou)
	visible, err := env.story.UserStories(ctx, "u-mary")
	if err != nil {
		t.Fatalf("user stories: %v", err)
	}
	var ids []string
	for _, s := range visible {
		ids = append(ids, s.ID)
		if s.ID == restricted.ID {
			t.Fatal("restricted story leaked to another viewer")
		}
	}
	found := false
	for _, id := range ids {
		if id == public.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("public story missing from author listing")
	}
}

func TestMarkViewedIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	amadou := env.login(t, phoneAmadou)

	// s-demo-1 is seeded by Mary
	if err := env.story.MarkViewed(ctx, "s-demo-1"); err != nil {
		t.Fatalf("mark viewed: %v", err)
	}
	if err := env.story.MarkViewed(ctx, "s-demo-1"); err != nil {
		t.Fatalf("mark viewed again: %v", err)
	}

	story, err := env.stories.GetByID(ctx, "s-demo-1")
	if err != nil {
		t.Fatalf("get story: %v", err)
	}
	count := 0
	for _, id := range story.ViewedBy {
		if id == amadou.ID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("viewer recorded %d times", count)
	}
}
