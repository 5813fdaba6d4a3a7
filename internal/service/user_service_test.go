package service

import (
	"context"
	"testing"

	"github.com/chatterbox-im/chatterbox/internal/domain"
)

func TestContactsExcludeCaller(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	amadou := env.login(t, phoneAmadou)

	contacts, err := env.userSvc.Contacts(ctx)
	if err != nil {
		t.Fatalf("contacts: %v", err)
	}
	if len(contacts) != 3 {
		t.Fatalf("contacts = %d", len(contacts))
	}
	for _, c := range contacts {
		if c.ID == amadou.ID {
			t.Fatal("caller listed in own contacts")
		}
		if c.Password != "" {
			t.Errorf("contact %s leaked the password", c.ID)
		}
	}
}

func TestBlockUnblock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.login(t, phoneAmadou)

	if err := env.userSvc.Block(ctx, "u-mary"); err != nil {
		t.Fatalf("block: %v", err)
	}
	// Blocking twice is a no-op
	if err := env.userSvc.Block(ctx, "u-mary"); err != nil {
		t.Fatalf("block again: %v", err)
	}

	blocked, err := env.userSvc.IsBlocked(ctx, "u-mary")
	if err != nil {
		t.Fatalf("is blocked: %v", err)
	}
	if !blocked {
		t.Fatal("contact not blocked")
	}

	if err := env.userSvc.Unblock(ctx, "u-mary"); err != nil {
		t.Fatalf("unblock: %v", err)
	}
	blocked, err = env.userSvc.IsBlocked(ctx, "u-mary")
	if err != nil {
		t.Fatalf("is blocked: %v", err)
	}
	if blocked {
		t.Fatal("contact still blocked")
	}
}

func TestSearchAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.login(t, phoneAmadou)

	chat, err := env.chatSvc.CreateChat(ctx, domain.ChatTypeGroup, []string{"u-mary"}, "Projet secret", "")
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	if _, err := env.msgSvc.Send(ctx, chat.ID, SendInput{Content: "le projet avance bien"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	res, err := env.userSvc.SearchAll(ctx, "projet")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Chats) != 1 {
		t.Errorf("chat matches = %d", len(res.Chats))
	}
	if len(res.Messages) != 1 {
		t.Errorf("message matches = %d", len(res.Messages))
	}

	byName, err := env.userSvc.SearchAll(ctx, "mary")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byName.Contacts) == 0 {
		t.Error("contact search found nothing for a seeded name")
	}
}

func TestSearchShortQueryReturnsNothing(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, phoneAmadou)

	res, err := env.userSvc.SearchAll(context.Background(), "a")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Chats) != 0 || len(res.Messages) != 0 || len(res.Contacts) != 0 {
		t.Fatal("short query returned results")
	}
}

func TestThemeDefaultsToLight(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	theme, err := env.userSvc.Theme(ctx)
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	if theme != "light" {
		t.Errorf("default theme = %q", theme)
	}

	if err := env.userSvc.SetTheme(ctx, "dark"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	theme, err = env.userSvc.Theme(ctx)
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	if theme != "dark" {
		t.Errorf("theme = %q", theme)
	}
}

func TestDraftRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.userSvc.SetDraft(ctx, "chat-1", "message en cours"); err != nil {
		t.Fatalf("set draft: %v", err)
	}
	draft, err := env.userSvc.Draft(ctx, "chat-1")
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if draft != "message en cours" {
		t.Errorf("draft = %q", draft)
	}

	// Empty text clears the draft
	if err := env.userSvc.SetDraft(ctx, "chat-1", ""); err != nil {
		t.Fatalf("clear draft: %v", err)
	}
	draft, err = env.userSvc.Draft(ctx, "chat-1")
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if draft != "" {
		t.Errorf("draft survived clearing: %q", draft)
	}
}
