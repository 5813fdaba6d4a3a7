package repository

import (
	"context"
	"testing"
	"time"

	"github.com/chatterbox-im/chatterbox/internal/domain"
)

func TestMessagesOrderedAscending(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	messages := NewMessageRepository(db)

	base := time.Now().Add(-time.Hour)
	// Inserted out of order on purpose
	for i, offset := range []time.Duration{20 * time.Minute, 0, 10 * time.Minute} {
		msg := domain.NewMessage(
			"m-"+string(rune('a'+i)), "chat-1", "u-amadou",
			domain.MessageTypeText, "texte", base.Add(offset),
		)
		if err := messages.Create(ctx, msg); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := messages.GetByChatID(ctx, "chat-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("count = %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Fatal("messages not in ascending timestamp order")
		}
	}
}

func TestMarkChatReadSparesOwnMessages(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	messages := NewMessageRepository(db)

	mine := domain.NewMessage("m-mine", "chat-1", "u-amadou", domain.MessageTypeText, "de moi", time.Now())
	theirs := domain.NewMessage("m-theirs", "chat-1", "u-mary", domain.MessageTypeText, "de mary", time.Now())
	elsewhere := domain.NewMessage("m-other", "chat-2", "u-mary", domain.MessageTypeText, "autre chat", time.Now())
	for _, msg := range []*domain.Message{mine, theirs, elsewhere} {
		if err := messages.Create(ctx, msg); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if err := messages.MarkChatRead(ctx, "chat-1", "u-amadou"); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	got, err := messages.GetByID(ctx, "m-theirs")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.MessageStatusRead {
		t.Errorf("mary's message status = %s", got.Status)
	}

	got, err = messages.GetByID(ctx, "m-mine")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.MessageStatusSent {
		t.Errorf("own message status changed to %s", got.Status)
	}

	got, err = messages.GetByID(ctx, "m-other")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.MessageStatusSent {
		t.Errorf("other chat's message status changed to %s", got.Status)
	}
}

func TestMessageNotFoundIsNil(t *testing.T) {
	db := openTestDB(t)
	messages := NewMessageRepository(db)

	msg, err := messages.GetByID(context.Background(), "absent")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if msg != nil {
		t.Fatal("expected nil for a missing message")
	}
}

func TestMessageReactionsPersist(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	messages := NewMessageRepository(db)

	msg := domain.NewMessage("m-1", "chat-1", "u-amadou", domain.MessageTypeText, "réagis", time.Now())
	msg.Reactions = []domain.Reaction{{Emoji: "👍", UserID: "u-mary"}}
	if err := messages.Create(ctx, msg); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := messages.GetByID(ctx, "m-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Reactions) != 1 || got.Reactions[0].Emoji != "👍" || got.Reactions[0].UserID != "u-mary" {
		t.Fatalf("reactions = %+v", got.Reactions)
	}
}
