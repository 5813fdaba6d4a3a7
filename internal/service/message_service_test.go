package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chatterbox-im/chatterbox/internal/domain"
)

// newPrivateChat opens a private chat between Amadou (logged in) and Mary.
func newPrivateChat(t *testing.T, env *testEnv) *domain.Chat {
	t.Helper()
	env.login(t, phoneAmadou)
	chat, err := env.chatSvc.CreateChat(context.Background(), domain.ChatTypePrivate, []string{"u-mary"}, "", "")
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	return chat
}

func TestSendAppendsAndUpdatesChat(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chat := newPrivateChat(t, env)

	before, err := env.msgSvc.Messages(ctx, chat.ID)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}

	msg, err := env.msgSvc.Send(ctx, chat.ID, SendInput{Content: "Bonjour !"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.Type != domain.MessageTypeText {
		t.Errorf("type = %s", msg.Type)
	}
	if msg.Status != domain.MessageStatusSent {
		t.Errorf("status = %s", msg.Status)
	}

	after, err := env.msgSvc.Messages(ctx, chat.ID)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(after) != len(before)+1 {
		t.Fatalf("message count %d -> %d, want +1", len(before), len(after))
	}

	reloaded, err := env.chatSvc.GetChat(ctx, chat.ID)
	if err != nil {
		t.Fatalf("get chat: %v", err)
	}
	if reloaded.LastMessage != "Bonjour !" {
		t.Errorf("last message = %q", reloaded.LastMessage)
	}
	if !reloaded.LastMessageTime.Equal(msg.Timestamp) && reloaded.LastMessageTime.Sub(msg.Timestamp) > time.Second {
		t.Errorf("last message time = %v, message = %v", reloaded.LastMessageTime, msg.Timestamp)
	}
}

func TestSendToUnknownChat(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, phoneAmadou)

	_, err := env.msgSvc.Send(context.Background(), "no-such-chat", SendInput{Content: "hello"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSendRequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.msgSvc.Send(context.Background(), "whatever", SendInput{Content: "hello"})
	if !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestSendToBlockedPeer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chat := newPrivateChat(t, env)

	if err := env.userSvc.Block(ctx, "u-mary"); err != nil {
		t.Fatalf("block: %v", err)
	}
	_, err := env.msgSvc.Send(ctx, chat.ID, SendInput{Content: "bloqué ?"})
	if !errors.Is(err, domain.ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}

	if err := env.userSvc.Unblock(ctx, "u-mary"); err != nil {
		t.Fatalf("unblock: %v", err)
	}
	if _, err := env.msgSvc.Send(ctx, chat.ID, SendInput{Content: "de nouveau"}); err != nil {
		t.Fatalf("send after unblock: %v", err)
	}
}

func TestDeleteForEveryoneTombstones(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chat := newPrivateChat(t, env)

	first, err := env.msgSvc.Send(ctx, chat.ID, SendInput{Content: "premier"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := env.msgSvc.Send(ctx, chat.ID, SendInput{Content: "second"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := env.msgSvc.Delete(ctx, first.ID, true); err != nil {
		t.Fatalf("delete: %v", err)
	}

	messages, err := env.msgSvc.Messages(ctx, chat.ID)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("count = %d, tombstone must keep its slot", len(messages))
	}
	if messages[0].ID != first.ID {
		t.Fatal("tombstone lost its position")
	}
	if messages[0].Type != domain.MessageTypeDeleted {
		t.Errorf("type = %s", messages[0].Type)
	}
	if messages[0].Content != domain.DeletedMessagePlaceholder {
		t.Errorf("content = %q", messages[0].Content)
	}
}

func TestDeleteForMeRemoves(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chat := newPrivateChat(t, env)

	msg, err := env.msgSvc.Send(ctx, chat.ID, SendInput{Content: "éphémère"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := env.msgSvc.Delete(ctx, msg.ID, false); err != nil {
		t.Fatalf("delete: %v", err)
	}

	messages, err := env.msgSvc.Messages(ctx, chat.ID)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("count = %d after local delete", len(messages))
	}

	err = env.msgSvc.Delete(ctx, msg.ID, false)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkAsRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chat := newPrivateChat(t, env)

	// Mary writes in the shared chat
	env.login(t, phoneMary)
	if _, err := env.msgSvc.Send(ctx, chat.ID, SendInput{Content: "coucou"}); err != nil {
		t.Fatalf("send as mary: %v", err)
	}
	if _, err := env.msgSvc.Send(ctx, chat.ID, SendInput{Content: "tu es là ?"}); err != nil {
		t.Fatalf("send as mary: %v", err)
	}

	// Amadou reads the chat
	env.login(t, phoneAmadou)
	if err := env.msgSvc.MarkAsRead(ctx, chat.ID); err != nil {
		t.Fatalf("mark as read: %v", err)
	}

	messages, err := env.msgSvc.Messages(ctx, chat.ID)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	for _, msg := range messages {
		if msg.SenderID != "u-amadou" && msg.Status != domain.MessageStatusRead {
			t.Errorf("message %s status = %s", msg.ID, msg.Status)
		}
	}

	reloaded, err := env.chatSvc.GetChat(ctx, chat.ID)
	if err != nil {
		t.Fatalf("get chat: %v", err)
	}
	if reloaded.UnreadCount != 0 {
		t.Errorf("unread count = %d", reloaded.UnreadCount)
	}
}

func TestForwardMarksMessages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chat := newPrivateChat(t, env)

	original, err := env.msgSvc.Send(ctx, chat.ID, SendInput{Content: "à faire suivre"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	target, err := env.chatSvc.CreateChat(ctx, domain.ChatTypePrivate, []string{"u-papa"}, "", "")
	if err != nil {
		t.Fatalf("create target: %v", err)
	}

	forwarded, err := env.msgSvc.Forward(ctx, original.ID, []string{target.ID})
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if len(forwarded) != 1 {
		t.Fatalf("forwarded = %d", len(forwarded))
	}
	if !forwarded[0].Forwarded {
		t.Error("forwarded flag not set")
	}
	if forwarded[0].Content != original.Content {
		t.Errorf("content = %q", forwarded[0].Content)
	}
	if forwarded[0].ChatID != target.ID {
		t.Errorf("chat = %s", forwarded[0].ChatID)
	}

	// Missing source: empty result, no error
	none, err := env.msgSvc.Forward(ctx, "no-such-message", []string{target.ID})
	if err != nil {
		t.Fatalf("forward missing: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("forwarded %d messages from a missing source", len(none))
	}
}

func TestSendBroadcastCreatesMissingChats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	amadou := env.login(t, phoneAmadou)

	// One chat pre-exists, the u-papa one must be created on the fly.
	existing, err := env.chatSvc.CreateChat(ctx, domain.ChatTypePrivate, []string{"u-mary"}, "", "")
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	broadcast, err := env.chatSvc.CreateBroadcast(ctx, "Annonces", []string{"u-mary", "u-papa"})
	if err != nil {
		t.Fatalf("create broadcast: %v", err)
	}

	sent, err := env.msgSvc.SendBroadcast(ctx, broadcast.ID, SendInput{Content: "nouvelle annonce"})
	if err != nil {
		t.Fatalf("send broadcast: %v", err)
	}
	if len(sent) != 2 {
		t.Fatalf("delivered = %d", len(sent))
	}
	for _, msg := range sent {
		if !msg.Forwarded {
			t.Error("broadcast copies must carry the forwarded flag")
		}
	}

	papaChat, err := env.chatSvc.FindPrivateChat(ctx, amadou.ID, "u-papa")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if papaChat == nil {
		t.Fatal("private chat with u-papa not created by broadcast")
	}

	inExisting, err := env.msgSvc.Messages(ctx, existing.ID)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(inExisting) != 1 {
		t.Fatalf("existing chat got %d messages", len(inExisting))
	}

	updated, err := env.broadcast.GetByID(ctx, broadcast.ID)
	if err != nil {
		t.Fatalf("get broadcast: %v", err)
	}
	if updated.MessageCount != 1 {
		t.Errorf("message count = %d", updated.MessageCount)
	}
}

func TestSendBroadcastOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.login(t, phoneAmadou)

	broadcast, err := env.chatSvc.CreateBroadcast(ctx, "Annonces", []string{"u-mary"})
	if err != nil {
		t.Fatalf("create broadcast: %v", err)
	}

	env.login(t, phoneMary)
	_, err = env.msgSvc.SendBroadcast(ctx, broadcast.ID, SendInput{Content: "pirate"})
	if !errors.Is(err, domain.ErrNotBroadcastOwner) {
		t.Fatalf("expected ErrNotBroadcastOwner, got %v", err)
	}
}

func TestEditOwnMessageOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chat := newPrivateChat(t, env)

	msg, err := env.msgSvc.Send(ctx, chat.ID, SendInput{Content: "brouillon"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	edited, err := env.msgSvc.Edit(ctx, msg.ID, "version finale")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Content != "version finale" || !edited.Edited || edited.EditedAt == nil {
		t.Errorf("edit not applied: %+v", edited)
	}

	env.login(t, phoneMary)
	_, err = env.msgSvc.Edit(ctx, msg.ID, "pas à moi")
	if !errors.Is(err, domain.ErrNotSender) {
		t.Fatalf("expected ErrNotSender, got %v", err)
	}
}

func TestReactReplacesPrevious(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chat := newPrivateChat(t, env)

	msg, err := env.msgSvc.Send(ctx, chat.ID, SendInput{Content: "réagis !"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := env.msgSvc.React(ctx, msg.ID, "👍"); err != nil {
		t.Fatalf("react: %v", err)
	}
	updated, err := env.msgSvc.React(ctx, msg.ID, "❤️")
	if err != nil {
		t.Fatalf("react again: %v", err)
	}
	if len(updated.Reactions) != 1 {
		t.Fatalf("reactions = %d, one per user expected", len(updated.Reactions))
	}
	if updated.Reactions[0].Emoji != "❤️" {
		t.Errorf("emoji = %s", updated.Reactions[0].Emoji)
	}

	cleared, err := env.msgSvc.RemoveReaction(ctx, msg.ID)
	if err != nil {
		t.Fatalf("remove reaction: %v", err)
	}
	if len(cleared.Reactions) != 0 {
		t.Fatalf("reactions = %d after removal", len(cleared.Reactions))
	}
}

func TestMessagesOrderedByTimestamp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chat := newPrivateChat(t, env)

	for _, text := range []string{"un", "deux", "trois"} {
		if _, err := env.msgSvc.Send(ctx, chat.ID, SendInput{Content: text}); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	messages, err := env.msgSvc.Messages(ctx, chat.ID)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("count = %d", len(messages))
	}
	for i := 1; i < len(messages); i++ {
		if messages[i].Timestamp.Before(messages[i-1].Timestamp) {
			t.Fatal("messages not in ascending timestamp order")
		}
	}
}
