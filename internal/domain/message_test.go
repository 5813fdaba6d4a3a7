package domain

import (
	"testing"
	"time"
)

func TestMessagePreview(t *testing.T) {
	cases := []struct {
		msgType MessageType
		content string
		want    string
	}{
		{MessageTypeText, "Salut", "Salut"},
		{MessageTypeImage, "https://example.com/a.jpg", "📷 Image"},
		{MessageTypeAudio, "https://example.com/a.ogg", "🎵 Audio"},
		{MessageTypeDocument, "https://example.com/a.pdf", "📄 Document"},
		{MessageTypeDeleted, DeletedMessagePlaceholder, DeletedMessagePlaceholder},
	}

	for _, tc := range cases {
		msg := NewMessage("m-1", "c-1", "u-1", tc.msgType, tc.content, time.Now())
		if got := msg.Preview(); got != tc.want {
			t.Errorf("preview(%s) = %q, want %q", tc.msgType, got, tc.want)
		}
	}
}

func TestNewMessageDefaults(t *testing.T) {
	msg := NewMessage("m-1", "c-1", "u-1", "", "texte", time.Now())
	if msg.Type != MessageTypeText {
		t.Errorf("empty type defaulted to %s", msg.Type)
	}
	if msg.Status != MessageStatusSent {
		t.Errorf("status = %s", msg.Status)
	}
}

func TestSystemMessage(t *testing.T) {
	msg := NewSystemMessage("m-1", "c-1", "audit", time.Now())
	if !msg.IsSystem() {
		t.Error("system message not recognized")
	}
	if msg.Status != MessageStatusRead {
		t.Errorf("system messages start as %s, want read", msg.Status)
	}
	if msg.Type != MessageTypeSystem {
		t.Errorf("type = %s", msg.Type)
	}
}
