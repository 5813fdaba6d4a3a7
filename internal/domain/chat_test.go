package domain

import (
	"testing"
	"time"
)

func TestNewChatGroupAdmins(t *testing.T) {
	now := time.Now()

	group := NewChat("c-1", ChatTypeGroup, "Équipe", "", "u-1", []string{"u-1", "u-2"}, now)
	if len(group.Admins) != 1 || group.Admins[0] != "u-1" {
		t.Errorf("group admins = %v", group.Admins)
	}
	if !group.Settings.AllowMemberEdit {
		t.Error("default settings lost")
	}

	private := NewChat("c-2", ChatTypePrivate, "", "", "u-1", []string{"u-1", "u-2"}, now)
	if len(private.Admins) != 0 {
		t.Errorf("private chat has admins: %v", private.Admins)
	}
}

func TestOtherParticipant(t *testing.T) {
	chat := NewChat("c-1", ChatTypePrivate, "", "", "u-1", []string{"u-1", "u-2"}, time.Now())

	if got := chat.OtherParticipant("u-1"); got != "u-2" {
		t.Errorf("peer = %q", got)
	}
	if got := chat.OtherParticipant("u-3"); got == "u-3" {
		t.Errorf("non-participant resolved to itself")
	}

	group := NewChat("c-2", ChatTypeGroup, "G", "", "u-1", []string{"u-1", "u-2"}, time.Now())
	if got := group.OtherParticipant("u-1"); got != "" {
		t.Errorf("group peer = %q", got)
	}
}

func TestChatNameFromNames(t *testing.T) {
	if got := ChatNameFromNames([]string{"mary Diallo", "papa mary"}); got != "mary Diallo, papa mary" {
		t.Errorf("name = %q", got)
	}
	if got := ChatNameFromNames(nil); got != "Chat" {
		t.Errorf("fallback = %q", got)
	}
}
