package repository

import (
	"context"
	"reflect"
	"testing"
)

func TestStateRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	state := NewStateRepository(db)

	ids := []string{"chat-1", "chat-2"}
	if err := state.Set(ctx, StateKeyArchivedChats, ids); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got []string
	found, err := state.Get(ctx, StateKeyArchivedChats, &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("key not found after set")
	}
	if !reflect.DeepEqual(got, ids) {
		t.Fatalf("got %v, want %v", got, ids)
	}

	// Overwrite is an upsert, not a duplicate
	if err := state.Set(ctx, StateKeyArchivedChats, []string{"chat-3"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got = nil
	if _, err := state.Get(ctx, StateKeyArchivedChats, &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"chat-3"}) {
		t.Fatalf("got %v after overwrite", got)
	}
}

func TestStateMissingKey(t *testing.T) {
	db := openTestDB(t)
	state := NewStateRepository(db)

	var value string
	found, err := state.Get(context.Background(), "absent", &value)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("found a key that was never set")
	}
}

func TestStateDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	state := NewStateRepository(db)

	if err := state.Set(ctx, StateKeyTheme, "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := state.Delete(ctx, StateKeyTheme); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var theme string
	found, err := state.Get(ctx, StateKeyTheme, &theme)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("key survived delete")
	}

	// Deleting an absent key is not an error
	if err := state.Delete(ctx, StateKeyTheme); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
}
