package service

import (
	"context"
	"errors"
	"testing"

	"github.com/chatterbox-im/chatterbox/internal/domain"
)

func TestLoginSeededAccounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, phone := range []string{phoneAmadou, phoneMary, phonePapa, phoneAlamine} {
		user, err := env.auth.Login(ctx, phone, "123456")
		if err != nil {
			t.Fatalf("login %s: %v", phone, err)
		}
		if user.Phone != phone {
			t.Errorf("login %s returned phone %s", phone, user.Phone)
		}
		if user.Password != "" {
			t.Errorf("login %s leaked the password", phone)
		}

		current, err := env.auth.CurrentUser(ctx)
		if err != nil {
			t.Fatalf("current user: %v", err)
		}
		if current == nil || current.ID != user.ID {
			t.Errorf("session snapshot does not match logged in user")
		}
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Login(context.Background(), phoneAmadou, "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownPhone(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Login(context.Background(), "+33600000000", "123456")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, RegisterInput{
		FirstName: "Fatou",
		LastName:  "Ndiaye",
		Phone:     "+33611112222",
		Password:  "secret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" {
		t.Fatal("register returned empty id")
	}

	// Registration also opens a session
	current, err := env.auth.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if current == nil || current.ID != user.ID {
		t.Fatal("register did not open a session")
	}

	if err := env.auth.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}

	logged, err := env.auth.Login(ctx, "+33611112222", "secret")
	if err != nil {
		t.Fatalf("login after register: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("login returned a different user")
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(context.Background(), RegisterInput{
		FirstName: "Doublon",
		LastName:  "Test",
		Phone:     phoneMary,
		Password:  "whatever",
	})
	if !errors.Is(err, domain.ErrPhoneTaken) {
		t.Fatalf("expected ErrPhoneTaken, got %v", err)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.login(t, phoneAmadou)

	if err := env.auth.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}

	current, err := env.auth.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if current != nil {
		t.Error("session survived logout")
	}

	_, err = env.auth.RequireUser(ctx)
	if !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestUpdateStatusPersists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.login(t, phonePapa)

	if err := env.auth.UpdateStatus(ctx, "En réunion"); err != nil {
		t.Fatalf("update status: %v", err)
	}

	current, err := env.auth.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if current.Status != "En réunion" {
		t.Errorf("session status = %q", current.Status)
	}

	stored, err := env.users.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if stored.Status != "En réunion" {
		t.Errorf("stored status = %q", stored.Status)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.login(t, phoneMary)

	first := "Marie"
	if err := env.auth.UpdateProfile(ctx, ProfileUpdate{FirstName: &first}); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	stored, err := env.users.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if stored.FirstName != "Marie" {
		t.Errorf("first name = %q", stored.FirstName)
	}
	if stored.LastName != user.LastName {
		t.Errorf("last name changed unexpectedly: %q", stored.LastName)
	}
}
