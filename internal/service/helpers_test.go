package service

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/chatterbox-im/chatterbox/internal/domain"
	"github.com/chatterbox-im/chatterbox/internal/logger"
	"github.com/chatterbox-im/chatterbox/internal/repository"
)

// testEnv wires every service over a fresh seeded sqlite database.
type testEnv struct {
	db        *gorm.DB
	users     repository.UserRepository
	chats     repository.ChatRepository
	messages  repository.MessageRepository
	stories   repository.StoryRepository
	calls     repository.CallRepository
	broadcast repository.BroadcastRepository
	state     repository.StateRepository

	auth    *AuthService
	userSvc *UserService
	chatSvc *ChatService
	msgSvc  *MessageService
	story   *StoryService
	call    *CallService
	backup  *BackupService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger.InitWriter("error", io.Discard)

	db, err := repository.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := repository.Seed(context.Background(), db); err != nil {
		t.Fatalf("seed database: %v", err)
	}

	env := &testEnv{
		db:        db,
		users:     repository.NewUserRepository(db),
		chats:     repository.NewChatRepository(db),
		messages:  repository.NewMessageRepository(db),
		stories:   repository.NewStoryRepository(db),
		calls:     repository.NewCallRepository(db),
		broadcast: repository.NewBroadcastRepository(db),
		state:     repository.NewStateRepository(db),
	}

	eventBus := domain.NewEventBus()
	env.auth = NewAuthService(env.users, env.state)
	env.userSvc = NewUserService(env.users, env.chats, env.messages, env.state, env.auth)
	env.chatSvc = NewChatService(env.chats, env.messages, env.users, env.broadcast, env.state, env.auth, eventBus)
	env.msgSvc = NewMessageService(env.messages, env.chats, env.broadcast, env.auth, env.userSvc, env.chatSvc, eventBus)
	env.story = NewStoryService(env.stories, env.auth, eventBus)
	env.call = NewCallService(env.calls, env.auth, eventBus)
	env.backup = NewBackupService(env.users, env.chats, env.messages, env.stories, env.calls, env.broadcast, env.state)

	return env
}

// login signs in one of the seeded demo accounts.
func (env *testEnv) login(t *testing.T, phone string) *domain.User {
	t.Helper()
	user, err := env.auth.Login(context.Background(), phone, "123456")
	if err != nil {
		t.Fatalf("login %s: %v", phone, err)
	}
	return user
}

const (
	phoneAmadou  = "+33612345678"
	phoneMary    = "+33687654321"
	phonePapa    = "+33698765432"
	phoneAlamine = "+33645123789"
)
