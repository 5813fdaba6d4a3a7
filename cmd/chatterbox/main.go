package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/chatterbox-im/chatterbox/internal/cli"
	"github.com/chatterbox-im/chatterbox/internal/config"
	"github.com/chatterbox-im/chatterbox/internal/domain"
	"github.com/chatterbox-im/chatterbox/internal/logger"
	"github.com/chatterbox-im/chatterbox/internal/repository"
	"github.com/chatterbox-im/chatterbox/internal/service"
)

// RunMode defines how the application runs
type RunMode string

const (
	RunModeInteractive RunMode = "interactive"
	RunModeHeadless    RunMode = "headless"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.LogLevel)

	db, err := repository.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	ctx := context.Background()

	if !cfg.SkipSeed {
		if err := repository.Seed(ctx, db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	chatRepo := repository.NewChatRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	callRepo := repository.NewCallRepository(db)
	broadcastRepo := repository.NewBroadcastRepository(db)
	stateRepo := repository.NewStateRepository(db)

	eventBus := domain.NewEventBus()

	// Services
	authSvc := service.NewAuthService(userRepo, stateRepo)
	userSvc := service.NewUserService(userRepo, chatRepo, msgRepo, stateRepo, authSvc)
	chatSvc := service.NewChatService(chatRepo, msgRepo, userRepo, broadcastRepo, stateRepo, authSvc, eventBus)
	msgSvc := service.NewMessageService(msgRepo, chatRepo, broadcastRepo, authSvc, userSvc, chatSvc, eventBus)
	storySvc := service.NewStoryService(storyRepo, authSvc, eventBus)
	callSvc := service.NewCallService(callRepo, authSvc, eventBus)
	backupSvc := service.NewBackupService(userRepo, chatRepo, msgRepo, storyRepo, callRepo, broadcastRepo, stateRepo)

	handler := cli.NewCommandHandler(authSvc, userSvc, chatSvc, msgSvc, storySvc, callSvc, backupSvc, eventBus)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	switch RunMode(cfg.Mode) {
	case RunModeHeadless:
		headlessCLI := cli.NewHeadlessCLI(handler)
		if err := headlessCLI.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("CLI error: %v", err)
		}
	default:
		interactiveCLI := cli.NewInteractiveCLI(handler)
		if err := interactiveCLI.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("CLI error: %v", err)
		}
	}
}
