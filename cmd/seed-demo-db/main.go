package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatterbox-im/chatterbox/internal/domain"
	"github.com/chatterbox-im/chatterbox/internal/repository"
)

// The demo is written from Amadou's point of view: his chats carry the
// unread counters.
const demoViewerID = "u-amadou"

// Regenerates demo chats and messages between the seeded accounts.
// Existing messages are wiped, users and chats are kept or created.
func main() {
	dbPath := "chatterbox_demo.db"
	if len(os.Args) > 1 {
		dbPath = os.Args[1]
	}

	fmt.Printf("Using database at: %s\n", dbPath)

	db, err := repository.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	ctx := context.Background()

	if err := repository.Seed(ctx, db); err != nil {
		log.Fatalf("Failed to seed base data: %v", err)
	}

	if err := db.WithContext(ctx).Exec("DELETE FROM messages").Error; err != nil {
		log.Fatalf("Failed to delete messages: %v", err)
	}
	fmt.Println("Deleted all messages from database")

	if err := seedDemoData(ctx, db); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}

	fmt.Println("✅ Successfully regenerated demo chats and messages!")
	fmt.Printf("Database location: %s\n", dbPath)
}

func seedDemoData(ctx context.Context, db *gorm.DB) error {
	chatRepo := repository.NewChatRepository(db)
	msgRepo := repository.NewMessageRepository(db)

	now := time.Now()

	chats := []*domain.Chat{
		domain.NewChat("chat-amadou-mary", domain.ChatTypePrivate, "mary Diallo", "",
			demoViewerID, []string{demoViewerID, "u-mary"}, now.Add(-72*time.Hour)),
		domain.NewChat("chat-amadou-papa", domain.ChatTypePrivate, "papa mary", "",
			demoViewerID, []string{demoViewerID, "u-papa"}, now.Add(-96*time.Hour)),
		domain.NewChat("chat-equipe-projet", domain.ChatTypeGroup, "Équipe Projet",
			"Coordination du projet", demoViewerID,
			[]string{demoViewerID, "u-mary", "u-papa", "u-alamine"}, now.Add(-120*time.Hour)),
		domain.NewChat("chat-famille", domain.ChatTypeGroup, "Famille", "",
			"u-papa", []string{"u-papa", demoViewerID, "u-alamine"}, now.Add(-200*time.Hour)),
	}

	sampleTexts := []string{
		"Salut ! Comment ça va ?",
		"On se voit demain ?",
		"Merci pour ton aide !",
		"Parfait, j'y serai",
		"Tu as vu les dernières nouvelles ?",
		"Dis-moi quand tu es libre",
		"Je t'envoie ça tout de suite",
		"Bonne journée !",
		"C'est noté 👍",
		"On en reparle ce soir",
		"Super idée !",
		"À tout à l'heure",
	}

	for _, chat := range chats {
		existing, err := chatRepo.GetByID(ctx, chat.ID)
		if err != nil {
			return fmt.Errorf("failed to load chat %s: %w", chat.ID, err)
		}
		if existing == nil {
			if err := chatRepo.Create(ctx, chat); err != nil {
				return fmt.Errorf("failed to create chat %s: %w", chat.ID, err)
			}
		} else {
			chat = existing
		}

		if err := chatRepo.UpdateUnreadCount(ctx, chat.ID, 0); err != nil {
			return fmt.Errorf("failed to reset unread count for %s: %w", chat.ID, err)
		}

		numMessages := 8 + rand.Intn(6)
		messageTime := now.Add(-time.Duration(24+rand.Intn(48)) * time.Hour)

		var lastMessage *domain.Message
		unread := 0

		for j := 0; j < numMessages; j++ {
			messageTime = messageTime.Add(time.Duration(10+rand.Intn(50)) * time.Minute)
			if messageTime.After(now) {
				messageTime = now.Add(-time.Duration(rand.Intn(30)) * time.Minute)
			}

			senderID := pickSender(chat, j, numMessages)
			msg := domain.NewMessage(
				uuid.NewString(), chat.ID, senderID,
				domain.MessageTypeText,
				sampleTexts[rand.Intn(len(sampleTexts))],
				messageTime,
			)

			// Trailing messages from others stay unread for the viewer.
			fromOther := senderID != demoViewerID
			if fromOther && j >= numMessages-3 {
				msg.Status = domain.MessageStatusDelivered
			} else {
				msg.Status = domain.MessageStatusRead
			}

			if err := msgRepo.Create(ctx, msg); err != nil {
				return fmt.Errorf("failed to create message: %w", err)
			}
			if msg.Status == domain.MessageStatusDelivered {
				if err := chatRepo.IncrementUnreadCount(ctx, chat.ID); err != nil {
					return fmt.Errorf("failed to bump unread count for %s: %w", chat.ID, err)
				}
				unread++
			}
			lastMessage = msg
		}

		if err := chatRepo.UpdateLastMessage(ctx, chat.ID, lastMessage.Preview(), lastMessage.Timestamp); err != nil {
			return fmt.Errorf("failed to update chat %s: %w", chat.ID, err)
		}

		fmt.Printf("Chat %s (%s): %d messages, %d unread\n", chat.Name, chat.Type, numMessages, unread)
	}

	return nil
}

// pickSender alternates senders, biasing the tail of the conversation
// toward the other participants so unread counters show up.
func pickSender(chat *domain.Chat, index, total int) string {
	others := make([]string, 0, len(chat.Participants))
	for _, id := range chat.Participants {
		if id != demoViewerID {
			others = append(others, id)
		}
	}
	if len(others) == 0 {
		return demoViewerID
	}

	fromMe := rand.Float32() < 0.5
	if index >= total-3 {
		fromMe = rand.Float32() < 0.2
	}
	if fromMe {
		return demoViewerID
	}
	return others[rand.Intn(len(others))]
}
