package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chatterbox-im/chatterbox/internal/domain"
)

// InteractiveCLI handles interactive command-line interface
type InteractiveCLI struct {
	handler *CommandHandler
	reader  *bufio.Reader
	writer  io.Writer
}

// NewInteractiveCLI creates a new interactive CLI
func NewInteractiveCLI(handler *CommandHandler) *InteractiveCLI {
	return &InteractiveCLI{
		handler: handler,
		reader:  bufio.NewReader(os.Stdin),
		writer:  os.Stdout,
	}
}

// Run starts the interactive CLI loop
func (cli *InteractiveCLI) Run(ctx context.Context) error {
	cli.printWelcome(ctx)

	// Subscribe to events in background
	eventChan := cli.handler.SubscribeEvents([]domain.EventType{
		domain.EventTypeMessageSent,
		domain.EventTypeMemberAdded,
		domain.EventTypeMemberRemoved,
		domain.EventTypeMemberPromoted,
		domain.EventTypeMemberDemoted,
	})

	go cli.handleEvents(eventChan)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			cli.print("\n> ")
			line, err := cli.reader.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			if err := cli.processCommand(ctx, line); err != nil {
				if err.Error() == "quit" {
					cli.println("À bientôt !")
					return nil
				}
				cli.printf("Error: %s\n", err)
			}
		}
	}
}

func (cli *InteractiveCLI) printWelcome(ctx context.Context) {
	cli.println("===========================================")
	cli.println("  Chatterbox CLI")
	cli.println("===========================================")
	cli.println("Type /help for available commands")
	cli.println("")

	user, err := cli.handler.authSvc.CurrentUser(ctx)
	if err == nil && user != nil {
		cli.printf("Logged in as %s (%s)\n", user.FullName(), user.Phone)
	} else {
		cli.println("Not logged in. Use /login <phone> <password>")
	}
}

func (cli *InteractiveCLI) processCommand(ctx context.Context, input string) error {
	cmd, err := ParseCommand(input)
	if err != nil {
		return err
	}

	result, err := cli.handler.Execute(ctx, cmd)
	if err != nil {
		return err
	}

	// Check for quit command
	if m, ok := result.(map[string]bool); ok && m["quit"] {
		return fmt.Errorf("quit")
	}

	cli.displayResult(cmd.Name, result)
	return nil
}

func (cli *InteractiveCLI) displayResult(cmdName string, result interface{}) {
	switch cmdName {
	case "help", "h":
		if m, ok := result.(map[string]string); ok {
			cli.println(m["help"])
		}

	case "login", "register", "whoami", "me":
		if u, ok := result.(UserInfo); ok {
			cli.printf("%s\n", u.Name)
			cli.printf("  ID: %s\n", u.ID)
			cli.printf("  Phone: %s\n", u.Phone)
			if u.Status != "" {
				cli.printf("  Status: %s\n", u.Status)
			}
			return
		}
		cli.printMessage(result)

	case "contacts":
		if m, ok := result.(map[string]interface{}); ok {
			contacts, _ := m["contacts"].([]UserInfo)
			cli.printf("%d contact(s):\n\n", len(contacts))
			for i, u := range contacts {
				online := ""
				if u.IsOnline {
					online = " (en ligne)"
				}
				cli.printf("%d. %s%s\n", i+1, u.Name, online)
				cli.printf("   ID: %s | Phone: %s\n", u.ID, u.Phone)
				if u.Status != "" {
					cli.printf("   %s\n", u.Status)
				}
			}
		}

	case "chats", "ls", "archived":
		if m, ok := result.(map[string]interface{}); ok {
			chats, _ := m["chats"].([]ChatInfo)
			cli.printf("%d chat(s):\n\n", len(chats))
			for i, chat := range chats {
				unread := ""
				if chat.UnreadCount > 0 {
					unread = fmt.Sprintf(" [%d unread]", chat.UnreadCount)
				}
				cli.printf("%d. %s (%s)%s\n", i+1, chat.Name, chat.Type, unread)
				cli.printf("   ID: %s\n", chat.ID)
				if chat.LastMessage != "" {
					preview := chat.LastMessage
					if len(preview) > 50 {
						preview = preview[:50] + "..."
					}
					cli.printf("   Last: %s\n", preview)
				}
			}
		}

	case "messages", "msg":
		if m, ok := result.(map[string]interface{}); ok {
			messages, _ := m["messages"].([]MessageInfo)
			cli.printf("%d message(s):\n\n", len(messages))
			for _, msg := range messages {
				timestamp := msg.Timestamp.Format("2006-01-02 15:04")
				cli.printf("[%s] %s:\n", timestamp, msg.SenderID)
				cli.printf("  %s\n", msg.Content)
				cli.printf("  ID: %s | %s\n\n", msg.ID, msg.Status)
			}
		}

	case "send", "edit", "react", "unreact":
		if msg, ok := result.(MessageInfo); ok {
			cli.printf("Message %s\n", msg.ID)
			cli.printf("  %s\n", msg.Content)
			cli.printf("  Time: %s\n", msg.Timestamp.Format("2006-01-02 15:04:05"))
			return
		}
		cli.printMessage(result)

	case "stories":
		if m, ok := result.(map[string]interface{}); ok {
			stories, _ := m["stories"].([]StoryInfo)
			cli.printf("%d active story(ies):\n\n", len(stories))
			for i, s := range stories {
				cli.printf("%d. %s (%s) by %s\n", i+1, s.ID, s.Type, s.UserID)
				cli.printf("   %s\n", s.Content)
				cli.printf("   Posted: %s | Views: %d\n", s.CreatedAt.Format("2006-01-02 15:04"), s.Views)
			}
		}

	case "calls":
		if m, ok := result.(map[string]interface{}); ok {
			calls, _ := m["calls"].([]CallInfo)
			cli.printf("%d call(s):\n\n", len(calls))
			for i, c := range calls {
				duration := ""
				if c.Duration != nil {
					duration = fmt.Sprintf(" (%ds)", *c.Duration)
				}
				cli.printf("%d. %s %s with %s: %s%s\n", i+1, c.Direction, c.Type, c.PeerID, c.Status, duration)
				cli.printf("   ID: %s | %s\n", c.ID, c.Timestamp.Format("2006-01-02 15:04"))
			}
		}

	case "search":
		if m, ok := result.(map[string]interface{}); ok {
			query, _ := m["query"].(string)
			chats, _ := m["chats"].([]ChatInfo)
			messages, _ := m["messages"].([]MessageInfo)
			contacts, _ := m["contacts"].([]UserInfo)
			cli.printf("Results for '%s':\n\n", query)
			cli.printf("Chats (%d):\n", len(chats))
			for _, c := range chats {
				cli.printf("  %s (%s)\n", c.Name, c.ID)
			}
			cli.printf("Messages (%d):\n", len(messages))
			for _, msg := range messages {
				text := msg.Content
				if len(text) > 80 {
					text = text[:80] + "..."
				}
				cli.printf("  [%s] %s\n", msg.ChatID, text)
			}
			cli.printf("Contacts (%d):\n", len(contacts))
			for _, u := range contacts {
				cli.printf("  %s (%s)\n", u.Name, u.Phone)
			}
		}

	default:
		cli.printMessage(result)
	}
}

// printMessage prints the "message" field when present, otherwise pretty JSON.
func (cli *InteractiveCLI) printMessage(result interface{}) {
	if m, ok := result.(map[string]string); ok {
		if msg, exists := m["message"]; exists {
			cli.println(msg)
			return
		}
	}
	if m, ok := result.(map[string]interface{}); ok {
		if msg, exists := m["message"].(string); exists {
			cli.println(msg)
			return
		}
	}
	data, _ := json.MarshalIndent(result, "", "  ")
	cli.println(string(data))
}

func (cli *InteractiveCLI) handleEvents(eventChan <-chan Event) {
	for event := range eventChan {
		switch event.Type {
		case string(domain.EventTypeMessageSent):
			if msg, ok := event.Data.(MessageInfo); ok && msg.SenderID == domain.SystemSenderID {
				cli.printf("\n[%s] %s\n", msg.ChatID, msg.Content)
				cli.print("> ")
			}
		case string(domain.EventTypeMemberAdded),
			string(domain.EventTypeMemberRemoved),
			string(domain.EventTypeMemberPromoted),
			string(domain.EventTypeMemberDemoted):
			if data, ok := event.Data.(map[string]string); ok {
				cli.printf("\n[%s] %s: %s\n", data["chat_id"], event.Type, data["user_id"])
				cli.print("> ")
			}
		}
	}
}

func (cli *InteractiveCLI) print(s string) {
	fmt.Fprint(cli.writer, s)
}

func (cli *InteractiveCLI) println(s string) {
	fmt.Fprintln(cli.writer, s)
}

func (cli *InteractiveCLI) printf(format string, args ...interface{}) {
	fmt.Fprintf(cli.writer, format, args...)
}
