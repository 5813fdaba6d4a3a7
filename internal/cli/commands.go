package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chatterbox-im/chatterbox/internal/domain"
	"github.com/chatterbox-im/chatterbox/internal/service"
)

// CommandHandler handles CLI commands
type CommandHandler struct {
	authSvc   *service.AuthService
	userSvc   *service.UserService
	chatSvc   *service.ChatService
	msgSvc    *service.MessageService
	storySvc  *service.StoryService
	callSvc   *service.CallService
	backupSvc *service.BackupService
	eventBus  domain.EventBus
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(
	authSvc *service.AuthService,
	userSvc *service.UserService,
	chatSvc *service.ChatService,
	msgSvc *service.MessageService,
	storySvc *service.StoryService,
	callSvc *service.CallService,
	backupSvc *service.BackupService,
	eventBus domain.EventBus,
) *CommandHandler {
	return &CommandHandler{
		authSvc:   authSvc,
		userSvc:   userSvc,
		chatSvc:   chatSvc,
		msgSvc:    msgSvc,
		storySvc:  storySvc,
		callSvc:   callSvc,
		backupSvc: backupSvc,
		eventBus:  eventBus,
	}
}

// Command represents a parsed command
type Command struct {
	Name string
	Args []string
}

// ParseCommand parses a command string (e.g., "/send chat-123 Hello there")
func ParseCommand(input string) (*Command, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty command")
	}

	if !strings.HasPrefix(input, "/") {
		return nil, fmt.Errorf("commands must start with /")
	}

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	name := strings.TrimPrefix(parts[0], "/")
	args := parts[1:]

	return &Command{Name: name, Args: args}, nil
}

// Execute executes a command and returns the result
func (h *CommandHandler) Execute(ctx context.Context, cmd *Command) (interface{}, error) {
	switch cmd.Name {
	case "help", "h":
		return h.cmdHelp()
	case "login":
		return h.cmdLogin(ctx, cmd.Args)
	case "register":
		return h.cmdRegister(ctx, cmd.Args)
	case "logout":
		return h.cmdLogout(ctx)
	case "whoami", "me":
		return h.cmdWhoami(ctx)
	case "status":
		return h.cmdStatus(ctx, cmd.Args)
	case "contacts":
		return h.cmdContacts(ctx)
	case "chats", "ls":
		return h.cmdChats(ctx)
	case "archived":
		return h.cmdArchived(ctx)
	case "archive":
		return h.cmdArchive(ctx, cmd.Args)
	case "unarchive":
		return h.cmdUnarchive(ctx, cmd.Args)
	case "new-chat":
		return h.cmdNewChat(ctx, cmd.Args)
	case "new-group":
		return h.cmdNewGroup(ctx, cmd.Args)
	case "new-broadcast":
		return h.cmdNewBroadcast(ctx, cmd.Args)
	case "broadcasts":
		return h.cmdBroadcasts(ctx)
	case "messages", "msg":
		return h.cmdMessages(ctx, cmd.Args)
	case "send":
		return h.cmdSend(ctx, cmd.Args)
	case "bsend":
		return h.cmdSendBroadcast(ctx, cmd.Args)
	case "forward":
		return h.cmdForward(ctx, cmd.Args)
	case "edit":
		return h.cmdEdit(ctx, cmd.Args)
	case "react":
		return h.cmdReact(ctx, cmd.Args)
	case "unreact":
		return h.cmdUnreact(ctx, cmd.Args)
	case "delete":
		return h.cmdDelete(ctx, cmd.Args)
	case "read":
		return h.cmdRead(ctx, cmd.Args)
	case "add":
		return h.cmdAddMember(ctx, cmd.Args)
	case "remove":
		return h.cmdRemoveMember(ctx, cmd.Args)
	case "promote":
		return h.cmdPromote(ctx, cmd.Args)
	case "demote":
		return h.cmdDemote(ctx, cmd.Args)
	case "rename":
		return h.cmdRename(ctx, cmd.Args)
	case "describe":
		return h.cmdDescribe(ctx, cmd.Args)
	case "clear":
		return h.cmdClearChat(ctx, cmd.Args)
	case "delete-chat":
		return h.cmdDeleteChat(ctx, cmd.Args)
	case "stories":
		return h.cmdStories(ctx, cmd.Args)
	case "story-text":
		return h.cmdStoryText(ctx, cmd.Args)
	case "story-image":
		return h.cmdStoryImage(ctx, cmd.Args)
	case "view-story":
		return h.cmdViewStory(ctx, cmd.Args)
	case "calls":
		return h.cmdCalls(ctx)
	case "call":
		return h.cmdCall(ctx, cmd.Args)
	case "end-call":
		return h.cmdEndCall(ctx, cmd.Args)
	case "miss-call":
		return h.cmdMissCall(ctx, cmd.Args)
	case "block":
		return h.cmdBlock(ctx, cmd.Args)
	case "unblock":
		return h.cmdUnblock(ctx, cmd.Args)
	case "search":
		return h.cmdSearch(ctx, cmd.Args)
	case "theme":
		return h.cmdTheme(ctx, cmd.Args)
	case "export":
		return h.cmdExport(ctx, cmd.Args)
	case "import":
		return h.cmdImport(ctx, cmd.Args)
	case "reset":
		return h.cmdReset(ctx)
	case "quit", "exit", "q":
		return map[string]bool{"quit": true}, nil
	default:
		return nil, fmt.Errorf("unknown command: %s. Type /help for available commands", cmd.Name)
	}
}

func (h *CommandHandler) cmdHelp() (interface{}, error) {
	help := `Available commands:

Account:
  /login <phone> <password>           Sign in
  /register <first> <last> <phone> <password>  Create an account
  /logout                             Sign out
  /whoami, /me                        Show the current user
  /status <text>                      Update your status line

Chats:
  /chats, /ls                         List chats, most recent first
  /archived                           List archived chats
  /archive <chat_id>                  Archive a chat
  /unarchive <chat_id>                Restore an archived chat
  /new-chat <user_id>                 Open a private chat
  /new-group <name> <user_id...>      Create a group
  /new-broadcast <name> <user_id...>  Create a broadcast list
  /broadcasts                         List your broadcast lists
  /clear <chat_id>                    Delete all messages in a chat
  /delete-chat <chat_id>              Delete a chat and its messages

Messages:
  /messages, /msg <chat_id>           Show a chat's messages
  /send <chat_id> <text>              Send a text message
  /bsend <broadcast_id> <text>        Send to every broadcast recipient
  /forward <message_id> <chat_id...>  Forward a message
  /edit <message_id> <text>           Edit one of your messages
  /react <message_id> <emoji>         React to a message
  /unreact <message_id>               Remove your reaction
  /delete <message_id> [all]          Delete for me, or "all" for everyone
  /read <chat_id>                     Mark a chat as read
  /search <query>                     Search chats, messages and contacts

Groups:
  /add <chat_id> <user_id>            Add a member
  /remove <chat_id> <user_id>         Remove a member (admins only)
  /promote <chat_id> <user_id>        Grant admin (admins only)
  /demote <chat_id> <user_id>         Revoke admin (admins only)
  /rename <chat_id> <name>            Rename a group
  /describe <chat_id> <text>          Set the group description

Stories:
  /stories [user_id]                  List active stories, or one author's
  /story-text <text>                  Post a text story
  /story-image <url> [caption]        Post an image story
  /view-story <story_id>              Mark a story as viewed

Calls:
  /calls                              Show your call history
  /call <user_id> <audio|video>       Start a call
  /end-call <call_id> <seconds>       Complete a call with a duration
  /miss-call <call_id>                Mark a call as missed

Other:
  /contacts                           List contacts
  /block <user_id>                    Block a contact
  /unblock <user_id>                  Unblock a contact
  /theme [light|dark]                 Show or set the theme
  /export <path>                      Export all data to a JSON file
  /import <path>                      Import data from a JSON file
  /reset                              Wipe the local database
  /help, /h                           Show this help
  /quit, /exit, /q                    Exit the CLI`

	return map[string]string{"help": help}, nil
}

func (h *CommandHandler) cmdLogin(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /login <phone> <password>")
	}

	user, err := h.authSvc.Login(ctx, args[0], args[1])
	if err != nil {
		return nil, err
	}

	return userInfo(user), nil
}

func (h *CommandHandler) cmdRegister(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 4 {
		return nil, fmt.Errorf("usage: /register <first_name> <last_name> <phone> <password>")
	}

	user, err := h.authSvc.Register(ctx, service.RegisterInput{
		FirstName: args[0],
		LastName:  args[1],
		Phone:     args[2],
		Password:  args[3],
	})
	if err != nil {
		return nil, err
	}

	return userInfo(user), nil
}

func (h *CommandHandler) cmdLogout(ctx context.Context) (interface{}, error) {
	if err := h.authSvc.Logout(ctx); err != nil {
		return nil, fmt.Errorf("failed to logout: %w", err)
	}
	return map[string]string{"message": "Logged out"}, nil
}

func (h *CommandHandler) cmdWhoami(ctx context.Context) (interface{}, error) {
	user, err := h.authSvc.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return map[string]string{"message": "Not logged in"}, nil
	}
	return userInfo(user), nil
}

func (h *CommandHandler) cmdStatus(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /status <text>")
	}

	status := strings.Join(args, " ")
	if err := h.authSvc.UpdateStatus(ctx, status); err != nil {
		return nil, err
	}

	return map[string]string{"message": "Status updated", "status": status}, nil
}

func (h *CommandHandler) cmdContacts(ctx context.Context) (interface{}, error) {
	contacts, err := h.userSvc.Contacts(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]UserInfo, len(contacts))
	for i, u := range contacts {
		result[i] = userInfo(u)
	}

	return map[string]interface{}{"contacts": result, "count": len(result)}, nil
}

func (h *CommandHandler) cmdChats(ctx context.Context) (interface{}, error) {
	chats, err := h.chatSvc.Chats(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]ChatInfo, len(chats))
	for i, c := range chats {
		result[i] = chatInfo(c)
	}

	return map[string]interface{}{"chats": result, "count": len(result)}, nil
}

func (h *CommandHandler) cmdArchived(ctx context.Context) (interface{}, error) {
	chats, err := h.chatSvc.ArchivedChats(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]ChatInfo, len(chats))
	for i, c := range chats {
		result[i] = chatInfo(c)
	}

	return map[string]interface{}{"chats": result, "count": len(result)}, nil
}

func (h *CommandHandler) cmdArchive(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /archive <chat_id>")
	}
	if err := h.chatSvc.ArchiveChat(ctx, args[0]); err != nil {
		return nil, err
	}
	return map[string]string{"message": "Chat archived", "chat_id": args[0]}, nil
}

func (h *CommandHandler) cmdUnarchive(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /unarchive <chat_id>")
	}
	if err := h.chatSvc.UnarchiveChat(ctx, args[0]); err != nil {
		return nil, err
	}
	return map[string]string{"message": "Chat restored", "chat_id": args[0]}, nil
}

func (h *CommandHandler) cmdNewChat(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /new-chat <user_id>")
	}

	current, err := h.authSvc.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	// Reuse an existing private chat before creating a new one.
	existing, err := h.chatSvc.FindPrivateChat(ctx, current.ID, args[0])
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return chatInfo(existing), nil
	}

	chat, err := h.chatSvc.CreateChat(ctx, domain.ChatTypePrivate, []string{args[0]}, "", "")
	if err != nil {
		return nil, err
	}

	return chatInfo(chat), nil
}

func (h *CommandHandler) cmdNewGroup(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /new-group <name> <user_id...>")
	}

	chat, err := h.chatSvc.CreateChat(ctx, domain.ChatTypeGroup, args[1:], args[0], "")
	if err != nil {
		return nil, err
	}

	return chatInfo(chat), nil
}

func (h *CommandHandler) cmdNewBroadcast(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /new-broadcast <name> <user_id...>")
	}

	broadcast, err := h.chatSvc.CreateBroadcast(ctx, args[0], args[1:])
	if err != nil {
		return nil, err
	}

	return broadcastInfo(broadcast), nil
}

func (h *CommandHandler) cmdBroadcasts(ctx context.Context) (interface{}, error) {
	broadcasts, err := h.chatSvc.Broadcasts(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]BroadcastInfo, len(broadcasts))
	for i, b := range broadcasts {
		result[i] = broadcastInfo(b)
	}

	return map[string]interface{}{"broadcasts": result, "count": len(result)}, nil
}

func (h *CommandHandler) cmdMessages(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /messages <chat_id>")
	}

	messages, err := h.msgSvc.Messages(ctx, args[0])
	if err != nil {
		return nil, err
	}

	result := make([]MessageInfo, len(messages))
	for i, m := range messages {
		result[i] = messageInfo(m)
	}

	return map[string]interface{}{"messages": result, "count": len(result)}, nil
}

func (h *CommandHandler) cmdSend(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /send <chat_id> <text>")
	}

	msg, err := h.msgSvc.Send(ctx, args[0], service.SendInput{
		Type:    domain.MessageTypeText,
		Content: strings.Join(args[1:], " "),
	})
	if err != nil {
		return nil, err
	}

	return messageInfo(msg), nil
}

func (h *CommandHandler) cmdSendBroadcast(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /bsend <broadcast_id> <text>")
	}

	messages, err := h.msgSvc.SendBroadcast(ctx, args[0], service.SendInput{
		Type:    domain.MessageTypeText,
		Content: strings.Join(args[1:], " "),
	})
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{"message": "Broadcast sent", "delivered": len(messages)}, nil
}

func (h *CommandHandler) cmdForward(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /forward <message_id> <chat_id...>")
	}

	forwarded, err := h.msgSvc.Forward(ctx, args[0], args[1:])
	if err != nil {
		return nil, err
	}
	if forwarded == nil {
		return nil, fmt.Errorf("message not found: %s", args[0])
	}

	return map[string]interface{}{"message": "Message forwarded", "delivered": len(forwarded)}, nil
}

func (h *CommandHandler) cmdEdit(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /edit <message_id> <text>")
	}

	msg, err := h.msgSvc.Edit(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return nil, err
	}

	return messageInfo(msg), nil
}

func (h *CommandHandler) cmdReact(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /react <message_id> <emoji>")
	}

	msg, err := h.msgSvc.React(ctx, args[0], args[1])
	if err != nil {
		return nil, err
	}

	return messageInfo(msg), nil
}

func (h *CommandHandler) cmdUnreact(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /unreact <message_id>")
	}

	msg, err := h.msgSvc.RemoveReaction(ctx, args[0])
	if err != nil {
		return nil, err
	}

	return messageInfo(msg), nil
}

func (h *CommandHandler) cmdDelete(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /delete <message_id> [all]")
	}

	forEveryone := len(args) > 1 && args[1] == "all"
	if err := h.msgSvc.Delete(ctx, args[0], forEveryone); err != nil {
		return nil, err
	}

	scope := "for me"
	if forEveryone {
		scope = "for everyone"
	}
	return map[string]string{"message": "Message deleted " + scope, "message_id": args[0]}, nil
}

func (h *CommandHandler) cmdRead(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /read <chat_id>")
	}

	if err := h.msgSvc.MarkAsRead(ctx, args[0]); err != nil {
		return nil, err
	}

	return map[string]string{"message": "Chat marked as read", "chat_id": args[0]}, nil
}

func (h *CommandHandler) cmdAddMember(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /add <chat_id> <user_id>")
	}

	current, err := h.authSvc.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.chatSvc.AddMember(ctx, args[0], args[1], current.ID); err != nil {
		return nil, err
	}

	return map[string]string{"message": "Member added"}, nil
}

func (h *CommandHandler) cmdRemoveMember(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /remove <chat_id> <user_id>")
	}

	current, err := h.authSvc.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.chatSvc.RemoveMember(ctx, args[0], args[1], current.ID); err != nil {
		return nil, err
	}

	return map[string]string{"message": "Member removed"}, nil
}

func (h *CommandHandler) cmdPromote(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /promote <chat_id> <user_id>")
	}

	current, err := h.authSvc.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.chatSvc.PromoteAdmin(ctx, args[0], args[1], current.ID); err != nil {
		return nil, err
	}

	return map[string]string{"message": "Member promoted to admin"}, nil
}

func (h *CommandHandler) cmdDemote(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /demote <chat_id> <user_id>")
	}

	current, err := h.authSvc.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.chatSvc.DemoteAdmin(ctx, args[0], args[1], current.ID); err != nil {
		return nil, err
	}

	return map[string]string{"message": "Admin demoted"}, nil
}

func (h *CommandHandler) cmdRename(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /rename <chat_id> <name>")
	}

	current, err := h.authSvc.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.Join(args[1:], " ")
	if err := h.chatSvc.UpdateGroupInfo(ctx, args[0], service.GroupInfoUpdate{Name: &name}, current.ID); err != nil {
		return nil, err
	}

	return map[string]string{"message": "Group renamed", "name": name}, nil
}

func (h *CommandHandler) cmdDescribe(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /describe <chat_id> <text>")
	}

	current, err := h.authSvc.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	desc := strings.Join(args[1:], " ")
	if err := h.chatSvc.UpdateGroupInfo(ctx, args[0], service.GroupInfoUpdate{Description: &desc}, current.ID); err != nil {
		return nil, err
	}

	return map[string]string{"message": "Description updated"}, nil
}

func (h *CommandHandler) cmdClearChat(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /clear <chat_id>")
	}
	if err := h.chatSvc.ClearChat(ctx, args[0]); err != nil {
		return nil, err
	}
	return map[string]string{"message": "Chat cleared", "chat_id": args[0]}, nil
}

func (h *CommandHandler) cmdDeleteChat(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /delete-chat <chat_id>")
	}
	if err := h.chatSvc.DeleteChat(ctx, args[0]); err != nil {
		return nil, err
	}
	return map[string]string{"message": "Chat deleted", "chat_id": args[0]}, nil
}

func (h *CommandHandler) cmdStories(ctx context.Context, args []string) (interface{}, error) {
	var stories []*domain.Story
	var err error
	if len(args) > 0 {
		stories, err = h.storySvc.UserStories(ctx, args[0])
	} else {
		stories, err = h.storySvc.ActiveStories(ctx)
	}
	if err != nil {
		return nil, err
	}

	result := make([]StoryInfo, len(stories))
	for i, s := range stories {
		result[i] = storyInfo(s)
	}

	return map[string]interface{}{"stories": result, "count": len(result)}, nil
}

func (h *CommandHandler) cmdStoryText(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /story-text <text>")
	}

	story, err := h.storySvc.PostTextStory(ctx, strings.Join(args, " "), "", domain.StoryPrivacyAll)
	if err != nil {
		return nil, err
	}

	return storyInfo(story), nil
}

func (h *CommandHandler) cmdStoryImage(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /story-image <url> [caption]")
	}

	caption := ""
	if len(args) > 1 {
		caption = strings.Join(args[1:], " ")
	}

	story, err := h.storySvc.PostImageStory(ctx, args[0], caption, domain.StoryPrivacyAll)
	if err != nil {
		return nil, err
	}

	return storyInfo(story), nil
}

func (h *CommandHandler) cmdViewStory(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /view-story <story_id>")
	}

	if err := h.storySvc.MarkViewed(ctx, args[0]); err != nil {
		return nil, err
	}

	return map[string]string{"message": "Story viewed", "story_id": args[0]}, nil
}

func (h *CommandHandler) cmdCalls(ctx context.Context) (interface{}, error) {
	current, err := h.authSvc.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	calls, err := h.callSvc.History(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]CallInfo, len(calls))
	for i, c := range calls {
		result[i] = callInfo(c, current.ID)
	}

	return map[string]interface{}{"calls": result, "count": len(result)}, nil
}

func (h *CommandHandler) cmdCall(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /call <user_id> [audio|video]")
	}

	callType := domain.CallTypeAudio
	if len(args) > 1 && args[1] == "video" {
		callType = domain.CallTypeVideo
	}

	current, err := h.authSvc.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	call, err := h.callSvc.Initiate(ctx, args[0], callType)
	if err != nil {
		return nil, err
	}

	return callInfo(call, current.ID), nil
}

func (h *CommandHandler) cmdEndCall(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: /end-call <call_id> <seconds>")
	}

	seconds, err := strconv.Atoi(args[1])
	if err != nil || seconds < 0 {
		return nil, fmt.Errorf("invalid duration: %s", args[1])
	}

	if err := h.callSvc.Complete(ctx, args[0], seconds); err != nil {
		return nil, err
	}

	return map[string]string{"message": "Call completed", "call_id": args[0]}, nil
}

func (h *CommandHandler) cmdMissCall(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /miss-call <call_id>")
	}

	if err := h.callSvc.Miss(ctx, args[0]); err != nil {
		return nil, err
	}

	return map[string]string{"message": "Call marked missed", "call_id": args[0]}, nil
}

func (h *CommandHandler) cmdBlock(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /block <user_id>")
	}
	if err := h.userSvc.Block(ctx, args[0]); err != nil {
		return nil, err
	}
	return map[string]string{"message": "Contact blocked", "user_id": args[0]}, nil
}

func (h *CommandHandler) cmdUnblock(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /unblock <user_id>")
	}
	if err := h.userSvc.Unblock(ctx, args[0]); err != nil {
		return nil, err
	}
	return map[string]string{"message": "Contact unblocked", "user_id": args[0]}, nil
}

func (h *CommandHandler) cmdSearch(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /search <query>")
	}

	query := strings.Join(args, " ")
	res, err := h.userSvc.SearchAll(ctx, query)
	if err != nil {
		return nil, err
	}

	chats := make([]ChatInfo, len(res.Chats))
	for i, c := range res.Chats {
		chats[i] = chatInfo(c)
	}
	messages := make([]MessageInfo, len(res.Messages))
	for i, m := range res.Messages {
		messages[i] = messageInfo(m)
	}
	contacts := make([]UserInfo, len(res.Contacts))
	for i, u := range res.Contacts {
		contacts[i] = userInfo(u)
	}

	return map[string]interface{}{
		"query":    query,
		"chats":    chats,
		"messages": messages,
		"contacts": contacts,
	}, nil
}

func (h *CommandHandler) cmdTheme(ctx context.Context, args []string) (interface{}, error) {
	if len(args) == 0 {
		theme, err := h.userSvc.Theme(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]string{"theme": theme}, nil
	}

	theme := args[0]
	if theme != "light" && theme != "dark" {
		return nil, fmt.Errorf("theme must be light or dark")
	}
	if err := h.userSvc.SetTheme(ctx, theme); err != nil {
		return nil, err
	}
	return map[string]string{"message": "Theme updated", "theme": theme}, nil
}

func (h *CommandHandler) cmdExport(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /export <path>")
	}

	snapshot, err := h.backupSvc.Export(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}

	return map[string]interface{}{
		"message":  "Backup written",
		"path":     args[0],
		"users":    len(snapshot.Users),
		"chats":    len(snapshot.Chats),
		"messages": len(snapshot.Messages),
	}, nil
}

func (h *CommandHandler) cmdImport(ctx context.Context, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: /import <path>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}

	var snapshot service.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}

	if err := h.backupSvc.Import(ctx, &snapshot); err != nil {
		return nil, err
	}

	return map[string]string{"message": "Backup imported", "path": args[0]}, nil
}

func (h *CommandHandler) cmdReset(ctx context.Context) (interface{}, error) {
	if err := h.backupSvc.Reset(ctx); err != nil {
		return nil, err
	}
	return map[string]string{"message": "All data erased"}, nil
}

// SubscribeEvents subscribes to application events
func (h *CommandHandler) SubscribeEvents(eventTypes []domain.EventType) <-chan Event {
	if len(eventTypes) == 0 {
		eventTypes = []domain.EventType{
			domain.EventTypeMessageSent,
			domain.EventTypeMessageDeleted,
			domain.EventTypeMessageRead,
			domain.EventTypeChatUpdated,
			domain.EventTypeMemberAdded,
			domain.EventTypeMemberRemoved,
			domain.EventTypeMemberPromoted,
			domain.EventTypeMemberDemoted,
			domain.EventTypeStoryPosted,
			domain.EventTypeCallLogged,
		}
	}

	domainChan := h.eventBus.Subscribe(eventTypes)
	resultChan := make(chan Event)

	go func() {
		defer close(resultChan)
		for evt := range domainChan {
			var data interface{}

			switch e := evt.(type) {
			case domain.MessageSentEvent:
				data = messageInfo(e.Message)
			case domain.MessageDeletedEvent:
				data = map[string]interface{}{
					"message_id":   e.MessageID,
					"chat_id":      e.ChatID,
					"for_everyone": e.ForEveryone,
				}
			case domain.MessageReadEvent:
				data = map[string]string{
					"chat_id":   e.ChatID,
					"reader_id": e.ReaderID,
				}
			case domain.ChatUpdatedEvent:
				data = chatInfo(e.Chat)
			case domain.MembershipEvent:
				data = map[string]string{
					"chat_id":  e.ChatID,
					"user_id":  e.UserID,
					"actor_id": e.ActorID,
				}
			case domain.StoryPostedEvent:
				data = storyInfo(e.Story)
			case domain.CallLoggedEvent:
				data = callInfo(e.Call, "")
			default:
				continue
			}

			resultChan <- Event{
				Type:      string(evt.Type()),
				Timestamp: time.Now(),
				Data:      data,
			}
		}
	}()

	return resultChan
}

// UnsubscribeEvents releases an event subscription opened by SubscribeEvents.
func (h *CommandHandler) UnsubscribeEvents(ch <-chan Event) {
	// Cleanup happens when the underlying bus channel closes.
}
