package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// HeadlessCLI handles JSON-based headless operation
type HeadlessCLI struct {
	handler *CommandHandler
	reader  *bufio.Reader
	writer  io.Writer
	mu      sync.Mutex
}

// NewHeadlessCLI creates a new headless CLI
func NewHeadlessCLI(handler *CommandHandler) *HeadlessCLI {
	return &HeadlessCLI{
		handler: handler,
		reader:  bufio.NewReader(os.Stdin),
		writer:  os.Stdout,
	}
}

// Run starts the headless JSON processing loop
func (cli *HeadlessCLI) Run(ctx context.Context) error {
	// Send ready message
	cli.sendResponse(Response{
		Success: true,
		Data:    map[string]string{"status": "ready", "mode": "headless"},
	})

	// Subscribe to all events in background
	eventChan := cli.handler.SubscribeEvents(nil)
	go cli.streamEvents(eventChan)

	// Process incoming JSON requests
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			line, err := cli.reader.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil
				}
				cli.sendError("", fmt.Sprintf("read error: %v", err))
				continue
			}

			cli.processRequest(ctx, line)
		}
	}
}

func (cli *HeadlessCLI) processRequest(ctx context.Context, line string) {
	var req Request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		cli.sendError("", fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	if req.Command == "" {
		cli.sendError(req.ID, "missing command field")
		return
	}

	args := cli.paramsToArgs(req.Command, req.Params)

	cmd := &Command{
		Name: req.Command,
		Args: args,
	}

	switch req.Command {
	case "subscribe":
		// Already subscribed, just acknowledge
		cli.sendResponse(Response{
			ID:      req.ID,
			Success: true,
			Data:    map[string]string{"message": "subscribed to events"},
		})
		return
	case "quit", "exit":
		cli.sendResponse(Response{
			ID:      req.ID,
			Success: true,
			Data:    map[string]string{"message": "goodbye"},
		})
		os.Exit(0)
		return
	}

	result, err := cli.handler.Execute(ctx, cmd)
	if err != nil {
		cli.sendError(req.ID, err.Error())
		return
	}

	cli.sendResponse(Response{
		ID:      req.ID,
		Success: true,
		Data:    result,
	})
}

func (cli *HeadlessCLI) paramsToArgs(command string, params map[string]interface{}) []string {
	if params == nil {
		return nil
	}

	str := func(key string) (string, bool) {
		v, ok := params[key].(string)
		return v, ok
	}
	strList := func(key string) []string {
		var out []string
		if items, ok := params[key].([]interface{}); ok {
			for _, item := range items {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
		}
		return out
	}

	var args []string

	switch command {
	case "login":
		if phone, ok := str("phone"); ok {
			args = append(args, phone)
		}
		if password, ok := str("password"); ok {
			args = append(args, password)
		}

	case "register":
		for _, key := range []string{"first_name", "last_name", "phone", "password"} {
			if v, ok := str(key); ok {
				args = append(args, v)
			}
		}

	case "status":
		if text, ok := str("text"); ok {
			args = append(args, text)
		}

	case "archive", "unarchive", "read", "clear", "delete-chat", "messages", "msg":
		if chatID, ok := str("chat_id"); ok {
			args = append(args, chatID)
		}

	case "new-chat":
		if userID, ok := str("user_id"); ok {
			args = append(args, userID)
		}

	case "new-group", "new-broadcast":
		if name, ok := str("name"); ok {
			args = append(args, name)
		}
		args = append(args, strList("participants")...)

	case "send":
		if chatID, ok := str("chat_id"); ok {
			args = append(args, chatID)
		}
		if text, ok := str("text"); ok {
			args = append(args, text)
		}

	case "bsend":
		if broadcastID, ok := str("broadcast_id"); ok {
			args = append(args, broadcastID)
		}
		if text, ok := str("text"); ok {
			args = append(args, text)
		}

	case "forward":
		if msgID, ok := str("message_id"); ok {
			args = append(args, msgID)
		}
		args = append(args, strList("chat_ids")...)

	case "edit":
		if msgID, ok := str("message_id"); ok {
			args = append(args, msgID)
		}
		if text, ok := str("text"); ok {
			args = append(args, text)
		}

	case "react":
		if msgID, ok := str("message_id"); ok {
			args = append(args, msgID)
		}
		if emoji, ok := str("emoji"); ok {
			args = append(args, emoji)
		}

	case "unreact":
		if msgID, ok := str("message_id"); ok {
			args = append(args, msgID)
		}

	case "delete":
		if msgID, ok := str("message_id"); ok {
			args = append(args, msgID)
		}
		if forEveryone, ok := params["for_everyone"].(bool); ok && forEveryone {
			args = append(args, "all")
		}

	case "add", "remove", "promote", "demote":
		if chatID, ok := str("chat_id"); ok {
			args = append(args, chatID)
		}
		if userID, ok := str("user_id"); ok {
			args = append(args, userID)
		}

	case "rename":
		if chatID, ok := str("chat_id"); ok {
			args = append(args, chatID)
		}
		if name, ok := str("name"); ok {
			args = append(args, name)
		}

	case "describe":
		if chatID, ok := str("chat_id"); ok {
			args = append(args, chatID)
		}
		if text, ok := str("text"); ok {
			args = append(args, text)
		}

	case "stories":
		if userID, ok := str("user_id"); ok {
			args = append(args, userID)
		}

	case "story-text":
		if text, ok := str("text"); ok {
			args = append(args, text)
		}

	case "story-image":
		if url, ok := str("url"); ok {
			args = append(args, url)
		}
		if caption, ok := str("caption"); ok {
			args = append(args, caption)
		}

	case "view-story":
		if storyID, ok := str("story_id"); ok {
			args = append(args, storyID)
		}

	case "call":
		if userID, ok := str("user_id"); ok {
			args = append(args, userID)
		}
		if callType, ok := str("type"); ok {
			args = append(args, callType)
		}

	case "end-call":
		if callID, ok := str("call_id"); ok {
			args = append(args, callID)
		}
		if seconds, ok := params["seconds"].(float64); ok {
			args = append(args, fmt.Sprintf("%d", int(seconds)))
		}

	case "miss-call":
		if callID, ok := str("call_id"); ok {
			args = append(args, callID)
		}

	case "block", "unblock":
		if userID, ok := str("user_id"); ok {
			args = append(args, userID)
		}

	case "search":
		if query, ok := str("query"); ok {
			args = append(args, query)
		}

	case "theme":
		if theme, ok := str("theme"); ok {
			args = append(args, theme)
		}

	case "export", "import":
		if path, ok := str("path"); ok {
			args = append(args, path)
		}
	}

	return args
}

func (cli *HeadlessCLI) streamEvents(eventChan <-chan Event) {
	for event := range eventChan {
		cli.sendEvent(event)
	}
}

func (cli *HeadlessCLI) sendResponse(resp Response) {
	cli.mu.Lock()
	defer cli.mu.Unlock()

	data, _ := json.Marshal(resp)
	fmt.Fprintln(cli.writer, string(data))
}

func (cli *HeadlessCLI) sendError(id, message string) {
	cli.sendResponse(Response{
		ID:      id,
		Success: false,
		Error:   message,
	})
}

func (cli *HeadlessCLI) sendEvent(event Event) {
	cli.mu.Lock()
	defer cli.mu.Unlock()

	data, _ := json.Marshal(map[string]interface{}{
		"type":      "event",
		"event":     event.Type,
		"timestamp": event.Timestamp,
		"data":      event.Data,
	})
	fmt.Fprintln(cli.writer, string(data))
}
