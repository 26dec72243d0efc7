// Package chat holds the transport-neutral shapes exchanged with a chat
// platform: inbound events and the replies sent back.
package chat

import (
	"strconv"
	"strings"
)

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
}

// Event is one inbound update. Exactly one of Text or Callback is expected to
// be set: Text for typed messages, Callback for button presses.
type Event struct {
	ChatID   int64  `json:"chat_id"`
	User     User   `json:"user"`
	Text     string `json:"text,omitempty"`
	Callback string `json:"callback,omitempty"`
}

func (e Event) IsCallback() bool {
	return e.Callback != ""
}

type Button struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

type Document struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
	Caption     string `json:"caption,omitempty"`
}

type Message struct {
	Text     string     `json:"text,omitempty"`
	Buttons  [][]Button `json:"buttons,omitempty"`
	Document *Document  `json:"document,omitempty"`
}

type Reply struct {
	Messages []Message `json:"messages"`
}

func (r *Reply) Add(m Message) *Reply {
	r.Messages = append(r.Messages, m)
	return r
}

func Text(s string) Message {
	return Message{Text: s}
}

// Callback data understood by the conversation.
const (
	ActionNewOrder = "new_order"
	ActionExport   = "export_orders"
	ActionCancel   = "cancel"
	ActionConfirm  = "confirm"
	ActionLocation = "location"
	ActionProduct  = "product"
	ActionInc      = "inc"
	ActionDec      = "dec"
)

// Text commands.
const (
	CommandStart    = "/start"
	CommandNewOrder = "/neworder"
	CommandCancel   = "/cancel"
	CommandStats    = "/stats"
)

func CallbackData(action, arg string) string {
	return action + ":" + arg
}

func ProductCallback(action string, productID int64) string {
	return CallbackData(action, strconv.FormatInt(productID, 10))
}

// ParseCallback splits "action:arg" callback data. Data without a colon is an
// action with no argument.
func ParseCallback(data string) (action, arg string) {
	action, arg, _ = strings.Cut(data, ":")
	return action, arg
}

// Command returns the bot command a text message starts with, if any.
// "/start@mybot extra" yields "/start".
func Command(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd), true
}
