package models

import (
	"strconv"
	"time"
)

// MessageType identifies who authored a transcript entry
type MessageType string

const (
	MessageUser      MessageType = "user"
	MessageAssistant MessageType = "assistant"
)

// String implements fmt.Stringer
func (t MessageType) String() string {
	return string(t)
}

// Message is one immutable entry of the chat transcript
type Message struct {
	ID        string      `json:"id"`
	Seq       uint64      `json:"seq"`
	Type      MessageType `json:"type"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// MessageID derives the opaque message token from its sequence number.
// Tokens sort in creation order for sequences below 10^12.
func MessageID(seq uint64) string {
	s := strconv.FormatUint(seq, 10)
	const width = 12
	if len(s) < width {
		pad := make([]byte, width-len(s))
		for i := range pad {
			pad[i] = '0'
		}
		s = string(pad) + s
	}
	return "msg-" + s
}

// IsUser reports whether the message was authored by the user
func (m Message) IsUser() bool {
	return m.Type == MessageUser
}

// IsAssistant reports whether the message was authored by the assistant
func (m Message) IsAssistant() bool {
	return m.Type == MessageAssistant
}
