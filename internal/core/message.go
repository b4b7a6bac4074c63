package core

import "time"

// MessageTypeText is the default message type when the client sends none.
const MessageTypeText = "text"

// Message is the domain model for a direct chat message. The relay is
// type-agnostic: Type is carried through unmodified ("text", "image",
// "audio", whatever the apps agree on).
type Message struct {
	SenderID   string
	ReceiverID string
	Text       string
	Type       string
	CreatedAt  time.Time
}
