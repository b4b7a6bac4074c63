package core

import "encoding/json"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventOnlineUsers carries the full presence snapshot.
	EventOnlineUsers EventKind = iota
	// EventDirectMessage delivers a chat message to its recipient.
	EventDirectMessage
	// EventRoomJoined notifies room members about a new participant.
	EventRoomJoined
	// EventRoomLeft notifies room members about a departed participant.
	EventRoomLeft
	// EventSignal carries a call-signaling payload from a room peer.
	EventSignal
	// EventError notifies a client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Room     string
	ConnID   string // the peer connection a room event refers to
	Presence []Presence
	Message  Message
	Signal   json.RawMessage
	Error    *CoreError
}
