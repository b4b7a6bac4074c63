package core

import "encoding/json"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandAnnounce binds the connection to a user identity.
	CommandAnnounce CommandKind = iota
	// CommandSendMessage delivers a direct message to another user.
	CommandSendMessage
	// CommandJoinRoom adds the connection to a call room.
	CommandJoinRoom
	// CommandLeaveRoom removes the connection from a call room.
	CommandLeaveRoom
	// CommandSignal relays a call-signaling payload to room peers.
	CommandSignal
)

// Command represents an action requested by a client.
type Command struct {
	Kind    CommandKind
	UserID  string
	Room    string
	Message Message
	Signal  json.RawMessage
}
