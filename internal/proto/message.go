// Package proto defines the wire contract of the realtime endpoint.
//
// The surrounding OnyxDrift apps historically used several event-name
// drafts (sendGlobalMessage/getGlobalMessage among them); the names here
// are the canonical contract and the only ones the server speaks.
package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeAddUser     = "addNewUser"
	InboundTypeSendMessage = "send-message"
	InboundTypeJoinRoom    = "join-room"
	InboundTypeJoinCall    = "join-call" // legacy alias still sent by the call UI
	InboundTypeLeaveRoom   = "leave-room"
	InboundTypeSignal      = "signal"

	OutboundTypeOnlineUsers    = "getOnlineUsers"
	OutboundTypeReceiveMessage = "receive-message"
	OutboundTypeUserJoined     = "user-joined"
	OutboundTypeUserLeft       = "user-left"
	OutboundTypeSignal         = "signal"
	OutboundTypeError          = "error"
)

// AddUserData announces the connection's user identity.
type AddUserData struct {
	UserID string `json:"userId"`
}

// SendMessageData is a direct chat message from the client.
type SendMessageData struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
	Type       string `json:"type,omitempty"`
}

// RoomData addresses a call room for join and leave requests.
type RoomData struct {
	RoomID string `json:"roomId"`
}

// SignalData is a call-signaling payload bound for the other members of
// the room. Data is opaque to the server (offer, answer, ICE candidate).
type SignalData struct {
	RoomID string          `json:"roomId"`
	Data   json.RawMessage `json:"data"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// OnlineUser is one entry of the presence snapshot.
type OnlineUser struct {
	UserID       string `json:"userId"`
	ConnectionID string `json:"connectionId"`
}

// ReceiveMessageData delivers a relayed chat message to its recipient.
type ReceiveMessageData struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
	Type       string `json:"type"`
	Timestamp  int64  `json:"timestamp"`
}

// UserJoinedData notifies room members about a new participant.
type UserJoinedData struct {
	RoomID       string `json:"roomId"`
	ConnectionID string `json:"connectionId"`
}

// UserLeftData notifies room members about a departed participant.
type UserLeftData struct {
	RoomID       string `json:"roomId"`
	ConnectionID string `json:"connectionId"`
}

// SignalEventData carries a relayed call signal. SenderID is the sending
// peer's connection handle.
type SignalEventData struct {
	RoomID   string          `json:"roomId"`
	SenderID string          `json:"senderId"`
	Data     json.RawMessage `json:"data"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
