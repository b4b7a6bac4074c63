package http

import (
	"encoding/json"
	"time"

	"github.com/onyxdrift/onyxdrift-server/internal/core"
	"github.com/onyxdrift/onyxdrift-server/internal/proto"
)

// inboundToCommand maps a wire frame to a hub command. identity is the
// token-verified user when auth is enabled, empty otherwise. A non-nil
// proto.Error means the frame is rejected and answered locally; a non-nil
// error means the frame is undecodable and the connection should close.
func inboundToCommand(inbound proto.Inbound, identity string) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeAddUser:
		userID, err := decodeUserID(inbound.Data)
		if err != nil {
			return nil, nil, err
		}
		if identity != "" && userID != "" && userID != identity {
			return nil, &proto.Error{Code: core.ErrCodeUnauthorized, Msg: "userId does not match token subject"}, nil
		}
		// An empty userId registers nothing but still goes to the hub
		// so the presence snapshot is rebroadcast.
		return &core.Command{
			Kind:   core.CommandAnnounce,
			UserID: userID,
		}, nil, nil

	case proto.InboundTypeSendMessage:
		var msg proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		if msg.SenderID == "" || msg.ReceiverID == "" || msg.Text == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "senderId, receiverId and text are required"}, nil
		}
		return &core.Command{
			Kind: core.CommandSendMessage,
			Message: core.Message{
				SenderID:   msg.SenderID,
				ReceiverID: msg.ReceiverID,
				Text:       msg.Text,
				Type:       msg.Type,
				CreatedAt:  time.Now(),
			},
		}, nil, nil

	case proto.InboundTypeJoinRoom, proto.InboundTypeJoinCall:
		room, protoErr, err := decodeRoom(inbound.Data)
		if protoErr != nil || err != nil {
			return nil, protoErr, err
		}
		return &core.Command{Kind: core.CommandJoinRoom, Room: room}, nil, nil

	case proto.InboundTypeLeaveRoom:
		room, protoErr, err := decodeRoom(inbound.Data)
		if protoErr != nil || err != nil {
			return nil, protoErr, err
		}
		return &core.Command{Kind: core.CommandLeaveRoom, Room: room}, nil, nil

	case proto.InboundTypeSignal:
		var sig proto.SignalData
		if err := json.Unmarshal(inbound.Data, &sig); err != nil {
			return nil, nil, err
		}
		if sig.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		return &core.Command{
			Kind:   core.CommandSignal,
			Room:   sig.RoomID,
			Signal: sig.Data,
		}, nil, nil

	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

// decodeUserID accepts both {"userId":"u1"} and the bare-string form "u1"
// the older clients send.
func decodeUserID(data json.RawMessage) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	var obj proto.AddUserData
	if err := json.Unmarshal(data, &obj); err == nil && obj.UserID != "" {
		return obj.UserID, nil
	}
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		return bare, nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", err
	}
	return "", nil
}

func decodeRoom(data json.RawMessage) (string, *proto.Error, error) {
	var room proto.RoomData
	if err := json.Unmarshal(data, &room); err != nil {
		return "", nil, err
	}
	if room.RoomID == "" {
		return "", &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}, nil
	}
	return room.RoomID, nil, nil
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventOnlineUsers:
		users := make([]proto.OnlineUser, 0, len(event.Presence))
		for _, p := range event.Presence {
			users = append(users, proto.OnlineUser{
				UserID:       p.UserID,
				ConnectionID: p.ConnID,
			})
		}
		return proto.Outbound{
			Type: proto.OutboundTypeOnlineUsers,
			Data: users,
		}
	case core.EventDirectMessage:
		return proto.Outbound{
			Type: proto.OutboundTypeReceiveMessage,
			Data: proto.ReceiveMessageData{
				SenderID:   event.Message.SenderID,
				ReceiverID: event.Message.ReceiverID,
				Text:       event.Message.Text,
				Type:       event.Message.Type,
				Timestamp:  event.Message.CreatedAt.Unix(),
			},
		}
	case core.EventRoomJoined:
		return proto.Outbound{
			Type: proto.OutboundTypeUserJoined,
			Data: proto.UserJoinedData{
				RoomID:       event.Room,
				ConnectionID: event.ConnID,
			},
		}
	case core.EventRoomLeft:
		return proto.Outbound{
			Type: proto.OutboundTypeUserLeft,
			Data: proto.UserLeftData{
				RoomID:       event.Room,
				ConnectionID: event.ConnID,
			},
		}
	case core.EventSignal:
		return proto.Outbound{
			Type: proto.OutboundTypeSignal,
			Data: proto.SignalEventData{
				RoomID:   event.Room,
				SenderID: event.ConnID,
				Data:     event.Signal,
			},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: "event"}
	}
}
