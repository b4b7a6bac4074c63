package http

import (
	"encoding/json"
	"testing"

	"github.com/onyxdrift/onyxdrift-server/internal/core"
	"github.com/onyxdrift/onyxdrift-server/internal/proto"
)

func TestInboundToCommandAddUser(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		identity string
		wantUser string
		wantCode string
	}{
		{name: "object form", data: `{"userId":"u1"}`, wantUser: "u1"},
		{name: "bare string form", data: `"u1"`, wantUser: "u1"},
		{name: "empty object", data: `{}`, wantUser: ""},
		{name: "missing data", data: ``, wantUser: ""},
		{name: "identity match", data: `{"userId":"u1"}`, identity: "u1", wantUser: "u1"},
		{name: "identity mismatch", data: `{"userId":"u2"}`, identity: "u1", wantCode: core.ErrCodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, protoErr, err := inboundToCommand(proto.Inbound{
				Type: proto.InboundTypeAddUser,
				Data: json.RawMessage(tt.data),
			}, tt.identity)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantCode != "" {
				if protoErr == nil || protoErr.Code != tt.wantCode {
					t.Fatalf("expected error code %q, got %+v", tt.wantCode, protoErr)
				}
				return
			}
			if protoErr != nil {
				t.Fatalf("unexpected proto error: %+v", protoErr)
			}
			if cmd.Kind != core.CommandAnnounce || cmd.UserID != tt.wantUser {
				t.Fatalf("unexpected command: %+v", cmd)
			}
		})
	}
}

func TestInboundToCommandSendMessage(t *testing.T) {
	cmd, protoErr, err := inboundToCommand(proto.Inbound{
		Type: proto.InboundTypeSendMessage,
		Data: json.RawMessage(`{"senderId":"a","receiverId":"b","text":"hi"}`),
	}, "")
	if err != nil || protoErr != nil {
		t.Fatalf("unexpected errors: %v %+v", err, protoErr)
	}
	if cmd.Kind != core.CommandSendMessage {
		t.Fatalf("unexpected kind: %v", cmd.Kind)
	}
	if cmd.Message.SenderID != "a" || cmd.Message.ReceiverID != "b" || cmd.Message.Text != "hi" {
		t.Fatalf("unexpected message: %+v", cmd.Message)
	}
	if cmd.Message.CreatedAt.IsZero() {
		t.Fatal("timestamp must be set on ingest")
	}
}

func TestInboundToCommandSendMessageMissingFields(t *testing.T) {
	for _, data := range []string{
		`{"receiverId":"b","text":"hi"}`,
		`{"senderId":"a","text":"hi"}`,
		`{"senderId":"a","receiverId":"b"}`,
	} {
		_, protoErr, err := inboundToCommand(proto.Inbound{
			Type: proto.InboundTypeSendMessage,
			Data: json.RawMessage(data),
		}, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if protoErr == nil || protoErr.Code != core.ErrCodeBadRequest {
			t.Fatalf("data %s: expected bad_request, got %+v", data, protoErr)
		}
	}
}

func TestInboundToCommandRooms(t *testing.T) {
	for _, typ := range []string{proto.InboundTypeJoinRoom, proto.InboundTypeJoinCall} {
		cmd, protoErr, err := inboundToCommand(proto.Inbound{
			Type: typ,
			Data: json.RawMessage(`{"roomId":"room1"}`),
		}, "")
		if err != nil || protoErr != nil {
			t.Fatalf("%s: unexpected errors: %v %+v", typ, err, protoErr)
		}
		if cmd.Kind != core.CommandJoinRoom || cmd.Room != "room1" {
			t.Fatalf("%s: unexpected command: %+v", typ, cmd)
		}
	}

	_, protoErr, _ := inboundToCommand(proto.Inbound{
		Type: proto.InboundTypeJoinRoom,
		Data: json.RawMessage(`{}`),
	}, "")
	if protoErr == nil || protoErr.Code != core.ErrCodeBadRequest {
		t.Fatalf("missing roomId should be rejected, got %+v", protoErr)
	}

	cmd, protoErr, err := inboundToCommand(proto.Inbound{
		Type: proto.InboundTypeLeaveRoom,
		Data: json.RawMessage(`{"roomId":"room1"}`),
	}, "")
	if err != nil || protoErr != nil {
		t.Fatalf("leave: unexpected errors: %v %+v", err, protoErr)
	}
	if cmd.Kind != core.CommandLeaveRoom || cmd.Room != "room1" {
		t.Fatalf("leave: unexpected command: %+v", cmd)
	}
}

func TestInboundToCommandSignal(t *testing.T) {
	payload := `{"type":"candidate","candidate":"foo"}`
	cmd, protoErr, err := inboundToCommand(proto.Inbound{
		Type: proto.InboundTypeSignal,
		Data: json.RawMessage(`{"roomId":"room1","data":` + payload + `}`),
	}, "")
	if err != nil || protoErr != nil {
		t.Fatalf("unexpected errors: %v %+v", err, protoErr)
	}
	if cmd.Kind != core.CommandSignal || cmd.Room != "room1" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	// The payload is opaque and must survive untouched.
	if string(cmd.Signal) != payload {
		t.Fatalf("signal payload modified: %s", cmd.Signal)
	}

	_, protoErr, _ = inboundToCommand(proto.Inbound{
		Type: proto.InboundTypeSignal,
		Data: json.RawMessage(`{"data":{}}`),
	}, "")
	if protoErr == nil || protoErr.Code != core.ErrCodeBadRequest {
		t.Fatalf("missing roomId should be rejected, got %+v", protoErr)
	}
}

func TestInboundToCommandUnknownType(t *testing.T) {
	_, protoErr, err := inboundToCommand(proto.Inbound{
		Type: "sendGlobalMessage",
		Data: json.RawMessage(`{}`),
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if protoErr == nil || protoErr.Code != "invalid_message" {
		t.Fatalf("expected invalid_message, got %+v", protoErr)
	}
}

func TestOutboundFromEvent(t *testing.T) {
	snapshot := outboundFromEvent(&core.Event{
		Kind: core.EventOnlineUsers,
		Presence: []core.Presence{
			{UserID: "u1", ConnID: "c1"},
			{UserID: "u2", ConnID: "c2"},
		},
	})
	if snapshot.Type != proto.OutboundTypeOnlineUsers {
		t.Fatalf("unexpected type: %s", snapshot.Type)
	}
	users, ok := snapshot.Data.([]proto.OnlineUser)
	if !ok || len(users) != 2 || users[0].UserID != "u1" || users[1].ConnectionID != "c2" {
		t.Fatalf("unexpected snapshot data: %+v", snapshot.Data)
	}

	errOut := outboundFromEvent(&core.Event{
		Kind:  core.EventError,
		Error: &core.CoreError{Code: core.ErrCodeNotInRoom, Message: "nope"},
	})
	if errOut.Type != proto.OutboundTypeError || errOut.Error == nil || errOut.Error.Code != core.ErrCodeNotInRoom {
		t.Fatalf("unexpected error outbound: %+v", errOut)
	}
}
