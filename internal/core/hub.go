package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/onyxdrift/onyxdrift-server/internal/metrics"
)

// Hub coordinates presence, direct-message relay and call signaling. All
// shared state (registry, rooms) is owned by the single goroutine running
// Run, so each register/unregister and the presence broadcast it triggers
// execute as one step.
type Hub struct {
	log      *zerolog.Logger
	registry *Registry
	rooms    *RoomSet

	attach chan *Client
	detach chan *Client
	inbox  chan inbound
	done   chan struct{}
}

type inbound struct {
	client *Client
	cmd    *Command
}

// NewHub creates a hub. A nil logger disables logging.
func NewHub(logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "hub").Logger()
	return &Hub{
		log:      &l,
		registry: NewRegistry(),
		rooms:    NewRoomSet(),
		attach:   make(chan *Client),
		detach:   make(chan *Client),
		inbox:    make(chan inbound, 64),
		done:     make(chan struct{}),
	}
}

// Attach hands a freshly accepted connection to the hub. The client
// starts receiving presence broadcasts immediately, before it announces
// an identity.
func (h *Hub) Attach(c *Client) {
	select {
	case h.attach <- c:
	case <-h.done:
	}
}

// Detach removes a connection after its transport closed. Safe to call
// for clients that never announced and safe to call twice.
func (h *Hub) Detach(c *Client) {
	select {
	case h.detach <- c:
	case <-h.done:
	}
}

// Run processes hub traffic until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	connected := make(map[*Client]chan struct{})

	for {
		select {
		case c := <-h.attach:
			if _, ok := connected[c]; ok {
				continue
			}
			stop := make(chan struct{})
			connected[c] = stop
			go h.pump(c, stop)
			h.log.Debug().Str("conn_id", c.ConnID).Msg("connection attached")

		case c := <-h.detach:
			stop, ok := connected[c]
			if !ok {
				continue
			}
			close(stop)
			delete(connected, c)
			h.handleDisconnect(c, connected)

		case in := <-h.inbox:
			if _, ok := connected[in.client]; !ok {
				continue
			}
			h.dispatch(in.client, in.cmd, connected)

		case <-ctx.Done():
			return
		}
	}
}

// pump forwards one client's commands into the hub inbox, preserving the
// per-connection ordering the transport delivered them in.
func (h *Hub) pump(c *Client, stop <-chan struct{}) {
	for {
		select {
		case cmd := <-c.Commands:
			select {
			case h.inbox <- inbound{client: c, cmd: cmd}:
			case <-stop:
				return
			case <-h.done:
				return
			}
		case <-stop:
			return
		case <-h.done:
			return
		}
	}
}

func (h *Hub) dispatch(c *Client, cmd *Command, connected map[*Client]chan struct{}) {
	switch cmd.Kind {
	case CommandAnnounce:
		h.handleAnnounce(c, cmd.UserID, connected)
	case CommandSendMessage:
		h.handleSendMessage(c, cmd.Message)
	case CommandJoinRoom:
		h.handleJoinRoom(c, cmd.Room)
	case CommandLeaveRoom:
		h.handleLeaveRoom(c, cmd.Room)
	case CommandSignal:
		h.handleSignal(c, cmd)
	default:
		h.log.Warn().Int("kind", int(cmd.Kind)).Msg("unknown command kind")
	}
}

func (h *Hub) handleAnnounce(c *Client, userID string, connected map[*Client]chan struct{}) {
	if userID == "" {
		// A blank identity registers nothing but still refreshes
		// everyone's snapshot.
		h.log.Debug().Str("conn_id", c.ConnID).Msg("announce with empty user id")
		h.broadcastPresence(connected)
		return
	}

	replaced := h.registry.Register(userID, c)
	c.UserID = userID
	if replaced != nil {
		replaced.send(&Event{
			Kind:  EventError,
			Error: coreError(ErrCodeSessionReplaced, "signed in from another connection"),
		})
		h.log.Info().
			Str("user_id", userID).
			Str("old_conn_id", replaced.ConnID).
			Str("new_conn_id", c.ConnID).
			Msg("session replaced")
	} else {
		h.log.Info().Str("user_id", userID).Str("conn_id", c.ConnID).Msg("user online")
	}

	metrics.RegisteredUsers.Set(float64(h.registry.Len()))
	h.broadcastPresence(connected)
}

func (h *Hub) handleSendMessage(c *Client, msg Message) {
	if msg.SenderID == "" || msg.ReceiverID == "" || msg.Text == "" {
		c.send(&Event{
			Kind:  EventError,
			Error: coreError(ErrCodeBadRequest, "senderId, receiverId and text are required"),
		})
		return
	}
	if msg.Type == "" {
		msg.Type = MessageTypeText
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	target, ok := h.registry.Lookup(msg.ReceiverID)
	if !ok {
		// Recipient offline: fire-and-forget, nothing back to the sender.
		metrics.RoutingMisses.Inc()
		h.log.Debug().
			Str("sender_id", msg.SenderID).
			Str("receiver_id", msg.ReceiverID).
			Msg("recipient offline, message dropped")
		return
	}

	target.send(&Event{Kind: EventDirectMessage, Message: msg})
	metrics.MessagesRelayed.Inc()
}

func (h *Hub) handleJoinRoom(c *Client, roomID string) {
	peers, already := h.rooms.Join(roomID, c)
	if already {
		return
	}
	for _, peer := range peers {
		peer.send(&Event{Kind: EventRoomJoined, Room: roomID, ConnID: c.ConnID})
	}
	metrics.ActiveRooms.Set(float64(h.rooms.Len()))
	h.log.Info().Str("room_id", roomID).Str("conn_id", c.ConnID).Msg("joined call room")
}

func (h *Hub) handleLeaveRoom(c *Client, roomID string) {
	remaining, ok := h.rooms.Leave(roomID, c)
	if !ok {
		c.send(&Event{
			Kind:  EventError,
			Error: coreError(ErrCodeNotInRoom, "not in room"),
		})
		return
	}
	for _, peer := range remaining {
		peer.send(&Event{Kind: EventRoomLeft, Room: roomID, ConnID: c.ConnID})
	}
	metrics.ActiveRooms.Set(float64(h.rooms.Len()))
	h.log.Info().Str("room_id", roomID).Str("conn_id", c.ConnID).Msg("left call room")
}

func (h *Hub) handleSignal(c *Client, cmd *Command) {
	peers, member := h.rooms.Peers(cmd.Room, c)
	if !member {
		c.send(&Event{
			Kind:  EventError,
			Error: coreError(ErrCodeNotInRoom, "join the room before signaling"),
		})
		return
	}
	// Pure pass-through: the payload is opaque, never back to the sender.
	for _, peer := range peers {
		peer.send(&Event{
			Kind:   EventSignal,
			Room:   cmd.Room,
			ConnID: c.ConnID,
			Signal: cmd.Signal,
		})
	}
	metrics.SignalsRelayed.Add(float64(len(peers)))
}

func (h *Hub) handleDisconnect(c *Client, connected map[*Client]chan struct{}) {
	for roomID, remaining := range h.rooms.RemoveClient(c) {
		for _, peer := range remaining {
			peer.send(&Event{Kind: EventRoomLeft, Room: roomID, ConnID: c.ConnID})
		}
	}
	metrics.ActiveRooms.Set(float64(h.rooms.Len()))

	if h.registry.Unregister(c.ConnID) {
		h.log.Info().Str("user_id", c.UserID).Str("conn_id", c.ConnID).Msg("user offline")
	}
	metrics.RegisteredUsers.Set(float64(h.registry.Len()))
	h.broadcastPresence(connected)
}

// broadcastPresence fans the full snapshot out to every connected
// transport, registered or not. Best effort, no acks.
func (h *Hub) broadcastPresence(connected map[*Client]chan struct{}) {
	snapshot := h.registry.Snapshot()
	for c := range connected {
		c.send(&Event{Kind: EventOnlineUsers, Presence: snapshot})
	}
}
