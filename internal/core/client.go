package core

// Client is one live transport connection as seen by the core layer.
// UserID is empty until the client announces its identity; it is only
// written by the hub goroutine.
type Client struct {
	ConnID   string
	UserID   string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels.
func NewClient(connID string) *Client {
	return &Client{
		ConnID:   connID,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 8),
	}
}

// send delivers an event without blocking the hub loop.
func (c *Client) send(event *Event) {
	select {
	case c.Events <- event:
	default:
		// Drop if slow consumer.
	}
}
