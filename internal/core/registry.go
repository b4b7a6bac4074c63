package core

// Presence is one entry of the online-user snapshot.
type Presence struct {
	UserID string
	ConnID string
}

// Registry is the authoritative mapping of user identity to its single
// canonical live connection. It is not safe for concurrent use; the hub
// goroutine owns it, which also makes each register/unregister atomic
// with respect to the presence broadcast it triggers.
type Registry struct {
	byUser map[string]*Client
	byConn map[string]string
	order  []string // userIDs in insertion order for deterministic snapshots
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]*Client),
		byConn: make(map[string]string),
	}
}

// Register binds userID to the given connection. A later registration for
// the same userID supersedes the earlier one (last-registration-wins); the
// superseded client is returned so the caller can notify it. Registering
// the same client again is a no-op.
func (r *Registry) Register(userID string, c *Client) (replaced *Client) {
	prev, exists := r.byUser[userID]
	if exists && prev == c {
		return nil
	}
	if exists {
		delete(r.byConn, prev.ConnID)
		replaced = prev
	} else {
		r.order = append(r.order, userID)
	}
	// A connection re-announcing under a new identity releases the old one.
	if oldUser, ok := r.byConn[c.ConnID]; ok && oldUser != userID {
		delete(r.byUser, oldUser)
		r.dropFromOrder(oldUser)
	}
	r.byUser[userID] = c
	r.byConn[c.ConnID] = userID
	return replaced
}

// Unregister removes the entry owned by the given connection handle.
// Unknown handles are a no-op, so a double disconnect is safe.
func (r *Registry) Unregister(connID string) bool {
	userID, ok := r.byConn[connID]
	if !ok {
		return false
	}
	delete(r.byConn, connID)
	delete(r.byUser, userID)
	r.dropFromOrder(userID)
	return true
}

// Lookup resolves a user identity to its current connection.
func (r *Registry) Lookup(userID string) (*Client, bool) {
	c, ok := r.byUser[userID]
	return c, ok
}

// Snapshot returns the registered users in insertion order.
func (r *Registry) Snapshot() []Presence {
	out := make([]Presence, 0, len(r.order))
	for _, userID := range r.order {
		out = append(out, Presence{UserID: userID, ConnID: r.byUser[userID].ConnID})
	}
	return out
}

// Len returns the number of registered users.
func (r *Registry) Len() int {
	return len(r.byUser)
}

func (r *Registry) dropFromOrder(userID string) {
	for i, id := range r.order {
		if id == userID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
