package core

// RoomSet tracks call-room membership: which connections are associated
// with each roomID. Rooms are created on first join and torn down when
// the last member leaves. Owned by the hub goroutine, not safe for
// concurrent use.
type RoomSet struct {
	rooms map[string]map[*Client]struct{}
}

// NewRoomSet constructs an empty room set.
func NewRoomSet() *RoomSet {
	return &RoomSet{rooms: make(map[string]map[*Client]struct{})}
}

// Join adds the client to the room, creating it if needed. Returns the
// members that were already present and whether the client was already
// one of them.
func (s *RoomSet) Join(roomID string, c *Client) (peers []*Client, already bool) {
	members, ok := s.rooms[roomID]
	if !ok {
		members = make(map[*Client]struct{})
		s.rooms[roomID] = members
	}
	if _, already = members[c]; already {
		return nil, true
	}
	for peer := range members {
		peers = append(peers, peer)
	}
	members[c] = struct{}{}
	return peers, false
}

// Leave removes the client from the room. Returns the remaining members
// and false if the client was not a member. Empty rooms are deleted.
func (s *RoomSet) Leave(roomID string, c *Client) (remaining []*Client, ok bool) {
	members, exists := s.rooms[roomID]
	if !exists {
		return nil, false
	}
	if _, ok = members[c]; !ok {
		return nil, false
	}
	delete(members, c)
	if len(members) == 0 {
		delete(s.rooms, roomID)
		return nil, true
	}
	for peer := range members {
		remaining = append(remaining, peer)
	}
	return remaining, true
}

// Peers returns the other members of the room, excluding c, and whether
// c is a member at all.
func (s *RoomSet) Peers(roomID string, c *Client) (peers []*Client, member bool) {
	members, ok := s.rooms[roomID]
	if !ok {
		return nil, false
	}
	if _, member = members[c]; !member {
		return nil, false
	}
	for peer := range members {
		if peer != c {
			peers = append(peers, peer)
		}
	}
	return peers, true
}

// RemoveClient sweeps the client out of every room it joined, for the
// disconnect path. Returns roomID -> remaining members for each room the
// client was in. Empty rooms are deleted.
func (s *RoomSet) RemoveClient(c *Client) map[string][]*Client {
	affected := make(map[string][]*Client)
	for roomID, members := range s.rooms {
		if _, ok := members[c]; !ok {
			continue
		}
		delete(members, c)
		if len(members) == 0 {
			delete(s.rooms, roomID)
			affected[roomID] = nil
			continue
		}
		remaining := make([]*Client, 0, len(members))
		for peer := range members {
			remaining = append(remaining, peer)
		}
		affected[roomID] = remaining
	}
	return affected
}

// Len returns the number of active rooms.
func (s *RoomSet) Len() int {
	return len(s.rooms)
}
