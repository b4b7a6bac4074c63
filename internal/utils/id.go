package utils

import "github.com/google/uuid"

// NewConnID issues an opaque handle for one transport connection. Handles
// are unique per connection and never reused across reconnects.
func NewConnID() string {
	return uuid.NewString()
}
