package identity

import (
	"context"

	"github.com/pkg/errors"
)

// Profile is the authenticated user snapshot the relay attaches to a
// connection. It is resolved once, at connect time, and never refreshed for
// the lifetime of the connection.
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Directory is the boundary to the external identity provider: resolve a
// user id to a profile plus active flag. Implementations must return
// ErrNotFound when no matching user exists.
type Directory interface {
	Lookup(ctx context.Context, userID string) (*Profile, error)
}

var ErrNotFound = errors.New("identity: user not found")
