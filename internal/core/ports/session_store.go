package ports

import (
	"context"
	"time"
)

// StoredSession is what survives a reload: the raw credential and the last-known
// role. Nothing else about the session is persisted.
type StoredSession struct {
	Token     string
	Role      string
	UpdatedAt time.Time
}

// SessionStore keeps one StoredSession per device.
type SessionStore interface {
	// Save replaces the device's stored session.
	Save(ctx context.Context, device string, s StoredSession) error

	// Load returns the device's stored session, or an *errs.ObjectNotFoundError.
	Load(ctx context.Context, device string) (StoredSession, error)

	// Delete clears the device's stored session. Deleting nothing is not an error.
	Delete(ctx context.Context, device string) error
}
