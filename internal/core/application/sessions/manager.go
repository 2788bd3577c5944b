// Package sessions keeps the credential of each device between requests.
// A device is identified by an opaque key (the BFF's device cookie); the stored
// credential is re-resolved on every use, so a revoked or malformed token is
// never trusted from storage.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/core/domain/services"
	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"
)

// Manager gives sessions an explicit lifecycle: Begin, Current, End.
//
// Example:
//
//	m, _ := sessions.NewManager(resolver, store, logger)
//	s, err := m.Begin(ctx, deviceID, "Bearer eyJ...")
//	// later requests from the same device
//	s, err = m.Current(ctx, deviceID)
//	// logout
//	_ = m.End(ctx, deviceID)
type Manager struct {
	resolver services.SessionResolver
	store    ports.SessionStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewManager creates a manager over store.
func NewManager(resolver services.SessionResolver, store ports.SessionStore, logger *slog.Logger) (*Manager, error) {
	if resolver == nil {
		return nil, errs.NewValueIsRequiredError("resolver")
	}
	if store == nil {
		return nil, errs.NewValueIsRequiredError("session store")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		resolver: resolver,
		store:    store,
		logger:   logger.With("component", "session-manager"),
		now:      time.Now,
	}, nil
}

// Begin resolves token and stores it for device, replacing any previous session.
// Nothing is stored when the token does not resolve.
func (m *Manager) Begin(ctx context.Context, device, token string) (*session.Session, error) {
	if strings.TrimSpace(device) == "" {
		return nil, errs.NewValueIsRequiredError("device")
	}

	token = session.StripBearer(token)
	s, err := m.resolver.Resolve(token)
	if err != nil {
		return nil, err
	}

	stored := ports.StoredSession{Token: token, Role: s.Role().String(), UpdatedAt: m.now().UTC()}
	if err = m.store.Save(ctx, device, stored); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	m.logger.InfoContext(ctx, "session started", "device", device, "role", s.Role().String())
	return s, nil
}

// Current reloads the session of device.
//
// Returns:
//   - session.ErrCredentialMissing when the device has no stored session
//   - the resolver error when the stored token no longer resolves; the stored
//     entry is dropped in that case
func (m *Manager) Current(ctx context.Context, device string) (*session.Session, error) {
	if strings.TrimSpace(device) == "" {
		return nil, session.ErrCredentialMissing
	}

	stored, err := m.store.Load(ctx, device)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, session.ErrCredentialMissing
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	s, err := m.resolver.Resolve(stored.Token)
	if err != nil {
		m.logger.WarnContext(ctx, "stored credential no longer resolves", "device", device, "error", err)
		if delErr := m.store.Delete(ctx, device); delErr != nil {
			m.logger.WarnContext(ctx, "dropping stored session", "device", device, "error", delErr)
		}
		return nil, err
	}

	return s, nil
}

// End forgets the session of device. Ending an absent session is not an error.
func (m *Manager) End(ctx context.Context, device string) error {
	if strings.TrimSpace(device) == "" {
		return nil
	}

	if err := m.store.Delete(ctx, device); err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}

	m.logger.InfoContext(ctx, "session ended", "device", device)
	return nil
}
