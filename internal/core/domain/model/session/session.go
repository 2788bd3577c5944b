package session

import (
	"logiflow/internal/core/domain/model/kernel"
)

// Session is the decoded claim set of a bearer credential. It is passed explicitly
// to every component that needs the viewer's identity.
type Session struct {
	token       string
	role        Role
	displayName string
	userID      kernel.ID
}

// NewSession builds a Session. token is the raw credential without the Bearer prefix.
func NewSession(token string, role Role, displayName string, userID kernel.ID) *Session {
	return &Session{
		token:       token,
		role:        role,
		displayName: displayName,
		userID:      userID,
	}
}

// Token returns the raw credential forwarded to the backends.
func (s *Session) Token() string {
	return s.token
}

func (s *Session) Role() Role {
	return s.role
}

func (s *Session) DisplayName() string {
	return s.displayName
}

// UserID returns the numeric subject id, or the zero ID when the claims carry none.
func (s *Session) UserID() kernel.ID {
	return s.userID
}

// HomePath returns the view the session lands on.
func (s *Session) HomePath() string {
	return s.role.HomePath()
}

// CanTransitionOrders reports whether the session may change order status.
// Requesters and supervisors are read-only observers.
func (s *Session) CanTransitionOrders() bool {
	return s.role == RoleDriver
}
