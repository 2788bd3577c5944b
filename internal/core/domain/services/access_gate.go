package services

import (
	"errors"

	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/pkg/errs"
)

// SessionResolver turns a raw bearer credential into a Session.
type SessionResolver interface {
	Resolve(raw string) (*session.Session, error)
}

// DefaultViewRoles lists, per view path, the roles allowed to open it.
func DefaultViewRoles() map[string][]session.Role {
	return map[string][]session.Role{
		session.RequesterHome:  {session.RoleRequester},
		session.DriverHome:     {session.RoleDriver},
		session.SupervisorHome: {session.RoleAdmin, session.RoleSupervisor, session.RoleManager},
	}
}

// Decision is the outcome of one gate evaluation.
type Decision struct {
	// Session is set when the credential decoded, even if the role was denied.
	Session *session.Session

	// Err is nil when access is granted. Otherwise it is session.ErrCredentialMissing,
	// session.ErrCredentialInvalid or a *session.RoleUnauthorizedError.
	Err error

	// Redirect is where a denied viewer is sent.
	Redirect string
}

// Allowed reports whether access is granted.
func (d Decision) Allowed() bool {
	return d.Err == nil
}

// Reason returns the human-readable denial for a role mismatch, or "" for
// credential errors and granted access.
func (d Decision) Reason() string {
	var roleErr *session.RoleUnauthorizedError
	if errors.As(d.Err, &roleErr) {
		return roleErr.Reason
	}
	return ""
}

// AccessGate guards one view with a required-role check.
//
// Key responsibilities:
//   - Resolving the credential on every evaluation
//   - Redirecting viewers without a usable credential to the entry surface
//   - Denying, with a reason, viewers whose role is not in the allowed set
//
// The gate caches nothing between evaluations.
//
// Example usage:
//
//	gate, _ := services.NewAccessGate(resolver, session.EntryPath, session.RoleDriver)
//	decision := gate.Evaluate(r.Header.Get("Authorization"))
//	if !decision.Allowed() {
//	    http.Redirect(w, r, decision.Redirect, http.StatusSeeOther)
//	    return
//	}
type AccessGate struct {
	resolver  SessionResolver
	entryPath string
	allowed   []session.Role
}

// NewAccessGate creates a gate allowing the given roles.
//
// Returns:
//   - *AccessGate: the gate
//   - error: when resolver is nil or no role is allowed
func NewAccessGate(resolver SessionResolver, entryPath string, allowed ...session.Role) (*AccessGate, error) {
	if resolver == nil {
		return nil, errs.NewValueIsRequiredError("resolver")
	}
	if len(allowed) == 0 {
		return nil, errs.NewValueIsRequiredError("allowed roles")
	}
	if entryPath == "" {
		entryPath = session.EntryPath
	}

	return &AccessGate{
		resolver:  resolver,
		entryPath: entryPath,
		allowed:   append([]session.Role(nil), allowed...),
	}, nil
}

// Evaluate resolves token and checks its role.
//
// Outcomes:
//   - no token: ErrCredentialMissing, redirect to the entry path
//   - undecodable token: ErrCredentialInvalid, redirect to the entry path
//   - role not allowed: *RoleUnauthorizedError with the reason
//     `access denied: role "<r>" may not open this view`, redirect to the entry path
//   - otherwise: allowed, with the resolved Session
func (g *AccessGate) Evaluate(token string) Decision {
	s, err := g.resolver.Resolve(token)
	if err != nil {
		if !session.IsCredentialError(err) {
			err = errors.Join(session.ErrCredentialInvalid, err)
		}
		return Decision{Err: err, Redirect: g.entryPath}
	}

	if !s.Role().IsOneOf(g.allowed...) {
		return Decision{
			Session:  s,
			Err:      session.NewRoleUnauthorizedError(s.Role(), "open this view"),
			Redirect: g.entryPath,
		}
	}

	return Decision{Session: s}
}

// Allows reports whether role may open the guarded view.
func (g *AccessGate) Allows(role session.Role) bool {
	return role.IsOneOf(g.allowed...)
}
