package session

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentialMissing is returned when no bearer credential is present.
	ErrCredentialMissing = errors.New("credential missing")

	// ErrCredentialInvalid is returned when a credential cannot be decoded.
	ErrCredentialInvalid = errors.New("credential invalid")

	// ErrRoleUnauthorized is returned when the session's role may not perform an action.
	ErrRoleUnauthorized = errors.New("role unauthorized")
)

// RoleUnauthorizedError carries a human-readable reason for a denial.
type RoleUnauthorizedError struct {
	Role   Role
	Reason string
}

// NewRoleUnauthorizedError builds a denial for role. action completes the sentence
// "access denied: role "<r>" may not ...".
func NewRoleUnauthorizedError(role Role, action string) *RoleUnauthorizedError {
	return &RoleUnauthorizedError{
		Role:   role,
		Reason: fmt.Sprintf("access denied: role %q may not %s", string(role), action),
	}
}

func (e *RoleUnauthorizedError) Error() string {
	return e.Reason
}

func (e *RoleUnauthorizedError) Unwrap() error {
	return ErrRoleUnauthorized
}
