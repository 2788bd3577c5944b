// Package queries contains read operations that resolve state from the backends
// without changing it. Queries return read models for a single view.
package queries

import (
	"errors"

	"logiflow/internal/pkg/guard"
)

var (
	ErrResolveDriverQueryIsNotConstructed = errors.New(
		"ResolveDriverQuery must be created via NewResolveDriverQuery constructor",
	)
)

// ResolveDriverQuery finds the driver profile and vehicle of the session's user.
// The driver view runs it once when it mounts and keeps the result for the session.
//
// Example:
//
//	query := NewResolveDriverQuery()
//	handler := NewResolveDriverQueryHandler(fleetService, logger)
//
//	assignment, err := handler.Handle(ctx, s, query)
//	if err != nil {
//	    return fmt.Errorf("failed to resolve driver: %w", err)
//	}
//	if !assignment.HasVehicle() {
//	    // the driver may browse pending orders but not take them
//	}
type ResolveDriverQuery struct {
	guard guard.ConstructorGuard
}

// NewResolveDriverQuery creates a parameterless query: the driver is the session's user.
func NewResolveDriverQuery() ResolveDriverQuery {
	return ResolveDriverQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrResolveDriverQueryIsNotConstructed if validation fails.
func (q ResolveDriverQuery) Validate() error {
	return q.guard.Validate(ErrResolveDriverQueryIsNotConstructed)
}
