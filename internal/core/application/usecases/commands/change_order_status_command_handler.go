package commands

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/core/domain/services"
	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"
)

// DefaultReservationTTL bounds how long a settled assignment keeps its vehicle
// reserved while the board has not confirmed it.
const DefaultReservationTTL = 30 * time.Second

// reservation marks a vehicle as taken by an assignment the board may not show yet.
// record is the cached order the assignment started from; a different record for
// the same order means the board has heard from the backend since.
type reservation struct {
	orderID  kernel.ID
	record   *order.Order
	inFlight bool
	since    time.Time
}

// partialBind remembers a bind whose status step has not succeeded yet.
type partialBind struct {
	vehicleID kernel.ID
	record    *order.Order
	since     time.Time
}

// ChangeOrderStatusCommandHandler runs the driver's "bind vehicle, then advance
// status" saga.
//
// Local checks, all before any network call:
//   - the board has a session and the role may transition orders
//   - the order is on the board
//   - the transition is an edge of the state machine and, for an active order,
//     the driver holds the bound vehicle
//   - an assignment needs a vehicle and a vehicle with no other active, in-flight
//     or reserved order
//
// Saga:
//  1. Bind (Assigned only). Skipped when the order is already bound to the vehicle
//     or a previous run bound it. Failure: *AssignmentFailedError, nothing to undo.
//  2. Status. Never issued before the bind outcome is known. Failure:
//     *StatusUpdateFailedError; for an assignment the order stays bound and the
//     next run skips the bind.
//
// The handler never touches the cache. It asks the board to expect the target
// status so the push event, or the fallback re-fetch, brings the confirmed record.
// Service calls run on a context detached from the caller's: a viewer leaving the
// page does not cancel a started saga.
//
// Example:
//
//	handler := NewChangeOrderStatusCommandHandler(orderService, logger)
//	cmd, _ := NewChangeOrderStatusCommand(orderID, order.Assigned)
//	err := handler.Handle(ctx, driverBoard, cmd)
//	switch {
//	case errors.Is(err, order.ErrCapacityExceeded):
//	    // finish the current order first
//	case errors.Is(err, ErrStatusUpdateFailed):
//	    // retry; the bind will be skipped
//	}
type ChangeOrderStatusCommandHandler struct {
	orders ports.OrderService
	policy services.CapacityPolicy
	logger *slog.Logger
	ttl    time.Duration
	now    func() time.Time

	mu           sync.Mutex
	reservations map[kernel.ID]reservation
	partial      map[kernel.ID]partialBind
}

// NewChangeOrderStatusCommandHandler creates the saga handler. One handler is
// shared by every driver view so reservations hold across devices.
func NewChangeOrderStatusCommandHandler(orders ports.OrderService, logger *slog.Logger) *ChangeOrderStatusCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChangeOrderStatusCommandHandler{
		orders:       orders,
		policy:       services.NewCapacityPolicy(),
		logger:       logger.With("component", "change-order-status"),
		ttl:          DefaultReservationTTL,
		now:          time.Now,
		reservations: make(map[kernel.ID]reservation),
		partial:      make(map[kernel.ID]partialBind),
	}
}

// Handle validates cmd against board and runs the saga.
func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, board DriverBoard, cmd ChangeOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if board == nil || board.Session() == nil {
		return session.ErrCredentialMissing
	}

	s := board.Session()
	if !s.CanTransitionOrders() {
		return session.NewRoleUnauthorizedError(s.Role(), "change order status")
	}

	orderID, target := cmd.OrderID(), cmd.Target()
	current, ok := board.Order(orderID)
	if !ok {
		return errs.NewObjectNotFoundError("order", orderID)
	}

	vehicleID := board.Assignment().VehicleID()
	if err := current.CheckTransition(target, vehicleID); err != nil {
		return err
	}

	ctx = context.WithoutCancel(ctx)
	log := h.logger.With("order_id", orderID.String(), "target", target.String(), "vehicle_id", vehicleID.String())

	if target == order.Assigned {
		if err := h.reserve(current, vehicleID, board.Orders()); err != nil {
			return err
		}
		return h.assign(ctx, log, board, current, vehicleID)
	}

	if err := h.orders.SetStatus(ctx, s, orderID, target); err != nil {
		board.Expect(orderID, target)
		log.WarnContext(ctx, "status update failed", "error", err)
		return NewStatusUpdateFailedError(orderID, target, err)
	}

	board.Expect(orderID, target)
	log.InfoContext(ctx, "order status changed")
	return nil
}

func (h *ChangeOrderStatusCommandHandler) assign(
	ctx context.Context,
	log *slog.Logger,
	board DriverBoard,
	current *order.Order,
	vehicleID kernel.ID,
) error {
	s := board.Session()
	orderID := current.ID()

	if current.IsBoundTo(vehicleID) || h.isPartial(orderID, vehicleID) {
		log.InfoContext(ctx, "vehicle already bound, skipping bind")
	} else {
		if err := h.orders.BindVehicle(ctx, s, orderID, vehicleID); err != nil {
			h.release(vehicleID, orderID)
			log.WarnContext(ctx, "vehicle bind failed", "error", err)
			return NewAssignmentFailedError(orderID, vehicleID, err)
		}
		h.markPartial(current, vehicleID)
	}

	if err := h.orders.SetStatus(ctx, s, orderID, order.Assigned); err != nil {
		h.settle(vehicleID, orderID)
		board.Expect(orderID, order.Assigned)
		log.WarnContext(ctx, "status update failed after bind", "error", err)

		failure := NewStatusUpdateFailedError(orderID, order.Assigned, err)
		failure.VehicleID = vehicleID
		failure.VehicleBound = true
		return failure
	}

	h.clearPartial(orderID)
	h.settle(vehicleID, orderID)
	board.Expect(orderID, order.Assigned)
	log.InfoContext(ctx, "order assigned")
	return nil
}

// reserve runs the capacity check and marks the vehicle as taken, atomically.
func (h *ChangeOrderStatusCommandHandler) reserve(target *order.Order, vehicleID kernel.ID, orders []*order.Order) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.prune(vehicleID, orders)

	var reserved []kernel.ID
	if r, ok := h.reservations[vehicleID]; ok {
		reserved = append(reserved, r.orderID)
	}
	if err := h.policy.Check(target.ID(), vehicleID, orders, reserved); err != nil {
		return err
	}

	h.reservations[vehicleID] = reservation{orderID: target.ID(), record: target, inFlight: true, since: h.now()}
	return nil
}

// prune forgets settled reservations and partial binds that the board has
// overtaken or that outlived the TTL. Callers hold h.mu.
func (h *ChangeOrderStatusCommandHandler) prune(vehicleID kernel.ID, orders []*order.Order) {
	for orderID, p := range h.partial {
		cached := findOrder(orders, orderID)
		moved := cached != nil && (cached.Status() != order.Pending || overtaken(cached, p.record, p.vehicleID))
		if moved || h.expired(p.since) {
			delete(h.partial, orderID)
		}
	}

	r, ok := h.reservations[vehicleID]
	if !ok || r.inFlight {
		return
	}

	cached := findOrder(orders, r.orderID)
	moved := cached != nil && (cached.OccupiesVehicle(vehicleID) || overtaken(cached, r.record, vehicleID))
	if moved || h.expired(r.since) {
		delete(h.reservations, vehicleID)
		if p, ok := h.partial[r.orderID]; ok && p.vehicleID.IsEqual(vehicleID) {
			delete(h.partial, r.orderID)
		}
	}
}

func (h *ChangeOrderStatusCommandHandler) expired(since time.Time) bool {
	return h.now().Sub(since) > h.ttl
}

// overtaken reports whether cached shows that the assignment of vehicleID started
// from record no longer holds: the order finished, moved to another vehicle, or a
// newer record shows it Pending with no vehicle.
func overtaken(cached, record *order.Order, vehicleID kernel.ID) bool {
	switch {
	case cached.Status().IsTerminal():
		return true
	case cached.HasVehicle() && !cached.IsBoundTo(vehicleID):
		return true
	case cached != record && cached.Status() == order.Pending && !cached.HasVehicle():
		return true
	default:
		return false
	}
}

func findOrder(orders []*order.Order, id kernel.ID) *order.Order {
	for _, o := range orders {
		if o.ID().IsEqual(id) {
			return o
		}
	}
	return nil
}

func (h *ChangeOrderStatusCommandHandler) release(vehicleID, orderID kernel.ID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if r, ok := h.reservations[vehicleID]; ok && r.orderID.IsEqual(orderID) {
		delete(h.reservations, vehicleID)
	}
}

func (h *ChangeOrderStatusCommandHandler) settle(vehicleID, orderID kernel.ID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if r, ok := h.reservations[vehicleID]; ok && r.orderID.IsEqual(orderID) {
		r.inFlight, r.since = false, h.now()
		h.reservations[vehicleID] = r
	}
}

func (h *ChangeOrderStatusCommandHandler) markPartial(record *order.Order, vehicleID kernel.ID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.partial[record.ID()] = partialBind{vehicleID: vehicleID, record: record, since: h.now()}
}

func (h *ChangeOrderStatusCommandHandler) clearPartial(orderID kernel.ID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.partial, orderID)
}

func (h *ChangeOrderStatusCommandHandler) isPartial(orderID, vehicleID kernel.ID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.partial[orderID]
	return ok && p.vehicleID.IsEqual(vehicleID)
}
