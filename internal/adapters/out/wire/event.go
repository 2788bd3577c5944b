package wire

import (
	"bytes"
	"encoding/json"
	"fmt"

	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"
)

// OrdersUpdateEvent is the only event name the engine consumes.
const OrdersUpdateEvent = "orders_update"

// Envelope is the push frame: {"event": "...", "data": ...}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// DecodeEvent turns a push payload into an order event.
//
// The payload is either an Envelope or a bare data value. Data forms:
//   - empty, null or {}: signal without an order id
//   - a number or a string: signal for that order id
//   - an object with an id but no status: signal for that id
//   - a full order object: the record itself
//
// ok is false for envelopes naming another event.
func DecodeEvent(payload []byte) (event ports.OrderEvent, ok bool, err error) {
	data := bytes.TrimSpace(payload)

	if isObject(data) {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(data, &probe); err != nil {
			return ports.OrderEvent{}, false, errs.NewValueIsInvalidErrorWithCause("event", err)
		}
		if _, found := probe["event"]; found {
			var env Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				return ports.OrderEvent{}, false, errs.NewValueIsInvalidErrorWithCause("event", err)
			}
			if env.Event != OrdersUpdateEvent {
				return ports.OrderEvent{}, false, nil
			}
			data = bytes.TrimSpace(env.Data)
		}
	}

	event, err = decodeData(data)
	if err != nil {
		return ports.OrderEvent{}, false, err
	}
	return event, true, nil
}

func decodeData(data []byte) (ports.OrderEvent, error) {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return ports.OrderEvent{}, nil
	}

	if !isObject(data) {
		var id kernel.ID
		if err := json.Unmarshal(data, &id); err != nil {
			return ports.OrderEvent{}, errs.NewValueIsInvalidErrorWithCause("event data", err)
		}
		return ports.OrderEvent{OrderID: id}, nil
	}

	var dto OrderDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return ports.OrderEvent{}, errs.NewValueIsInvalidErrorWithCause("event data", err)
	}
	if dto.ID.IsZero() || dto.Status == "" {
		return ports.OrderEvent{OrderID: dto.ID}, nil
	}

	o, err := dto.ToDomain()
	if err != nil {
		return ports.OrderEvent{}, fmt.Errorf("decode event: %w", err)
	}
	return ports.OrderEvent{OrderID: o.ID(), Order: o}, nil
}

func isObject(data []byte) bool {
	return len(data) > 0 && data[0] == '{'
}
