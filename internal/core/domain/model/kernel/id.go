package kernel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"logiflow/internal/pkg/errs"
)

// ErrIDIsNotConstructed is returned when validating the zero ID.
var ErrIDIsNotConstructed = errs.NewValueIsRequiredError("ID must be created via NewID or IDFromInt")

// ID identifies orders, vehicles, drivers and users. The backend services assign
// them and the engine never interprets them: an ID is compared, printed and sent
// back, nothing else. On the wire it may be a JSON number or a JSON string.
//
// ID is comparable and can be used as a map key.
//
// Example:
//
//	id, err := kernel.NewID("42")
//	if err != nil {
//	    // empty or blank input
//	}
//	same := kernel.IDFromInt(42)
//	fmt.Println(id.IsEqual(same)) // true
type ID struct {
	value string
}

// NewID creates an ID from its textual form. Surrounding whitespace is dropped;
// a blank value is rejected.
func NewID(value string) (ID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return ID{}, errs.NewValueIsRequiredError("id")
	}
	return ID{value: value}, nil
}

// IDFromInt creates an ID from a numeric identifier.
func IDFromInt(value int64) ID {
	return ID{value: strconv.FormatInt(value, 10)}
}

// String returns the textual form of the ID, or "" for the zero value.
func (id ID) String() string {
	return id.value
}

// IsZero reports whether the ID is the zero value.
func (id ID) IsZero() bool {
	return id.value == ""
}

// IsEqual compares two IDs.
func (id ID) IsEqual(other ID) bool {
	return id.value == other.value
}

// Validate returns ErrIDIsNotConstructed for the zero ID.
func (id ID) Validate() error {
	if id.IsZero() {
		return ErrIDIsNotConstructed
	}
	return nil
}

// MarshalJSON writes numeric IDs as JSON numbers and everything else as strings,
// so an ID read from a service is written back in the same shape.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(id.value, 10, 64); err == nil {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON accepts a JSON number, a JSON string or null (zero ID).
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ID{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("id", err)
		}
		*id = ID{value: strings.TrimSpace(s)}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%s is neither a number nor a string", data))
	}
	*id = ID{value: n.String()}
	return nil
}
