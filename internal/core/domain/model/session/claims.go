package session

import (
	"encoding/json"
	"math"
	"strings"

	"logiflow/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
)

// RoleExtractor reads a raw role name from a claim set. ok is false when the
// claim set has nothing usable for this extractor.
type RoleExtractor interface {
	Extract(claims jwt.MapClaims) (raw string, ok bool)
}

// ClaimExtractor reads the role from the named claim. The claim value may be:
//   - a string: "driver"
//   - an array of strings: ["ROLE_DRIVER", "ROLE_USER"] (first non-blank wins)
//   - an array of objects: [{"authority": "ROLE_DRIVER"}] (first non-blank wins)
type ClaimExtractor string

func (c ClaimExtractor) Extract(claims jwt.MapClaims) (string, bool) {
	v, ok := claims[string(c)]
	if !ok {
		return "", false
	}
	return firstRoleName(v)
}

func firstRoleName(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return "", false
		}
		return t, true
	case []any:
		for _, item := range t {
			if name, ok := roleNameOf(item); ok {
				return name, true
			}
		}
	case []string:
		for _, item := range t {
			if strings.TrimSpace(item) != "" {
				return item, true
			}
		}
	}
	return "", false
}

func roleNameOf(item any) (string, bool) {
	switch t := item.(type) {
	case string:
		if strings.TrimSpace(t) != "" {
			return t, true
		}
	case map[string]any:
		if authority, ok := t["authority"].(string); ok && strings.TrimSpace(authority) != "" {
			return authority, true
		}
	}
	return "", false
}

// idClaim reads an identifier that may be encoded as a JSON number or a string.
func idClaim(claims jwt.MapClaims, key string) (kernel.ID, bool) {
	switch t := claims[key].(type) {
	case json.Number:
		id, err := kernel.NewID(t.String())
		return id, err == nil
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return kernel.ID{}, false
		}
		return kernel.IDFromInt(int64(t)), true
	case string:
		id, err := kernel.NewID(t)
		return id, err == nil
	default:
		return kernel.ID{}, false
	}
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return strings.TrimSpace(s)
}
