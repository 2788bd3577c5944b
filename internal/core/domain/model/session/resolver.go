package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"logiflow/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultClaimKeys is the default role extractor order.
var DefaultClaimKeys = []string{"role", "roles", "authorities"}

// ResolverConfig makes claim naming a configuration concern.
type ResolverConfig struct {
	// ClaimKeys lists the claims read for the role, first match wins.
	ClaimKeys []string

	// DefaultRole applies when no claim yields a role.
	DefaultRole Role

	// Aliases maps normalized claim values to roles.
	Aliases map[string]Role
}

// DefaultResolverConfig returns role, roles, authorities, falling back to requester.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		ClaimKeys:   append([]string(nil), DefaultClaimKeys...),
		DefaultRole: RoleRequester,
		Aliases:     DefaultAliases(),
	}
}

// ParseAliases parses "cliente=requester,repartidor=driver" into an alias table.
func ParseAliases(s string) (map[string]Role, error) {
	aliases := make(map[string]Role)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		from, to, ok := strings.Cut(pair, "=")
		from = strings.ToLower(strings.TrimSpace(from))
		to = strings.ToLower(strings.TrimSpace(to))
		if !ok || from == "" || to == "" {
			return nil, errs.NewValueIsInvalidErrorWithCause("role alias", fmt.Errorf("%q is not name=role", pair))
		}
		aliases[from] = Role(to)
	}
	return aliases, nil
}

// Resolver turns a bearer credential into a Session. It performs no network calls
// and holds no state besides its configuration, so it is safe for concurrent use.
type Resolver struct {
	extractors  []RoleExtractor
	defaultRole Role
	aliases     map[string]Role
	parser      *jwt.Parser
}

// NewResolver builds a Resolver from cfg. An empty claim list or default role
// falls back to DefaultResolverConfig.
func NewResolver(cfg ResolverConfig) *Resolver {
	defaults := DefaultResolverConfig()
	if len(cfg.ClaimKeys) == 0 {
		cfg.ClaimKeys = defaults.ClaimKeys
	}
	if cfg.Aliases == nil {
		cfg.Aliases = defaults.Aliases
	}

	extractors := make([]RoleExtractor, 0, len(cfg.ClaimKeys))
	for _, key := range cfg.ClaimKeys {
		if key = strings.TrimSpace(key); key != "" {
			extractors = append(extractors, ClaimExtractor(key))
		}
	}

	defaultRole := NormalizeRole(string(cfg.DefaultRole), cfg.Aliases)
	if defaultRole == "" {
		defaultRole = defaults.DefaultRole
	}

	return &Resolver{
		extractors:  extractors,
		defaultRole: defaultRole,
		aliases:     cfg.Aliases,
		parser:      jwt.NewParser(jwt.WithPaddingAllowed()),
	}
}

// Resolve decodes the claim segment of raw. Neither the header nor the
// signature is read.
//
// Returns:
//   - ErrCredentialMissing for an empty credential
//   - ErrCredentialInvalid (wrapping the decode error) for anything that is not a
//     well-formed token with a JSON claim set
//   - the Session otherwise
//
// Example:
//
//	s, err := resolver.Resolve("Bearer eyJhbGciOi...")
//	if errors.Is(err, session.ErrCredentialInvalid) {
//	    // treat as logged out
//	}
//	fmt.Println(s.HomePath()) // "/driver"
func (r *Resolver) Resolve(raw string) (*Session, error) {
	token := StripBearer(raw)
	if token == "" {
		return nil, ErrCredentialMissing
	}

	claims, err := r.decodeClaims(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCredentialInvalid, err)
	}

	role := r.roleOf(claims)
	displayName := stringClaim(claims, "sub")

	userID, ok := idClaim(claims, "userId")
	if !ok {
		userID, ok = idClaim(claims, "id")
	}
	if !ok && role == RoleRequester {
		userID, _ = idClaim(claims, "sub")
	}

	return NewSession(token, role, displayName, userID), nil
}

func (r *Resolver) decodeClaims(token string) (jwt.MapClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: token contains an invalid number of segments", jwt.ErrTokenMalformed)
	}

	segment, err := r.parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: could not base64 decode claim: %w", jwt.ErrTokenMalformed, err)
	}

	var claims jwt.MapClaims
	dec := json.NewDecoder(bytes.NewReader(segment))
	dec.UseNumber()
	if err := dec.Decode(&claims); err != nil {
		return nil, fmt.Errorf("%w: could not JSON decode claim: %w", jwt.ErrTokenMalformed, err)
	}
	if claims == nil {
		return nil, fmt.Errorf("%w: claim set is empty", jwt.ErrTokenMalformed)
	}
	return claims, nil
}

// RoleOf resolves only the role. Decode failures are reported as ErrCredentialInvalid.
func (r *Resolver) RoleOf(raw string) (Role, error) {
	s, err := r.Resolve(raw)
	if err != nil {
		return "", err
	}
	return s.Role(), nil
}

func (r *Resolver) roleOf(claims jwt.MapClaims) Role {
	for _, extractor := range r.extractors {
		raw, ok := extractor.Extract(claims)
		if !ok {
			continue
		}
		if role := NormalizeRole(raw, r.aliases); role != "" {
			return role
		}
	}
	return r.defaultRole
}

// StripBearer removes surrounding whitespace and an optional "Bearer " prefix.
func StripBearer(raw string) string {
	token := strings.TrimSpace(raw)
	const prefix = "bearer"
	if len(token) >= len(prefix) && strings.EqualFold(token[:len(prefix)], prefix) &&
		(len(token) == len(prefix) || token[len(prefix)] == ' ') {
		token = strings.TrimSpace(token[len(prefix):])
	}
	return token
}

// IsCredentialError reports whether err means the viewer has no usable credential.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrCredentialMissing) || errors.Is(err, ErrCredentialInvalid)
}
