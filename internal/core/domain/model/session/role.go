package session

import "strings"

// Role scopes a session. Unknown roles are kept as they were normalized so a
// denial can name them.
type Role string

const (
	RoleRequester  Role = "requester"
	RoleDriver     Role = "driver"
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleManager    Role = "manager"
)

const (
	// EntryPath is where sessions without a usable credential are sent.
	EntryPath = "/"

	RequesterHome  = "/client"
	DriverHome     = "/driver"
	SupervisorHome = "/admin"
)

// DefaultAliases maps the names issued by the identity service to the engine's roles.
func DefaultAliases() map[string]Role {
	return map[string]Role{
		"cliente":    RoleRequester,
		"client":     RoleRequester,
		"repartidor": RoleDriver,
		"gerente":    RoleManager,
	}
}

// NormalizeRole trims raw, strips a ROLE_ prefix, lower-cases it and maps it
// through aliases. An empty result means raw carried no role.
func NormalizeRole(raw string, aliases map[string]Role) Role {
	name := strings.TrimSpace(raw)
	if len(name) >= len("ROLE_") && strings.EqualFold(name[:len("ROLE_")], "ROLE_") {
		name = name[len("ROLE_"):]
	}
	name = strings.ToLower(strings.TrimSpace(name))

	if alias, ok := aliases[name]; ok {
		return alias
	}
	return Role(name)
}

func (r Role) String() string {
	return string(r)
}

// HomePath returns the view a session with this role lands on.
func (r Role) HomePath() string {
	switch r {
	case RoleRequester:
		return RequesterHome
	case RoleDriver:
		return DriverHome
	case RoleAdmin, RoleSupervisor, RoleManager:
		return SupervisorHome
	default:
		return EntryPath
	}
}

// IsOneOf reports whether r is in allowed.
func (r Role) IsOneOf(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
