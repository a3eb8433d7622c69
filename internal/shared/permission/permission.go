package permission

// Package permission implements the per-route access decision for the API.
// The gate is a plain value passed into route setup - no global state - so
// every decision is a pure function of (capability, caller) and can be unit
// tested in isolation.

// State describes the authentication state of a caller.
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// Capability is a named right that a route requires.
// Read routes require CapView; write routes require one of the
// create/edit/delete capabilities.
type Capability string

const (
	CapView   Capability = "view"
	CapCreate Capability = "create"
	CapEdit   Capability = "edit"
	CapDelete Capability = "delete"
)

// Role names recognized by the optional role overlay.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// Decision is the terminal outcome of a gate check. Denials are explicit and
// distinct - a denied request is aborted before touching the record store,
// never silently downgraded to an empty result.
type Decision int

const (
	Allow Decision = iota
	// DenyUnauthenticated - caller is anonymous and the capability requires
	// authentication (HTTP 401).
	DenyUnauthenticated
	// DenyForbidden - caller is authenticated but its role lacks the
	// capability (HTTP 403).
	DenyForbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	case DenyForbidden:
		return "deny_forbidden"
	default:
		return "unknown"
	}
}

// Caller carries the auth state supplied by the authentication collaborator.
// Role is empty when the token carries none.
type Caller struct {
	State State
	Role  Role
}

// Anonymous returns the caller used when no credentials are presented.
func Anonymous() Caller {
	return Caller{State: StateAnonymous}
}

// Gate decides, per capability and caller state, whether a request may
// proceed.
//
// Default policy: view is allowed for everyone; create/edit/delete require an
// authenticated caller. When a role overlay is configured, the narrower of
// (default policy, role capability set) applies: an authenticated caller
// whose role lacks the capability is denied with DenyForbidden.
type Gate struct {
	overlay map[Role]map[Capability]bool
}

// NewGate returns a gate with the default policy and no role overlay.
func NewGate() Gate {
	return Gate{}
}

// NewGateWithRoles returns a gate with the standard role overlay:
// viewer may only view, editor may view/create/edit, admin may do everything.
func NewGateWithRoles() Gate {
	g := Gate{}
	g = g.WithRole(RoleViewer, CapView)
	g = g.WithRole(RoleEditor, CapView, CapCreate, CapEdit)
	g = g.WithRole(RoleAdmin, CapView, CapCreate, CapEdit, CapDelete)
	return g
}

// WithRole returns a copy of the gate with caps granted to role.
func (g Gate) WithRole(role Role, caps ...Capability) Gate {
	overlay := make(map[Role]map[Capability]bool, len(g.overlay)+1)
	for r, cs := range g.overlay {
		overlay[r] = cs
	}
	set := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		set[c] = true
	}
	overlay[role] = set
	return Gate{overlay: overlay}
}

// HasOverlay reports whether a role overlay is configured.
func (g Gate) HasOverlay() bool {
	return len(g.overlay) > 0
}

// Decide returns the terminal outcome for the capability and caller.
func (g Gate) Decide(cap Capability, caller Caller) Decision {
	// Reads are open to everyone under the default policy, but a configured
	// overlay can still narrow them for authenticated callers with a role.
	if cap == CapView {
		if g.HasOverlay() && caller.State == StateAuthenticated && caller.Role != "" {
			if !g.roleAllows(caller.Role, cap) {
				return DenyForbidden
			}
		}
		return Allow
	}

	// Writes always require authentication first.
	if caller.State != StateAuthenticated {
		return DenyUnauthenticated
	}

	if g.HasOverlay() {
		if !g.roleAllows(caller.Role, cap) {
			return DenyForbidden
		}
	}

	return Allow
}

func (g Gate) roleAllows(role Role, cap Capability) bool {
	caps, ok := g.overlay[role]
	if !ok {
		// Unknown role grants nothing under an overlay.
		return false
	}
	return caps[cap]
}
