package Engine

import (
	"Exchange/Models"
)

// Actor is the already-authenticated caller identity the auth middleware
// resolves before any engine operation runs. The engine never re-checks
// credentials, only role and ownership.
type Actor struct {
	UID      string
	Role     Models.Role
	IsActive bool
}

// SystemActor is used by internal jobs (cron sweeps) that act with admin
// capability but no user identity. Its audit entries carry a null actor.
var SystemActor = Actor{Role: Models.RoleAdmin, IsActive: true}

func (a Actor) IsAdmin() bool {
	return a.Role == Models.RoleAdmin
}

// requireAdmin gates admin-only operations.
func requireAdmin(actor Actor) error {
	if !actor.IsAdmin() {
		return errf(KindForbidden, "this action requires an admin")
	}
	return nil
}

// requireSelfOrAdmin gates operations on a user-owned record: the owner or
// any admin may proceed.
func requireSelfOrAdmin(actor Actor, ownerUID string) error {
	if actor.IsAdmin() || actor.UID == ownerUID {
		return nil
	}
	return errf(KindForbidden, "you do not own this record")
}
