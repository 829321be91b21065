// ABOUTME: Ordered role hierarchy and role-based authorization middleware
// ABOUTME: viewer < writer < editor < admin, minimum level taken from the allowed set

package auth

import (
	"fmt"
	"net/http"
)

// Role is a rung on the ordered permission ladder.
type Role int

// Roles in ascending order of privilege.
const (
	RoleViewer Role = iota + 1
	RoleWriter
	RoleEditor
	RoleAdmin
)

// roleLabels maps role labels as stored on accounts to ladder positions.
var roleLabels = map[string]Role{
	"viewer": RoleViewer,
	"writer": RoleWriter,
	"editor": RoleEditor,
	"admin":  RoleAdmin,
}

// String returns the stored label for the role.
func (r Role) String() string {
	switch r {
	case RoleViewer:
		return "viewer"
	case RoleWriter:
		return "writer"
	case RoleEditor:
		return "editor"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole converts a stored role label to a Role. The second return is
// false for labels outside the closed set.
func ParseRole(label string) (Role, bool) {
	r, ok := roleLabels[label]
	return r, ok
}

// RequireRole creates middleware that admits only users whose role meets
// the highest level among the given roles. Must be used after the identity
// middleware. An account carrying a label outside the closed role set is
// refused even if the route would admit everyone.
func RequireRole(roles ...Role) func(http.Handler) http.Handler {
	required := RoleViewer
	for _, r := range roles {
		if r > required {
			required = r
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := FromContext(r.Context())
			if user == nil {
				writeAuthError(w, Unauthorized(MsgTokenInvalid))
				return
			}

			level, ok := ParseRole(user.Role)
			if !ok {
				writeAuthError(w, Forbidden("invalid role on account"))
				return
			}

			if level < required {
				writeAuthError(w, Forbidden(fmt.Sprintf("requires %s role or higher", required)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoleNames is RequireRole for role labels, for callers wiring
// routes from configuration. It fails fast on an unknown label instead of
// silently weakening the check.
func RequireRoleNames(names ...string) (func(http.Handler) http.Handler, error) {
	roles := make([]Role, 0, len(names))
	for _, name := range names {
		r, ok := ParseRole(name)
		if !ok {
			return nil, fmt.Errorf("unknown role %q", name)
		}
		roles = append(roles, r)
	}
	return RequireRole(roles...), nil
}
