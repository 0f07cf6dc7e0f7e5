package auth

import (
	"context"

	"peerprep/interview/internal/apperrors"
	"peerprep/interview/internal/models"
)

// Principal is the authenticated caller of one operation.
// It is re-read from the store when the request starts and never changes
// while the operation runs.
type Principal struct {
	UserID   uint
	Username string
	Role     models.Role
	Status   models.UserStatus
}

func (p *Principal) IsAdmin() bool {
	return p != nil && (p.Role == models.RoleAdmin || p.Role == models.RoleSuperAdmin)
}

func (p *Principal) IsSuperAdmin() bool {
	return p != nil && p.Role == models.RoleSuperAdmin
}

// Requirement is the gate declared for an operation.
type Requirement int

const (
	// RequireNone marks an operation reachable without logging in.
	RequireNone Requirement = iota
	RequireUser
	RequireAdmin
	RequireSuperAdmin
)

func (r Requirement) String() string {
	switch r {
	case RequireNone:
		return "NONE"
	case RequireUser:
		return string(models.RoleUser)
	case RequireAdmin:
		return string(models.RoleAdmin)
	case RequireSuperAdmin:
		return string(models.RoleSuperAdmin)
	}
	return "UNKNOWN"
}

// Authorize reports whether p satisfies req.
//
// USER is the logged-in floor rather than a role comparison: any active
// principal passes. ADMIN accepts ADMIN and SUPER_ADMIN, SUPER_ADMIN only
// itself. A banned principal fails every gate.
func Authorize(p *Principal, req Requirement) error {
	if req == RequireNone {
		return nil
	}
	if p == nil || p.UserID == 0 {
		return apperrors.ErrUnauthenticated
	}
	if p.Status == models.UserBanned {
		return apperrors.ErrAccountBanned
	}

	switch req {
	case RequireUser:
		return nil
	case RequireAdmin:
		if p.IsAdmin() {
			return nil
		}
	case RequireSuperAdmin:
		if p.IsSuperAdmin() {
			return nil
		}
	}
	return apperrors.PermissionDenied("requires " + req.String())
}

type principalKey struct{}

// WithPrincipal stores p on ctx for the handler layer.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal set by the auth middleware, or nil
// for anonymous callers.
func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}
