package auth

import (
	"peerprep/interview/internal/apperrors"
	"peerprep/interview/internal/models"
)

// CanMutate reports whether p may edit or delete a record written by
// authorID: its author, or any admin.
func CanMutate(p *Principal, authorID uint) bool {
	if p == nil {
		return false
	}
	return p.UserID == authorID || p.IsAdmin()
}

// CanSetUserStatus guards ban/unban. Admins may only act on regular users;
// super admins may act on anyone but themselves.
func CanSetUserStatus(p *Principal, targetID uint, targetRole models.Role) error {
	switch {
	case p == nil:
		return apperrors.ErrUnauthenticated
	case p.IsSuperAdmin():
		if p.UserID == targetID {
			return apperrors.PermissionDenied("cannot change your own status")
		}
		return nil
	case p.Role == models.RoleAdmin:
		if targetRole != models.RoleUser {
			return apperrors.PermissionDenied("admins can only manage regular users")
		}
		return nil
	}
	return apperrors.PermissionDenied("requires " + RequireAdmin.String())
}

// CanUpdateUser guards profile/role edits by a super admin. On their own
// record a super admin may not touch role or status.
func CanUpdateUser(p *Principal, targetID uint, changesRole, changesStatus bool) error {
	if !p.IsSuperAdmin() {
		return apperrors.PermissionDenied("requires " + RequireSuperAdmin.String())
	}
	if p.UserID == targetID && (changesRole || changesStatus) {
		return apperrors.PermissionDenied("cannot change your own role or status")
	}
	return nil
}

// CanDeleteUser guards account deletion. Self-deletion is always refused.
func CanDeleteUser(p *Principal, targetID uint) error {
	if !p.IsSuperAdmin() {
		return apperrors.PermissionDenied("requires " + RequireSuperAdmin.String())
	}
	if p.UserID == targetID {
		return apperrors.PermissionDenied("cannot delete yourself")
	}
	return nil
}
