package services

import (
	"context"
	"errors"
	"strings"

	"peerprep/interview/internal/apperrors"
	"peerprep/interview/internal/auth"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var hashPassword = func(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

type UserAdminService struct {
	Deps
}

func NewUserAdminService(deps Deps) *UserAdminService {
	return &UserAdminService{Deps: deps.normalize()}
}

// UserPatch is a super admin edit. Nil fields are left alone.
type UserPatch struct {
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// BatchItemResult reports the outcome for one id of a batch operation.
type BatchItemResult struct {
	UserID  uint   `json:"userId"`
	OK      bool   `json:"ok"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *UserAdminService) GetProfile(ctx context.Context, p *auth.Principal) (*models.User, error) {
	if err := auth.Check(p, auth.OpProfile); err != nil {
		return nil, err
	}
	return s.Store.WithContext(ctx).Users().GetUserByID(p.UserID)
}

func (s *UserAdminService) ListUsers(ctx context.Context, p *auth.Principal, keyword, role string, params models.PaginationParams) (models.Page[models.User], error) {
	if err := auth.Check(p, auth.OpListUsers); err != nil {
		return models.Page[models.User]{}, err
	}
	r := models.Role(strings.ToUpper(strings.TrimSpace(role)))
	if r != "" && !r.Valid() {
		return models.Page[models.User]{}, apperrors.Validation("unknown role")
	}
	params = params.Normalize()
	users, total, err := s.Store.WithContext(ctx).Users().ListUsers(strings.TrimSpace(keyword), r, params)
	if err != nil {
		return models.Page[models.User]{}, err
	}
	return models.NewPage(users, int(total), params), nil
}

// SetUserStatus bans or unbans a user. Admins may only act on regular
// users; super admins on anyone but themselves.
func (s *UserAdminService) SetUserStatus(ctx context.Context, p *auth.Principal, targetID uint, status string) (*models.User, error) {
	if err := auth.Check(p, auth.OpSetUserStatus); err != nil {
		return nil, err
	}
	st := models.UserStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !st.Valid() {
		return nil, apperrors.Validation("status must be ACTIVE or BANNED")
	}
	var out *models.User
	err := s.Store.Transaction(ctx, func(tx *repositories.Store) error {
		target, err := lockUser(tx, targetID)
		if err != nil {
			return err
		}
		if err := auth.CanSetUserStatus(p, targetID, target.Role); err != nil {
			return err
		}
		out, err = tx.Users().UpdateUser(targetID, map[string]any{"status": st})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("user status changed", zap.Uint("target", targetID), zap.String("status", string(st)), zap.Uint("operator", p.UserID))
	return out, nil
}

// UpdateUser edits any account. On their own account a super admin may
// not change role or status.
func (s *UserAdminService) UpdateUser(ctx context.Context, p *auth.Principal, targetID uint, patch UserPatch) (*models.User, error) {
	if err := auth.Check(p, auth.OpUpdateUser); err != nil {
		return nil, err
	}
	var out *models.User
	err := s.Store.Transaction(ctx, func(tx *repositories.Store) error {
		target, err := lockUser(tx, targetID)
		if err != nil {
			return err
		}

		updates := map[string]any{}
		changesRole, changesStatus := false, false
		if patch.Role != nil {
			role := models.Role(strings.ToUpper(strings.TrimSpace(*patch.Role)))
			if !role.Valid() {
				return apperrors.Validation("unknown role")
			}
			if role != target.Role {
				changesRole = true
				updates["role"] = role
			}
		}
		if patch.Status != nil {
			st := models.UserStatus(strings.ToUpper(strings.TrimSpace(*patch.Status)))
			if !st.Valid() {
				return apperrors.Validation("status must be ACTIVE or BANNED")
			}
			if st != target.Status {
				changesStatus = true
				updates["status"] = st
			}
		}
		if err := auth.CanUpdateUser(p, targetID, changesRole, changesStatus); err != nil {
			return err
		}

		if patch.Email != nil {
			email := strings.TrimSpace(*patch.Email)
			if !strings.Contains(email, "@") {
				return apperrors.Validation("invalid email")
			}
			other, err := tx.Users().FindAnyByEmail(email)
			switch {
			case err == nil && other.ID != targetID:
				return apperrors.ErrUserAlreadyExists.WithMessage("email already in use")
			case err != nil && !errors.Is(err, repositories.ErrUserNotFound):
				return err
			}
			updates["email"] = email
		}
		if patch.Phone != nil {
			updates["phone"] = strings.TrimSpace(*patch.Phone)
		}

		out, err = tx.Users().UpdateUser(targetID, updates)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("user updated", zap.Uint("target", targetID), zap.Uint("operator", p.UserID))
	return out, nil
}

func (s *UserAdminService) DeleteUser(ctx context.Context, p *auth.Principal, targetID uint) error {
	if err := auth.Check(p, auth.OpDeleteUser); err != nil {
		return err
	}
	if err := auth.CanDeleteUser(p, targetID); err != nil {
		return err
	}
	if err := s.Store.WithContext(ctx).Users().DeleteUser(targetID); err != nil {
		return err
	}
	s.Logger.Info("user deleted", zap.Uint("target", targetID), zap.Uint("operator", p.UserID))
	return nil
}

// BatchDeleteUsers fails as a whole when any id does not exist. Otherwise
// every id gets its own result, so refusing to delete the caller does not
// stop the others.
func (s *UserAdminService) BatchDeleteUsers(ctx context.Context, p *auth.Principal, ids []uint) ([]BatchItemResult, error) {
	if err := auth.Check(p, auth.OpBatchDeleteUsers); err != nil {
		return nil, err
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, apperrors.Validation("userIds must not be empty")
	}

	results := make([]BatchItemResult, 0, len(ids))
	err := s.Store.Transaction(ctx, func(tx *repositories.Store) error {
		users, err := tx.Users().GetUsersByIDs(ids)
		if err != nil {
			return err
		}
		if len(users) != len(ids) {
			return repositories.ErrUserNotFound
		}
		for _, id := range ids {
			if err := auth.CanDeleteUser(p, id); err != nil {
				results = append(results, failed(id, err))
				continue
			}
			if err := tx.Users().DeleteUser(id); err != nil {
				return err
			}
			results = append(results, BatchItemResult{UserID: id, OK: true, Code: apperrors.CodeSuccess, Message: "deleted"})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("batch user delete", zap.Uint("operator", p.UserID), zap.Int("requested", len(ids)))
	return results, nil
}

func (s *UserAdminService) ResetPassword(ctx context.Context, p *auth.Principal, targetID uint, newPassword string) error {
	if err := auth.Check(p, auth.OpResetPassword); err != nil {
		return err
	}
	if !utils.IsPasswordValid(newPassword) {
		return apperrors.Validation("password must be at least 8 characters with one special character")
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if _, err := s.Store.WithContext(ctx).Users().UpdateUser(targetID, map[string]any{"password_hash": hash}); err != nil {
		return err
	}
	s.Logger.Info("password reset", zap.Uint("target", targetID), zap.Uint("operator", p.UserID))
	return nil
}

func lockUser(tx *repositories.Store, id uint) (*models.User, error) {
	users, err := tx.Users().GetUsersByIDs([]uint{id})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, repositories.ErrUserNotFound
	}
	return &users[0], nil
}

func failed(id uint, err error) BatchItemResult {
	e := apperrors.From(err)
	return BatchItemResult{UserID: id, OK: false, Code: e.Code, Message: e.Message}
}
