package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"peerprep/interview/internal/apperrors"
	"peerprep/interview/internal/auth"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService is the identity collaborator: it owns credentials and turns
// a verified token back into a principal.
type AuthService struct {
	Deps
	Secret   string
	TokenTTL time.Duration
}

func NewAuthService(deps Deps, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{Deps: deps.normalize(), Secret: secret, TokenTTL: ttl}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := auth.Check(nil, auth.OpRegister); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, apperrors.Validation("missing fields")
	}
	if !strings.Contains(email, "@") {
		return nil, apperrors.Validation("invalid email")
	}
	if !utils.IsPasswordValid(in.Password) {
		return nil, apperrors.Validation("password must be at least 8 characters with one special character")
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Status:       models.UserActive,
	}
	err = s.Store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := absent(tx.Users().FindAnyByUsername(username)); err != nil {
			return taken(err, "username taken")
		}
		if err := absent(tx.Users().FindAnyByEmail(email)); err != nil {
			return taken(err, "email taken")
		}
		return tx.Users().CreateUser(user)
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("user registered", zap.Uint("user", user.ID))
	return user, nil
}

// absent turns a successful lookup into ErrUserAlreadyExists and a miss
// into nil.
func absent(_ *models.User, err error) error {
	switch {
	case err == nil:
		return apperrors.ErrUserAlreadyExists
	case errors.Is(err, repositories.ErrUserNotFound):
		return nil
	}
	return err
}

func taken(err error, msg string) error {
	if errors.Is(err, apperrors.ErrUserAlreadyExists) {
		return apperrors.ErrUserAlreadyExists.WithMessage(msg)
	}
	return err
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if err := auth.Check(nil, auth.OpLogin); err != nil {
		return nil, err
	}
	user, err := s.Store.WithContext(ctx).Users().GetUserByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.ErrWrongPassword
	}
	if user.Status == models.UserBanned {
		return nil, apperrors.ErrAccountBanned
	}
	token, err := utils.IssueToken(s.Secret, user.ID, user.Username, string(user.Role), s.TokenTTL, s.Now())
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

// ResolvePrincipal re-reads the user behind a verified token so role and
// status are current when the request starts.
func (s *AuthService) ResolvePrincipal(ctx context.Context, userID uint) (*auth.Principal, error) {
	user, err := s.Store.WithContext(ctx).Users().GetUserByID(userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return &auth.Principal{UserID: user.ID, Username: user.Username, Role: user.Role, Status: user.Status}, nil
}
