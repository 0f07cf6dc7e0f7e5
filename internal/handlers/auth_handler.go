package handlers

import (
	"net/http"

	"peerprep/interview/internal/auth"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/utils"
)

// AuthHandler manages authentication endpoints.
type AuthHandler struct {
	Auth  *services.AuthService
	Users *services.UserAdminService
}

func NewAuthHandler(authSvc *services.AuthService, users *services.UserAdminService) *AuthHandler {
	return &AuthHandler{Auth: authSvc, Users: users}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	user, err := h.Auth.Register(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, user)
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	res, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, res)
}

// MeHandler returns the caller's own record.
func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.GetProfile(r.Context(), auth.PrincipalFrom(r.Context()))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, user)
}
