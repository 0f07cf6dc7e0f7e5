package handlers

import (
	"net/http"

	"peerprep/interview/internal/apperrors"
	"peerprep/interview/internal/auth"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/utils"
)

// AdminHandler serves the /admin and /super-admin surfaces.
type AdminHandler struct {
	Users      *services.UserAdminService
	Moderation *services.ModerationService
}

func NewAdminHandler(users *services.UserAdminService, moderation *services.ModerationService) *AdminHandler {
	return &AdminHandler{Users: users, Moderation: moderation}
}

type reviewRequest struct {
	QuestionIDs []uint `json:"questionIds"`
	Status      *int   `json:"status"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type batchRequest struct {
	UserIDs []uint `json:"userIds"`
}

func (h *AdminHandler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	params, err := pagination(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	q := r.URL.Query()
	page, err := h.Users.ListUsers(r.Context(), auth.PrincipalFrom(r.Context()), q.Get("keyword"), q.Get("role"), params)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, page)
}

// SetUserStatusHandler is shared by the admin and super admin routes; the
// target-role rules live in the service.
func (h *AdminHandler) SetUserStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var req statusRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	user, err := h.Users.SetUserStatus(r.Context(), auth.PrincipalFrom(r.Context()), id, req.Status)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, user)
}

func (h *AdminHandler) ListForReviewHandler(w http.ResponseWriter, r *http.Request) {
	status, err := queryStatus(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	params, err := pagination(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	page, err := h.Moderation.ListForReview(r.Context(), auth.PrincipalFrom(r.Context()), status, r.URL.Query().Get("keyword"), params)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, page)
}

func (h *AdminHandler) ListPendingHandler(w http.ResponseWriter, r *http.Request) {
	params, err := pagination(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	page, err := h.Moderation.ListPending(r.Context(), auth.PrincipalFrom(r.Context()), r.URL.Query().Get("keyword"), params)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, page)
}

func (h *AdminHandler) ReviewQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	if req.Status == nil {
		utils.WriteError(w, apperrors.Validation("status is required"))
		return
	}
	res, err := h.Moderation.ReviewQuestions(r.Context(), auth.PrincipalFrom(r.Context()), req.QuestionIDs, models.QuestionStatus(*req.Status))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, res)
}

func (h *AdminHandler) ModerationHistoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	events, err := h.Moderation.History(r.Context(), auth.PrincipalFrom(r.Context()), id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, events)
}

func (h *AdminHandler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var patch services.UserPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.WriteError(w, err)
		return
	}
	user, err := h.Users.UpdateUser(r.Context(), auth.PrincipalFrom(r.Context()), id, patch)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.Users.DeleteUser(r.Context(), auth.PrincipalFrom(r.Context()), id); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}

func (h *AdminHandler) BatchDeleteUsersHandler(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	results, err := h.Users.BatchDeleteUsers(r.Context(), auth.PrincipalFrom(r.Context()), req.UserIDs)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, results)
}

func (h *AdminHandler) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var req passwordRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.Users.ResetPassword(r.Context(), auth.PrincipalFrom(r.Context()), id, req.Password); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}
