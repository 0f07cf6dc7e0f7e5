package handlers

import (
	"net/http"

	"peerprep/interview/internal/auth"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/utils"
)

type MockInterviewHandler struct {
	Interviews *services.MockInterviewService
}

func NewMockInterviewHandler(interviews *services.MockInterviewService) *MockInterviewHandler {
	return &MockInterviewHandler{Interviews: interviews}
}

type submitRequest struct {
	Answers []services.AnswerInput `json:"answers"`
}

func (h *MockInterviewHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var in services.CreateMockInterviewInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.WriteError(w, err)
		return
	}
	session, err := h.Interviews.Create(r.Context(), auth.PrincipalFrom(r.Context()), in)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, session)
}

func (h *MockInterviewHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var req submitRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	session, err := h.Interviews.Submit(r.Context(), auth.PrincipalFrom(r.Context()), id, req.Answers)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, session)
}

func (h *MockInterviewHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	session, err := h.Interviews.Get(r.Context(), auth.PrincipalFrom(r.Context()), id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, session)
}

func (h *MockInterviewHandler) QuestionsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	questions, err := h.Interviews.Questions(r.Context(), auth.PrincipalFrom(r.Context()), id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, questions)
}

func (h *MockInterviewHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	params, err := pagination(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	page, err := h.Interviews.History(r.Context(), auth.PrincipalFrom(r.Context()), params)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, page)
}
