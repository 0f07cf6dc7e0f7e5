package handlers

import (
	"net/http"
	"strings"

	"peerprep/interview/internal/apperrors"
	"peerprep/interview/internal/auth"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/utils"
)

var errBadDifficulty = apperrors.Validation("difficulty must be EASY, MEDIUM, HARD or ALL")

type QuestionHandler struct {
	Questions *services.QuestionService
}

func NewQuestionHandler(questions *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{Questions: questions}
}

// ListQuestionsHandler serves GET /questions with category, difficulty,
// keyword, hot, latest, status and page/size query parameters.
func (h *QuestionHandler) ListQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	categoryID, err := queryUint(r, "categoryId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
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
	filter := repositories.QuestionFilter{
		Status:     status,
		CategoryID: categoryID,
		Keyword:    r.URL.Query().Get("keyword"),
		Hot:        queryBool(r, "hot"),
		Latest:     queryBool(r, "latest"),
	}
	if raw := r.URL.Query().Get("difficulty"); raw != "" && !strings.EqualFold(raw, "ALL") {
		d, ok := models.ParseDifficulty(raw)
		if !ok {
			utils.WriteError(w, errBadDifficulty)
			return
		}
		filter.Difficulty = d
	}

	page, err := h.Questions.ListQuestions(r.Context(), auth.PrincipalFrom(r.Context()), filter, params)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, page)
}

func (h *QuestionHandler) HotQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", services.DefaultHotLimit)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	questions, err := h.Questions.HotQuestions(r.Context(), auth.PrincipalFrom(r.Context()), limit)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, questions)
}

func (h *QuestionHandler) GetQuestionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	q, err := h.Questions.GetQuestion(r.Context(), auth.PrincipalFrom(r.Context()), id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, q)
}

func (h *QuestionHandler) CreateQuestionHandler(w http.ResponseWriter, r *http.Request) {
	var in services.CreateQuestionInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.WriteError(w, err)
		return
	}
	q, err := h.Questions.CreateQuestion(r.Context(), auth.PrincipalFrom(r.Context()), in)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, q)
}

func (h *QuestionHandler) UpdateQuestionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var patch services.QuestionPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.WriteError(w, err)
		return
	}
	q, err := h.Questions.UpdateQuestion(r.Context(), auth.PrincipalFrom(r.Context()), id, patch)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, q)
}

func (h *QuestionHandler) DeleteQuestionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.Questions.DeleteQuestion(r.Context(), auth.PrincipalFrom(r.Context()), id); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}
