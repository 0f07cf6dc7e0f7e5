package handlers

import (
	"net/http"

	"peerprep/interview/internal/auth"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/utils"
)

type CategoryHandler struct {
	Categories *services.CategoryService
}

func NewCategoryHandler(categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Categories.ListCategories(r.Context(), auth.PrincipalFrom(r.Context()))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	category, err := h.Categories.GetCategory(r.Context(), auth.PrincipalFrom(r.Context()), id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	category, err := h.Categories.CreateCategory(r.Context(), auth.PrincipalFrom(r.Context()), req.Name)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, category)
}

func (h *CategoryHandler) RenameCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var req categoryRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	category, err := h.Categories.RenameCategory(r.Context(), auth.PrincipalFrom(r.Context()), id, req.Name)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.Categories.DeleteCategory(r.Context(), auth.PrincipalFrom(r.Context()), id); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}
