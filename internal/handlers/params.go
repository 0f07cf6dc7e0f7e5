package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"peerprep/interview/internal/apperrors"
	"peerprep/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

// pathID parses a positive numeric URL parameter.
func pathID(r *http.Request, key string) (uint, error) {
	raw := chi.URLParam(r, key)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("invalid " + key)
	}
	return uint(id), nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.Validation("invalid " + key)
	}
	return v, nil
}

func queryUint(r *http.Request, key string) (uint, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperrors.Validation("invalid " + key)
	}
	return uint(v), nil
}

func queryBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return v
}

// queryStatus reads an optional question status. Absent means nil.
func queryStatus(r *http.Request) (*models.QuestionStatus, error) {
	if r.URL.Query().Get("status") == "" {
		return nil, nil
	}
	v, err := queryInt(r, "status", 0)
	if err != nil {
		return nil, err
	}
	s := models.QuestionStatus(v)
	return &s, nil
}

// pagination reads page and size; the services clamp them.
func pagination(r *http.Request) (models.PaginationParams, error) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		return models.PaginationParams{}, err
	}
	size, err := queryInt(r, "size", models.DefaultPageSize)
	if err != nil {
		return models.PaginationParams{}, err
	}
	return models.PaginationParams{Page: page, Size: size}, nil
}
