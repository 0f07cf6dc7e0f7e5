package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"peerprep/interview/internal/apperrors"
	"peerprep/interview/internal/models"

	"go.uber.org/zap"
)

// JSON writes a JSON response with status code
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// WriteSuccess wraps data in the success envelope.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	JSON(w, status, models.Envelope{Code: apperrors.CodeSuccess, Message: "success", Data: data})
}

// WriteError maps err onto the envelope and an HTTP status derived from its
// kind. Errors outside the domain taxonomy are logged and reported as a
// generic internal error.
func WriteError(w http.ResponseWriter, err error) {
	appErr := apperrors.From(err)
	if appErr.Kind == apperrors.KindInternal {
		GetLogger().Error("request failed", zap.Error(err))
	}
	JSON(w, appErr.Kind.HTTPStatus(), models.Envelope{Code: appErr.Code, Message: appErr.Message})
}

// DecodeJSON reads a JSON body into dst. An empty body is a validation error.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperrors.Validation("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Validation("request body is required")
		}
		return apperrors.Validation("invalid payload")
	}
	return nil
}
