package routers

import (
	"peerprep/interview/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func AdminRoutes(r *chi.Mux, adminHandler *handlers.AdminHandler) {
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Get("/users", adminHandler.ListUsersHandler)
		r.Put("/users/{userId}/status", adminHandler.SetUserStatusHandler) // Ban or unban a USER

		r.Get("/questions/review", adminHandler.ListForReviewHandler)
		r.Put("/questions/review", adminHandler.ReviewQuestionsHandler)
		r.Get("/questions/pending", adminHandler.ListPendingHandler)
		r.Get("/questions/{id}/history", adminHandler.ModerationHistoryHandler)
	})
}

func SuperAdminRoutes(r *chi.Mux, adminHandler *handlers.AdminHandler) {
	r.Route("/api/v1/super-admin/users", func(r chi.Router) {
		r.Get("/", adminHandler.ListUsersHandler)
		r.Delete("/batch", adminHandler.BatchDeleteUsersHandler)
		r.Put("/{userId}", adminHandler.UpdateUserHandler)
		r.Delete("/{userId}", adminHandler.DeleteUserHandler)
		r.Put("/{userId}/status", adminHandler.SetUserStatusHandler)
		r.Put("/{userId}/password", adminHandler.ResetPasswordHandler)
	})
}
