package routers

import (
	"peerprep/interview/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func MockInterviewRoutes(r *chi.Mux, interviewHandler *handlers.MockInterviewHandler) {
	r.Route("/api/v1/mock-interviews", func(r chi.Router) {
		r.Post("/", interviewHandler.CreateHandler)
		r.Get("/history", interviewHandler.HistoryHandler)
		r.Get("/{id}", interviewHandler.GetHandler)
		r.Get("/{id}/questions", interviewHandler.QuestionsHandler)
		r.Post("/{id}/submit", interviewHandler.SubmitHandler)
	})
}
