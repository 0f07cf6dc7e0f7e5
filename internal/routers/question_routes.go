package routers

import (
	"peerprep/interview/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func QuestionRoutes(r *chi.Mux, questionHandler *handlers.QuestionHandler) {
	r.Route("/api/v1/questions", func(r chi.Router) {
		r.Get("/", questionHandler.ListQuestionsHandler)
		r.Post("/", questionHandler.CreateQuestionHandler)
		r.Get("/hot", questionHandler.HotQuestionsHandler)
		r.Get("/{id}", questionHandler.GetQuestionHandler)
		r.Put("/{id}", questionHandler.UpdateQuestionHandler)
		r.Delete("/{id}", questionHandler.DeleteQuestionHandler)
	})
}

func CategoryRoutes(r *chi.Mux, categoryHandler *handlers.CategoryHandler) {
	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", categoryHandler.ListCategoriesHandler)
		r.Post("/", categoryHandler.CreateCategoryHandler)
		r.Get("/{id}", categoryHandler.GetCategoryHandler)
		r.Put("/{id}", categoryHandler.RenameCategoryHandler)
		r.Delete("/{id}", categoryHandler.DeleteCategoryHandler)
	})
}

func ReactionRoutes(r *chi.Mux, reactionHandler *handlers.ReactionHandler) {
	r.Route("/api/v1/likes/{questionId}", func(r chi.Router) {
		r.Post("/", reactionHandler.LikeHandler)
		r.Delete("/", reactionHandler.UnlikeHandler)
		r.Get("/status", reactionHandler.LikeStatusHandler)
	})
	r.Route("/api/v1/collects/{questionId}", func(r chi.Router) {
		r.Post("/", reactionHandler.CollectHandler)
		r.Delete("/", reactionHandler.UncollectHandler)
		r.Get("/status", reactionHandler.CollectStatusHandler)
	})
}
