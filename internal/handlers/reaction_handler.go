package handlers

import (
	"context"
	"net/http"

	"peerprep/interview/internal/auth"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/utils"
)

type ReactionHandler struct {
	Reactions *services.ReactionService
}

func NewReactionHandler(reactions *services.ReactionService) *ReactionHandler {
	return &ReactionHandler{Reactions: reactions}
}

type reactionFn func(ctx context.Context, p *auth.Principal, questionID uint) (*services.ReactionState, error)

// serve adapts one ReactionService method to an HTTP handler keyed on the
// {questionId} path parameter.
func serve(fn reactionFn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "questionId")
		if err != nil {
			utils.WriteError(w, err)
			return
		}
		state, err := fn(r.Context(), auth.PrincipalFrom(r.Context()), id)
		if err != nil {
			utils.WriteError(w, err)
			return
		}
		utils.WriteSuccess(w, http.StatusOK, state)
	}
}

func (h *ReactionHandler) LikeHandler(w http.ResponseWriter, r *http.Request) {
	serve(h.Reactions.Like)(w, r)
}

func (h *ReactionHandler) UnlikeHandler(w http.ResponseWriter, r *http.Request) {
	serve(h.Reactions.Unlike)(w, r)
}

func (h *ReactionHandler) LikeStatusHandler(w http.ResponseWriter, r *http.Request) {
	serve(h.Reactions.IsLiked)(w, r)
}

func (h *ReactionHandler) CollectHandler(w http.ResponseWriter, r *http.Request) {
	serve(h.Reactions.Collect)(w, r)
}

func (h *ReactionHandler) UncollectHandler(w http.ResponseWriter, r *http.Request) {
	serve(h.Reactions.Uncollect)(w, r)
}

func (h *ReactionHandler) CollectStatusHandler(w http.ResponseWriter, r *http.Request) {
	serve(h.Reactions.IsCollected)(w, r)
}
