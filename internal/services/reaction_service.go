package services

import (
	"context"

	"peerprep/interview/internal/apperrors"
	"peerprep/interview/internal/auth"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"

	"go.uber.org/zap"
)

// ReactionService toggles likes and collects. Each toggle locks the
// question row, checks the join row and moves the counter in one
// transaction.
type ReactionService struct {
	Deps
}

func NewReactionService(deps Deps) *ReactionService {
	return &ReactionService{Deps: deps.normalize()}
}

// ReactionState is the caller's view of one question.
type ReactionState struct {
	QuestionID uint `json:"questionId"`
	Active     bool `json:"active"`
	Count      int  `json:"count"`
}

func (s *ReactionService) Like(ctx context.Context, p *auth.Principal, questionID uint) (*ReactionState, error) {
	return s.toggle(ctx, p, auth.OpLike, repositories.ReactionLike, questionID, true)
}

func (s *ReactionService) Unlike(ctx context.Context, p *auth.Principal, questionID uint) (*ReactionState, error) {
	return s.toggle(ctx, p, auth.OpUnlike, repositories.ReactionLike, questionID, false)
}

func (s *ReactionService) Collect(ctx context.Context, p *auth.Principal, questionID uint) (*ReactionState, error) {
	return s.toggle(ctx, p, auth.OpCollect, repositories.ReactionCollect, questionID, true)
}

func (s *ReactionService) Uncollect(ctx context.Context, p *auth.Principal, questionID uint) (*ReactionState, error) {
	return s.toggle(ctx, p, auth.OpUncollect, repositories.ReactionCollect, questionID, false)
}

func (s *ReactionService) IsLiked(ctx context.Context, p *auth.Principal, questionID uint) (*ReactionState, error) {
	return s.state(ctx, p, auth.OpLikeStatus, repositories.ReactionLike, questionID)
}

func (s *ReactionService) IsCollected(ctx context.Context, p *auth.Principal, questionID uint) (*ReactionState, error) {
	return s.state(ctx, p, auth.OpCollectStatus, repositories.ReactionCollect, questionID)
}

func (s *ReactionService) toggle(ctx context.Context, p *auth.Principal, op auth.Operation, kind repositories.ReactionKind, questionID uint, add bool) (*ReactionState, error) {
	if err := auth.Check(p, op); err != nil {
		return nil, err
	}
	var out *ReactionState
	err := s.Store.Transaction(ctx, func(tx *repositories.Store) error {
		q, err := tx.Questions().GetForUpdate(questionID)
		if err != nil {
			return err
		}
		// withdrawing stays possible after a question leaves the catalogue
		if add && q.Status != models.StatusPublished {
			return repositories.ErrQuestionNotFound
		}

		reactions := tx.Reactions()
		exists, err := reactions.Exists(kind, p.UserID, questionID)
		if err != nil {
			return err
		}
		delta := 1
		if add {
			if exists {
				return alreadyErr(kind)
			}
			err = reactions.Insert(kind, p.UserID, questionID)
		} else {
			if !exists {
				return missingErr(kind)
			}
			delta = -1
			err = reactions.Delete(kind, p.UserID, questionID)
			if repositories.IsMissing(err) {
				return missingErr(kind)
			}
		}
		if err != nil {
			return err
		}
		if err := tx.Questions().AdjustCount(questionID, kind.CountColumn(), delta); err != nil {
			return err
		}
		fresh, err := tx.Questions().GetByID(questionID)
		if err != nil {
			return err
		}
		out = &ReactionState{QuestionID: questionID, Active: add, Count: countOf(fresh, kind)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	action := "reaction added"
	if !add {
		action = "reaction removed"
	}
	s.Logger.Info(action,
		zap.Stringer("kind", kind),
		zap.Uint("question", questionID),
		zap.Uint("user", p.UserID),
		zap.Int("count", out.Count))
	return out, nil
}

func (s *ReactionService) state(ctx context.Context, p *auth.Principal, op auth.Operation, kind repositories.ReactionKind, questionID uint) (*ReactionState, error) {
	if err := auth.Check(p, op); err != nil {
		return nil, err
	}
	store := s.Store.WithContext(ctx)
	q, err := store.Questions().GetByID(questionID)
	if err != nil {
		return nil, err
	}
	if q.Status == models.StatusRejected {
		return nil, repositories.ErrQuestionNotFound
	}
	active, err := store.Reactions().Exists(kind, p.UserID, questionID)
	if err != nil {
		return nil, err
	}
	return &ReactionState{QuestionID: questionID, Active: active, Count: countOf(q, kind)}, nil
}

func countOf(q *models.Question, kind repositories.ReactionKind) int {
	if kind == repositories.ReactionCollect {
		return q.CollectCount
	}
	return q.LikeCount
}

func alreadyErr(kind repositories.ReactionKind) error {
	if kind == repositories.ReactionCollect {
		return apperrors.ErrAlreadyCollected
	}
	return apperrors.ErrAlreadyLiked
}

func missingErr(kind repositories.ReactionKind) error {
	if kind == repositories.ReactionCollect {
		return apperrors.ErrNotCollected
	}
	return apperrors.ErrNotLiked
}
