package services

import (
	"context"

	"peerprep/interview/internal/apperrors"
	"peerprep/interview/internal/auth"
	"peerprep/interview/internal/events"
	"peerprep/interview/internal/metrics"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"

	"go.uber.org/zap"
)

type ModerationService struct {
	Deps
}

func NewModerationService(deps Deps) *ModerationService {
	return &ModerationService{Deps: deps.normalize()}
}

// ReviewResult describes one committed review batch.
type ReviewResult struct {
	Status         models.QuestionStatus `json:"status"`
	QuestionIDs    []uint                `json:"questionIds"`
	CategoryDeltas map[uint]int          `json:"categoryDeltas"`
}

// ReviewQuestions approves (status 1) or rejects (status 2) every listed
// question in one transaction. A missing question or category aborts the
// whole batch. Repeated ids are reviewed once.
func (s *ModerationService) ReviewQuestions(ctx context.Context, p *auth.Principal, ids []uint, status models.QuestionStatus) (*ReviewResult, error) {
	if err := auth.Check(p, auth.OpReviewQuestions); err != nil {
		return nil, err
	}
	if status != models.StatusPublished && status != models.StatusRejected {
		return nil, apperrors.Validation("review status must be 1 (approve) or 2 (reject)")
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, apperrors.Validation("questionIds must not be empty")
	}

	now := s.Now()
	deltas := CategoryDeltas{}
	err := s.Store.Transaction(ctx, func(tx *repositories.Store) error {
		questions, err := tx.Questions().LockByIDs(ids)
		if err != nil {
			return err
		}
		if len(questions) != len(ids) {
			return repositories.ErrQuestionNotFound
		}

		touched := make(map[uint]struct{})
		for _, q := range questions {
			touched[q.CategoryID] = struct{}{}
		}
		categories, err := tx.Categories().LockByIDs(sortedIDs(touched))
		if err != nil {
			return err
		}

		audit := make([]models.ModerationEvent, 0, len(questions))
		for _, q := range questions {
			if _, ok := categories[q.CategoryID]; !ok {
				return repositories.ErrCategoryNotFound
			}
			deltas.Add(q.CategoryID, q.Status, status)
			audit = append(audit, models.ModerationEvent{
				QuestionID: q.ID,
				OperatorID: p.UserID,
				FromStatus: q.Status,
				ToStatus:   status,
				CreatedAt:  now,
			})
		}

		if err := deltas.Apply(tx.Categories()); err != nil {
			return err
		}
		if err := tx.Questions().SetStatus(ids, status, now); err != nil {
			return err
		}
		return tx.ModerationEvents().CreateBatch(audit)
	})
	if err != nil {
		s.Logger.Warn("review batch rejected", zap.Uint("operator", p.UserID), zap.Int("questions", len(ids)), zap.Error(err))
		return nil, err
	}

	decision := "approve"
	if status == models.StatusRejected {
		decision = "reject"
	}
	metrics.ObserveReview(decision, len(ids))
	deltas.observe()
	s.Logger.Info("review batch applied",
		zap.Uint("operator", p.UserID),
		zap.String("decision", decision),
		zap.Int("questions", len(ids)),
		zap.Int("categories", len(deltas)))

	result := &ReviewResult{Status: status, QuestionIDs: ids, CategoryDeltas: map[uint]int(deltas)}
	_ = s.Publisher.Publish(ctx, events.ChannelQuestionReviewed, events.QuestionReviewed{
		OperatorID:  p.UserID,
		Status:      int(status),
		QuestionIDs: ids,
		Deltas:      result.CategoryDeltas,
	})
	return result, nil
}

// ListForReview lists questions of every status, or only status when set,
// with pending items first.
func (s *ModerationService) ListForReview(ctx context.Context, p *auth.Principal, status *models.QuestionStatus, keyword string, params models.PaginationParams) (models.Page[models.Question], error) {
	if err := auth.Check(p, auth.OpListForReview); err != nil {
		return models.Page[models.Question]{}, err
	}
	if status != nil && !status.Valid() {
		return models.Page[models.Question]{}, apperrors.Validation("unknown question status")
	}
	return s.listForReview(ctx, status, keyword, params)
}

// ListPending lists only questions still awaiting review, oldest first.
func (s *ModerationService) ListPending(ctx context.Context, p *auth.Principal, keyword string, params models.PaginationParams) (models.Page[models.Question], error) {
	if err := auth.Check(p, auth.OpListPending); err != nil {
		return models.Page[models.Question]{}, err
	}
	pending := models.StatusPending
	return s.listForReview(ctx, &pending, keyword, params)
}

func (s *ModerationService) listForReview(ctx context.Context, status *models.QuestionStatus, keyword string, params models.PaginationParams) (models.Page[models.Question], error) {
	params = params.Normalize()
	items, total, err := s.Store.WithContext(ctx).Questions().ListForReview(status, keyword, params)
	if err != nil {
		return models.Page[models.Question]{}, err
	}
	return models.NewPage(items, int(total), params), nil
}

// History returns the moderation audit trail of one question.
func (s *ModerationService) History(ctx context.Context, p *auth.Principal, questionID uint) ([]models.ModerationEvent, error) {
	if err := auth.Check(p, auth.OpModerationHistory); err != nil {
		return nil, err
	}
	if _, err := s.Store.WithContext(ctx).Questions().GetByID(questionID); err != nil {
		return nil, err
	}
	return s.Store.WithContext(ctx).ModerationEvents().ListByQuestion(questionID)
}
