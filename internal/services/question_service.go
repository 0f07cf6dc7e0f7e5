package services

import (
	"context"
	"errors"
	"strings"

	"peerprep/interview/internal/apperrors"
	"peerprep/interview/internal/auth"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

const (
	DefaultHotLimit = 10
	MaxHotLimit     = 50
)

type QuestionService struct {
	Deps
}

func NewQuestionService(deps Deps) *QuestionService {
	return &QuestionService{Deps: deps.normalize()}
}

// CreateQuestionInput names the category either by id or by name. A name
// that does not match an existing category creates it.
type CreateQuestionInput struct {
	Title        string `json:"title"`
	Difficulty   string `json:"difficulty"`
	Tags         string `json:"tags"`
	Analysis     string `json:"analysis"`
	CategoryID   uint   `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

// QuestionPatch lists the fields an author may edit. Status and category
// only change through moderation.
type QuestionPatch struct {
	Title      *string `json:"title"`
	Difficulty *string `json:"difficulty"`
	Tags       *string `json:"tags"`
	Analysis   *string `json:"analysis"`
}

func (s *QuestionService) CreateQuestion(ctx context.Context, p *auth.Principal, in CreateQuestionInput) (*models.Question, error) {
	if err := auth.Check(p, auth.OpCreateQuestion); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.Validation("title is required")
	}
	difficulty, ok := models.ParseDifficulty(in.Difficulty)
	if !ok {
		return nil, apperrors.Validation("difficulty must be EASY, MEDIUM or HARD")
	}

	q := &models.Question{
		Title:      title,
		Difficulty: difficulty,
		Tags:       strings.TrimSpace(in.Tags),
		Analysis:   in.Analysis,
		AuthorID:   p.UserID,
		Status:     models.StatusPending,
	}
	err := s.Store.Transaction(ctx, func(tx *repositories.Store) error {
		category, err := s.resolveCategory(tx, in)
		if err != nil {
			return err
		}
		q.CategoryID = category.ID
		return tx.Questions().Create(q)
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("question submitted", zap.Uint("question", q.ID), zap.Uint("author", p.UserID), zap.Uint("category", q.CategoryID))
	return q, nil
}

func (s *QuestionService) resolveCategory(tx *repositories.Store, in CreateQuestionInput) (*models.Category, error) {
	if name := strings.TrimSpace(in.CategoryName); name != "" {
		return findOrCreateCategory(tx, name)
	}
	if in.CategoryID == 0 {
		return nil, apperrors.Validation("categoryId or categoryName is required")
	}
	return tx.Categories().GetForUpdate(in.CategoryID)
}

func findOrCreateCategory(tx *repositories.Store, name string) (*models.Category, error) {
	key := slug.Make(name)
	if key == "" {
		return nil, apperrors.Validation("category name has no usable characters")
	}
	existing, err := tx.Categories().GetBySlugForUpdate(key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrCategoryNotFound) {
		return nil, err
	}
	category := &models.Category{Name: name, Slug: key}
	err = tx.Savepoint(func(sp *repositories.Store) error {
		return sp.Categories().Create(category)
	})
	if errors.Is(err, repositories.ErrCategoryExists) {
		// another submission created it after our read
		return tx.Categories().GetBySlugForUpdate(key)
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, p *auth.Principal, id uint, patch QuestionPatch) (*models.Question, error) {
	if err := auth.Check(p, auth.OpUpdateQuestion); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperrors.Validation("title must not be empty")
		}
		updates["title"] = title
	}
	if patch.Difficulty != nil {
		d, ok := models.ParseDifficulty(*patch.Difficulty)
		if !ok {
			return nil, apperrors.Validation("difficulty must be EASY, MEDIUM or HARD")
		}
		updates["difficulty"] = d
	}
	if patch.Tags != nil {
		updates["tags"] = strings.TrimSpace(*patch.Tags)
	}
	if patch.Analysis != nil {
		updates["analysis"] = *patch.Analysis
	}

	var out *models.Question
	err := s.Store.Transaction(ctx, func(tx *repositories.Store) error {
		q, err := tx.Questions().GetForUpdate(id)
		if err != nil {
			return err
		}
		if !auth.CanMutate(p, q.AuthorID) {
			return apperrors.ErrPermissionDenied
		}
		if len(updates) > 0 {
			updates["updated_at"] = s.Now()
			if err := tx.Questions().UpdateFields(id, updates); err != nil {
				return err
			}
		}
		out, err = tx.Questions().GetByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteQuestion soft-deletes by moving the question to status 2. A
// published question gives its slot back to the category counter in the
// same transaction.
func (s *QuestionService) DeleteQuestion(ctx context.Context, p *auth.Principal, id uint) error {
	if err := auth.Check(p, auth.OpDeleteQuestion); err != nil {
		return err
	}
	now := s.Now()
	deltas := CategoryDeltas{}
	err := s.Store.Transaction(ctx, func(tx *repositories.Store) error {
		q, err := tx.Questions().GetForUpdate(id)
		if err != nil {
			return err
		}
		if q.Status == models.StatusRejected {
			return repositories.ErrQuestionNotFound
		}
		if !auth.CanMutate(p, q.AuthorID) {
			return apperrors.ErrPermissionDenied
		}

		categories, err := tx.Categories().LockByIDs([]uint{q.CategoryID})
		if err != nil {
			return err
		}
		if _, ok := categories[q.CategoryID]; ok {
			deltas.Add(q.CategoryID, q.Status, models.StatusRejected)
		}
		if err := deltas.Apply(tx.Categories()); err != nil {
			return err
		}
		if err := tx.Questions().SetStatus([]uint{id}, models.StatusRejected, now); err != nil {
			return err
		}
		return tx.ModerationEvents().CreateBatch([]models.ModerationEvent{{
			QuestionID: id,
			OperatorID: p.UserID,
			FromStatus: q.Status,
			ToStatus:   models.StatusRejected,
			CreatedAt:  now,
		}})
	})
	if err != nil {
		return err
	}
	deltas.observe()
	s.Logger.Info("question deleted", zap.Uint("question", id), zap.Uint("operator", p.UserID))
	return nil
}

// GetQuestion returns a question that has not been rejected or deleted and
// counts the view.
func (s *QuestionService) GetQuestion(ctx context.Context, p *auth.Principal, id uint) (*models.Question, error) {
	if err := auth.Check(p, auth.OpGetQuestion); err != nil {
		return nil, err
	}
	store := s.Store.WithContext(ctx)
	q, err := store.Questions().GetByID(id)
	if err != nil {
		return nil, err
	}
	if q.Status == models.StatusRejected {
		return nil, repositories.ErrQuestionNotFound
	}
	if err := store.Questions().IncrementViewCount(id); err != nil {
		return nil, err
	}
	q.ViewCount++
	return q, nil
}

// ListQuestions lists published questions. Other statuses are visible to
// admins only.
func (s *QuestionService) ListQuestions(ctx context.Context, p *auth.Principal, filter repositories.QuestionFilter, params models.PaginationParams) (models.Page[models.Question], error) {
	if err := auth.Check(p, auth.OpListQuestions); err != nil {
		return models.Page[models.Question]{}, err
	}
	if filter.Status != nil {
		if !filter.Status.Valid() {
			return models.Page[models.Question]{}, apperrors.Validation("unknown question status")
		}
		if *filter.Status != models.StatusPublished && !p.IsAdmin() {
			return models.Page[models.Question]{}, apperrors.PermissionDenied("requires " + auth.RequireAdmin.String())
		}
	}
	params = params.Normalize()
	items, total, err := s.Store.WithContext(ctx).Questions().List(filter, params)
	if err != nil {
		return models.Page[models.Question]{}, err
	}
	return models.NewPage(items, int(total), params), nil
}

func (s *QuestionService) HotQuestions(ctx context.Context, p *auth.Principal, limit int) ([]models.Question, error) {
	if err := auth.Check(p, auth.OpHotQuestions); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHotLimit
	}
	if limit > MaxHotLimit {
		limit = MaxHotLimit
	}
	questions, err := s.Store.WithContext(ctx).Questions().Hot(limit)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []models.Question{}
	}
	return questions, nil
}
