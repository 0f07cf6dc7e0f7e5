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

// CategoryService manages category metadata. The question counter is
// never written here; only status transitions move it.
type CategoryService struct {
	Deps
}

func NewCategoryService(deps Deps) *CategoryService {
	return &CategoryService{Deps: deps.normalize()}
}

// ListCategories returns categories that currently have published
// questions, largest first.
func (s *CategoryService) ListCategories(ctx context.Context, p *auth.Principal) ([]models.Category, error) {
	if err := auth.Check(p, auth.OpListCategories); err != nil {
		return nil, err
	}
	categories, err := s.Store.WithContext(ctx).Categories().ListNonEmpty()
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, p *auth.Principal, id uint) (*models.Category, error) {
	if err := auth.Check(p, auth.OpGetCategory); err != nil {
		return nil, err
	}
	return s.Store.WithContext(ctx).Categories().GetByID(id)
}

func (s *CategoryService) CreateCategory(ctx context.Context, p *auth.Principal, name string) (*models.Category, error) {
	if err := auth.Check(p, auth.OpCreateCategory); err != nil {
		return nil, err
	}
	name, key, err := categoryName(name)
	if err != nil {
		return nil, err
	}
	category := &models.Category{Name: name, Slug: key}
	err = s.Store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := slugFree(tx, key, 0); err != nil {
			return err
		}
		return tx.Categories().Create(category)
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("category created", zap.Uint("category", category.ID), zap.String("slug", key))
	return category, nil
}

func (s *CategoryService) RenameCategory(ctx context.Context, p *auth.Principal, id uint, name string) (*models.Category, error) {
	if err := auth.Check(p, auth.OpRenameCategory); err != nil {
		return nil, err
	}
	name, key, err := categoryName(name)
	if err != nil {
		return nil, err
	}
	var out *models.Category
	err = s.Store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := slugFree(tx, key, id); err != nil {
			return err
		}
		if err := tx.Categories().Rename(id, name, key); err != nil {
			return err
		}
		out, err = tx.Categories().GetByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCategory removes a category no question refers to, whatever that
// question's status.
func (s *CategoryService) DeleteCategory(ctx context.Context, p *auth.Principal, id uint) error {
	if err := auth.Check(p, auth.OpDeleteCategory); err != nil {
		return err
	}
	err := s.Store.Transaction(ctx, func(tx *repositories.Store) error {
		locked, err := tx.Categories().LockByIDs([]uint{id})
		if err != nil {
			return err
		}
		if _, ok := locked[id]; !ok {
			return repositories.ErrCategoryNotFound
		}
		n, err := tx.Questions().CountByCategory(id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.ErrCategoryInUse
		}
		return tx.Categories().Delete(id)
	})
	if err != nil {
		return err
	}
	s.Logger.Info("category deleted", zap.Uint("category", id), zap.Uint("operator", p.UserID))
	return nil
}

func categoryName(raw string) (name, key string, err error) {
	name = strings.TrimSpace(raw)
	if name == "" {
		return "", "", apperrors.Validation("category name is required")
	}
	key = slug.Make(name)
	if key == "" {
		return "", "", apperrors.Validation("category name has no usable characters")
	}
	return name, key, nil
}

// slugFree fails with ErrCategoryExists when another category owns key.
func slugFree(tx *repositories.Store, key string, self uint) error {
	existing, err := tx.Categories().GetBySlug(key)
	if errors.Is(err, repositories.ErrCategoryNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		return apperrors.ErrCategoryExists
	}
	return nil
}
