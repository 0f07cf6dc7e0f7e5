package repositories

import (
	"errors"

	"peerprep/interview/internal/apperrors"
	"peerprep/interview/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = apperrors.ErrCategoryNotFound
	ErrCategoryExists   = apperrors.ErrCategoryExists
)

type CategoryRepository struct {
	DB *gorm.DB
}

func (r *CategoryRepository) Create(category *models.Category) error {
	return duplicate(r.DB.Create(category).Error, ErrCategoryExists)
}

func (r *CategoryRepository) GetByID(id uint) (*models.Category, error) {
	var c models.Category
	err := r.DB.First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	var c models.Category
	err := r.DB.Where("slug = ?", slug).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetForUpdate reads one category under a row lock so it cannot be
// deleted before the caller's transaction ends.
func (r *CategoryRepository) GetForUpdate(id uint) (*models.Category, error) {
	return r.first(forUpdate(r.DB).Where("id = ?", id))
}

func (r *CategoryRepository) GetBySlugForUpdate(slug string) (*models.Category, error) {
	return r.first(forUpdate(r.DB).Where("slug = ?", slug))
}

func (r *CategoryRepository) first(q *gorm.DB) (*models.Category, error) {
	var c models.Category
	err := q.First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// LockByIDs row-locks the given categories in ascending id order. Missing
// ids are simply absent from the result.
func (r *CategoryRepository) LockByIDs(ids []uint) (map[uint]models.Category, error) {
	out := make(map[uint]models.Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var categories []models.Category
	if err := forUpdate(r.DB).Where("id IN ?", ids).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	for _, c := range categories {
		out[c.ID] = c
	}
	return out, nil
}

// ApplyDelta adds delta to question_count in a single UPDATE so the store
// does the arithmetic, never the caller.
func (r *CategoryRepository) ApplyDelta(id uint, delta int) error {
	if delta == 0 {
		return nil
	}
	res := r.DB.Model(&models.Category{}).
		Where("id = ?", id).
		UpdateColumn("question_count", gorm.Expr("question_count + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// ListNonEmpty returns categories that have published questions, largest
// first.
func (r *CategoryRepository) ListNonEmpty() ([]models.Category, error) {
	var categories []models.Category
	err := r.DB.Where("question_count <> ?", 0).
		Order("question_count DESC").
		Order("id ASC").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) Rename(id uint, name, slug string) error {
	res := r.DB.Model(&models.Category{}).Where("id = ?", id).Updates(map[string]any{"name": name, "slug": slug})
	if res.Error != nil {
		return duplicate(res.Error, ErrCategoryExists)
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(id uint) error {
	res := r.DB.Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
