package repositories

import (
	"errors"
	"time"

	"peerprep/interview/internal/apperrors"
	"peerprep/interview/internal/models"

	"gorm.io/gorm"
)

var ErrQuestionNotFound = apperrors.ErrQuestionNotFound

// QuestionFilter narrows public question listings.
type QuestionFilter struct {
	Status     *models.QuestionStatus // nil means PUBLISHED
	CategoryID uint
	Difficulty models.Difficulty
	Keyword    string
	Hot        bool
	Latest     bool
}

type QuestionRepository struct {
	DB *gorm.DB
}

func (r *QuestionRepository) Create(question *models.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) GetByID(id uint) (*models.Question, error) {
	return r.first(r.DB, id)
}

// GetForUpdate loads one question and locks its row until the surrounding
// transaction ends.
func (r *QuestionRepository) GetForUpdate(id uint) (*models.Question, error) {
	return r.first(forUpdate(r.DB), id)
}

func (r *QuestionRepository) first(db *gorm.DB, id uint) (*models.Question, error) {
	var q models.Question
	err := db.First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// LockByIDs loads and row-locks the given questions in ascending id order,
// so concurrent batches acquire locks in the same sequence.
func (r *QuestionRepository) LockByIDs(ids []uint) ([]models.Question, error) {
	var questions []models.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := forUpdate(r.DB).Where("id IN ?", ids).Order("id ASC").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) GetByIDs(ids []uint) (map[uint]models.Question, error) {
	out := make(map[uint]models.Question, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var questions []models.Question
	if err := r.DB.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	for _, q := range questions {
		out[q.ID] = q
	}
	return out, nil
}

// UpdateFields writes the given columns on one question.
func (r *QuestionRepository) UpdateFields(id uint, updates map[string]any) error {
	res := r.DB.Model(&models.Question{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

// SetStatus moves every listed question to status in one statement.
func (r *QuestionRepository) SetStatus(ids []uint, status models.QuestionStatus, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.DB.Model(&models.Question{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"status": status, "updated_at": now}).Error
}

func (r *QuestionRepository) IncrementViewCount(id uint) error {
	return r.DB.Model(&models.Question{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

// AdjustCount adds delta to a denormalised counter column. Decrements never
// take the column below zero.
func (r *QuestionRepository) AdjustCount(id uint, column string, delta int) error {
	q := r.DB.Model(&models.Question{}).Where("id = ?", id)
	if delta < 0 {
		q = q.Where(column+" >= ?", -delta)
	}
	return q.UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

func (r *QuestionRepository) List(filter QuestionFilter, params models.PaginationParams) ([]models.Question, int64, error) {
	base := func() *gorm.DB {
		q := r.DB.Model(&models.Question{})
		if filter.Status != nil {
			q = q.Where("status = ?", *filter.Status)
		} else {
			q = q.Where("status = ?", models.StatusPublished)
		}
		if filter.CategoryID != 0 {
			q = q.Where("category_id = ?", filter.CategoryID)
		}
		if filter.Difficulty != "" {
			q = q.Where("difficulty = ?", filter.Difficulty)
		}
		return withKeyword(q, filter.Keyword)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := base()
	if filter.Hot {
		q = q.Order("view_count DESC").Order("like_count DESC").Order("collect_count DESC")
	}
	if filter.Latest {
		q = q.Order("updated_at DESC")
	}
	var questions []models.Question
	err := q.Order("created_at DESC").
		Order("id DESC").
		Offset(params.Offset()).
		Limit(params.Size).
		Find(&questions).Error
	return questions, total, err
}

// ListForReview returns questions of every status (or only status when set)
// with PENDING first: pending oldest first, reviewed newest first.
func (r *QuestionRepository) ListForReview(status *models.QuestionStatus, keyword string, params models.PaginationParams) ([]models.Question, int64, error) {
	base := func() *gorm.DB {
		q := r.DB.Model(&models.Question{})
		if status != nil {
			q = q.Where("status = ?", *status)
		}
		return withKeyword(q, keyword)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var questions []models.Question
	err := base().
		Order("status ASC").
		Order("CASE WHEN status = 0 THEN created_at END ASC").
		Order("created_at DESC").
		Order("id ASC").
		Offset(params.Offset()).
		Limit(params.Size).
		Find(&questions).Error
	return questions, total, err
}

func (r *QuestionRepository) Hot(limit int) ([]models.Question, error) {
	var questions []models.Question
	err := r.DB.Where("status = ?", models.StatusPublished).
		Order("like_count DESC").
		Order("view_count DESC").
		Order("id ASC").
		Limit(limit).
		Find(&questions).Error
	return questions, err
}

// Pool returns every PUBLISHED question matching the optional filters.
func (r *QuestionRepository) Pool(categoryIDs []uint, difficulty models.Difficulty) ([]models.Question, error) {
	q := r.DB.Where("status = ?", models.StatusPublished)
	if len(categoryIDs) > 0 {
		q = q.Where("category_id IN ?", categoryIDs)
	}
	if difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}
	var questions []models.Question
	err := q.Order("id ASC").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) CountByCategory(categoryID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&models.Question{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

// CountPublished counts PUBLISHED questions in a category from the rows
// themselves, independent of the denormalised counter.
func (r *QuestionRepository) CountPublished(categoryID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&models.Question{}).
		Where("category_id = ? AND status = ?", categoryID, models.StatusPublished).
		Count(&n).Error
	return n, err
}

func withKeyword(q *gorm.DB, keyword string) *gorm.DB {
	if keyword == "" {
		return q
	}
	p := likePattern(keyword)
	return q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(tags) LIKE ? ESCAPE '\')`, p, p)
}
