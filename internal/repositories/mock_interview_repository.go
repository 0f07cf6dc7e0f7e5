package repositories

import (
	"errors"
	"time"

	"peerprep/interview/internal/apperrors"
	"peerprep/interview/internal/models"

	"gorm.io/gorm"
)

var ErrSessionNotFound = apperrors.ErrSessionNotFound

type MockInterviewRepository struct {
	DB *gorm.DB
}

// Create inserts the session together with its items.
func (r *MockInterviewRepository) Create(session *models.MockInterview) error {
	return r.DB.Create(session).Error
}

// GetByID loads a session with its items in sampling order.
func (r *MockInterviewRepository) GetByID(id uint) (*models.MockInterview, error) {
	return r.get(r.DB, id)
}

// GetForUpdate is GetByID with the session row locked.
func (r *MockInterviewRepository) GetForUpdate(id uint) (*models.MockInterview, error) {
	return r.get(forUpdate(r.DB), id)
}

func (r *MockInterviewRepository) get(db *gorm.DB, id uint) (*models.MockInterview, error) {
	var s models.MockInterview
	err := db.First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.DB.Where("mock_interview_id = ?", id).Order("position ASC").Find(&s.Items).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *MockInterviewRepository) SaveItem(item *models.MockInterviewItem) error {
	return r.DB.Model(&models.MockInterviewItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"user_answer":    item.UserAnswer,
			"is_correct":     item.IsCorrect,
			"answer_time_ms": item.AnswerTimeMs,
		}).Error
}

// Complete flips an IN_PROGRESS session to COMPLETED. It reports false when
// the session was no longer in progress, which makes completion happen at
// most once even without a row lock.
func (r *MockInterviewRepository) Complete(id uint, score int, durationMs int64, now time.Time) (bool, error) {
	res := r.DB.Model(&models.MockInterview{}).
		Where("id = ? AND status = ?", id, models.SessionInProgress).
		Updates(map[string]any{
			"status":      models.SessionCompleted,
			"score":       score,
			"duration_ms": durationMs,
			"updated_at":  now,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *MockInterviewRepository) History(userID uint, params models.PaginationParams) ([]models.MockInterview, int64, error) {
	var total int64
	if err := r.DB.Model(&models.MockInterview{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var sessions []models.MockInterview
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(params.Offset()).
		Limit(params.Size).
		Find(&sessions).Error
	return sessions, total, err
}
