package repositories

import (
	"peerprep/interview/internal/models"

	"gorm.io/gorm"
)

type ModerationEventRepository struct {
	DB *gorm.DB
}

func (r *ModerationEventRepository) CreateBatch(events []models.ModerationEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.DB.Create(&events).Error
}

// ListByQuestion returns a question's moderation history, oldest first.
func (r *ModerationEventRepository) ListByQuestion(questionID uint) ([]models.ModerationEvent, error) {
	var events []models.ModerationEvent
	err := r.DB.Where("question_id = ?", questionID).Order("id ASC").Find(&events).Error
	return events, err
}
