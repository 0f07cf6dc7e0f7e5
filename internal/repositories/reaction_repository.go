package repositories

import (
	"errors"

	"peerprep/interview/internal/models"

	"gorm.io/gorm"
)

// ReactionKind selects the join table and the counter it backs.
type ReactionKind int

const (
	ReactionLike ReactionKind = iota
	ReactionCollect
)

// CountColumn is the Question column kept in sync with this kind's rows.
func (k ReactionKind) CountColumn() string {
	if k == ReactionCollect {
		return "collect_count"
	}
	return "like_count"
}

func (k ReactionKind) String() string {
	if k == ReactionCollect {
		return "collect"
	}
	return "like"
}

func (k ReactionKind) model() any {
	if k == ReactionCollect {
		return &models.CollectRecord{}
	}
	return &models.LikeRecord{}
}

type ReactionRepository struct {
	DB *gorm.DB
}

func (r *ReactionRepository) Exists(kind ReactionKind, userID, questionID uint) (bool, error) {
	var n int64
	err := r.DB.Model(kind.model()).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&n).Error
	return n > 0, err
}

func (r *ReactionRepository) Insert(kind ReactionKind, userID, questionID uint) error {
	if kind == ReactionCollect {
		return r.DB.Create(&models.CollectRecord{UserID: userID, QuestionID: questionID}).Error
	}
	return r.DB.Create(&models.LikeRecord{UserID: userID, QuestionID: questionID}).Error
}

// Delete removes the join row and reports gorm.ErrRecordNotFound when
// there was none.
func (r *ReactionRepository) Delete(kind ReactionKind, userID, questionID uint) error {
	res := r.DB.Where("user_id = ? AND question_id = ?", userID, questionID).Delete(kind.model())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsMissing reports whether err means the join row did not exist.
func IsMissing(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
