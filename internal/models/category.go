package models

import "time"

// Category groups questions. QuestionCount is denormalised: it must equal
// the number of PUBLISHED questions with this CategoryID and is only ever
// changed by delta updates.
type Category struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Slug          string    `gorm:"uniqueIndex;not null" json:"slug"`
	QuestionCount int       `gorm:"not null;default:0" json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// LikeRecord and CollectRecord are the join rows behind Question.LikeCount
// and Question.CollectCount.
type LikeRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_like_user_question" json:"userId"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_like_user_question" json:"questionId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CollectRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_collect_user_question" json:"userId"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_collect_user_question" json:"questionId"`
	CreatedAt  time.Time `json:"createdAt"`
}
