package models

import "time"

type SessionStatus int

const (
	SessionInProgress SessionStatus = 0
	SessionCompleted  SessionStatus = 1
)

// MockInterview is one sampled practice session. Its items are created
// together with it and never added to afterwards.
type MockInterview struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	UserID         uint          `gorm:"not null;index" json:"userId"`
	CategoryIDs    string        `json:"categoryIds,omitempty"` // comma separated filter, empty = any
	Difficulty     string        `json:"difficulty,omitempty"`  // filter, empty = any
	RequestedCount int           `gorm:"not null" json:"questionCount"`
	Status         SessionStatus `gorm:"not null;default:0" json:"status"`
	Score          int           `gorm:"not null;default:0" json:"score"`
	DurationMs     int64         `gorm:"not null;default:0" json:"duration"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`

	Items []MockInterviewItem `gorm:"foreignKey:MockInterviewID" json:"items,omitempty"`
}

type MockInterviewItem struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	MockInterviewID uint   `gorm:"not null;index" json:"mockInterviewId"`
	QuestionID      uint   `gorm:"not null" json:"questionId"`
	Position        int    `gorm:"not null" json:"position"`
	UserAnswer      string `gorm:"type:text" json:"userAnswer,omitempty"`
	IsCorrect       *bool  `json:"isCorrect,omitempty"`
	AnswerTimeMs    *int64 `json:"answerTime,omitempty"`
}
