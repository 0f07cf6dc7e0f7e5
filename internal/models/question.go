package models

import (
	"strings"
	"time"
)

type Difficulty string

const (
	Easy   Difficulty = "EASY"
	Medium Difficulty = "MEDIUM"
	Hard   Difficulty = "HARD"
)

// ParseDifficulty normalises user input. Anything that is not one of the
// three levels (including "" and "ALL") reports ok=false.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch d := Difficulty(strings.ToUpper(strings.TrimSpace(s))); d {
	case Easy, Medium, Hard:
		return d, true
	}
	return "", false
}

// QuestionStatus describes where a question is in moderation.
// The numeric values are stored and sorted on, so PENDING must stay lowest.
type QuestionStatus int

const (
	StatusPending   QuestionStatus = 0
	StatusPublished QuestionStatus = 1
	// StatusRejected doubles as the soft-deleted state.
	StatusRejected QuestionStatus = 2
)

func (s QuestionStatus) Valid() bool {
	return s >= StatusPending && s <= StatusRejected
}

func (s QuestionStatus) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusPublished:
		return "PUBLISHED"
	case StatusRejected:
		return "REJECTED"
	}
	return "UNKNOWN"
}

type Question struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Difficulty   Difficulty     `gorm:"type:varchar(8);not null;index" json:"difficulty"`
	Tags         string         `json:"tags,omitempty"` // comma separated
	Analysis     string         `gorm:"type:text" json:"analysis,omitempty"`
	CategoryID   uint           `gorm:"not null;index" json:"categoryId"`
	AuthorID     uint           `gorm:"not null;index" json:"authorId"`
	Status       QuestionStatus `gorm:"not null;default:0;index" json:"status"`
	ViewCount    int            `gorm:"not null;default:0" json:"viewCount"`
	LikeCount    int            `gorm:"not null;default:0" json:"likeCount"`
	CollectCount int            `gorm:"not null;default:0" json:"collectCount"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// ModerationEvent is one applied status transition, written in the same
// transaction as the transition itself.
type ModerationEvent struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	QuestionID uint           `gorm:"not null;index" json:"questionId"`
	OperatorID uint           `gorm:"not null;index" json:"operatorId"`
	FromStatus QuestionStatus `gorm:"not null" json:"fromStatus"`
	ToStatus   QuestionStatus `gorm:"not null" json:"toStatus"`
	CreatedAt  time.Time      `json:"createdAt"`
}
