package model

import (
	"time"

	"gorm.io/datatypes"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	// SessionAbandoned 只由后台清理任务设置
	SessionAbandoned SessionStatus = "abandoned"
)

func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionAbandoned
}

// swagger:model GameSession
type GameSession struct {
	BaseModel
	UserID           uint                      `gorm:"index;not null" json:"userId"`
	Score            int                       `gorm:"default:0;not null" json:"score"`
	TotalQuestions   int                       `gorm:"not null" json:"totalQuestions"`
	CorrectAnswers   int                       `gorm:"default:0;not null" json:"correctAnswers"`
	Difficulty       Difficulty                `gorm:"size:20;not null" json:"difficulty"`
	Status           SessionStatus             `gorm:"size:20;index;not null;default:'in_progress'" json:"status"`
	QuestionIDs      datatypes.JSONSlice[uint] `json:"questionIds"`
	StartedAt        time.Time                 `gorm:"not null" json:"startedAt"`
	CompletedAt      *time.Time                `gorm:"index" json:"completedAt,omitempty"`
	TimeSpentSeconds *int                      `json:"timeSpentSeconds,omitempty"`
}

func (GameSession) TableName() string {
	return "game_sessions"
}

func (s *GameSession) HasQuestion(questionID uint) bool {
	for _, id := range s.QuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// Accuracy 正确率百分比（四舍五入），无题目时为 0
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(correct)*100/float64(total) + 0.5)
}
