package model

import "time"

// SQLChallengeCompletion 记录用户首次答对某个 SQL 挑战
type SQLChallengeCompletion struct {
	BaseModel
	UserID      uint      `gorm:"uniqueIndex:idx_sql_completion_user_challenge;not null" json:"userId"`
	ChallengeID int       `gorm:"uniqueIndex:idx_sql_completion_user_challenge;not null" json:"challengeId"`
	Points      int       `gorm:"not null" json:"points"`
	Query       string    `gorm:"type:text" json:"query"`
	SolvedAt    time.Time `json:"solvedAt"`
}

func (SQLChallengeCompletion) TableName() string {
	return "sql_challenge_completions"
}
