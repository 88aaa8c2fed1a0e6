package model

// GameAnswer 每个 (session, question) 只允许一条记录，由唯一索引保证
type GameAnswer struct {
	BaseModel
	SessionID        uint   `gorm:"uniqueIndex:idx_game_answers_session_question;not null" json:"sessionId"`
	QuestionID       uint   `gorm:"uniqueIndex:idx_game_answers_session_question;not null" json:"questionId"`
	UserAnswer       string `gorm:"size:255" json:"userAnswer"`
	IsCorrect        bool   `gorm:"not null" json:"isCorrect"`
	PointsEarned     int    `gorm:"default:0;not null" json:"pointsEarned"`
	TimeSpentSeconds int    `gorm:"default:0" json:"timeSpentSeconds"`
}

func (GameAnswer) TableName() string {
	return "game_answers"
}
