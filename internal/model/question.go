package model

import "gorm.io/datatypes"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
	// DifficultyMixed 仅用于开局选题，不会存储在题目上
	DifficultyMixed Difficulty = "mixed"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

// swagger:model Question
type Question struct {
	BaseModel
	Question      string                      `gorm:"type:text;not null" json:"question"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswer string                      `gorm:"size:255;not null" json:"correctAnswer"`
	Difficulty    Difficulty                  `gorm:"size:20;index;not null" json:"difficulty"`
	Category      string                      `gorm:"size:50;index" json:"category"`
	Points        int                         `gorm:"default:10;not null" json:"points"`
	Explanation   string                      `gorm:"type:text" json:"explanation"`
	IsActive      bool                        `gorm:"default:true;index;not null" json:"isActive"`
	TimesAnswered int                         `gorm:"default:0;not null" json:"timesAnswered"`
	TimesCorrect  int                         `gorm:"default:0;not null" json:"timesCorrect"`
}

func (Question) TableName() string {
	return "questions"
}

// PublicQuestion 去掉答案后下发给客户端的题目
type PublicQuestion struct {
	ID         uint       `json:"id"`
	Question   string     `json:"question"`
	Options    []string   `json:"options"`
	Difficulty Difficulty `json:"difficulty"`
	Category   string     `json:"category"`
	Points     int        `json:"points"`
}

func (q *Question) Public() PublicQuestion {
	options := make([]string, len(q.Options))
	copy(options, q.Options)
	return PublicQuestion{
		ID:         q.ID,
		Question:   q.Question,
		Options:    options,
		Difficulty: q.Difficulty,
		Category:   q.Category,
		Points:     q.Points,
	}
}
