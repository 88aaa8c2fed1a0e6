package model

import (
	"strings"

	"gorm.io/gorm"
)

// swagger:model User
type User struct {
	BaseModel
	Username     string `gorm:"size:30;not null" json:"username"`
	UsernameNorm string `gorm:"size:30;uniqueIndex;not null" json:"-"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	FavoriteTeam string `gorm:"size:100" json:"favoriteTeam,omitempty"`
	TotalScore   int    `gorm:"default:0;not null" json:"totalScore"`
	GamesPlayed  int    `gorm:"default:0;not null" json:"gamesPlayed"`
	HighestScore int    `gorm:"default:0;not null" json:"highestScore"`
	IsActive     bool   `gorm:"default:true;not null" json:"isActive"`
}

func (User) TableName() string {
	return "users"
}

// NormalizeUsername 用户名唯一性不区分大小写
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Username = strings.TrimSpace(u.Username)
	u.UsernameNorm = NormalizeUsername(u.Username)
	u.Email = NormalizeEmail(u.Email)
	return nil
}
