package repository

import (
	"errors"
	"football_iq_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", model.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username_norm = ?", model.NormalizeUsername(username)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByLogin 登录时允许使用用户名或邮箱
func (r *UserRepository) FindByLogin(identifier string) (*model.User, error) {
	var user model.User
	err := r.DB.
		Where("username_norm = ? OR email = ?", model.NormalizeUsername(identifier), model.NormalizeEmail(identifier)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ExistsByUsername(username string, excludeID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).
		Where("username_norm = ? AND id <> ?", model.NormalizeUsername(username), excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByEmail(email string, excludeID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).
		Where("email = ? AND id <> ?", model.NormalizeEmail(email), excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) UpdateProfile(userID uint, email, favoriteTeam string) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"email":         model.NormalizeEmail(email),
			"favorite_team": favoriteTeam,
		}).Error
}

func (r *UserRepository) UpdatePassword(userID uint, passwordHash string) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}

func (r *UserRepository) SetActive(userID uint, active bool) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("is_active", active).Error
}

// IsActive 用户不存在时返回 false
func (r *UserRepository) IsActive(userID uint) (bool, error) {
	var user model.User
	err := r.DB.Select("id", "is_active").First(&user, userID).Error
	if IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsActive, nil
}

// ApplyGameResult 结算一局游戏：场次 +1，总分累加，最高分取较大值。
// 全部使用单条 UPDATE 表达式完成。
func (r *UserRepository) ApplyGameResult(userID uint, score int) error {
	result := r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"games_played":  gorm.Expr("games_played + 1"),
			"total_score":   gorm.Expr("total_score + ?", score),
			"highest_score": gorm.Expr("CASE WHEN highest_score < ? THEN ? ELSE highest_score END", score, score),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
