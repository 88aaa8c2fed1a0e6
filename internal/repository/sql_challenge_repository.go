package repository

import (
	"context"
	"football_iq_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SQLChallengeRepository struct {
	DB *gorm.DB
}

func NewSQLChallengeRepository(db *gorm.DB) *SQLChallengeRepository {
	return &SQLChallengeRepository{DB: db}
}

// RecordCompletion 只记录首次答对，返回是否为新记录
func (r *SQLChallengeRepository) RecordCompletion(ctx context.Context, completion *model.SQLChallengeCompletion) (bool, error) {
	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(completion)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *SQLChallengeRepository) SolvedChallengeIDs(ctx context.Context, userID uint) ([]int, error) {
	var ids []int
	err := r.DB.WithContext(ctx).Model(&model.SQLChallengeCompletion{}).
		Where("user_id = ?", userID).
		Order("challenge_id").
		Pluck("challenge_id", &ids).Error
	return ids, err
}
