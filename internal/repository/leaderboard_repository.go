package repository

import (
	"context"
	"football_iq_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type LeaderboardRepository struct {
	DB *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) *LeaderboardRepository {
	return &LeaderboardRepository{DB: db}
}

// TopUsers 全部时间：按用户最高分排序
func (r *LeaderboardRepository) TopUsers(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	err := r.DB.WithContext(ctx).Model(&model.User{}).
		Select("username, favorite_team, highest_score AS score, games_played").
		Where("is_active = ?", true).
		Order("highest_score DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

// TopSessionsSince 按时间窗口内已完成会话的单局得分排序
func (r *LeaderboardRepository) TopSessionsSince(ctx context.Context, since time.Time, limit int) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	err := r.DB.WithContext(ctx).Table("game_sessions AS gs").
		Select("u.username, u.favorite_team, gs.score AS score, u.games_played").
		Joins("JOIN users AS u ON u.id = gs.user_id").
		Where("gs.status = ? AND gs.completed_at >= ? AND gs.deleted_at IS NULL", model.SessionCompleted, since).
		Order("gs.score DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

// TopSQLUsers SQL 挑战积分榜
func (r *LeaderboardRepository) TopSQLUsers(ctx context.Context, limit int) ([]model.SQLLeaderboardEntry, error) {
	var entries []model.SQLLeaderboardEntry
	err := r.DB.WithContext(ctx).Table("sql_challenge_completions AS c").
		Select("u.username, u.favorite_team, SUM(c.points) AS score, COUNT(*) AS challenges_solved").
		Joins("JOIN users AS u ON u.id = c.user_id").
		Where("u.is_active = ? AND c.deleted_at IS NULL", true).
		Group("u.id, u.username, u.favorite_team").
		Order("score DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}
