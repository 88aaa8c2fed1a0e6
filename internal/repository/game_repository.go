package repository

import (
	"context"
	"football_iq_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type GameRepository struct {
	DB *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{DB: db}
}

func (r *GameRepository) WithTx(tx *gorm.DB) *GameRepository {
	return &GameRepository{DB: tx}
}

func (r *GameRepository) CreateSession(ctx context.Context, session *model.GameSession) error {
	return r.DB.WithContext(ctx).Create(session).Error
}

func (r *GameRepository) FindSession(ctx context.Context, id uint) (*model.GameSession, error) {
	var session model.GameSession
	if err := r.DB.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// FindUserSession 只返回属于该用户的会话
func (r *GameRepository) FindUserSession(ctx context.Context, id, userID uint) (*model.GameSession, error) {
	var session model.GameSession
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateAnswer 依赖 (session_id, question_id) 唯一索引拦截重复作答
func (r *GameRepository) CreateAnswer(ctx context.Context, answer *model.GameAnswer) error {
	return r.DB.WithContext(ctx).Create(answer).Error
}

func (r *GameRepository) CountAnswers(ctx context.Context, sessionID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.GameAnswer{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

func (r *GameRepository) ListAnswers(ctx context.Context, sessionID uint) ([]model.GameAnswer, error) {
	var answers []model.GameAnswer
	err := r.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id").
		Find(&answers).Error
	return answers, err
}

// AddAnswerResult 累加会话得分。仅当会话仍在进行中且答对数未超过题目数时生效，
// 返回受影响行数供调用方判断。
func (r *GameRepository) AddAnswerResult(ctx context.Context, sessionID uint, points int, correct bool) (int64, error) {
	correctDelta := 0
	if correct {
		correctDelta = 1
	}
	result := r.DB.WithContext(ctx).Model(&model.GameSession{}).
		Where("id = ? AND status = ? AND correct_answers + ? <= total_questions", sessionID, model.SessionInProgress, correctDelta).
		Updates(map[string]interface{}{
			"score":           gorm.Expr("score + ?", points),
			"correct_answers": gorm.Expr("correct_answers + ?", correctDelta),
		})
	return result.RowsAffected, result.Error
}

// CompleteSession in_progress -> completed，已结束的会话不会被修改
func (r *GameRepository) CompleteSession(ctx context.Context, sessionID uint, completedAt time.Time, timeSpent int) (int64, error) {
	result := r.DB.WithContext(ctx).Model(&model.GameSession{}).
		Where("id = ? AND status = ?", sessionID, model.SessionInProgress).
		Updates(map[string]interface{}{
			"status":             model.SessionCompleted,
			"completed_at":       completedAt,
			"time_spent_seconds": timeSpent,
		})
	return result.RowsAffected, result.Error
}

// AbandonStale 将长时间未结束的会话标记为 abandoned
func (r *GameRepository) AbandonStale(ctx context.Context, startedBefore time.Time) (int64, error) {
	result := r.DB.WithContext(ctx).Model(&model.GameSession{}).
		Where("status = ? AND started_at < ?", model.SessionInProgress, startedBefore).
		Update("status", model.SessionAbandoned)
	return result.RowsAffected, result.Error
}

func (r *GameRepository) RecentCompleted(ctx context.Context, userID uint, limit int) ([]model.GameSession, error) {
	var sessions []model.GameSession
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.SessionCompleted).
		Order("completed_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

type SessionAggregate struct {
	CompletedGames int64
	AverageScore   float64
	TotalCorrect   int64
	TotalQuestions int64
	AverageTime    float64
}

func (r *GameRepository) CompletedAggregate(ctx context.Context, userID uint) (*SessionAggregate, error) {
	var agg SessionAggregate
	err := r.DB.WithContext(ctx).Model(&model.GameSession{}).
		Select(`COUNT(*) AS completed_games,
			COALESCE(AVG(score), 0) AS average_score,
			COALESCE(SUM(correct_answers), 0) AS total_correct,
			COALESCE(SUM(total_questions), 0) AS total_questions,
			COALESCE(AVG(time_spent_seconds), 0) AS average_time`).
		Where("user_id = ? AND status = ?", userID, model.SessionCompleted).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}
