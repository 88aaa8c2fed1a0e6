package repository

import (
	"context"
	"football_iq_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) WithTx(tx *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: tx}
}

func (r *QuestionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.DB.WithContext(ctx).Create(question).Error
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	if err := r.DB.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// ListActiveIDs 返回可用题目 ID；difficulty 为 mixed 时不过滤
func (r *QuestionRepository) ListActiveIDs(ctx context.Context, difficulty model.Difficulty) ([]uint, error) {
	var ids []uint
	query := r.DB.WithContext(ctx).Model(&model.Question{}).Where("is_active = ?", true)
	if difficulty != model.DifficultyMixed {
		query = query.Where("difficulty = ?", difficulty)
	}
	err := query.Order("id").Pluck("id", &ids).Error
	return ids, err
}

// FindByIDs 按传入顺序返回题目
func (r *QuestionRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var questions []model.Question
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	ordered := make([]model.Question, 0, len(questions))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

// IncrementStats 原子累加作答次数，答对时同时累加正确次数
func (r *QuestionRepository) IncrementStats(ctx context.Context, id uint, correct bool) error {
	correctDelta := 0
	if correct {
		correctDelta = 1
	}
	return r.DB.WithContext(ctx).Model(&model.Question{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"times_answered": gorm.Expr("times_answered + 1"),
			"times_correct":  gorm.Expr("times_correct + ?", correctDelta),
		}).Error
}

func (r *QuestionRepository) Deactivate(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Model(&model.Question{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
