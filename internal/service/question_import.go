package service

import (
	"context"
	"fmt"
	"football_iq_backend/internal/model"
	"football_iq_backend/internal/repository"
	"football_iq_backend/pkg/logger"
	"io"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// questionFile 题库 YAML 文件格式
//
//	questions:
//	  - question: Which club won the 2023 Champions League?
//	    options: [Manchester City, Inter, Real Madrid, Bayern Munich]
//	    answer: Manchester City
//	    difficulty: easy
//	    category: competitions
type questionFile struct {
	Questions []questionEntry `yaml:"questions"`
}

type questionEntry struct {
	Question    string   `yaml:"question"`
	Options     []string `yaml:"options"`
	Answer      string   `yaml:"answer"`
	Difficulty  string   `yaml:"difficulty"`
	Category    string   `yaml:"category"`
	Points      int      `yaml:"points"`
	Explanation string   `yaml:"explanation"`
}

var defaultPoints = map[model.Difficulty]int{
	model.DifficultyEasy:   10,
	model.DifficultyMedium: 20,
	model.DifficultyHard:   30,
	model.DifficultyExpert: 50,
}

// ParseQuestionBank 解析并校验题库，任何一道题不合法都会返回错误
func ParseQuestionBank(r io.Reader) ([]model.Question, error) {
	var file questionFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}

	questions := make([]model.Question, 0, len(file.Questions))
	for i, e := range file.Questions {
		q, err := e.toModel()
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (e questionEntry) toModel() (model.Question, error) {
	text := strings.TrimSpace(e.Question)
	if text == "" {
		return model.Question{}, fmt.Errorf("question text is empty")
	}
	if len(e.Options) < 2 {
		return model.Question{}, fmt.Errorf("at least two options are required")
	}

	// 答案统一成选项原文
	answer := ""
	for _, opt := range e.Options {
		if GradeTriviaAnswer(e.Answer, opt) {
			answer = opt
			break
		}
	}
	if answer == "" {
		return model.Question{}, fmt.Errorf("answer %q is not one of the options", e.Answer)
	}

	difficulty := model.Difficulty(strings.ToLower(strings.TrimSpace(e.Difficulty)))
	if !difficulty.Valid() {
		return model.Question{}, fmt.Errorf("invalid difficulty %q", e.Difficulty)
	}

	points := e.Points
	if points <= 0 {
		points = defaultPoints[difficulty]
	}

	return model.Question{
		Question:      text,
		Options:       e.Options,
		CorrectAnswer: answer,
		Difficulty:    difficulty,
		Category:      strings.TrimSpace(e.Category),
		Points:        points,
		Explanation:   e.Explanation,
		IsActive:      true,
	}, nil
}

// ImportQuestions 在一个事务内写入题库
func ImportQuestions(ctx context.Context, repo *repository.QuestionRepository, r io.Reader) (int, error) {
	questions, err := ParseQuestionBank(r)
	if err != nil {
		return 0, err
	}

	err = repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		for i := range questions {
			if err := txRepo.Create(ctx, &questions[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("import questions: %w", err)
	}

	logger.Log.Info("Question bank imported", zap.Int("count", len(questions)))
	return len(questions), nil
}
