package service

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"football_iq_backend/internal/config"
	"football_iq_backend/internal/model"
	"football_iq_backend/internal/repository"
	"football_iq_backend/pkg/database"
	"football_iq_backend/pkg/events"

	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	cfg         *config.Config
	users       *repository.UserRepository
	questions   *repository.QuestionRepository
	games       *repository.GameRepository
	publisher   *events.MockPublisher
	hub         *LeaderboardHub
	leaderboard *LeaderboardService
	game        *GameService
	sql         *SQLService
	auth        *AuthService
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "service-test-secret-service-test-secret", ExpireTime: time.Hour},
		Game: config.GameConfig{
			DefaultQuestionCount: 10,
			MinQuestionCount:     5,
			MaxQuestionCount:     20,
			AbandonAfter:         24 * time.Hour,
		},
		SQLSandbox:  config.SQLSandboxConfig{MaxRows: 100, SampleRows: 20, QueryTimeout: 5 * time.Second},
		Leaderboard: config.LeaderboardConfig{DefaultLimit: 10, MaxLimit: 100},
	}
}

// newTestEnv 临时 SQLite，写入内置数据集但不写入题库，Redis 与 RabbitMQ 关闭
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.SeedDataset(db); err != nil {
		t.Fatalf("seed dataset: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := testConfig()
	env := &testEnv{
		db:        db,
		cfg:       cfg,
		users:     repository.NewUserRepository(db),
		questions: repository.NewQuestionRepository(db),
		games:     repository.NewGameRepository(db),
		publisher: events.NewMockPublisher(),
		hub:       NewLeaderboardHub(nil),
	}
	env.leaderboard = NewLeaderboardService(repository.NewLeaderboardRepository(db), nil, env.hub, cfg.Leaderboard)
	env.game = NewGameService(db, env.users, env.questions, env.games, env.leaderboard, env.publisher, cfg.Game)
	env.sql = NewSQLService(repository.NewDatasetRepository(db), repository.NewSQLChallengeRepository(db), env.publisher, cfg.SQLSandbox)
	env.auth = NewAuthService(env.users, cfg)
	return env
}

func (e *testEnv) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	if err := e.users.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// createQuestions 写入 n 道题，正确答案统一为 "A"
func (e *testEnv) createQuestions(t *testing.T, difficulty model.Difficulty, n, points int) []model.Question {
	t.Helper()
	out := make([]model.Question, 0, n)
	for i := 0; i < n; i++ {
		q := model.Question{
			Question:      fmt.Sprintf("%s question %d", difficulty, i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "A",
			Difficulty:    difficulty,
			Category:      "test",
			Points:        points,
			Explanation:   "because",
			IsActive:      true,
		}
		if err := e.db.Create(&q).Error; err != nil {
			t.Fatalf("create question: %v", err)
		}
		out = append(out, q)
	}
	return out
}
