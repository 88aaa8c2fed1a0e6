package service

import (
	"context"
	"football_iq_backend/internal/config"
	"football_iq_backend/internal/model"
	"football_iq_backend/internal/repository"
	"football_iq_backend/internal/util"
	"football_iq_backend/pkg/events"
	"football_iq_backend/pkg/logger"
	"football_iq_backend/pkg/monitoring"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GameService struct {
	DB           *gorm.DB
	UserRepo     *repository.UserRepository
	QuestionRepo *repository.QuestionRepository
	GameRepo     *repository.GameRepository
	Leaderboard  *LeaderboardService
	Publisher    events.Publisher

	mu  sync.RWMutex
	cfg config.GameConfig
	now func() time.Time
}

func NewGameService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	questionRepo *repository.QuestionRepository,
	gameRepo *repository.GameRepository,
	leaderboard *LeaderboardService,
	publisher events.Publisher,
	cfg config.GameConfig,
) *GameService {
	return &GameService{
		DB:           db,
		UserRepo:     userRepo,
		QuestionRepo: questionRepo,
		GameRepo:     gameRepo,
		Leaderboard:  leaderboard,
		Publisher:    publisher,
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *GameService) UpdateConfig(cfg config.GameConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

func (s *GameService) gameConfig() config.GameConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

type StartGameResult struct {
	SessionID      uint                   `json:"sessionId"`
	Difficulty     model.Difficulty       `json:"difficulty"`
	Questions      []model.PublicQuestion `json:"questions"`
	TotalQuestions int                    `json:"totalQuestions"`
}

// StartGame 随机抽题并创建会话。题数限制在 [min,max]，题库不足时按实际数量出题
func (s *GameService) StartGame(ctx context.Context, userID uint, difficulty string, questionCount int) (*StartGameResult, error) {
	d := model.DifficultyMixed
	if difficulty != "" {
		d = model.Difficulty(difficulty)
	}
	if d != model.DifficultyMixed && !d.Valid() {
		return nil, util.ErrInvalidDifficulty
	}

	cfg := s.gameConfig()
	if questionCount == 0 {
		questionCount = cfg.DefaultQuestionCount
	}
	questionCount = util.ClampInt(questionCount, cfg.MinQuestionCount, cfg.MaxQuestionCount)

	ids, err := s.QuestionRepo.ListActiveIDs(ctx, d)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, util.ErrNoQuestionsAvailable
	}

	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if len(ids) > questionCount {
		ids = ids[:questionCount]
	}

	questions, err := s.QuestionRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	session := &model.GameSession{
		UserID:         userID,
		TotalQuestions: len(questions),
		Difficulty:     d,
		Status:         model.SessionInProgress,
		StartedAt:      s.now(),
	}
	public := make([]model.PublicQuestion, 0, len(questions))
	for i := range questions {
		session.QuestionIDs = append(session.QuestionIDs, questions[i].ID)
		public = append(public, questions[i].Public())
	}

	if err := s.GameRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	logger.Log.Info("Game started",
		zap.Uint("sessionId", session.ID),
		zap.Uint("userId", userID),
		zap.String("difficulty", string(d)),
		zap.Int("questions", session.TotalQuestions),
	)

	return &StartGameResult{
		SessionID:      session.ID,
		Difficulty:     d,
		Questions:      public,
		TotalQuestions: session.TotalQuestions,
	}, nil
}

type AnswerResult struct {
	IsCorrect      bool   `json:"isCorrect"`
	PointsEarned   int    `json:"pointsEarned"`
	CorrectAnswer  string `json:"correctAnswer"`
	Explanation    string `json:"explanation"`
	CurrentScore   int    `json:"currentScore"`
	CorrectAnswers int    `json:"correctAnswers"`
}

// SubmitAnswer 判分并在同一事务中写入答题记录、题目统计和会话得分
func (s *GameService) SubmitAnswer(ctx context.Context, userID, sessionID, questionID uint, answer string, timeSpent int) (*AnswerResult, error) {
	var result *AnswerResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		gameRepo := s.GameRepo.WithTx(tx)
		questionRepo := s.QuestionRepo.WithTx(tx)

		session, err := gameRepo.FindUserSession(ctx, sessionID, userID)
		if err != nil {
			if repository.IsNotFound(err) {
				return util.ErrSessionNotFound
			}
			return err
		}
		if session.Status != model.SessionInProgress {
			return util.ErrSessionNotActive
		}

		question, err := questionRepo.FindByID(ctx, questionID)
		if err != nil {
			if repository.IsNotFound(err) {
				return util.ErrQuestionNotFound
			}
			return err
		}
		if !session.HasQuestion(questionID) {
			return util.ErrQuestionNotInSession
		}

		correct := GradeTriviaAnswer(answer, question.CorrectAnswer)
		points := 0
		if correct {
			points = question.Points
		}
		if timeSpent < 0 {
			timeSpent = 0
		}

		err = gameRepo.CreateAnswer(ctx, &model.GameAnswer{
			SessionID:        sessionID,
			QuestionID:       questionID,
			UserAnswer:       answer,
			IsCorrect:        correct,
			PointsEarned:     points,
			TimeSpentSeconds: timeSpent,
		})
		if err != nil {
			if repository.IsDuplicateKey(err) {
				return util.ErrAlreadyAnswered
			}
			return err
		}

		if err := questionRepo.IncrementStats(ctx, questionID, correct); err != nil {
			return err
		}

		rows, err := gameRepo.AddAnswerResult(ctx, sessionID, points, correct)
		if err != nil {
			return err
		}
		if rows == 0 {
			// 会话在此期间已结束
			return util.ErrSessionNotActive
		}

		updated, err := gameRepo.FindSession(ctx, sessionID)
		if err != nil {
			return err
		}

		result = &AnswerResult{
			IsCorrect:      correct,
			PointsEarned:   points,
			CorrectAnswer:  question.CorrectAnswer,
			Explanation:    question.Explanation,
			CurrentScore:   updated.Score,
			CorrectAnswers: updated.CorrectAnswers,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.ObserveAnswer(result.IsCorrect)
	logger.Log.Debug("Answer graded",
		zap.Uint("sessionId", sessionID),
		zap.Uint("questionId", questionID),
		zap.Bool("correct", result.IsCorrect),
	)
	return result, nil
}

type GameResult struct {
	SessionID        uint `json:"sessionId"`
	Score            int  `json:"score"`
	TotalQuestions   int  `json:"totalQuestions"`
	CorrectAnswers   int  `json:"correctAnswers"`
	Accuracy         int  `json:"accuracy"`
	TimeSpentSeconds int  `json:"timeSpentSeconds"`
}

// EndGame 结束会话并累加用户成绩，两者在同一事务中完成，任一失败则会话保持 in_progress
func (s *GameService) EndGame(ctx context.Context, userID, sessionID uint) (*GameResult, error) {
	var session *model.GameSession

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		gameRepo := s.GameRepo.WithTx(tx)

		found, err := gameRepo.FindUserSession(ctx, sessionID, userID)
		if err != nil {
			if repository.IsNotFound(err) {
				return util.ErrSessionNotFound
			}
			return err
		}
		if found.Status != model.SessionInProgress {
			return util.ErrSessionNotActive
		}

		now := s.now()
		timeSpent := int(now.Sub(found.StartedAt).Seconds())
		if timeSpent < 0 {
			timeSpent = 0
		}

		rows, err := gameRepo.CompleteSession(ctx, sessionID, now, timeSpent)
		if err != nil {
			return err
		}
		if rows == 0 {
			return util.ErrSessionNotActive
		}

		// 重新读取，拿到并发答题累加后的最终得分
		session, err = gameRepo.FindSession(ctx, sessionID)
		if err != nil {
			return err
		}

		return s.UserRepo.WithTx(tx).ApplyGameResult(userID, session.Score)
	})
	if err != nil {
		if _, ok := util.IsAppError(err); !ok {
			logger.Log.Error("Failed to end game",
				zap.Uint("sessionId", sessionID),
				zap.Uint("userId", userID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	result := &GameResult{
		SessionID:      session.ID,
		Score:          session.Score,
		TotalQuestions: session.TotalQuestions,
		CorrectAnswers: session.CorrectAnswers,
		Accuracy:       model.Accuracy(session.CorrectAnswers, session.TotalQuestions),
	}
	if session.TimeSpentSeconds != nil {
		result.TimeSpentSeconds = *session.TimeSpentSeconds
	}

	monitoring.GamesCompleted.WithLabelValues(string(model.SessionCompleted)).Inc()
	logger.Log.Info("Game completed",
		zap.Uint("sessionId", sessionID),
		zap.Uint("userId", userID),
		zap.Int("score", result.Score),
		zap.Int("accuracy", result.Accuracy),
	)

	if s.Leaderboard != nil {
		s.Leaderboard.OnGameCompleted(ctx)
	}
	if s.Publisher != nil {
		err := s.Publisher.Publish(ctx, &events.Event{
			Type:   events.GameCompleted,
			UserID: userID,
			Payload: events.GameCompletedPayload{
				SessionID:      result.SessionID,
				Score:          result.Score,
				TotalQuestions: result.TotalQuestions,
				CorrectAnswers: result.CorrectAnswers,
				Accuracy:       result.Accuracy,
			},
		})
		if err != nil {
			logger.Log.Warn("Failed to publish game event", zap.Uint("sessionId", sessionID), zap.Error(err))
		}
	}

	return result, nil
}

type RecentGame struct {
	SessionID        uint             `json:"sessionId"`
	Score            int              `json:"score"`
	TotalQuestions   int              `json:"totalQuestions"`
	CorrectAnswers   int              `json:"correctAnswers"`
	Accuracy         int              `json:"accuracy"`
	Difficulty       model.Difficulty `json:"difficulty"`
	TimeSpentSeconds int              `json:"timeSpentSeconds"`
	CompletedAt      *time.Time       `json:"completedAt"`
}

type GameStats struct {
	TotalScore      int          `json:"totalScore"`
	GamesPlayed     int          `json:"gamesPlayed"`
	HighestScore    int          `json:"highestScore"`
	AverageScore    float64      `json:"averageScore"`
	AverageAccuracy int          `json:"averageAccuracy"`
	AverageTime     float64      `json:"averageTimeSeconds"`
	RecentGames     []RecentGame `json:"recentGames"`
}

const recentGamesLimit = 5

// GetStats 用户累计成绩、最近 5 局及平均值
func (s *GameService) GetStats(ctx context.Context, userID uint) (*GameStats, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	agg, err := s.GameRepo.CompletedAggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.GameRepo.RecentCompleted(ctx, userID, recentGamesLimit)
	if err != nil {
		return nil, err
	}

	stats := &GameStats{
		TotalScore:      user.TotalScore,
		GamesPlayed:     user.GamesPlayed,
		HighestScore:    user.HighestScore,
		AverageScore:    roundTo(agg.AverageScore, 1),
		AverageAccuracy: model.Accuracy(int(agg.TotalCorrect), int(agg.TotalQuestions)),
		AverageTime:     roundTo(agg.AverageTime, 1),
		RecentGames:     make([]RecentGame, 0, len(recent)),
	}
	for _, g := range recent {
		rg := RecentGame{
			SessionID:      g.ID,
			Score:          g.Score,
			TotalQuestions: g.TotalQuestions,
			CorrectAnswers: g.CorrectAnswers,
			Accuracy:       model.Accuracy(g.CorrectAnswers, g.TotalQuestions),
			Difficulty:     g.Difficulty,
			CompletedAt:    g.CompletedAt,
		}
		if g.TimeSpentSeconds != nil {
			rg.TimeSpentSeconds = *g.TimeSpentSeconds
		}
		stats.RecentGames = append(stats.RecentGames, rg)
	}
	return stats, nil
}

// AbandonStaleSessions 后台任务：超时未结束的会话标记为 abandoned
func (s *GameService) AbandonStaleSessions(ctx context.Context) (int64, error) {
	cfg := s.gameConfig()
	if cfg.AbandonAfter <= 0 {
		return 0, nil
	}
	n, err := s.GameRepo.AbandonStale(ctx, s.now().Add(-cfg.AbandonAfter))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		monitoring.GamesCompleted.WithLabelValues(string(model.SessionAbandoned)).Add(float64(n))
		logger.Log.Info("Abandoned stale game sessions", zap.Int64("count", n))
	}
	return n, nil
}

func roundTo(v float64, places int) float64 {
	p := 1.0
	for i := 0; i < places; i++ {
		p *= 10
	}
	return float64(int64(v*p+0.5)) / p
}
