package service

import (
	"context"
	"errors"
	"football_iq_backend/internal/config"
	"football_iq_backend/internal/model"
	"football_iq_backend/internal/repository"
	"football_iq_backend/internal/util"
	"football_iq_backend/pkg/events"
	"football_iq_backend/pkg/logger"
	"football_iq_backend/pkg/monitoring"
	"football_iq_backend/pkg/tracing"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

type SQLService struct {
	DatasetRepo   *repository.DatasetRepository
	ChallengeRepo *repository.SQLChallengeRepository
	Publisher     events.Publisher

	mu  sync.RWMutex
	cfg config.SQLSandboxConfig
}

func NewSQLService(datasetRepo *repository.DatasetRepository, challengeRepo *repository.SQLChallengeRepository, publisher events.Publisher, cfg config.SQLSandboxConfig) *SQLService {
	return &SQLService{
		DatasetRepo:   datasetRepo,
		ChallengeRepo: challengeRepo,
		Publisher:     publisher,
		cfg:           cfg,
	}
}

// UpdateConfig 热更新沙箱限制
func (s *SQLService) UpdateConfig(cfg config.SQLSandboxConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

func (s *SQLService) limits() config.SQLSandboxConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// queryError 用户 SQL 的运行时错误，对外原样展示
type queryError struct {
	err error
}

func (e *queryError) Error() string { return e.err.Error() }
func (e *queryError) Unwrap() error { return e.err }

// run 校验并执行用户 SQL。安全策略拒绝返回 *util.AppError，执行失败返回 *queryError
func (s *SQLService) run(ctx context.Context, query string) (*model.QueryResult, error) {
	cfg := s.limits()
	ctx, span := tracing.Tracer.Start(ctx, "sql.execute")
	defer span.End()

	if err := ValidateReadOnlyQuery(query); err != nil {
		span.SetStatus(codes.Error, "rejected")
		monitoring.ObserveSQL(monitoring.OutcomeRejected, 0)
		return nil, err
	}

	if cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.QueryTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.DatasetRepo.Execute(ctx, query, cfg.MaxRows)
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		monitoring.ObserveSQL(monitoring.OutcomeError, elapsed)
		if errors.Is(err, context.DeadlineExceeded) {
			err = errors.New("query exceeded the time limit of " + cfg.QueryTimeout.String())
		}
		return nil, &queryError{err: err}
	}

	span.SetAttributes(
		attribute.Int("sql.row_count", result.RowCount),
		attribute.Bool("sql.truncated", result.Truncated),
	)
	monitoring.ObserveSQL(monitoring.OutcomeOK, elapsed)
	return result, nil
}

// Execute 自由查询。语法或运行错误都按 400 返回
func (s *SQLService) Execute(ctx context.Context, userID uint, query string) (*model.QueryResult, error) {
	result, err := s.run(ctx, query)
	if err != nil {
		var qe *queryError
		if errors.As(err, &qe) {
			logger.Log.Debug("Sandbox query failed", zap.Uint("userId", userID), zap.Error(qe.err))
			return nil, util.NewValidationError("SQL Error: " + qe.err.Error())
		}
		return nil, err
	}
	return result, nil
}

type SubmitChallengeResult struct {
	IsCorrect      bool                     `json:"isCorrect"`
	Feedback       string                   `json:"feedback"`
	Points         int                      `json:"points"`
	UserResults    []map[string]interface{} `json:"userResults"`
	RowCount       int                      `json:"rowCount"`
	ExpectedSample []map[string]interface{} `json:"expectedSample,omitempty"`
	Hint           string                   `json:"hint,omitempty"`
	Solution       string                   `json:"solution,omitempty"`
	FirstSolve     bool                     `json:"firstSolve"`
}

// SubmitChallenge 执行用户查询与参考查询并判分。用户 SQL 出错时判为错误而不是请求失败
func (s *SQLService) SubmitChallenge(ctx context.Context, userID uint, challengeID int, query string) (*SubmitChallengeResult, error) {
	challenge, ok := FindChallenge(challengeID)
	if !ok {
		return nil, util.ErrChallengeNotFound
	}
	sampleRows := s.limits().SampleRows

	userResult, err := s.run(ctx, query)
	if err != nil {
		var qe *queryError
		if errors.As(err, &qe) {
			return &SubmitChallengeResult{
				IsCorrect:   false,
				Feedback:    "SQL Error: " + qe.err.Error(),
				UserResults: []map[string]interface{}{},
				Hint:        challenge.Hint,
			}, nil
		}
		return nil, err
	}

	// 参考查询由服务端维护，出错属于内部错误
	expected, err := s.DatasetRepo.Execute(ctx, challenge.ExpectedQuery, s.limits().MaxRows)
	if err != nil {
		return nil, err
	}

	correct, feedback := GradeChallenge(challenge.Validate, userResult, expected)
	resp := &SubmitChallengeResult{
		IsCorrect:   correct,
		Feedback:    feedback,
		UserResults: userResult.Sample(sampleRows),
		RowCount:    userResult.RowCount,
	}
	if !correct {
		resp.ExpectedSample = expected.Sample(3)
		resp.Hint = challenge.Hint
		return resp, nil
	}

	resp.Points = challenge.Points
	resp.Solution = challenge.ExpectedQuery
	created, err := s.ChallengeRepo.RecordCompletion(ctx, &model.SQLChallengeCompletion{
		UserID:      userID,
		ChallengeID: challenge.ID,
		Points:      challenge.Points,
		Query:       query,
		SolvedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	resp.FirstSolve = created

	if created {
		logger.Log.Info("SQL challenge solved",
			zap.Uint("userId", userID),
			zap.Int("challengeId", challenge.ID),
		)
		if err := s.Publisher.Publish(ctx, &events.Event{
			Type:    events.SQLChallengeSolved,
			UserID:  userID,
			Payload: events.ChallengeSolvedPayload{ChallengeID: challenge.ID, Points: challenge.Points},
		}); err != nil {
			logger.Log.Warn("Failed to publish challenge event", zap.Error(err))
		}
	}
	return resp, nil
}

// ListChallenges 可按难度过滤；userID 为 0 时不标记完成状态
func (s *SQLService) ListChallenges(ctx context.Context, difficulty string, userID uint) ([]PublicChallenge, error) {
	if difficulty != "" && !model.Difficulty(difficulty).Valid() {
		return nil, util.NewValidationError("Difficulty must be one of easy, medium, hard, expert")
	}

	solved := map[int]bool{}
	if userID != 0 {
		ids, err := s.ChallengeRepo.SolvedChallengeIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			solved[id] = true
		}
	}

	list := make([]PublicChallenge, 0, len(challenges))
	for i := range challenges {
		c := &challenges[i]
		if difficulty != "" && c.Difficulty != model.Difficulty(difficulty) {
			continue
		}
		pub := c.Public()
		pub.Solved = solved[c.ID]
		list = append(list, pub)
	}
	return list, nil
}

func (s *SQLService) GetChallenge(ctx context.Context, id int) (*PublicChallenge, error) {
	challenge, ok := FindChallenge(id)
	if !ok {
		return nil, util.ErrChallengeNotFound
	}
	pub := challenge.Public()
	pub.Schema = schemaSummary
	return &pub, nil
}

func (s *SQLService) GetSchema(ctx context.Context) ([]TableInfo, error) {
	counts, err := s.DatasetRepo.TableCounts(ctx)
	if err != nil {
		return nil, err
	}
	tables := DatasetSchema()
	for i := range tables {
		tables[i].RowCount = counts[tables[i].Name]
	}
	return tables, nil
}
