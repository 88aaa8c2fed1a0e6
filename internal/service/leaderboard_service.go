package service

import (
	"context"
	"encoding/json"
	"fmt"
	"football_iq_backend/internal/config"
	"football_iq_backend/internal/model"
	"football_iq_backend/internal/repository"
	"football_iq_backend/internal/util"
	"football_iq_backend/pkg/logger"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const leaderboardCacheKey = "footballiq:leaderboard"

type LeaderboardService struct {
	Repo  *repository.LeaderboardRepository
	Redis *redis.Client
	Hub   *LeaderboardHub
	cfg   config.LeaderboardConfig
	now   func() time.Time
}

func NewLeaderboardService(repo *repository.LeaderboardRepository, rdb *redis.Client, hub *LeaderboardHub, cfg config.LeaderboardConfig) *LeaderboardService {
	return &LeaderboardService{
		Repo:  repo,
		Redis: rdb,
		Hub:   hub,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeLimit 缺省为默认值，限制在 [1,max]
func (s *LeaderboardService) NormalizeLimit(limit int) int {
	if limit == 0 {
		limit = s.cfg.DefaultLimit
	}
	return util.ClampInt(limit, 1, s.cfg.MaxLimit)
}

// GetLeaderboard all 按用户最高分排名；week/month 按窗口内已完成会话的单局得分排名
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, period string, limit int) ([]model.LeaderboardEntry, error) {
	p := model.LeaderboardPeriod(strings.ToLower(strings.TrimSpace(period)))
	if p == "" {
		p = model.PeriodAll
	}
	if !p.Valid() {
		return nil, util.ErrInvalidPeriod
	}
	limit = s.NormalizeLimit(limit)

	field := fmt.Sprintf("%s:%d", p, limit)
	if entries, ok := s.fromCache(ctx, field); ok {
		return entries, nil
	}

	var (
		entries []model.LeaderboardEntry
		err     error
	)
	if since, windowed := p.Since(s.now()); windowed {
		entries, err = s.Repo.TopSessionsSince(ctx, since, limit)
	} else {
		entries, err = s.Repo.TopUsers(ctx, limit)
	}
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	s.toCache(ctx, field, entries)
	return entries, nil
}

func (s *LeaderboardService) fromCache(ctx context.Context, field string) ([]model.LeaderboardEntry, bool) {
	if s.Redis == nil {
		return nil, false
	}
	raw, err := s.Redis.HGet(ctx, leaderboardCacheKey, field).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("Leaderboard cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var entries []model.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (s *LeaderboardService) toCache(ctx context.Context, field string, entries []model.LeaderboardEntry) {
	if s.Redis == nil || s.cfg.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	pipe := s.Redis.TxPipeline()
	pipe.HSet(ctx, leaderboardCacheKey, field, raw)
	pipe.Expire(ctx, leaderboardCacheKey, s.cfg.CacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Log.Warn("Leaderboard cache write failed", zap.Error(err))
	}
}

func (s *LeaderboardService) InvalidateCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, leaderboardCacheKey).Err(); err != nil {
		logger.Log.Warn("Leaderboard cache invalidation failed", zap.Error(err))
	}
}

// OnGameCompleted 清理缓存并推送最新的总榜
func (s *LeaderboardService) OnGameCompleted(ctx context.Context) {
	s.InvalidateCache(ctx)
	if s.Hub == nil {
		return
	}
	msg, err := s.LiveSnapshot(ctx)
	if err != nil {
		logger.Log.Warn("Build live leaderboard failed", zap.Error(err))
		return
	}
	s.Hub.Broadcast(ctx, *msg)
}

func (s *LeaderboardService) LiveSnapshot(ctx context.Context) (*WSMessage, error) {
	entries, err := s.GetLeaderboard(ctx, string(model.PeriodAll), liveLeaderboardTop)
	if err != nil {
		return nil, err
	}
	return &WSMessage{Type: "LEADERBOARD", Data: entries}, nil
}

// GetSQLLeaderboard SQL 挑战榜，按已解决挑战的积分合计排名
func (s *LeaderboardService) GetSQLLeaderboard(ctx context.Context, limit int) ([]model.SQLLeaderboardEntry, error) {
	entries, err := s.Repo.TopSQLUsers(ctx, s.NormalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.SQLLeaderboardEntry{}
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
