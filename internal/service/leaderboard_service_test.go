package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"football_iq_backend/internal/model"
	"football_iq_backend/internal/util"
)

// playGame 直接写入一局已完成的会话并累加用户成绩
func (e *testEnv) playGame(t *testing.T, user *model.User, score int, completedAt time.Time) {
	t.Helper()
	spent := 60
	session := &model.GameSession{
		UserID:           user.ID,
		Score:            score,
		TotalQuestions:   5,
		Difficulty:       model.DifficultyMixed,
		Status:           model.SessionCompleted,
		StartedAt:        completedAt.Add(-time.Minute),
		CompletedAt:      &completedAt,
		TimeSpentSeconds: &spent,
	}
	if err := e.db.Create(session).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := e.users.ApplyGameResult(user.ID, score); err != nil {
		t.Fatalf("apply result: %v", err)
	}
}

func TestGetLeaderboardPeriods(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	veteran := env.createUser(t, "veteran")
	rookie := env.createUser(t, "rookie")
	env.playGame(t, veteran, 150, now.AddDate(0, 0, -40))
	env.playGame(t, veteran, 40, now.AddDate(0, 0, -10))
	env.playGame(t, rookie, 90, now.Add(-time.Hour))

	all, err := env.leaderboard.GetLeaderboard(ctx, "", 0)
	if err != nil {
		t.Fatalf("GetLeaderboard all: %v", err)
	}
	if len(all) != 2 || all[0].Username != "veteran" || all[0].Score != 150 || all[0].Rank != 1 || all[1].Rank != 2 {
		t.Fatalf("all-time board = %+v", all)
	}
	if all[0].GamesPlayed != 2 {
		t.Fatalf("veteran games played = %d", all[0].GamesPlayed)
	}

	week, err := env.leaderboard.GetLeaderboard(ctx, "WEEK", 0)
	if err != nil {
		t.Fatalf("GetLeaderboard week: %v", err)
	}
	if len(week) != 1 || week[0].Username != "rookie" || week[0].Score != 90 {
		t.Fatalf("weekly board = %+v", week)
	}

	month, err := env.leaderboard.GetLeaderboard(ctx, "month", 0)
	if err != nil {
		t.Fatalf("GetLeaderboard month: %v", err)
	}
	if len(month) != 2 || month[0].Username != "rookie" || month[1].Score != 40 {
		t.Fatalf("monthly board = %+v", month)
	}

	top, err := env.leaderboard.GetLeaderboard(ctx, "all", 1)
	if err != nil || len(top) != 1 {
		t.Fatalf("limit 1 = %+v, %v", top, err)
	}

	if _, err := env.leaderboard.GetLeaderboard(ctx, "yearly", 10); !errors.Is(err, util.ErrInvalidPeriod) {
		t.Fatalf("invalid period err = %v", err)
	}
}

func TestGetLeaderboardEmptyIsNotNil(t *testing.T) {
	env := newTestEnv(t)
	entries, err := env.leaderboard.GetLeaderboard(context.Background(), "week", 10)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("entries = %#v, want empty slice", entries)
	}
}

func TestNormalizeLimit(t *testing.T) {
	env := newTestEnv(t)
	cases := map[int]int{0: 10, -3: 1, 1: 1, 50: 50, 100: 100, 500: 100}
	for in, want := range cases {
		if got := env.leaderboard.NormalizeLimit(in); got != want {
			t.Errorf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestLiveSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for i, name := range []string{"a1", "a2", "a3"} {
		env.playGame(t, env.createUser(t, name), (i+1)*10, time.Now().UTC())
	}

	msg, err := env.leaderboard.LiveSnapshot(ctx)
	if err != nil {
		t.Fatalf("LiveSnapshot: %v", err)
	}
	entries, ok := msg.Data.([]model.LeaderboardEntry)
	if msg.Type != "LEADERBOARD" || !ok || len(entries) != 3 || entries[0].Username != "a3" {
		t.Fatalf("snapshot = %+v", msg)
	}
}
