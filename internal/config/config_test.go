package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
database:
  driver: sqlite
jwt:
  secret: short
storage:
  type: minio
sql_sandbox:
  query_timeout: 2s
`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.JWT.ExpireTime != 24*time.Hour {
		t.Errorf("jwt expire = %v, want 24h", cfg.JWT.ExpireTime)
	}
	if cfg.Game.DefaultQuestionCount != 10 || cfg.Game.MinQuestionCount != 5 || cfg.Game.MaxQuestionCount != 20 {
		t.Errorf("game defaults = %+v", cfg.Game)
	}
	if cfg.SQLSandbox.MaxRows != 100 || cfg.SQLSandbox.QueryTimeout != 2*time.Second {
		t.Errorf("sql sandbox = %+v", cfg.SQLSandbox)
	}
	if cfg.Leaderboard.MaxLimit != 100 || cfg.Leaderboard.CacheTTL != 30*time.Second {
		t.Errorf("leaderboard = %+v", cfg.Leaderboard)
	}
	if cfg.RabbitMQ.Exchange != "footballiq.events" {
		t.Errorf("exchange = %q", cfg.RabbitMQ.Exchange)
	}
}

func TestLoadConfigRejectsWeakSecretInRelease(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
jwt:
  secret: too-short
storage:
  type: minio
`)

	_, err := LoadConfig(dir)
	if err == nil || !strings.Contains(err.Error(), "JWT secret is too short") {
		t.Fatalf("err = %v", err)
	}
}

func TestValidateQuestionBounds(t *testing.T) {
	cfg := &Config{
		Game:        GameConfig{MinQuestionCount: 10, MaxQuestionCount: 5},
		SQLSandbox:  SQLSandboxConfig{MaxRows: 100},
		Leaderboard: LeaderboardConfig{MaxLimit: 100},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid bounds error")
	}

	cfg.Game = GameConfig{MinQuestionCount: 5, MaxQuestionCount: 20}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateResultCaps(t *testing.T) {
	base := Config{
		Game:        GameConfig{MinQuestionCount: 5, MaxQuestionCount: 20},
		SQLSandbox:  SQLSandboxConfig{MaxRows: MaxRowsCap},
		Leaderboard: LeaderboardConfig{MaxLimit: MaxLeaderboardCap},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	rows := base
	rows.SQLSandbox.MaxRows = MaxRowsCap + 1
	if err := rows.Validate(); err == nil || !strings.Contains(err.Error(), "sql_sandbox.max_rows") {
		t.Fatalf("max_rows over cap: err = %v", err)
	}

	board := base
	board.Leaderboard.MaxLimit = 500
	if err := board.Validate(); err == nil || !strings.Contains(err.Error(), "leaderboard.max_limit") {
		t.Fatalf("max_limit over cap: err = %v", err)
	}
}

func TestLoadConfigRejectsRaisedCaps(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
jwt:
  secret: short
storage:
  type: minio
sql_sandbox:
  max_rows: 1000
`)
	if _, err := LoadConfig(dir); err == nil || !strings.Contains(err.Error(), "sql_sandbox.max_rows") {
		t.Fatalf("err = %v", err)
	}
}
