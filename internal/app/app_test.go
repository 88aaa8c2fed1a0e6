package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"football_iq_backend/internal/config"
	"football_iq_backend/internal/model"
	"football_iq_backend/internal/repository"
	"football_iq_backend/pkg/database"
	"football_iq_backend/pkg/events"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t         *testing.T
	app       *App
	publisher *events.MockPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.SeedDataset(db); err != nil {
		t.Fatalf("seed dataset: %v", err)
	}
	for i := 1; i <= 3; i++ {
		q := model.Question{
			Question:      fmt.Sprintf("Easy question %d", i),
			Options:       []string{"Yes", "No"},
			CorrectAnswer: "Yes",
			Difficulty:    model.DifficultyEasy,
			Category:      "general",
			Points:        10,
			IsActive:      true,
		}
		if err := db.Create(&q).Error; err != nil {
			t.Fatalf("create question: %v", err)
		}
	}

	cfg := &config.Config{
		Server:      config.ServerConfig{Mode: "test"},
		JWT:         config.JWTConfig{Secret: "app-test-secret-app-test-secret-0123", ExpireTime: time.Hour},
		RateLimit:   config.RateLimitConfig{MaxRequests: 10000, WindowMinutes: 1, SQLPerMinute: 1000},
		CORS:        config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Game:        config.GameConfig{DefaultQuestionCount: 10, MinQuestionCount: 5, MaxQuestionCount: 20, AbandonAfter: 24 * time.Hour},
		SQLSandbox:  config.SQLSandboxConfig{MaxRows: 100, SampleRows: 20, QueryTimeout: 5 * time.Second},
		Leaderboard: config.LeaderboardConfig{DefaultLimit: 10, MaxLimit: 100},
	}

	publisher := events.NewMockPublisher()
	a := newApp(cfg, db, nil, publisher)
	t.Cleanup(func() {
		a.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return &testServer{t: t, app: a, publisher: publisher}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.app.Router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		s.t.Fatalf("%s %s: decode response %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, env
}

func decode(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func TestGameFlow(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice", "email": "alice@x.com", "password": "Passw0rd!", "favoriteTeam": "Arsenal",
	})
	if code != http.StatusCreated {
		t.Fatalf("register = %d %s", code, env.Message)
	}
	var auth struct {
		Token string `json:"token"`
		User  struct {
			ID       uint   `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	decode(t, env, &auth)
	if auth.Token == "" || auth.User.Username != "alice" {
		t.Fatalf("register data = %s", env.Data)
	}

	code, env = s.do(http.MethodPost, "/api/game/start", auth.Token, gin.H{"difficulty": "easy", "questionCount": 3})
	if code != http.StatusCreated {
		t.Fatalf("start = %d %s", code, env.Message)
	}
	var game struct {
		SessionID      uint `json:"sessionId"`
		TotalQuestions int  `json:"totalQuestions"`
		Questions      []struct {
			ID uint `json:"id"`
		} `json:"questions"`
	}
	decode(t, env, &game)
	if game.TotalQuestions != 3 || len(game.Questions) != 3 {
		t.Fatalf("start data = %s", env.Data)
	}
	if bytes.Contains(env.Data, []byte("correctAnswer")) {
		t.Fatal("start response leaks the correct answer")
	}

	answerPath := fmt.Sprintf("/api/game/%d/answer", game.SessionID)
	code, env = s.do(http.MethodPost, answerPath, auth.Token, gin.H{"questionId": game.Questions[0].ID, "answer": "yes", "timeSpent": 4})
	if code != http.StatusOK {
		t.Fatalf("answer = %d %s", code, env.Message)
	}
	var answer struct {
		IsCorrect    bool `json:"isCorrect"`
		PointsEarned int  `json:"pointsEarned"`
	}
	decode(t, env, &answer)
	if !answer.IsCorrect || answer.PointsEarned != 10 {
		t.Fatalf("answer data = %s", env.Data)
	}

	code, env = s.do(http.MethodPost, answerPath, auth.Token, gin.H{"questionId": game.Questions[0].ID, "answer": "Yes"})
	if code != http.StatusBadRequest {
		t.Fatalf("duplicate answer = %d %s", code, env.Message)
	}

	code, env = s.do(http.MethodPost, fmt.Sprintf("/api/game/%d/end", game.SessionID), auth.Token, nil)
	if code != http.StatusOK {
		t.Fatalf("end = %d %s", code, env.Message)
	}
	var result struct {
		Score    int `json:"score"`
		Accuracy int `json:"accuracy"`
	}
	decode(t, env, &result)
	if result.Score != 10 || result.Accuracy != 33 {
		t.Fatalf("end data = %s", env.Data)
	}

	code, env = s.do(http.MethodPost, fmt.Sprintf("/api/game/%d/end", game.SessionID), auth.Token, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("second end = %d %s", code, env.Message)
	}

	code, env = s.do(http.MethodGet, "/api/auth/profile", auth.Token, nil)
	var profile struct {
		TotalScore  int `json:"totalScore"`
		GamesPlayed int `json:"gamesPlayed"`
	}
	decode(t, env, &profile)
	if code != http.StatusOK || profile.TotalScore != 10 || profile.GamesPlayed != 1 {
		t.Fatalf("profile = %d %s", code, env.Data)
	}

	code, env = s.do(http.MethodGet, "/api/game/leaderboard?period=all&limit=500", "", nil)
	var board []model.LeaderboardEntry
	decode(t, env, &board)
	if code != http.StatusOK || len(board) != 1 || board[0].Username != "alice" || board[0].Rank != 1 {
		t.Fatalf("leaderboard = %d %s", code, env.Data)
	}

	code, env = s.do(http.MethodGet, "/api/game/stats", auth.Token, nil)
	if code != http.StatusOK {
		t.Fatalf("stats = %d %s", code, env.Message)
	}

	if n := s.publisher.Count(events.GameCompleted); n != 1 {
		t.Fatalf("game events = %d", n)
	}
}

func TestAuthErrors(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodGet, "/api/auth/profile", "", nil)
	if code != http.StatusUnauthorized || env.Message != "Access denied. No token provided" {
		t.Fatalf("no token = %d %q", code, env.Message)
	}
	code, env = s.do(http.MethodGet, "/api/auth/profile", "not-a-jwt", nil)
	if code != http.StatusUnauthorized || env.Message != "Invalid token" {
		t.Fatalf("bad token = %d %q", code, env.Message)
	}

	code, env = s.do(http.MethodPost, "/api/auth/register", "", gin.H{"username": "ab", "email": "nope", "password": "1"})
	if code != http.StatusBadRequest {
		t.Fatalf("invalid register = %d %q", code, env.Message)
	}

	body := gin.H{"username": "bob", "email": "bob@example.com", "password": "secret123"}
	if code, env = s.do(http.MethodPost, "/api/auth/register", "", body); code != http.StatusCreated {
		t.Fatalf("register = %d %q", code, env.Message)
	}
	if code, env = s.do(http.MethodPost, "/api/auth/register", "", body); code != http.StatusBadRequest || env.Message != "Username already exists" {
		t.Fatalf("duplicate register = %d %q", code, env.Message)
	}

	code, env = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "bob", "password": "wrong"})
	if code != http.StatusUnauthorized || env.Message != "Invalid credentials" {
		t.Fatalf("bad login = %d %q", code, env.Message)
	}
	code, env = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "BOB@example.com", "password": "secret123"})
	if code != http.StatusOK {
		t.Fatalf("login by email = %d %q", code, env.Message)
	}

	// 停用后旧令牌立即失效
	var login struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decode(t, env, &login)
	if err := repository.NewUserRepository(s.app.DB).SetActive(login.User.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	for _, path := range []string{"/api/auth/profile", "/api/game/stats"} {
		code, env = s.do(http.MethodGet, path, login.Token, nil)
		if code != http.StatusUnauthorized || env.Message != "Account is deactivated" {
			t.Fatalf("%s after deactivation = %d %q", path, code, env.Message)
		}
	}
	code, env = s.do(http.MethodPost, "/api/sql/execute", login.Token, gin.H{"query": "SELECT 1"})
	if code != http.StatusUnauthorized {
		t.Fatalf("sql execute after deactivation = %d %q", code, env.Message)
	}
}

func TestSQLSandboxFlow(t *testing.T) {
	s := newTestServer(t)
	_, env := s.do(http.MethodPost, "/api/auth/register", "", gin.H{"username": "carol", "email": "carol@example.com", "password": "secret123"})
	var auth struct {
		Token string `json:"token"`
	}
	decode(t, env, &auth)

	code, env := s.do(http.MethodPost, "/api/sql/execute", "", gin.H{"query": "SELECT 1"})
	if code != http.StatusUnauthorized {
		t.Fatalf("anonymous execute = %d", code)
	}

	code, env = s.do(http.MethodPost, "/api/sql/execute", auth.Token, gin.H{"query": "SELECT name FROM teams ORDER BY id"})
	var result model.QueryResult
	decode(t, env, &result)
	if code != http.StatusOK || result.RowCount != 8 || len(result.Columns) != 1 {
		t.Fatalf("execute = %d %s", code, env.Data)
	}

	code, env = s.do(http.MethodPost, "/api/sql/execute", auth.Token, gin.H{"query": "DELETE FROM teams"})
	if code != http.StatusBadRequest || env.Message != "Only SELECT queries are allowed" {
		t.Fatalf("delete = %d %q", code, env.Message)
	}
	code, env = s.do(http.MethodPost, "/api/sql/execute", auth.Token, gin.H{"query": "SELECT * FROM users"})
	if code != http.StatusBadRequest {
		t.Fatalf("users table = %d %q", code, env.Message)
	}

	code, env = s.do(http.MethodGet, "/api/sql/challenges/1", "", nil)
	if code != http.StatusOK || bytes.Contains(env.Data, []byte("expectedQuery")) {
		t.Fatalf("challenge detail = %d %s", code, env.Data)
	}
	if code, _ = s.do(http.MethodGet, "/api/sql/challenges/999", "", nil); code != http.StatusNotFound {
		t.Fatalf("missing challenge = %d", code)
	}

	code, env = s.do(http.MethodPost, "/api/sql/challenges/1/submit", auth.Token, gin.H{"query": "SELECT name, city FROM teams WHERE country = 'England'"})
	var submit struct {
		IsCorrect  bool `json:"isCorrect"`
		FirstSolve bool `json:"firstSolve"`
		Points     int  `json:"points"`
	}
	decode(t, env, &submit)
	if code != http.StatusOK || !submit.IsCorrect || !submit.FirstSolve || submit.Points != 10 {
		t.Fatalf("submit = %d %s", code, env.Data)
	}

	code, env = s.do(http.MethodPost, "/api/sql/challenges/1/submit", auth.Token, gin.H{"query": "SELECT missing FROM teams"})
	decode(t, env, &submit)
	if code != http.StatusOK || submit.IsCorrect {
		t.Fatalf("broken submit = %d %s", code, env.Data)
	}

	code, env = s.do(http.MethodGet, "/api/sql/leaderboard", "", nil)
	var board []model.SQLLeaderboardEntry
	decode(t, env, &board)
	if code != http.StatusOK || len(board) != 1 || board[0].Score != 10 || board[0].ChallengesSolved != 1 {
		t.Fatalf("sql leaderboard = %d %s", code, env.Data)
	}
}

func TestHealthAndNotFound(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodGet, "/health", "", nil)
	if code != http.StatusOK || !bytes.Contains(env.Data, []byte(`"redis":"disabled"`)) {
		t.Fatalf("health = %d %s", code, env.Data)
	}
	if code, _ = s.do(http.MethodGet, "/health/live", "", nil); code != http.StatusOK {
		t.Fatalf("live = %d", code)
	}
	code, env = s.do(http.MethodGet, "/api/nowhere", "", nil)
	if code != http.StatusNotFound || env.Message != "Resource not found" {
		t.Fatalf("no route = %d %q", code, env.Message)
	}
}
