package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"football_iq_backend/internal/config"
	"football_iq_backend/internal/model"
	"football_iq_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const testSecret = "middleware-secret-middleware-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}

	r := gin.New()
	r.Use(ConfigMiddleware(cfg))
	r.GET("/private", AuthMiddleware(), func(c *gin.Context) {
		util.Success(c, gin.H{"userId": util.GetUserFromContext(c).UserID})
	})
	r.GET("/public", OptionalAuth(), func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		util.Success(c, gin.H{"anonymous": claims == nil})
	})
	return r
}

func token(t *testing.T, ttl time.Duration) string {
	t.Helper()
	user := &model.User{Username: "alice"}
	user.ID = 42
	tok, err := util.GenerateJWT(user, testSecret, ttl)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	return tok
}

func do(r *gin.Engine, path, authHeader string) (int, util.Response) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp util.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w.Code, resp
}

func TestAuthMiddlewareDistinguishesFailures(t *testing.T) {
	r := newRouter()

	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", util.ErrNoTokenProvided.Message},
		{"expired", "Bearer " + token(t, -time.Minute), util.ErrTokenExpired.Message},
		{"invalid", "Bearer abc.def.ghi", util.ErrInvalidToken.Message},
		{"wrong scheme", "Basic " + token(t, time.Hour), util.ErrNoTokenProvided.Message},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, resp := do(r, "/private", c.header)
			if code != http.StatusUnauthorized {
				t.Fatalf("status = %d", code)
			}
			if resp.Message != c.want {
				t.Fatalf("message = %q, want %q", resp.Message, c.want)
			}
		})
	}
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	code, resp := do(newRouter(), "/private", "Bearer "+token(t, time.Hour))
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %+v", code, resp)
	}
	data := resp.Data.(map[string]interface{})
	if data["userId"].(float64) != 42 {
		t.Fatalf("userId = %v", data["userId"])
	}
}

func TestOptionalAuth(t *testing.T) {
	r := newRouter()

	_, resp := do(r, "/public", "")
	if !resp.Data.(map[string]interface{})["anonymous"].(bool) {
		t.Fatalf("request without token should be anonymous")
	}

	_, resp = do(r, "/public", "Bearer garbage")
	if !resp.Data.(map[string]interface{})["anonymous"].(bool) {
		t.Fatalf("bad token should fall back to anonymous")
	}

	_, resp = do(r, "/public", "Bearer "+token(t, time.Hour))
	if resp.Data.(map[string]interface{})["anonymous"].(bool) {
		t.Fatalf("valid token should identify the user")
	}
}

type fakeUserStatus map[uint]bool

func (f fakeUserStatus) IsActive(userID uint) (bool, error) {
	return f[userID], nil
}

func TestActiveUserMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	status := fakeUserStatus{42: true}

	r := gin.New()
	r.Use(ConfigMiddleware(&config.Config{JWT: config.JWTConfig{Secret: testSecret}}))
	r.GET("/private", AuthMiddleware(), ActiveUserMiddleware(status), func(c *gin.Context) {
		util.Success(c, nil)
	})

	if code, resp := do(r, "/private", "Bearer "+token(t, time.Hour)); code != http.StatusOK {
		t.Fatalf("active user status = %d, body = %+v", code, resp)
	}

	status[42] = false
	code, resp := do(r, "/private", "Bearer "+token(t, time.Hour))
	if code != http.StatusUnauthorized || resp.Message != util.ErrAccountDeactivated.Message {
		t.Fatalf("deactivated user = %d %q", code, resp.Message)
	}

	delete(status, 42)
	if code, _ := do(r, "/private", "Bearer "+token(t, time.Hour)); code != http.StatusUnauthorized {
		t.Fatalf("deleted user status = %d", code)
	}
}
