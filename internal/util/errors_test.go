package util

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"football_iq_backend/internal/model"
)

func TestAppErrorWrapKeepsIdentity(t *testing.T) {
	cause := errors.New("duplicate key")
	err := ErrAlreadyAnswered.Wrap(cause)

	if !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("wrapped error should match its sentinel")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("wrapped error should expose its cause")
	}
	if errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("different sentinels with the same status must not match")
	}

	appErr, ok := IsAppError(err)
	if !ok || appErr.Status != http.StatusBadRequest {
		t.Fatalf("IsAppError = %v, %v", appErr, ok)
	}
}

func TestIsAppErrorRejectsPlainErrors(t *testing.T) {
	if _, ok := IsAppError(errors.New("boom")); ok {
		t.Fatalf("plain errors must not be treated as operational")
	}
	internal := &AppError{Status: http.StatusInternalServerError, Message: "db down"}
	if _, ok := IsAppError(internal); ok {
		t.Fatalf("non-operational AppError must not be exposed")
	}
}

func TestConflictErrorsAreBadRequest(t *testing.T) {
	for _, err := range []*AppError{ErrUsernameTaken, ErrEmailRegistered, ErrSessionNotActive, ErrAlreadyAnswered} {
		if err.Status != http.StatusBadRequest {
			t.Errorf("%q status = %d, want 400", err.Message, err.Status)
		}
	}
}

func TestParseJWT(t *testing.T) {
	const secret = "test-secret-test-secret-test-secret"
	user := &model.User{Username: "alice"}
	user.ID = 7

	token, err := GenerateJWT(user, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	claims, err := ParseJWT(token, secret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" {
		t.Fatalf("claims = %+v", claims)
	}

	expired, err := GenerateJWT(user, secret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT(expired, secret); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expired token error = %v", err)
	}

	if _, err := ParseJWT(token, "another-secret"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret error = %v", err)
	}
	if _, err := ParseJWT("not-a-token", secret); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token error = %v", err)
	}
}
