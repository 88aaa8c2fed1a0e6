package util

import (
	"errors"
	"net/http"
	"strings"
)

// AppError 业务错误。Operational 为 true 的错误可以把 Message 直接返回给客户端，
// 其余错误统一按 500 处理并隐藏细节。
type AppError struct {
	Status      int
	Message     string
	Operational bool
	Err         error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(status int, message string) *AppError {
	return &AppError{Status: status, Message: message, Operational: true}
}

// NewValidationError 多条校验信息合并为一条
func NewValidationError(messages ...string) *AppError {
	return NewAppError(http.StatusBadRequest, strings.Join(messages, ", "))
}

func NewUnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message)
}

// NewConflictError 冲突类错误（重复注册、重复作答、会话已结束），对外返回 400
func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

// Wrap 给已知错误附带底层原因，保持状态码与对外信息不变
func (e *AppError) Wrap(err error) *AppError {
	return &AppError{Status: e.Status, Message: e.Message, Operational: e.Operational, Err: err}
}

// Is 以状态码和信息判断是否为同一类业务错误，便于 errors.Is 匹配 Wrap 后的错误
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Status == t.Status && e.Message == t.Message
}

var (
	ErrUserNotFound         = NewNotFoundError("User not found")
	ErrUsernameTaken        = NewConflictError("Username already exists")
	ErrEmailRegistered      = NewConflictError("Email already registered")
	ErrInvalidCredentials   = NewUnauthorizedError("Invalid credentials")
	ErrAccountDeactivated   = NewUnauthorizedError("Account is deactivated")
	ErrWrongPassword        = NewValidationError("Current password is incorrect")
	ErrNoTokenProvided      = NewUnauthorizedError("Access denied. No token provided")
	ErrTokenExpired         = NewUnauthorizedError("Token expired")
	ErrInvalidToken         = NewUnauthorizedError("Invalid token")
	ErrQuestionNotFound     = NewNotFoundError("Question not found")
	ErrNoQuestionsAvailable = NewNotFoundError("No questions available for the selected difficulty")
	ErrSessionNotFound      = NewNotFoundError("Game session not found")
	ErrSessionNotActive     = NewConflictError("Game session is no longer in progress")
	ErrAlreadyAnswered      = NewConflictError("Question already answered in this session")
	ErrQuestionNotInSession = NewValidationError("Question is not part of this game session")
	ErrInvalidDifficulty    = NewValidationError("Difficulty must be one of easy, medium, hard, expert, mixed")
	ErrInvalidPeriod        = NewValidationError("Period must be one of all, week, month")
	ErrChallengeNotFound    = NewNotFoundError("Challenge not found")
	ErrEmptyQuery           = NewValidationError("Query is required")
	ErrOnlySelectAllowed    = NewValidationError("Only SELECT queries are allowed")
)

// IsAppError 判断是否为可对外展示的业务错误
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Operational {
		return appErr, true
	}
	return nil, false
}
