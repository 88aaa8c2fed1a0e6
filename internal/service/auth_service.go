package service

import (
	"football_iq_backend/internal/config"
	"football_iq_backend/internal/model"
	"football_iq_backend/internal/repository"
	"football_iq_backend/internal/util"
	"football_iq_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	FavoriteTeam string
}

type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Register(in RegisterInput) (*AuthResult, error) {
	taken, err := s.UserRepo.ExistsByUsername(in.Username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.ErrUsernameTaken
	}
	registered, err := s.UserRepo.ExistsByEmail(in.Email, 0)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, util.ErrEmailRegistered
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		FavoriteTeam: strings.TrimSpace(in.FavoriteTeam),
		IsActive:     true,
	}
	if err := s.UserRepo.Create(user); err != nil {
		// 并发注册时由唯一索引兜底
		if repository.IsDuplicateKey(err) {
			return nil, util.ErrUsernameTaken
		}
		return nil, err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("User registered", zap.Uint("userId", user.ID), zap.String("username", user.Username))
	return &AuthResult{User: user, Token: token}, nil
}

// Login identifier 可以是用户名或邮箱
func (s *AuthService) Login(identifier, password string) (*AuthResult, error) {
	user, err := s.UserRepo.FindByLogin(identifier)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, util.ErrAccountDeactivated
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile 未提供的字段保持不变
func (s *AuthService) UpdateProfile(userID uint, email, favoriteTeam *string) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	newEmail := user.Email
	if email != nil {
		newEmail = model.NormalizeEmail(*email)
		if newEmail != user.Email {
			exists, err := s.UserRepo.ExistsByEmail(newEmail, userID)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, util.ErrEmailRegistered
			}
		}
	}
	newTeam := user.FavoriteTeam
	if favoriteTeam != nil {
		newTeam = strings.TrimSpace(*favoriteTeam)
	}

	if err := s.UserRepo.UpdateProfile(userID, newEmail, newTeam); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}
	return s.GetProfile(userID)
}

func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return util.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.UserRepo.UpdatePassword(userID, string(hashed)); err != nil {
		return err
	}
	logger.Log.Info("Password changed", zap.Uint("userId", userID))
	return nil
}
