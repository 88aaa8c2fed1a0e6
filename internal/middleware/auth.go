package middleware

import (
	"football_iq_backend/internal/config"
	"football_iq_backend/internal/util"
	"football_iq_backend/pkg/logger"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConfigMiddleware 把配置放进上下文，供后续中间件读取
func ConfigMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// AuthMiddleware 缺失、过期、非法的令牌分别返回不同的 401 信息
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			util.Error(c, util.ErrNoTokenProvided.Status, util.ErrNoTokenProvided.Message)
			c.Abort()
			return
		}

		cfg := c.MustGet("config").(*config.Config)
		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT rejected", zap.Error(err), zap.String("path", c.FullPath()))
			util.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// OptionalAuth 有合法令牌时写入用户信息，否则按匿名继续
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			cfg := c.MustGet("config").(*config.Config)
			if claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret); err == nil {
				c.Set("user", claims)
			}
		}
		c.Next()
	}
}

type UserStatusRepo interface {
	IsActive(userID uint) (bool, error)
}

// ActiveUserMiddleware 令牌签发后被停用或删除的账号不能继续访问
func ActiveUserMiddleware(repo UserStatusRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			c.Next()
			return
		}

		active, err := repo.IsActive(claims.UserID)
		if err != nil {
			util.HandleError(c, err)
			c.Abort()
			return
		}
		if !active {
			util.Error(c, util.ErrAccountDeactivated.Status, util.ErrAccountDeactivated.Message)
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserRateKey 已登录用户按用户限流，匿名请求按 IP
func UserRateKey(c *gin.Context) string {
	if claims := util.GetUserFromContext(c); claims != nil {
		return "user:" + strconv.FormatUint(uint64(claims.UserID), 10)
	}
	return "ip:" + c.ClientIP()
}
