package app

import (
	"context"
	"football_iq_backend/docs"
	"football_iq_backend/internal/config"
	"football_iq_backend/internal/middleware"
	"football_iq_backend/internal/util"
	"football_iq_backend/pkg/monitoring"
	"football_iq_backend/pkg/security"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(ctx context.Context, router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 探针挂在根路径
	router.GET("/health", c.health.HealthCheck)
	router.GET("/health/ready", c.health.Ready)
	router.GET("/health/live", c.health.Live)

	api := router.Group("/api")
	api.Use(middleware.ConfigMiddleware(cfg))

	authorized := []gin.HandlerFunc{middleware.AuthMiddleware(), middleware.ActiveUserMiddleware(repos.user)}

	a.registerAuthRoutes(api, c, authorized)
	a.registerGameRoutes(api, c, authorized)
	a.registerSQLRoutes(api, c, authorized, security.RateLimiter(ctx, cfg.RateLimit.SQLPerMinute, time.Minute, middleware.UserRateKey))

	router.NoRoute(func(ctx *gin.Context) {
		util.NotFound(ctx)
	})
}

func (a *App) registerAuthRoutes(api *gin.RouterGroup, c *controllers, auth []gin.HandlerFunc) {
	group := api.Group("/auth")
	{
		group.POST("/register", c.auth.Register)
		group.POST("/login", c.auth.Login)

		authorized := group.Group("")
		authorized.Use(auth...)
		{
			authorized.GET("/profile", c.auth.GetProfile)
			authorized.PUT("/profile", c.auth.UpdateProfile)
			authorized.PUT("/password", c.auth.ChangePassword)
		}
	}
}

func (a *App) registerGameRoutes(api *gin.RouterGroup, c *controllers, auth []gin.HandlerFunc) {
	game := api.Group("/game")
	{
		game.GET("/leaderboard", c.game.GetLeaderboard)
		game.GET("/leaderboard/live", c.game.LiveLeaderboard)

		authorized := game.Group("")
		authorized.Use(auth...)
		{
			authorized.POST("/start", c.game.StartGame)
			authorized.POST("/:sessionId/answer", c.game.SubmitAnswer)
			authorized.POST("/:sessionId/end", c.game.EndGame)
			authorized.GET("/stats", c.game.GetStats)
		}
	}
}

// sqlLimit 限制每个用户执行查询的频率
func (a *App) registerSQLRoutes(api *gin.RouterGroup, c *controllers, auth []gin.HandlerFunc, sqlLimit gin.HandlerFunc) {
	sql := api.Group("/sql")
	{
		sql.GET("/schema", c.sql.GetSchema)
		sql.GET("/challenges", middleware.OptionalAuth(), c.sql.ListChallenges)
		sql.GET("/challenges/:id", c.sql.GetChallenge)
		sql.GET("/leaderboard", c.sql.GetLeaderboard)

		authorized := sql.Group("")
		authorized.Use(auth...)
		authorized.Use(sqlLimit)
		{
			authorized.POST("/execute", c.sql.Execute)
			authorized.POST("/challenges/:id/submit", c.sql.SubmitChallenge)
		}
	}
}
