package app

import (
	"context"
	"football_iq_backend/internal/config"
	"football_iq_backend/internal/controller"
	"football_iq_backend/internal/repository"
	"football_iq_backend/internal/service"
	"football_iq_backend/internal/util"
	"football_iq_backend/pkg/database"
	"football_iq_backend/pkg/events"
	"football_iq_backend/pkg/logger"
	"football_iq_backend/pkg/monitoring"
	"football_iq_backend/pkg/security"
	"football_iq_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const abandonCheckInterval = 10 * time.Minute

type App struct {
	Config    *config.Config
	Router    *gin.Engine
	DB        *gorm.DB
	Redis     *redis.Client
	Publisher events.Publisher

	services        *services
	tracer          *sdktrace.TracerProvider
	cancel          context.CancelFunc
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	question     *repository.QuestionRepository
	game         *repository.GameRepository
	leaderboard  *repository.LeaderboardRepository
	sqlChallenge *repository.SQLChallengeRepository
	dataset      *repository.DatasetRepository
}

type services struct {
	auth        *service.AuthService
	game        *service.GameService
	leaderboard *service.LeaderboardService
	sql         *service.SQLService
	hub         *service.LeaderboardHub
}

type controllers struct {
	auth   *controller.AuthController
	game   *controller.GameController
	sql    *controller.SQLController
	health *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置文件变更后调用，只应用可以热更新的配置
func (a *App) ReloadConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := make([]func(*config.Config), len(a.configCallbacks))
	copy(callbacks, a.configCallbacks)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		question:     repository.NewQuestionRepository(db),
		game:         repository.NewGameRepository(db),
		leaderboard:  repository.NewLeaderboardRepository(db),
		sqlChallenge: repository.NewSQLChallengeRepository(db),
		dataset:      repository.NewDatasetRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}
	s.hub = service.NewLeaderboardHub(rdb)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.leaderboard = service.NewLeaderboardService(repos.leaderboard, rdb, s.hub, cfg.Leaderboard)
	s.game = service.NewGameService(db, repos.user, repos.question, repos.game, s.leaderboard, a.Publisher, cfg.Game)
	s.sql = service.NewSQLService(repos.dataset, repos.sqlChallenge, a.Publisher, cfg.SQLSandbox)

	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.game.UpdateConfig(newCfg.Game)
		s.sql.UpdateConfig(newCfg.SQLSandbox)
		logger.Log.Info("Applied reloaded game and sql_sandbox settings")
	})
	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:   controller.NewAuthController(s.auth),
		game:   controller.NewGameController(s.game, s.leaderboard, s.hub),
		sql:    controller.NewSQLController(s.sql, s.leaderboard),
		health: controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(ctx context.Context, router *gin.Engine, cfg *config.Config) {
	router.Use(security.RequestID(util.RequestIDKey))
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute, security.ClientIPKey))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(ctx context.Context, s *services) {
	go s.hub.Run(ctx)

	go func() {
		ticker := time.NewTicker(abandonCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.game.AbandonStaleSessions(ctx); err != nil {
					logger.Log.Error("abandon stale sessions error", zap.Error(err))
				}
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	publisher, err := events.NewPublisher(&cfg.RabbitMQ)
	if err != nil {
		logger.Log.Fatal("Failed to initialize event publisher", zap.Error(err))
	}

	app := newApp(cfg, db, rdb, publisher)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

// newApp 组装依赖，数据库和 Redis 由调用方提供
func newApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client, publisher events.Publisher) *App {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	util.RegisterValidatorTagNames()

	app := &App{
		Config:    cfg,
		DB:        db,
		Redis:     rdb,
		Publisher: publisher,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(ctx, router, cfg)
	app.registerRoutes(ctx, router, controllers, repos, cfg)

	app.startBackgroundTasks(ctx, services)

	return app
}

// Close 停止后台任务并释放外部连接
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.services != nil && a.services.hub != nil {
		a.services.hub.Stop()
	}
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			logger.Log.Error("Failed to close event publisher", zap.Error(err))
		}
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Shutdown 不会关闭已劫持的 WebSocket 连接，需要由 hub 主动断开
	if a.services != nil && a.services.hub != nil {
		a.services.hub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close()
	logger.Log.Info("Server exiting")
}
