package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peoplefirst_backend/internal/config"
	"peoplefirst_backend/internal/controller"
	"peoplefirst_backend/internal/repository"
	"peoplefirst_backend/internal/service"
	"peoplefirst_backend/pkg/database"
	"peoplefirst_backend/pkg/logger"
	"peoplefirst_backend/pkg/monitoring"
	"peoplefirst_backend/pkg/security"
	"peoplefirst_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user     *repository.UserRepository
	skill    *repository.SkillRepository
	question *repository.QuestionRepository
	badge    *repository.BadgeRepository
	guild    *repository.GuildRepository
	grade    *repository.GradeRepository
	content  *repository.ContentRepository
	story    *repository.StoryRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	storage    *service.StorageService
	skill      *service.SkillService
	assessment *service.AssessmentService
	badge      *service.BadgeService
	guild      *service.GuildService
	guildHub   *service.GuildHub
	grade      *service.GradeService
	content    *service.ContentService
	story      *service.StoryService
	advisor    *service.AdvisorService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	skill      *controller.SkillController
	assessment *controller.AssessmentController
	badge      *controller.BadgeController
	guild      *controller.GuildController
	grade      *controller.GradeController
	content    *controller.ContentController
	story      *controller.StoryController
	advisor    *controller.AdvisorController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		skill:    repository.NewSkillRepository(db),
		question: repository.NewQuestionRepository(db),
		badge:    repository.NewBadgeRepository(db),
		guild:    repository.NewGuildRepository(db),
		grade:    repository.NewGradeRepository(db),
		content:  repository.NewContentRepository(db),
		story:    repository.NewStoryRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	storage := service.NewStorageService(cfg)
	badge := service.NewBadgeService(repos.badge, repos.skill, repos.user)
	guildHub := service.NewGuildHub(rdb, repos.guild)

	return &services{
		auth:       service.NewAuthService(repos.user, cfg),
		user:       service.NewUserService(repos.user, repos.skill, repos.badge),
		storage:    storage,
		skill:      service.NewSkillService(repos.skill, repos.question),
		assessment: service.NewAssessmentService(repos.skill, repos.question, repos.user, badge),
		badge:      badge,
		guild:      service.NewGuildService(repos.guild, guildHub),
		guildHub:   guildHub,
		grade:      service.NewGradeService(repos.grade),
		content:    service.NewContentService(repos.content, storage, badge, rdb),
		story:      service.NewStoryService(repos.story, badge),
		advisor:    service.NewAdvisorService(cfg.AI, repos.skill, repos.grade),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user, s.storage),
		skill:      controller.NewSkillController(s.skill),
		assessment: controller.NewAssessmentController(s.assessment),
		badge:      controller.NewBadgeController(s.badge),
		guild:      controller.NewGuildController(s.guild, s.guildHub),
		grade:      controller.NewGradeController(s.grade),
		content:    controller.NewContentController(s.content),
		story:      controller.NewStoryController(s.story),
		advisor:    controller.NewAdvisorController(s.advisor),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("peoplefirst", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	go services.guildHub.Run()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.services != nil && a.services.guildHub != nil {
		a.services.guildHub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
