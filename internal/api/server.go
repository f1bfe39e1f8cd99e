package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/edugamify/classroom-api/docs"
	v1 "github.com/edugamify/classroom-api/internal/api/handler/v1"
	"github.com/edugamify/classroom-api/internal/api/middleware"
	"github.com/edugamify/classroom-api/internal/blob"
	"github.com/edugamify/classroom-api/internal/config"
	"github.com/edugamify/classroom-api/internal/repository"
	"github.com/edugamify/classroom-api/internal/repository/dao"
	"github.com/edugamify/classroom-api/internal/service"
	"github.com/edugamify/classroom-api/internal/session"
)

const basePath = "/api/v1"

type Server struct {
	Config   *config.AppConfig
	Router   *gin.Engine
	Sessions session.Store
	Blobs    blob.Store

	closers []func() error
}

type handlers struct {
	auth         *v1.AuthHandler
	admin        *v1.AdminHandler
	module       *v1.ModuleHandler
	submission   *v1.SubmissionHandler
	gamification *v1.GamificationHandler
	file         *v1.FileHandler
}

func NewServer(ctx context.Context, conf *config.AppConfig, db *gorm.DB) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	if err := s.initSessionStore(ctx, db); err != nil {
		return nil, fmt.Errorf("s.initSessionStore -> %w", err)
	}
	if err := s.initBlobStore(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("s.initBlobStore -> %w", err)
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers(db))

	return s, nil
}

func (s *Server) initSessionStore(ctx context.Context, db *gorm.DB) error {
	switch s.Config.Session.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     s.Config.Redis.Addr,
			Password: s.Config.Redis.Password,
			DB:       s.Config.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return fmt.Errorf("client.Ping -> %w", err)
		}
		s.closers = append(s.closers, client.Close)
		s.Sessions = session.NewRedisStore(client, s.Config.Session.TTL)
	default:
		s.Sessions = session.NewDBStore(dao.NewSessionDAO(db), s.Config.Session.TTL)
	}

	return nil
}

func (s *Server) initBlobStore(ctx context.Context) error {
	switch s.Config.Blob.Backend {
	case "gcs":
		store, err := blob.NewGCSStore(ctx, s.Config.Blob.Bucket, s.Config.Blob.CredentialsFile)
		if err != nil {
			return fmt.Errorf("blob.NewGCSStore -> %w", err)
		}
		s.closers = append(s.closers, store.Close)
		s.Blobs = store
	default:
		store, err := blob.NewLocalStore(s.Config.Blob.Dir)
		if err != nil {
			return fmt.Errorf("blob.NewLocalStore -> %w", err)
		}
		s.Blobs = store
	}

	return nil
}

func (s *Server) initHandlers(db *gorm.DB) handlers {
	tx := dao.NewTransactor(db)

	persons := repository.NewPersonRepository(dao.NewPersonDAO(db))
	modules := repository.NewModuleRepository(dao.NewModuleDAO(db))
	submissions := repository.NewSubmissionRepository(dao.NewSubmissionDAO(db))
	trophies := repository.NewTrophyRepository(dao.NewTrophyDAO(db))
	activities := repository.NewActivityRepository(dao.NewActivityDAO(db))

	guard := service.NewGuard(s.Sessions, persons)
	evaluator := service.NewTrophyEvaluator(trophies)
	ledger := service.NewLedger(tx, persons, evaluator)

	game := s.Config.Gamification
	authSvc := service.NewAuthService(persons, s.Sessions, s.Blobs)
	adminSvc := service.NewAdminService(tx, persons, trophies, activities, evaluator)
	moduleSvc := service.NewModuleService(tx, modules, persons, s.Blobs)
	submissionSvc := service.NewSubmissionService(tx, modules, submissions, ledger, s.Blobs, service.SubmissionOptions{
		DeliveryBonus:     game.DeliveryBonus,
		ReconcileRegrades: game.ReconcileRegrades,
	})
	activitySvc := service.NewActivityService(tx, activities, ledger)
	leaderboardSvc := service.NewLeaderboardService(persons, trophies, activities, service.LeaderboardOptions{
		Limit:          game.LeaderboardLimit,
		HighscoreLimit: game.HighscoreLimit,
	})

	return handlers{
		auth:         v1.NewAuthHandler(s.Config.API, s.Config.Session.TTL, authSvc, guard),
		admin:        v1.NewAdminHandler(adminSvc, guard),
		module:       v1.NewModuleHandler(moduleSvc, guard),
		submission:   v1.NewSubmissionHandler(submissionSvc, guard),
		gamification: v1.NewGamificationHandler(leaderboardSvc, activitySvc, guard),
		file:         v1.NewFileHandler(s.Blobs, guard),
	}
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.RequestLogger())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(middleware.BodyLimit(s.Config.API.MaxUploadBytes))
	s.Router.Use(middleware.SessionToken())
}

func (s *Server) MountHandlers(h handlers) {
	api := s.Router.Group(basePath)
	{
		api.POST("/auth/signup", h.auth.HandleSignup)
		api.POST("/auth/signin", h.auth.HandleSignin)
		api.POST("/auth/signout", h.auth.HandleSignout)
		api.GET("/auth/whoami", h.auth.HandleWhoAmI)
		api.PUT("/profile", h.auth.HandleUpdateProfile)
	}

	admin := api.Group("/admin")
	{
		admin.GET("/persons", h.admin.HandleListPersons)
		admin.DELETE("/persons/:personID", h.admin.HandleDeletePerson)
		admin.PUT("/persons/:personID/role", h.admin.HandleChangeRole)
		admin.POST("/persons/:personID/trophies/evaluate", h.admin.HandleEvaluateTrophies)
		admin.POST("/trophies", h.admin.HandleCreateTrophy)
		admin.POST("/activities", h.admin.HandleCreateActivity)
	}

	modules := api.Group("/modules")
	{
		modules.GET("", h.module.HandleListModules)
		modules.POST("", h.module.HandleCreateModule)
		modules.DELETE("/:moduleID", h.module.HandleDeleteModule)
		modules.POST("/:moduleID/join", h.module.HandleJoinModule)
		modules.GET("/:moduleID/roster", h.module.HandleGetRoster)
		modules.GET("/:moduleID/resources", h.module.HandleListResources)
		modules.POST("/:moduleID/resources", h.module.HandleCreateResource)
		modules.GET("/:moduleID/tasks", h.module.HandleListTasks)
		modules.POST("/:moduleID/tasks", h.module.HandleCreateTask)
	}

	{
		api.POST("/tasks/:taskID/submissions", h.submission.HandleDeliver)
		api.GET("/tasks/:taskID/submissions", h.submission.HandleListSubmissions)
		api.PUT("/submissions/:submissionID/grade", h.submission.HandleGrade)
	}

	{
		api.GET("/leaderboard", h.gamification.HandleLeaderboard)
		api.GET("/trophies", h.gamification.HandleListTrophies)
		api.GET("/trophies/mine", h.gamification.HandleMyTrophies)
		api.GET("/achievements/mine", h.gamification.HandleMyAchievements)
		api.GET("/activities", h.gamification.HandleListActivities)
		api.POST("/activities/:activityID/play", h.gamification.HandlePlay)
		api.GET("/activities/:activityID/highscores", h.gamification.HandleHighScores)
	}

	api.GET("/files/:category/:name", h.file.HandleGetFile)

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "EduGamify classroom API"
	docs.SwaggerInfo.Description = "Modules, tasks, submissions, points and trophies for a gamified classroom."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

// Close releases the connections held by the configured backends.
func (s *Server) Close() error {
	var errs []error
	for _, closeFn := range s.closers {
		errs = append(errs, closeFn())
	}

	return errors.Join(errs...)
}
