package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Proctora/config"
	"github.com/lshigami/Proctora/database"
	_ "github.com/lshigami/Proctora/docs" // Swagger docs - auto-generated
	"github.com/lshigami/Proctora/internal/controller"
	"github.com/lshigami/Proctora/internal/gateway"
	"github.com/lshigami/Proctora/internal/logger"
	"github.com/lshigami/Proctora/internal/model"
	"github.com/lshigami/Proctora/internal/repository"
	"github.com/lshigami/Proctora/internal/service"
	"github.com/lshigami/Proctora/internal/tracker"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Proctored Exam Platform API
// @version 1.0
// @description Exam orchestration service: baseline and post-course exams, frozen policy snapshots, proctoring strikes and signed coordinator exchanges.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewExamRepository,
			repository.NewExamAttemptRepository,
			repository.NewAttemptSkillRepository,
			repository.NewQuestionPackageRepository,
			repository.NewProctoringRepository,
			repository.NewIncidentRepository,
		),

		// Local Infrastructure
		fx.Provide(
			tracker.NewTracker,
		),

		// Coordinator Gateways
		fx.Provide(
			gateway.NewDirectoryGateway,
			gateway.NewSkillsGateway,
			gateway.NewCourseGateway,
			gateway.NewDevLabGateway,
			gateway.NewCameraGateway,
			gateway.NewIncidentGateway,
		),

		// Services Layer
		fx.Provide(
			service.NewPackageBuilderService,
			service.NewGeminiGrader, // Provides service.Grader, falls back to the answer-key grader without an API key
			service.NewExamService,
			service.NewProctoringService,
			service.NewReconciler,
		),

		// API Controllers Layer
		fx.Provide(
			controller.NewExamController,
			controller.NewAttemptController,
			controller.NewProctoringController,
		),

		// Invokers - Functions that are executed by Fx
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(StartReconciler),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.DebugMode)

	r := gin.New()

	// Custom logger using Zerolog for Gin
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	// CORS Configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI
	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	examCtrl *controller.ExamController,
	attemptCtrl *controller.AttemptController,
	proctoringCtrl *controller.ProctoringController,
) {
	apiGroup := router.Group("/api/v1")
	{
		examGroup := apiGroup.Group("/exams")
		examGroup.POST("", examCtrl.CreateExam)
		examGroup.POST("/:exam_id/start", examCtrl.StartAttempt)
		examGroup.POST("/:exam_id/submit", examCtrl.SubmitAttempt)

		attemptGroup := apiGroup.Group("/attempts")
		attemptGroup.GET("/:attempt_id", attemptCtrl.GetAttempt)
		attemptGroup.GET("/:attempt_id/skills", attemptCtrl.GetAttemptSkills)
		attemptGroup.GET("/user/:user_id", attemptCtrl.GetUserAttempts)

		proctoringGroup := apiGroup.Group("/proctoring")
		proctoringGroup.POST("/:attempt_id/start_camera", proctoringCtrl.StartCamera)
		proctoringGroup.POST("/:attempt_id/incident", proctoringCtrl.ReportIncident)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Exam platform server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// StartReconciler ties the dual-store reconciliation sweep to the app lifecycle.
func StartReconciler(lc fx.Lifecycle, reconciler *service.Reconciler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			reconciler.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			reconciler.Stop()
			return nil
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Exam{},
		&model.ExamAttempt{},
		&model.AttemptSkill{},
		&model.QuestionPackage{},
		&model.ProctoringSession{},
		&model.ProctoringViolation{},
		&model.Incident{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
