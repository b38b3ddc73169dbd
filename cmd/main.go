package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quangdng/edumart/config"
	"github.com/quangdng/edumart/database"
	adminctrl "github.com/quangdng/edumart/internal/controller/admin"
	userctrl "github.com/quangdng/edumart/internal/controller/user"
	"github.com/quangdng/edumart/internal/logger"
	"github.com/quangdng/edumart/internal/middleware"
	"github.com/quangdng/edumart/internal/model"
	"github.com/quangdng/edumart/internal/repository"
	"github.com/quangdng/edumart/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Edumart API
// @version 1.0
// @description E-learning marketplace API: course catalog, checkout, quizzes with attempt limits, progress tracking, and certificates.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // *gorm.DB
			NewGinEngine,
		),

		// Repositories
		fx.Provide(
			repository.NewCourseRepository,
			repository.NewChapterRepository,
			repository.NewQuestionnaireRepository,
			repository.NewAttemptRepository,
			repository.NewEnrollmentRepository,
			repository.NewOrderRepository,
			repository.NewCertificateRepository,
		),

		// Services
		fx.Provide(
			service.NewQuizSubmissionService,
			service.NewProgressService,
			service.NewCatalogService,
			service.NewCourseAdminService,
			service.NewCheckoutService,
			service.NewCertificateService,
		),

		// Controllers
		fx.Provide(
			adminctrl.NewCourseAdminController,
			userctrl.NewQuizController,
			userctrl.NewCatalogController,
			userctrl.NewCheckoutController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

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

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	courseAdminCtrl *adminctrl.CourseAdminController,
	quizCtrl *userctrl.QuizController,
	catalogCtrl *userctrl.CatalogController,
	checkoutCtrl *userctrl.CheckoutController,
) {
	api := router.Group("/api/v1")

	// Gateway callback is unauthenticated; the gateway signs its own payloads.
	api.POST("/payments/notification", checkoutCtrl.PaymentNotification)

	// Learner routes
	userGroup := api.Group("")
	userGroup.Use(middleware.Auth(cfg))
	{
		userGroup.GET("/courses", catalogCtrl.GetAllCourses)
		userGroup.GET("/courses/:course_id", catalogCtrl.GetCourseDetails)
		userGroup.GET("/courses/:course_id/progress", quizCtrl.GetCourseProgress)
		userGroup.POST("/courses/:course_id/checkout", checkoutCtrl.Checkout)
		userGroup.POST("/courses/:course_id/certificate", checkoutCtrl.IssueCertificate)

		userGroup.GET("/questionnaires/:questionnaire_id", catalogCtrl.GetQuizDetails)
		userGroup.POST("/questionnaires/:questionnaire_id/attempts", quizCtrl.SubmitAttempt)
		userGroup.GET("/questionnaires/:questionnaire_id/attempts", quizCtrl.GetMyAttempts)
		userGroup.GET("/questionnaires/:questionnaire_id/attempts/count", quizCtrl.GetAttemptCount)
		userGroup.GET("/attempts/:attempt_id", quizCtrl.GetAttemptDetails)
	}

	// Instructor/admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.Auth(cfg), middleware.RequireAdmin())
	{
		adminGroup.POST("/courses", courseAdminCtrl.CreateCourse)
		adminGroup.PUT("/courses/:course_id", courseAdminCtrl.UpdateCourse)
		adminGroup.DELETE("/courses/:course_id", courseAdminCtrl.DeleteCourse)
		adminGroup.GET("/courses/:course_id/dashboard", courseAdminCtrl.GetCourseDashboard)
		adminGroup.POST("/courses/:course_id/chapters", courseAdminCtrl.AddChapter)
		adminGroup.POST("/chapters/:chapter_id/questionnaires", courseAdminCtrl.AddQuestionnaire)
		adminGroup.DELETE("/questionnaires/:questionnaire_id", courseAdminCtrl.DeleteQuestionnaire)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Edumart API server starting on port %s", cfg.Server.Port)
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

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Course{},
		&model.Chapter{},
		&model.Questionnaire{},
		&model.Question{},
		&model.Attempt{},
		&model.AttemptAnswer{},
		&model.Enrollment{},
		&model.Order{},
		&model.Certificate{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
