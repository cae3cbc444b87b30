package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yourusername/quiz-portal/internal/config"
	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/handler"
	"github.com/yourusername/quiz-portal/internal/middleware"
	pgRepo "github.com/yourusername/quiz-portal/internal/repository/postgres"
	redisRepo "github.com/yourusername/quiz-portal/internal/repository/redis"
	"github.com/yourusername/quiz-portal/internal/service"
	"github.com/yourusername/quiz-portal/pkg/auth"
	"github.com/yourusername/quiz-portal/pkg/auth/manager"
	"github.com/yourusername/quiz-portal/pkg/database"
	"github.com/yourusername/quiz-portal/web"
)

func main() {
	// .env не обязателен: в Docker переменные приходят из окружения
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Предупреждение: не удалось прочитать .env: %v", err)
	}

	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	isProduction := gin.Mode() == gin.ReleaseMode

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), isProduction)
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db, cfg.Migrations.Path); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	subjectRepo := pgRepo.NewSubjectRepo(db)
	chapterRepo := pgRepo.NewChapterRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	attemptRepo := pgRepo.NewAttemptRepo(db)
	answerRepo := pgRepo.NewAnswerRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	sessionRepo, err := redisRepo.NewAttemptSessionRepo(redisClient, cfg.Session.AttemptTTL)
	if err != nil {
		log.Printf("Failed to initialize AttemptSessionRepo: %v", err)
		os.Exit(1)
	}

	// JWTService хранит отозванные токены в Redis до истечения их срока
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.TokenTTL(), cacheRepo)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	tokenManager := manager.NewTokenManager(cfg.JWT.CookieName, cfg.JWT.TokenTTL(), cfg.JWT.CookieSecure || isProduction)

	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		resendService, err := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
		emailService = resendService
	}

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, jwtService, emailService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	catalogService := service.NewCatalogService(subjectRepo, chapterRepo)
	reportService := service.NewReportService(attemptRepo)
	quizService := service.NewQuizService(
		chapterRepo,
		attemptRepo,
		service.NewAttemptManager(attemptRepo, questionRepo, sessionRepo),
		service.NewQuestionNavigator(questionRepo),
		service.NewAnswerRecorder(answerRepo),
		service.NewScorer(attemptRepo, answerRepo, sessionRepo),
		service.NewResultPresenter(answerRepo),
	)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService, tokenManager)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	quizHandler := handler.NewQuizHandler(quizService)
	teacherHandler := handler.NewTeacherHandler(reportService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenManager, userRepo)
	rateLimiter := middleware.NewRateLimiter(redisClient)
	authLimit := rateLimiter.Limit(middleware.AuthRateLimitConfig(cfg.RateLimit.AuthLimit, cfg.RateLimit.AuthWindow))

	// Инициализируем роутер Gin
	router := gin.Default()

	// В production не доверяем прокси-заголовкам, в development доверяем localhost
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	if len(cfg.Server.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.SetHTMLTemplate(web.MustTemplates())

	// Изображения вопросов и вариантов
	if cfg.Server.MediaDir != "" {
		router.Static("/media", cfg.Server.MediaDir)
	}

	// Страницы и аутентификация
	pages := router.Group("/")
	pages.Use(authMiddleware.OptionalAuth())
	{
		pages.GET("/", authHandler.Home)
		pages.GET("/login/", authHandler.ShowLogin)
		pages.POST("/login/", authLimit, authHandler.Login)
		pages.GET("/register/", authHandler.ShowRegister)
		pages.POST("/register/", authLimit, authHandler.Register)
		pages.GET("/logout/", authHandler.Logout)
		pages.POST("/logout/", authHandler.Logout)
	}

	// Список глав предмета доступен без входа
	router.GET("/get-chapters/:subject_id/",
		middleware.ExtractUintParam("subject_id", "subjectID"),
		catalogHandler.GetChapters,
	)

	authed := router.Group("/")
	authed.Use(authMiddleware.RequireAuth())
	{
		authed.GET("/me/", authHandler.GetMe)
		authed.GET("/student/", catalogHandler.StudentDashboard)
		authed.GET("/student_dashboard/", catalogHandler.StudentDashboard)
	}

	// Прохождение теста по главе
	quiz := router.Group("/quiz/:subject_id/:chapter_id")
	quiz.Use(
		authMiddleware.RequireAuth(),
		authMiddleware.RequirePermission(entity.PermQuizTake),
		middleware.ExtractUintParam("subject_id", "subjectID"),
		middleware.ExtractUintParam("chapter_id", "chapterID"),
	)
	{
		quiz.GET("/start/", quizHandler.Start)
		quiz.GET("/:q_no/", quizHandler.ShowQuestion)
		quiz.POST("/:q_no/", quizHandler.AnswerQuestion)
		quiz.GET("/result/:attempt_id/",
			authMiddleware.RequirePermission(entity.PermAttemptViewOwn),
			middleware.ExtractUintParam("attempt_id", "attemptID"),
			quizHandler.Result,
		)
	}

	// Отчеты преподавателя
	teacher := router.Group("/teacher")
	teacher.Use(authMiddleware.RequireAuth(), authMiddleware.RequirePermission(entity.PermAttemptViewAll))
	{
		teacher.GET("/attempts", teacherHandler.ListAttempts)
		teacher.GET("/attempts/export", authMiddleware.RequirePermission(entity.PermAttemptExport), teacherHandler.ExportAttempts)
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}
	if sqlDB, err := database.GetSQLDB(db); err == nil {
		sqlDB.Close()
	}

	log.Println("Server exited properly")
}
