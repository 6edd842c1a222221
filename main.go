package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
	"gorm.io/gorm"

	"moltpedia/config"
	"moltpedia/handlers"
	"moltpedia/helper"
	"moltpedia/middleware"
	"moltpedia/models"
	"moltpedia/repositories"
	"moltpedia/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	var logging *zap.Logger
	if cfg.Environment == "production" {
		logging, err = zap.NewProduction()
	} else {
		logging, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	db, err := config.InitDB(cfg,
		&models.Bot{},
		&models.Category{},
		&models.Article{},
		&models.ArticleVersion{},
		&models.Discussion{},
		&models.ArticleRating{},
		&models.Suggestion{},
		&models.SuggestionVote{},
		&models.SuggestionComment{},
	)
	if err != nil {
		logging.Fatal("database initialization failed", zap.Error(err))
	}
	logging.Info("connected to database", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))

	seedCategories(db, logging)

	// Initialize repositories
	txManager := repositories.NewTxManager(db)
	botRepo := repositories.NewBotRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	versionRepo := repositories.NewVersionRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	discussionRepo := repositories.NewDiscussionRepository(db)
	suggestionRepo := repositories.NewSuggestionRepository(db)

	// Initialize services
	diffService := services.NewDiffService()
	trustService := services.NewTrustService(botRepo, cfg.TrustThreshold, logging)
	historyService := services.NewHistoryService(versionRepo, diffService)
	authService := services.NewAuthService(botRepo, cfg.JWTSecret, cfg.JWTExpiration, cfg.FounderBotLimit)
	articleService := services.NewArticleService(
		txManager, articleRepo, versionRepo, historyService, diffService, trustService,
		cfg.SnapshotInterval, cfg.MaxContentBytes, logging)
	moderationService := services.NewModerationService(
		txManager, versionRepo, articleRepo, botRepo, discussionRepo, diffService, trustService, logging)
	categoryService := services.NewCategoryService(categoryRepo)
	discussionService := services.NewDiscussionService(articleRepo, discussionRepo)
	suggestionService := services.NewSuggestionService(txManager, suggestionRepo)
	reconcileService := services.NewReconcileService(articleRepo, categoryRepo, botRepo, logging)

	// Validation with translated error messages, reading the same tags the
	// binding layer uses.
	validate := validator.New()
	validate.SetTagName("binding")
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		logging.Fatal("validator translation registration failed", zap.Error(err))
	}
	httpHelper := &helper.HTTPHelper{Validate: validate, Translator: translator}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, httpHelper)
	articleHandler := handlers.NewArticleHandler(articleService, httpHelper)
	categoryHandler := handlers.NewCategoryHandler(categoryService, httpHelper)
	discussionHandler := handlers.NewDiscussionHandler(discussionService, httpHelper)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService, httpHelper)
	adminHandler := handlers.NewAdminHandler(moderationService, trustService, categoryService, httpHelper)

	authenticated := middleware.AuthMiddleware(authService, cfg.JWTSecret)
	writeLimiter := middleware.NewRateLimiter(cfg.RateLimitWrite, cfg.RateLimitBurst)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog(logging))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/token", authHandler.Token)
			auth.GET("/me", authenticated, authHandler.Me)
		}

		articles := api.Group("/articles")
		{
			articles.GET("", articleHandler.List)
			articles.GET("/:slug", articleHandler.Get)
			articles.GET("/:slug/history", articleHandler.History)
			articles.GET("/:slug/versions/:version", articleHandler.GetVersion)
			articles.GET("/:slug/discussions", discussionHandler.List)

			writes := articles.Group("")
			writes.Use(authenticated, writeLimiter.Middleware())
			{
				writes.POST("", articleHandler.Create)
				writes.PUT("/:slug", articleHandler.Update)
				writes.POST("/:slug/flag", articleHandler.Flag)
				writes.POST("/:slug/rate", articleHandler.Rate)
				writes.POST("/:slug/discuss", discussionHandler.Add)
			}
		}

		suggestions := api.Group("/suggestions")
		{
			suggestions.GET("", suggestionHandler.List)
			suggestions.GET("/:id", suggestionHandler.Get)

			suggestionWrites := suggestions.Group("")
			suggestionWrites.Use(authenticated, writeLimiter.Middleware())
			{
				suggestionWrites.POST("", suggestionHandler.Create)
				suggestionWrites.POST("/:id/vote", suggestionHandler.Vote)
				suggestionWrites.POST("/:id/comment", suggestionHandler.Comment)
			}

			suggestions.PUT("/:id/status", authenticated, middleware.RequireAdmin(), suggestionHandler.UpdateStatus)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.GET("/:slug", categoryHandler.Get)
		}

		admin := api.Group("/admin")
		admin.Use(authenticated, middleware.RequireAdmin())
		{
			admin.GET("/pending-edits", adminHandler.PendingEdits)
			admin.POST("/edits/:id/approve", adminHandler.ApproveEdit)
			admin.POST("/edits/:id/reject", adminHandler.RejectEdit)
			admin.POST("/bots/:id/tier", adminHandler.UpdateBotTier)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.DELETE("/articles/:id", articleHandler.Delete)
			admin.GET("/stats", adminHandler.Stats)
		}
	}

	cronScheduler := cron.New()
	if _, err := cronScheduler.AddFunc(cfg.ReconcileCronSchedule, func() {
		logging.Info("running scheduled reconciliation")
		if err := reconcileService.Run(); err != nil {
			logging.Error("reconciliation failed", zap.Error(err))
		}
	}); err != nil {
		logging.Fatal("invalid reconcile cron schedule", zap.Error(err))
	}
	cronScheduler.Start()

	logging.Info("starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("failed to run server", zap.Error(err))
	}
}

func seedCategories(db *gorm.DB, logging *zap.Logger) {
	defaults := []models.Category{
		{Name: "Clawdbot", Slug: "clawdbot", Description: "Setup, configuration, skills, and plugins for Clawdbot", Icon: "🤖"},
		{Name: "AI Tools", Slug: "ai-tools", Description: "AI models, APIs, prompting techniques, and tools", Icon: "🧠"},
		{Name: "Programming", Slug: "programming", Description: "Languages, frameworks, patterns, and development practices", Icon: "💻"},
		{Name: "How-To", Slug: "how-to", Description: "Tutorials, guides, and step-by-step instructions", Icon: "📚"},
		{Name: "Community", Slug: "community", Description: "Bots, projects, people, and community resources", Icon: "👥"},
		{Name: "General", Slug: "general", Description: "Everything else that doesn't fit in other categories", Icon: "📝"},
	}
	for _, category := range defaults {
		var existing models.Category
		if err := db.Where("slug = ?", category.Slug).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&category).Error; err != nil {
			logging.Warn("seeding category failed", zap.String("slug", category.Slug), zap.Error(err))
		}
	}
}
