package app

import (
	"log/slog"

	"Dashboard/internal/auth"
	"Dashboard/internal/cache"
	"Dashboard/internal/config"
	"Dashboard/internal/event"
	"Dashboard/internal/handlers"
	"Dashboard/internal/rag"
	"Dashboard/internal/repo"
	"Dashboard/internal/service"
	"Dashboard/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, log *slog.Logger, db *pgxpool.Pool, rdb *redis.Client, bus *event.Bus, hub *ws.Hub) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(hub))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Duration())

	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authHandler := handlers.NewAuthHandler(userSvc, tokens)

	questionRepo := repo.NewPGQuestionRepo(db)
	answerRepo := repo.NewPGAnswerRepo(db)
	questionCache := cache.NewQuestionCache(rdb, cfg.Redis.DefaultTTL.Duration())
	locks := service.NewEntityLocks()
	questionSvc := service.NewQuestionService(questionRepo, questionCache, bus, locks)
	answerSvc := service.NewAnswerService(answerRepo, questionRepo, questionCache, bus, locks)
	questionHandler := handlers.NewQuestionHandler(questionSvc, answerSvc)
	answerHandler := handlers.NewAnswerHandler(answerSvc, cfg.Auth.AnswersAdminOnly)

	var suggester rag.Suggester = &rag.CannedSuggester{}
	if cfg.RAG.OpenAIKey != "" {
		suggester = rag.NewOpenAISuggester(cfg.RAG.OpenAIKey, cfg.RAG.Model, log)
	}
	suggestHandler := handlers.NewSuggestHandler(suggester)

	api := r.Group("/api")
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.GET("/me", auth.Require(tokens), authHandler.Me)

	api.GET("/questions", questionHandler.List)
	api.POST("/questions", auth.Optional(tokens), questionHandler.Create)
	api.PATCH("/questions/:id", auth.RequireAdmin(tokens), questionHandler.UpdateStatus)
	api.GET("/questions/:id/answers", questionHandler.ListAnswers)
	api.POST("/answers", auth.Optional(tokens), answerHandler.Create)
	api.POST("/rag/suggest", auth.RequireAdmin(tokens), suggestHandler.Suggest)

	r.GET("/ws", ws.Handler(hub))
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Q&A Dashboard API",
			"status":  "running",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"api":     "/api",
		})
	}
}

func healthHandler(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":                "healthy",
			"websocket_connections": hub.Count(),
			"database":              "connected",
		})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}
