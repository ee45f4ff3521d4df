package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/optimum-study/optimum-backend/internal/config"
	"github.com/optimum-study/optimum-backend/internal/handler"
	"github.com/optimum-study/optimum-backend/internal/middleware"
	"github.com/optimum-study/optimum-backend/internal/response"
	"github.com/optimum-study/optimum-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Document   *handler.DocumentHandler
	Generation *handler.GenerationHandler
	Quiz       *handler.QuizHandler
	History    *handler.HistoryHandler
	HistoryWS  *handler.HistoryWSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)
	// Generation burns upstream quota, so it gets a tighter budget.
	generateLimiter := middleware.NewRateLimiter(10, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/verify", handlers.Auth.VerifyEmail)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Study Tools (Guest-Friendly) ───────────────────────────────
	// Documents, generation and quiz sessions work without an account; a
	// valid token attaches identity so completed quizzes are persisted.
	study := router.Group("/api/v1")
	study.Use(middleware.OptionalJWT(authService))
	{
		study.POST("/documents/extract", handlers.Document.Extract)
		study.POST("/generate", generateLimiter.Middleware(), handlers.Generation.Generate)

		study.POST("/quiz/sessions", handlers.Quiz.Start)
		study.GET("/quiz/sessions/:session_id", handlers.Quiz.Get)
		study.POST("/quiz/sessions/:session_id/select", handlers.Quiz.Select)
		study.POST("/quiz/sessions/:session_id/submit", handlers.Quiz.Submit)
		study.POST("/quiz/sessions/:session_id/advance", handlers.Quiz.Advance)
		study.DELETE("/quiz/sessions/:session_id", handlers.Quiz.Delete)
	}

	// ─── 3. History (JWT + Active Session) ─────────────────────────────
	historyAPI := router.Group("/api/v1/history")
	historyAPI.Use(
		middleware.RequireJWT(authService),
		middleware.CheckActiveSession(authService),
	)
	{
		historyAPI.GET("", handlers.History.List)
	}

	// ─── 4. WebSocket Group (WS Auth) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(
		middleware.RequireWSAuth(authService),
		middleware.CheckActiveSession(authService),
	)
	{
		ws.GET("/history/stream", handlers.HistoryWS.Stream)
	}

	return router
}
