package http

import (
	"time"

	"taskmanager/internal/config"
	"taskmanager/internal/http/handlers"
	"taskmanager/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Auth endpoints get a tighter window than the rest of the site.
const (
	authRateLimit  = 5
	authRateWindow = time.Minute
)

// RegisterRoutes wires every page and endpoint onto the engine.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	h := handlers.NewHandler(db, cfg.Production())
	healthHandler := handlers.NewHealthHandler(db, version)

	r.Use(middleware.Metrics())
	r.Use(middleware.CurrentUser())

	// Probes, no session or rate limiting
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	authRL := middleware.RateLimit(authRateLimit, authRateWindow)

	// Account pages
	r.GET("/login", h.LoginForm)
	r.POST("/login", authRL, h.Login)
	r.GET("/register", h.RegisterForm)
	r.POST("/register", authRL, h.Register)
	r.POST("/logout", h.Logout)

	// Dashboard
	r.GET("/", middleware.RequireAuth(), h.Dashboard)

	// Task pages
	tasks := r.Group("/tasks")
	tasks.Use(middleware.RequireAuth())
	{
		tasks.GET("/", h.ListTasks)
		tasks.GET("/new", h.NewTask)
		tasks.POST("/", h.CreateTask)
		tasks.GET("/:id/edit", h.EditTask)
		tasks.POST("/:id", h.UpdateTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.POST("/:id/complete", h.CompleteTask)
		tasks.POST("/:id/reopen", h.ReopenTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}
}
