package handlers

import (
	"context"
	"time"

	"taskmanager/internal/domain"
	"taskmanager/internal/http/middleware"
	"taskmanager/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskStore is the persistence surface the task handlers compose with.
// *repository.TaskRepository satisfies it; tests substitute fakes.
type TaskStore interface {
	List(ctx context.Context) ([]*domain.Task, error)
	Recent(ctx context.Context, limit int) ([]*domain.Task, error)
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	Create(ctx context.Context, title, description string, dueDate *time.Time) (*domain.Task, error)
	Update(ctx context.Context, id int64, title, description string, dueDate *time.Time) error
	SetCompleted(ctx context.Context, id int64, done bool) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*domain.TaskStats, error)
}

// UserStore is the persistence surface the account handlers compose with.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, email, hashedPassword string) (*domain.User, error)
}

type Handler struct {
	Tasks TaskStore
	Users UserStore

	// SecureCookies marks session cookies Secure; set in production.
	SecureCookies bool
}

func NewHandler(db *pgxpool.Pool, secureCookies bool) *Handler {
	return &Handler{
		Tasks:         repository.NewTaskRepository(db),
		Users:         repository.NewUserRepository(db),
		SecureCookies: secureCookies,
	}
}

// render merges session and flash state into every HTML response.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if sess, ok := middleware.GetSession(c); ok {
		data["Session"] = sess
	}
	if f, ok := takeFlash(c); ok {
		data["Flash"] = f
	}
	c.HTML(status, name, data)
}
