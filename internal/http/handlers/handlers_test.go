package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"taskmanager/internal/domain"
	"taskmanager/internal/http/handlers"
	"taskmanager/internal/http/middleware"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
)

var errStorage = errors.New("storage failure")

// fakeTaskStore is an in-memory TaskStore. Setting fail makes every call
// return a storage error.
type fakeTaskStore struct {
	tasks  map[int64]*domain.Task
	nextID int64
	fail   bool
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[int64]*domain.Task), nextID: 1}
}

func (s *fakeTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	if s.fail {
		return nil, errStorage
	}
	var res []*domain.Task
	for _, t := range s.tasks {
		res = append(res, t)
	}
	return res, nil
}

func (s *fakeTaskStore) Recent(ctx context.Context, limit int) ([]*domain.Task, error) {
	return s.List(ctx)
}

func (s *fakeTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if s.fail {
		return nil, errStorage
	}
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (s *fakeTaskStore) Create(ctx context.Context, title, description string, dueDate *time.Time) (*domain.Task, error) {
	if s.fail {
		return nil, errStorage
	}
	now := time.Now()
	t := &domain.Task{
		ID:          s.nextID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[t.ID] = t
	s.nextID++
	return t, nil
}

func (s *fakeTaskStore) Update(ctx context.Context, id int64, title, description string, dueDate *time.Time) error {
	if s.fail {
		return errStorage
	}
	t, ok := s.tasks[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Title = title
	t.Description = description
	t.DueDate = dueDate
	t.UpdatedAt = time.Now()
	return nil
}

func (s *fakeTaskStore) SetCompleted(ctx context.Context, id int64, done bool) error {
	if s.fail {
		return errStorage
	}
	t, ok := s.tasks[id]
	if !ok {
		return domain.ErrNotFound
	}
	if done {
		now := time.Now()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = time.Now()
	return nil
}

func (s *fakeTaskStore) Delete(ctx context.Context, id int64) error {
	if s.fail {
		return errStorage
	}
	if _, ok := s.tasks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *fakeTaskStore) Stats(ctx context.Context) (*domain.TaskStats, error) {
	if s.fail {
		return nil, errStorage
	}
	stats := &domain.TaskStats{}
	for _, t := range s.tasks {
		stats.Total++
		if t.Completed() {
			stats.Completed++
		} else {
			stats.Pending++
		}
	}
	return stats, nil
}

// fakeUserStore is an in-memory UserStore keyed by email.
type fakeUserStore struct {
	users    map[string]*domain.User
	nextID   int64
	fail     bool
	conflict bool // force Create to report a duplicate
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*domain.User), nextID: 1}
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if s.fail {
		return nil, errStorage
	}
	u, ok := s.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) Create(ctx context.Context, email, hashedPassword string) (*domain.User, error) {
	if s.fail {
		return nil, errStorage
	}
	if s.conflict {
		return nil, domain.ErrConflict
	}
	if _, ok := s.users[email]; ok {
		return nil, domain.ErrConflict
	}
	now := time.Now()
	u := &domain.User{
		ID:             s.nextID,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.users[email] = u
	s.nextID++
	return u, nil
}

// newTestRouter builds a gin engine with the real templates, middleware and
// routes over the given fakes.
func newTestRouter(t *testing.T, tasks handlers.TaskStore, users handlers.UserStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service.InitSession("test-secret")

	h := &handlers.Handler{Tasks: tasks, Users: users}

	r := gin.New()
	r.LoadHTMLGlob("../../../web/templates/**/*.html")
	r.Use(middleware.CurrentUser())

	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/register", h.RegisterForm)
	r.POST("/register", h.Register)
	r.POST("/logout", h.Logout)

	r.GET("/", middleware.RequireAuth(), h.Dashboard)

	g := r.Group("/tasks")
	g.Use(middleware.RequireAuth())
	{
		g.GET("/", h.ListTasks)
		g.GET("/new", h.NewTask)
		g.POST("/", h.CreateTask)
		g.GET("/:id/edit", h.EditTask)
		g.POST("/:id", h.UpdateTask)
		g.PUT("/:id", h.UpdateTask)
		g.POST("/:id/complete", h.CompleteTask)
		g.POST("/:id/reopen", h.ReopenTask)
		g.DELETE("/:id", h.DeleteTask)
	}

	return r
}

// do performs a request with an authenticated session cookie.
func do(t *testing.T, r *gin.Engine, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	token, err := service.IssueSession(1, "alice@example.com")
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doAnon performs a request with no session cookie.
func doAnon(t *testing.T, r *gin.Engine, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
