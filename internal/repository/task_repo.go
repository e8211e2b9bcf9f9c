package repository

import (
	"context"
	"time"

	"taskmanager/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, title, COALESCE(description, ''), completed_at, due_date, created_at, updated_at`

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.CompletedAt,
		&t.DueDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns all tasks, newest first.
func (r *TaskRepository) List(ctx context.Context) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// Recent returns the newest tasks up to limit, for the dashboard.
func (r *TaskRepository) Recent(ctx context.Context, limit int) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// GetByID returns one task, or domain.ErrNotFound.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

// Create inserts a task and returns the stored row. An empty description is
// persisted as NULL.
func (r *TaskRepository) Create(ctx context.Context, title, description string, dueDate *time.Time) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO tasks (title, description, due_date)
		 VALUES ($1, NULLIF($2, ''), $3)
		 RETURNING `+taskColumns,
		title, description, dueDate)
	return scanTask(row)
}

// Update rewrites title, description and due date of the task with the given
// id and bumps updated_at. Returns domain.ErrNotFound when no row matched.
func (r *TaskRepository) Update(ctx context.Context, id int64, title, description string, dueDate *time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks
		 SET title = $1, description = NULLIF($2, ''), due_date = $3, updated_at = now()
		 WHERE id = $4`,
		title, description, dueDate, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetCompleted marks the task done or reopens it.
func (r *TaskRepository) SetCompleted(ctx context.Context, id int64, done bool) error {
	var stmt string
	if done {
		stmt = `UPDATE tasks SET completed_at = now(), updated_at = now() WHERE id = $1`
	} else {
		stmt = `UPDATE tasks SET completed_at = NULL, updated_at = now() WHERE id = $1`
	}
	tag, err := r.db.Exec(ctx, stmt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the task. Deleting an absent id reports domain.ErrNotFound,
// so a repeated delete is a safe no-op.
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Stats returns the dashboard counters in one round trip.
func (r *TaskRepository) Stats(ctx context.Context) (*domain.TaskStats, error) {
	var s domain.TaskStats
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE completed_at IS NOT NULL),
		        COUNT(*) FILTER (WHERE completed_at IS NULL)
		 FROM tasks`).Scan(&s.Total, &s.Completed, &s.Pending)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
