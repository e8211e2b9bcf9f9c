package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"taskmanager/internal/domain"
	"taskmanager/internal/logger"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
)

func taskFormValues(c *gin.Context) map[string]string {
	return map[string]string{
		"title":       c.PostForm("title"),
		"description": c.PostForm("description"),
		"due_date":    c.PostForm("due_date"),
	}
}

// ListTasks renders all tasks, newest first. A storage failure degrades to an
// empty list with an error notice rather than a bare 500 page.
func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.Tasks.List(c.Request.Context())
	if err != nil {
		logger.Error("list tasks failed", "error", err)
		h.render(c, http.StatusInternalServerError, "tasks/index", gin.H{
			"Tasks": nil,
			"Flash": &Flash{Kind: "error", Message: "Database error: Unable to load tasks"},
		})
		return
	}
	h.render(c, http.StatusOK, "tasks/index", gin.H{"Tasks": tasks})
}

// NewTask renders the creation form.
func (h *Handler) NewTask(c *gin.Context) {
	h.render(c, http.StatusOK, "tasks/new", gin.H{})
}

// CreateTask validates the form and inserts the task. Validation failures
// re-render the form with field errors and never touch storage.
func (h *Handler) CreateTask(c *gin.Context) {
	form := taskFormValues(c)
	errs, cleaned := service.ValidateTaskForm(form)
	if len(errs) > 0 {
		h.render(c, http.StatusBadRequest, "tasks/new", gin.H{
			"Errors": errs,
			"Form":   form,
		})
		return
	}

	task, err := h.Tasks.Create(c.Request.Context(), cleaned.Title, cleaned.Description, cleaned.DueDate)
	if err != nil {
		// an insert that returned no row is reported apart from a storage failure
		msg := "Database error: Unable to create task"
		if errors.Is(err, domain.ErrNotFound) {
			msg = "Failed to create task"
		}
		logger.Error("create task failed", "error", err)
		h.render(c, http.StatusInternalServerError, "tasks/new", gin.H{
			"Errors": map[string]string{"db": msg},
			"Form":   form,
		})
		return
	}

	logger.Info("task created", "id", task.ID)
	flashRedirect(c, "success", "Task created successfully!", "/tasks/")
}

// EditTask fetches a task for editing. A missing id redirects back to the
// list with a notice instead of rendering a missing entity.
func (h *Handler) EditTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		flashRedirect(c, "error", "Task not found", "/tasks/")
		return
	}

	task, err := h.Tasks.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			flashRedirect(c, "error", "Task not found", "/tasks/")
			return
		}
		logger.Error("fetch task failed", "id", id, "error", err)
		flashRedirect(c, "error", "Database error: Unable to load task", "/tasks/")
		return
	}

	h.render(c, http.StatusOK, "tasks/edit", gin.H{"Task": task})
}

// UpdateTask validates the form and rewrites the task. Zero-row updates are
// reported as not found.
func (h *Handler) UpdateTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		flashRedirect(c, "error", "Task not found", "/tasks/")
		return
	}

	form := taskFormValues(c)
	errs, cleaned := service.ValidateTaskForm(form)
	if len(errs) > 0 {
		h.render(c, http.StatusBadRequest, "tasks/edit", gin.H{
			"Errors": errs,
			"Form":   form,
			"Task":   &domain.Task{ID: id, Title: form["title"], Description: form["description"]},
		})
		return
	}

	err = h.Tasks.Update(c.Request.Context(), id, cleaned.Title, cleaned.Description, cleaned.DueDate)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			flashRedirect(c, "error", "Task not found", "/tasks/")
			return
		}
		logger.Error("update task failed", "id", id, "error", err)
		flashRedirect(c, "error", "Database error: Unable to update task", "/tasks/")
		return
	}

	flashRedirect(c, "success", "Task updated successfully", "/tasks/")
}

// DeleteTask removes a task and answers JSON. Deleting an absent id is a safe
// no-op reported as 404, so a repeated delete stays a 404 rather than an error.
func (h *Handler) DeleteTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if err := h.Tasks.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		logger.Error("delete task failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error while deleting task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// CompleteTask marks a task done.
func (h *Handler) CompleteTask(c *gin.Context) {
	h.setCompleted(c, true, "Task marked as completed")
}

// ReopenTask clears the completion mark.
func (h *Handler) ReopenTask(c *gin.Context) {
	h.setCompleted(c, false, "Task reopened")
}

func (h *Handler) setCompleted(c *gin.Context, done bool, okMessage string) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		flashRedirect(c, "error", "Task not found", "/tasks/")
		return
	}

	if err := h.Tasks.SetCompleted(c.Request.Context(), id, done); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			flashRedirect(c, "error", "Task not found", "/tasks/")
			return
		}
		logger.Error("set task completion failed", "id", id, "error", err)
		flashRedirect(c, "error", "Database error: Unable to update task", "/tasks/")
		return
	}

	flashRedirect(c, "success", okMessage, "/tasks/")
}
