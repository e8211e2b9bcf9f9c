package service

import (
	"strings"
	"time"
)

const maxFieldLen = 255

// DueDateLayout is the expected form encoding of the optional due date.
const DueDateLayout = "2006-01-02"

// TaskForm holds the cleaned fields of a validated task form.
type TaskForm struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// ValidateTaskForm checks raw form input and returns per-field error messages
// alongside the cleaned values. A missing key is treated as an empty string.
// It performs no I/O and is safe to call repeatedly on the same input.
func ValidateTaskForm(form map[string]string) (map[string]string, TaskForm) {
	errs := make(map[string]string)

	title := strings.TrimSpace(form["title"])
	description := strings.TrimSpace(form["description"])
	dueRaw := strings.TrimSpace(form["due_date"])

	if title == "" {
		errs["title"] = "Title is required"
	} else if len([]rune(title)) > maxFieldLen {
		errs["title"] = "Title must be 255 characters or less"
	}

	if description != "" && len([]rune(description)) > maxFieldLen {
		errs["description"] = "Description must be 255 characters or less"
	}

	cleaned := TaskForm{Title: title, Description: description}

	if dueRaw != "" {
		due, err := time.Parse(DueDateLayout, dueRaw)
		if err != nil {
			errs["due_date"] = "Due date must be a valid date (YYYY-MM-DD)"
		} else {
			cleaned.DueDate = &due
		}
	}

	return errs, cleaned
}

// NormalizeEmail trims surrounding whitespace and lowercases an email address.
// Applied before every read or write that touches the users table.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
