package dto

import (
	"encoding/json"
	"time"
)

// TaskDTO represents a task as exchanged over the REST API
type TaskDTO struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description *string    `json:"description" yaml:"description"`
	IsComplete  bool       `json:"is_complete" yaml:"is_complete"`
	Position    int        `json:"position" yaml:"position"`
	Deadline    *time.Time `json:"deadline" yaml:"deadline"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" yaml:"updated_at"`
}

// IsOverdue reports whether the deadline is before now. Completion is ignored.
func (t TaskDTO) IsOverdue(now time.Time) bool {
	return t.Deadline != nil && t.Deadline.Before(now)
}

// DescriptionText returns the description or an empty string
func (t TaskDTO) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// CreateTaskRequest represents a request to create a task
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// UpdateTaskRequest represents a partial update. Only fields that are Set
// are sent; a Set field with a nil Value is sent as null.
type UpdateTaskRequest struct {
	Title       Optional[string]    `json:"title"`
	Description Optional[string]    `json:"description"`
	IsComplete  Optional[bool]      `json:"is_complete"`
	Position    Optional[int]       `json:"position"`
	Deadline    Optional[time.Time] `json:"deadline"`
}

// IsEmpty reports whether no field is set
func (r UpdateTaskRequest) IsEmpty() bool {
	return !r.Title.Set && !r.Description.Set && !r.IsComplete.Set &&
		!r.Position.Set && !r.Deadline.Set
}

// MarshalJSON emits only the fields that are set
func (r UpdateTaskRequest) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, 5)
	if r.Title.Set {
		fields["title"] = r.Title.Value
	}
	if r.Description.Set {
		fields["description"] = r.Description.Value
	}
	if r.IsComplete.Set {
		fields["is_complete"] = r.IsComplete.Value
	}
	if r.Position.Set {
		fields["position"] = r.Position.Value
	}
	if r.Deadline.Set {
		fields["deadline"] = r.Deadline.Value
	}
	return json.Marshal(fields)
}

// ReorderRequest carries the complete task order
type ReorderRequest struct {
	TaskIDs []string `json:"task_ids"`
}

// ErrorResponse is the body of non-validation error responses
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ValidationIssue describes one rejected field
type ValidationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationErrorResponse is the body of a 422 response
type ValidationErrorResponse struct {
	Detail []ValidationIssue `json:"detail"`
}

// HealthResponse is the body of the liveness probe
type HealthResponse struct {
	Status string `json:"status" yaml:"status"`
}
