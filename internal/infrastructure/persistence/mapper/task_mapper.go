package mapper

import (
	"database/sql"
	"time"

	"taskman/internal/domain/entity"
)

// TaskRecord represents a task row
type TaskRecord struct {
	ID          string
	Title       string
	Description sql.NullString
	IsComplete  bool
	Position    int
	Deadline    sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskToRecord converts a Task entity to row format
func TaskToRecord(task *entity.Task) TaskRecord {
	record := TaskRecord{
		ID:         task.ID(),
		Title:      task.Title(),
		IsComplete: task.IsComplete(),
		Position:   task.Position(),
		CreatedAt:  task.CreatedAt().UTC(),
		UpdatedAt:  task.UpdatedAt().UTC(),
	}

	if desc := task.Description(); desc != nil {
		record.Description = sql.NullString{String: *desc, Valid: true}
	}
	if deadline := task.Deadline(); deadline != nil {
		record.Deadline = sql.NullTime{Time: deadline.UTC(), Valid: true}
	}

	return record
}

// RecordToTask converts a row back into a Task entity
func RecordToTask(record TaskRecord) *entity.Task {
	var description *string
	if record.Description.Valid {
		desc := record.Description.String
		description = &desc
	}

	var deadline *time.Time
	if record.Deadline.Valid {
		d := record.Deadline.Time.UTC()
		deadline = &d
	}

	return entity.RestoreTask(
		record.ID,
		record.Title,
		description,
		record.IsComplete,
		record.Position,
		deadline,
		record.CreatedAt.UTC(),
		record.UpdatedAt.UTC(),
	)
}

// CloneTask returns an independent copy of a task
func CloneTask(task *entity.Task) *entity.Task {
	return RecordToTask(TaskToRecord(task))
}
