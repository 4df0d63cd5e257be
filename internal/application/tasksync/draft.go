package tasksync

import (
	"time"

	"taskman/internal/application/dto"
	"taskman/internal/domain/entity"
)

// Draft holds form input for a new or edited task
type Draft struct {
	Title       string
	Description string
	Deadline    *time.Time
}

// DraftFromTask seeds a draft with a loaded task's values
func DraftFromTask(task dto.TaskDTO) Draft {
	return Draft{
		Title:       task.Title,
		Description: task.DescriptionText(),
		Deadline:    copyTime(task.Deadline),
	}
}

// normalized holds validated, trimmed draft values
type normalized struct {
	title       string
	description *string
	deadline    *time.Time
}

// Validate trims the draft and applies the server's limits. It returns
// an *entity.ValidationError for the first field that fails.
func (d Draft) Validate() error {
	_, err := d.normalize()
	return err
}

func (d Draft) normalize() (normalized, error) {
	title, err := entity.NormalizeTitle(d.Title)
	if err != nil {
		return normalized{}, err
	}
	description, err := entity.NormalizeDescription(&d.Description)
	if err != nil {
		return normalized{}, err
	}
	return normalized{
		title:       title,
		description: description,
		deadline:    copyTime(d.Deadline),
	}, nil
}

// CreateRequest validates the draft and builds a create request
func (d Draft) CreateRequest() (dto.CreateTaskRequest, error) {
	n, err := d.normalize()
	if err != nil {
		return dto.CreateTaskRequest{}, err
	}
	return dto.CreateTaskRequest{
		Title:       n.title,
		Description: n.description,
		Deadline:    n.deadline,
	}, nil
}

// Changes validates the draft and returns only the fields that differ
// from loaded. An empty request means nothing changed.
func Changes(loaded dto.TaskDTO, d Draft) (dto.UpdateTaskRequest, error) {
	n, err := d.normalize()
	if err != nil {
		return dto.UpdateTaskRequest{}, err
	}

	var req dto.UpdateTaskRequest
	if n.title != loaded.Title {
		req.Title = dto.Some(n.title)
	}

	if n.description == nil {
		if loaded.DescriptionText() != "" {
			req.Description = dto.Null[string]()
		}
	} else if *n.description != loaded.DescriptionText() {
		req.Description = dto.Some(*n.description)
	}

	if !sameTime(n.deadline, loaded.Deadline) {
		if n.deadline == nil {
			req.Deadline = dto.Null[time.Time]()
		} else {
			req.Deadline = dto.Some(*n.deadline)
		}
	}

	return req, nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
