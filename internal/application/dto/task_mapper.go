package dto

import "taskman/internal/domain/entity"

// TaskToDTO converts a task entity to its API representation
func TaskToDTO(task *entity.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID(),
		Title:       task.Title(),
		Description: task.Description(),
		IsComplete:  task.IsComplete(),
		Position:    task.Position(),
		Deadline:    task.Deadline(),
		CreatedAt:   task.CreatedAt(),
		UpdatedAt:   task.UpdatedAt(),
	}
}

// TasksToDTOs converts a slice of task entities, preserving order
func TasksToDTOs(tasks []*entity.Task) []TaskDTO {
	result := make([]TaskDTO, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, TaskToDTO(task))
	}
	return result
}
