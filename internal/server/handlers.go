package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskman/internal/application/dto"
	taskuc "taskman/internal/application/usecase/task"
)

// TaskHandler serves the task endpoints
type TaskHandler struct {
	listTasks    *taskuc.ListTasksUseCase
	getTask      *taskuc.GetTaskUseCase
	createTask   *taskuc.CreateTaskUseCase
	updateTask   *taskuc.UpdateTaskUseCase
	deleteTask   *taskuc.DeleteTaskUseCase
	reorderTasks *taskuc.ReorderTasksUseCase
	logger       *log.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(
	listTasks *taskuc.ListTasksUseCase,
	getTask *taskuc.GetTaskUseCase,
	createTask *taskuc.CreateTaskUseCase,
	updateTask *taskuc.UpdateTaskUseCase,
	deleteTask *taskuc.DeleteTaskUseCase,
	reorderTasks *taskuc.ReorderTasksUseCase,
	logger *log.Logger,
) *TaskHandler {
	return &TaskHandler{
		listTasks:    listTasks,
		getTask:      getTask,
		createTask:   createTask,
		updateTask:   updateTask,
		deleteTask:   deleteTask,
		reorderTasks: reorderTasks,
		logger:       logger,
	}
}

// Register mounts the task routes under /api/v1/tasks
func (h *TaskHandler) Register(r gin.IRouter) {
	tasks := r.Group("/api/v1/tasks")
	{
		tasks.GET("", h.list)
		tasks.GET("/", h.list)
		tasks.POST("", h.create)
		tasks.POST("/", h.create)
		tasks.PUT("/reorder", h.reorder)
		tasks.GET("/:id", h.get)
		tasks.PATCH("/:id", h.update)
		tasks.DELETE("/:id", h.delete)
	}
}

func (h *TaskHandler) list(c *gin.Context) {
	tasks, err := h.listTasks.Execute(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) get(c *gin.Context) {
	task, err := h.getTask.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	task, err := h.createTask.Execute(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) update(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	task, err := h.updateTask.Execute(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) delete(c *gin.Context) {
	if err := h.deleteTask.Execute(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) reorder(c *gin.Context) {
	var req dto.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	tasks, err := h.reorderTasks.Execute(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "healthy"})
}

func readyzHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.String(http.StatusServiceUnavailable, "not ready")
			return
		}
		c.String(http.StatusOK, "ready")
	}
}
