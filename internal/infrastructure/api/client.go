// Package api is the HTTP client for the task backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskman/internal/application/dto"
	"taskman/internal/infrastructure/config"
)

const tasksPath = "/api/v1/tasks/"

// Client talks to the task REST backend
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a client for the configured backend
func NewClient(cfg *config.Config) *Client {
	return NewClientWith(cfg.API.BaseURL, cfg.API.Timeout, http.DefaultClient)
}

// NewClientWith creates a client with an explicit base URL and transport
func NewClientWith(baseURL string, timeout time.Duration, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    hc,
	}
}

// BaseURL returns the backend root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// sendRequest performs one request and decodes a 2xx body into out
func (c *Client) sendRequest(ctx context.Context, method, path string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func taskPath(id string) string {
	return tasksPath + url.PathEscape(id)
}

// ListTasks returns all tasks by ascending position
func (c *Client) ListTasks(ctx context.Context) ([]dto.TaskDTO, error) {
	var tasks []dto.TaskDTO
	if err := c.sendRequest(ctx, http.MethodGet, tasksPath, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns one task
func (c *Client) GetTask(ctx context.Context, id string) (dto.TaskDTO, error) {
	var task dto.TaskDTO
	err := c.sendRequest(ctx, http.MethodGet, taskPath(id), nil, &task)
	return task, err
}

// CreateTask creates a task at the end of the list
func (c *Client) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (dto.TaskDTO, error) {
	var task dto.TaskDTO
	err := c.sendRequest(ctx, http.MethodPost, tasksPath, req, &task)
	return task, err
}

// UpdateTask sends a partial update
func (c *Client) UpdateTask(ctx context.Context, id string, req dto.UpdateTaskRequest) (dto.TaskDTO, error) {
	var task dto.TaskDTO
	err := c.sendRequest(ctx, http.MethodPatch, taskPath(id), req, &task)
	return task, err
}

// DeleteTask deletes a task
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.sendRequest(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

// ReorderTasks submits the complete order and returns the renumbered tasks
func (c *Client) ReorderTasks(ctx context.Context, ids []string) ([]dto.TaskDTO, error) {
	var tasks []dto.TaskDTO
	err := c.sendRequest(ctx, http.MethodPut, tasksPath+"reorder", dto.ReorderRequest{TaskIDs: ids}, &tasks)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Health checks that the backend is up
func (c *Client) Health(ctx context.Context) (dto.HealthResponse, error) {
	var health dto.HealthResponse
	err := c.sendRequest(ctx, http.MethodGet, "/health", nil, &health)
	return health, err
}
