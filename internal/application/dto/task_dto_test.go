package dto

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUpdateTaskRequestMarshalOnlySetFields(t *testing.T) {
	req := UpdateTaskRequest{
		Title:       Some("New title"),
		Description: Null[string](),
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 keys, got %d: %s", len(got), data)
	}
	if got["title"] != "New title" {
		t.Errorf("expected title to be sent, got %v", got["title"])
	}
	if v, ok := got["description"]; !ok || v != nil {
		t.Errorf("expected explicit null description, got %v (present=%v)", v, ok)
	}
}

func TestUpdateTaskRequestUnmarshalDistinguishesNull(t *testing.T) {
	var req UpdateTaskRequest
	body := `{"description": null, "is_complete": true}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if req.Title.Set {
		t.Error("title was absent and must not be set")
	}
	if !req.Description.IsNull() {
		t.Error("description should be an explicit null")
	}
	if !req.IsComplete.Set || req.IsComplete.Value == nil || !*req.IsComplete.Value {
		t.Error("is_complete should be set to true")
	}
	if req.IsEmpty() {
		t.Error("request with fields should not be empty")
	}
}

func TestUpdateTaskRequestEmpty(t *testing.T) {
	var req UpdateTaskRequest
	if !req.IsEmpty() {
		t.Fatal("zero request should be empty")
	}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("expected {}, got %s", data)
	}
}

func TestTaskDTOIsOverdue(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	past := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)

	task := TaskDTO{Title: "Pay rent", Deadline: &past}
	if !task.IsOverdue(now) {
		t.Error("expected overdue")
	}
	task.IsComplete = true
	if !task.IsOverdue(now) {
		t.Error("completion must not hide the overdue indicator")
	}
	task.Deadline = nil
	if task.IsOverdue(now) {
		t.Error("no deadline means not overdue")
	}
}
