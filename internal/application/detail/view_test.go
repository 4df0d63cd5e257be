package detail

import (
	"context"
	"errors"
	"testing"

	"taskman/internal/application/dto"
	"taskman/internal/application/tasksync"
	"taskman/internal/domain/entity"
)

func task(id, title string) dto.TaskDTO {
	return dto.TaskDTO{ID: id, Title: title, Position: 1}
}

func TestOpenAndResolve(t *testing.T) {
	var v View
	if v.Visible() {
		t.Fatal("zero view should be closed")
	}

	f := v.Open(context.Background(), "t1")
	if v.Status() != StatusLoading || !v.Visible() {
		t.Fatalf("status = %v", v.Status())
	}
	if !v.Resolve(f, task("t1", "Report"), nil) {
		t.Fatal("current fetch dropped")
	}
	if v.Status() != StatusReady || v.Task().Title != "Report" {
		t.Errorf("view = %+v", v)
	}
	if f.Ctx.Err() == nil {
		t.Error("fetch context not released after resolve")
	}
}

func TestStaleFetchIsDropped(t *testing.T) {
	var v View
	first := v.Open(context.Background(), "t1")
	second := v.Open(context.Background(), "t2")

	if !errors.Is(first.Ctx.Err(), context.Canceled) {
		t.Error("superseded fetch not cancelled")
	}
	if v.Resolve(first, task("t1", "Old"), nil) {
		t.Error("stale result applied")
	}
	if v.Status() != StatusLoading || v.ID() != "t2" {
		t.Errorf("status = %v id = %s", v.Status(), v.ID())
	}

	v.Resolve(second, task("t2", "New"), nil)
	if v.Task().Title != "New" {
		t.Errorf("title = %q", v.Task().Title)
	}
}

func TestCloseCancelsFetch(t *testing.T) {
	var v View
	f := v.Open(context.Background(), "t1")
	v.Close()

	if f.Ctx.Err() == nil {
		t.Error("fetch not cancelled on close")
	}
	if v.Resolve(f, task("t1", "Late"), nil) {
		t.Error("result applied after close")
	}
	if v.Visible() {
		t.Error("view still visible")
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"not found", entity.ErrTaskNotFound, tasksync.MsgDetailMissing},
		{"other", errors.New("boom"), tasksync.MsgDetailFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v View
			f := v.Open(context.Background(), "t1")
			v.Resolve(f, dto.TaskDTO{}, tt.err)
			if v.Status() != StatusFailed || v.LoadError() != tt.msg {
				t.Errorf("status = %v err = %q", v.Status(), v.LoadError())
			}
			if v.BeginEdit() {
				t.Error("edit allowed without a loaded task")
			}
		})
	}
}

func TestEditCancelRestoresFields(t *testing.T) {
	var v View
	f := v.Open(context.Background(), "t1")
	v.Resolve(f, task("t1", "Report"), nil)

	if !v.BeginEdit() {
		t.Fatal("BeginEdit refused")
	}
	if v.Draft().Title != "Report" {
		t.Fatalf("seeded title = %q", v.Draft().Title)
	}
	v.SetFields(tasksync.Draft{Title: "Scratch"})
	v.CancelEdit()

	if v.Mode() != ModeRead {
		t.Error("still editing")
	}
	if v.Draft().Title != "Report" || v.Task().Title != "Report" {
		t.Errorf("draft = %q task = %q", v.Draft().Title, v.Task().Title)
	}
}

func TestSaveFlow(t *testing.T) {
	var v View
	f := v.Open(context.Background(), "t1")
	v.Resolve(f, task("t1", "Report"), nil)
	v.BeginEdit()
	v.SetFields(tasksync.Draft{Title: "Report v2"})

	if !v.BeginSave() || v.BeginSave() {
		t.Fatal("BeginSave should succeed once")
	}
	v.CancelEdit()
	if v.Mode() != ModeEdit {
		t.Error("cancel allowed while saving")
	}

	v.SaveFailed("Unable to save changes. Please try again.")
	if v.Saving() || v.SaveError() == "" || v.Mode() != ModeEdit {
		t.Errorf("after failure: saving=%v err=%q", v.Saving(), v.SaveError())
	}

	v.BeginSave()
	v.Saved(task("t1", "Report v2"))
	if v.Mode() != ModeRead || v.Task().Title != "Report v2" || v.SaveError() != "" {
		t.Errorf("after save: %+v", v)
	}
}

func TestRefreshSkipsWhileEditing(t *testing.T) {
	var v View
	f := v.Open(context.Background(), "t1")
	v.Resolve(f, task("t1", "Report"), nil)

	updated := task("t1", "Report")
	updated.IsComplete = true
	v.Refresh(updated)
	if !v.Task().IsComplete {
		t.Error("refresh ignored in read mode")
	}

	v.BeginEdit()
	v.Refresh(task("t1", "Other"))
	if v.Task().Title != "Report" {
		t.Error("refresh applied while editing")
	}
	v.Refresh(task("t2", "Elsewhere"))
	if v.Task().ID != "t1" {
		t.Error("refresh applied for another id")
	}
}
