package tasksync

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"taskman/internal/application/dto"
	"taskman/internal/application/state"
	"taskman/internal/domain/entity"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func mk(id string, pos int, updated time.Duration) dto.TaskDTO {
	return dto.TaskDTO{
		ID:        id,
		Title:     "task " + id,
		Position:  pos,
		CreatedAt: base,
		UpdatedAt: base.Add(updated),
	}
}

func order(c state.TaskCollection) []string {
	return c.IDs()
}

func TestApplyToggle(t *testing.T) {
	c := state.NewTaskCollection([]dto.TaskDTO{mk("a", 1, 0), mk("b", 2, 0)})

	next, prev, err := ApplyToggle(c, "b", true)
	if err != nil {
		t.Fatal(err)
	}
	if prev {
		t.Error("prev = true, want false")
	}
	if b, _ := next.Find("b"); !b.IsComplete {
		t.Error("b not toggled")
	}
	if a, _ := next.Find("a"); a.IsComplete {
		t.Error("a touched by toggle of b")
	}
	if b, _ := c.Find("b"); b.IsComplete {
		t.Error("input collection mutated")
	}

	if _, _, err := ApplyToggle(c, "ghost", true); !errors.Is(err, ErrUnknownTask) {
		t.Errorf("unknown id error = %v", err)
	}
}

func TestResolveToggle(t *testing.T) {
	optimistic := state.NewTaskCollection([]dto.TaskDTO{mk("a", 1, 0)})
	optimistic, _, _ = ApplyToggle(optimistic, "a", true)

	t.Run("success takes the server record", func(t *testing.T) {
		server := mk("a", 7, time.Minute)
		server.IsComplete = true
		got := ResolveToggle(optimistic, "a", false, server, nil)
		a, _ := got.Find("a")
		if !a.IsComplete || !a.UpdatedAt.Equal(base.Add(time.Minute)) {
			t.Errorf("a = %+v", a)
		}
		if a.Position != 1 {
			t.Errorf("position = %d, want local 1", a.Position)
		}
	})

	t.Run("failure reverts only is_complete", func(t *testing.T) {
		edited := optimistic.Replace(func() dto.TaskDTO {
			a, _ := optimistic.Find("a")
			a.Title = "renamed meanwhile"
			return a
		}())
		got := ResolveToggle(edited, "a", false, dto.TaskDTO{}, errors.New("boom"))
		a, _ := got.Find("a")
		if a.IsComplete {
			t.Error("is_complete not reverted")
		}
		if a.Title != "renamed meanwhile" {
			t.Errorf("unrelated field reverted: %q", a.Title)
		}
	})

	t.Run("not found keeps local value", func(t *testing.T) {
		got := ResolveToggle(optimistic, "a", false, dto.TaskDTO{}, entity.ErrTaskNotFound)
		if a, _ := got.Find("a"); !a.IsComplete {
			t.Error("404 should not revert")
		}
	})
}

func TestApplyReorder(t *testing.T) {
	c := state.NewTaskCollection([]dto.TaskDTO{mk("a", 1, 0), mk("b", 2, 0), mk("c", 3, 0)})

	same, moved, err := ApplyReorder(c, 1, 1)
	if err != nil || moved {
		t.Fatalf("same index: moved=%v err=%v", moved, err)
	}
	if !reflect.DeepEqual(order(same), []string{"a", "b", "c"}) {
		t.Errorf("same index changed order: %v", order(same))
	}

	next, moved, err := ApplyReorder(c, 2, 0)
	if err != nil || !moved {
		t.Fatalf("moved=%v err=%v", moved, err)
	}
	if !reflect.DeepEqual(order(next), []string{"c", "a", "b"}) {
		t.Errorf("order = %v", order(next))
	}

	if _, _, err := ApplyReorder(c, 5, 5); !errors.Is(err, state.ErrIndexOutOfRange) {
		t.Errorf("out of range error = %v", err)
	}
}

func TestResolveReorderSuccess(t *testing.T) {
	snapshot := state.NewTaskCollection([]dto.TaskDTO{mk("a", 1, 0), mk("b", 2, 0), mk("c", 3, 0)})
	current, _, _ := ApplyReorder(snapshot, 2, 0)

	// b was toggled and confirmed after the reorder reached the server.
	b := mk("b", 3, 10*time.Minute)
	b.IsComplete = true
	current = current.Replace(b)
	// d was created during the request, a was deleted.
	current = current.InsertAtEnd(mk("d", 4, 0)).Remove("a")

	result := []dto.TaskDTO{mk("c", 1, 5*time.Minute), mk("a", 2, 5*time.Minute), mk("b", 3, 5*time.Minute)}
	got := ResolveReorder(snapshot, current, result, nil)

	if !reflect.DeepEqual(order(got), []string{"c", "b", "d"}) {
		t.Fatalf("order = %v", order(got))
	}
	gotB, _ := got.Find("b")
	if !gotB.IsComplete || gotB.Position != 3 {
		t.Errorf("b = %+v, want newer local fields with server position", gotB)
	}
	gotC, _ := got.Find("c")
	if !gotC.UpdatedAt.Equal(base.Add(5*time.Minute)) || gotC.Position != 1 {
		t.Errorf("c = %+v, want server copy", gotC)
	}
}

func TestResolveReorderFailureRestoresOrder(t *testing.T) {
	snapshot := state.NewTaskCollection([]dto.TaskDTO{mk("a", 1, 0), mk("b", 2, 0), mk("c", 3, 0)})
	current, _, _ := ApplyReorder(snapshot, 0, 2)
	current, _, _ = ApplyToggle(current, "c", true)
	current = current.InsertAtEnd(mk("d", 4, 0))

	got := ResolveReorder(snapshot, current, nil, errors.New("boom"))

	if !reflect.DeepEqual(order(got), []string{"a", "b", "c", "d"}) {
		t.Fatalf("order = %v", order(got))
	}
	for i, task := range got.Tasks() {
		if task.Position != i+1 {
			t.Errorf("%s position = %d", task.ID, task.Position)
		}
	}
	if c, _ := got.Find("c"); !c.IsComplete {
		t.Error("toggle made during the reorder was lost")
	}
}

func TestApplyCreateAndResolveDelete(t *testing.T) {
	c := state.NewTaskCollection([]dto.TaskDTO{mk("a", 1, 0)})

	c = ApplyCreate(c, mk("b", 2, 0))
	if !reflect.DeepEqual(order(c), []string{"a", "b"}) {
		t.Fatalf("order = %v", order(c))
	}
	if again := ApplyCreate(c, mk("b", 2, 0)); again.Len() != 2 {
		t.Error("duplicate create appended twice")
	}

	tests := []struct {
		name    string
		err     error
		removed bool
	}{
		{"success", nil, true},
		{"already gone", entity.ErrTaskNotFound, true},
		{"server error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, removed := ResolveDelete(c, "a", tt.err)
			if removed != tt.removed {
				t.Fatalf("removed = %v", removed)
			}
			_, stillThere := next.Find("a")
			if stillThere == tt.removed {
				t.Errorf("a present = %v", stillThere)
			}
		})
	}
}
