package state

import (
	"errors"
	"reflect"
	"testing"

	"taskman/internal/application/dto"
)

func tasks(titles ...string) []dto.TaskDTO {
	out := make([]dto.TaskDTO, len(titles))
	for i, title := range titles {
		out[i] = dto.TaskDTO{ID: "id-" + title, Title: title, Position: i + 1}
	}
	return out
}

func titles(c TaskCollection) []string {
	out := make([]string, 0, c.Len())
	for _, t := range c.Tasks() {
		out = append(out, t.Title)
	}
	return out
}

func TestInsertAtEnd(t *testing.T) {
	base := NewTaskCollection(tasks("A", "B"))
	next := base.InsertAtEnd(dto.TaskDTO{ID: "id-C", Title: "C", Position: 3})

	if got := titles(next); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("next = %v", got)
	}
	if base.Len() != 2 {
		t.Errorf("receiver mutated: len = %d", base.Len())
	}
}

func TestReplaceKeepsPlace(t *testing.T) {
	base := NewTaskCollection(tasks("A", "B", "C"))
	next := base.Replace(dto.TaskDTO{ID: "id-B", Title: "B2", Position: 2, IsComplete: true})

	if got := titles(next); !reflect.DeepEqual(got, []string{"A", "B2", "C"}) {
		t.Errorf("next = %v", got)
	}
	if b, _ := base.Find("id-B"); b.Title != "B" {
		t.Errorf("receiver mutated: %+v", b)
	}

	same := base.Replace(dto.TaskDTO{ID: "ghost"})
	if !reflect.DeepEqual(same.Tasks(), base.Tasks()) {
		t.Error("unknown id changed the collection")
	}
}

func TestRemove(t *testing.T) {
	base := NewTaskCollection(tasks("A", "B", "C"))

	next := base.Remove("id-B")
	if got := titles(next); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("next = %v", got)
	}
	if base.Len() != 3 {
		t.Error("receiver mutated")
	}
	if got := next.Remove("id-B"); got.Len() != 2 {
		t.Error("removing a missing id changed the collection")
	}
}

func TestMoveAndRenumber(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"last to first", 2, 0, []string{"C", "A", "B"}},
		{"first to last", 0, 2, []string{"B", "C", "A"}},
		{"adjacent down", 0, 1, []string{"B", "A", "C"}},
		{"same index", 1, 1, []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := NewTaskCollection(tasks("A", "B", "C"))
			next, err := base.MoveAndRenumber(tt.from, tt.to)
			if err != nil {
				t.Fatalf("MoveAndRenumber() error = %v", err)
			}
			if got := titles(next); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
			for i, task := range next.Tasks() {
				if task.Position != i+1 {
					t.Errorf("%s position = %d, want %d", task.Title, task.Position, i+1)
				}
			}
			if got := titles(base); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
				t.Errorf("receiver mutated: %v", got)
			}
		})
	}
}

func TestMoveAndRenumberOutOfRange(t *testing.T) {
	base := NewTaskCollection(tasks("A", "B"))
	for _, idx := range [][2]int{{-1, 0}, {0, 2}, {2, 0}} {
		if _, err := base.MoveAndRenumber(idx[0], idx[1]); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("MoveAndRenumber(%d, %d) error = %v", idx[0], idx[1], err)
		}
	}
}

func TestTasksReturnsCopy(t *testing.T) {
	c := NewTaskCollection(tasks("A"))
	out := c.Tasks()
	out[0].Title = "changed"
	if got, _ := c.At(0); got.Title != "A" {
		t.Errorf("collection aliased by Tasks(): %q", got.Title)
	}
}

func TestArrange(t *testing.T) {
	base := NewTaskCollection(tasks("A", "B", "C", "D"))

	next, err := base.Arrange([]string{"id-C", "id-A", "id-C"})
	if err != nil {
		t.Fatal(err)
	}
	if got := titles(next); !reflect.DeepEqual(got, []string{"C", "A", "B", "D"}) {
		t.Errorf("order = %v", got)
	}
	for i, task := range next.Tasks() {
		if task.Position != i+1 {
			t.Errorf("%s position = %d, want %d", task.Title, task.Position, i+1)
		}
	}

	if _, err := base.Arrange([]string{"id-A", "missing"}); !errors.Is(err, ErrUnknownID) {
		t.Errorf("unknown id error = %v", err)
	}
	if got := titles(base); !reflect.DeepEqual(got, []string{"A", "B", "C", "D"}) {
		t.Errorf("receiver mutated: %v", got)
	}
}
