package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"taskman/internal/domain/entity"
	"taskman/internal/domain/repository"
)

func newTestRepo(t *testing.T) *TaskRepository {
	t.Helper()

	db, dialect, err := Open("sqlite:///" + filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := NewTaskRepository(db, dialect)
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return repo
}

func insertTask(t *testing.T, repo *TaskRepository, id, title string, pos int) *entity.Task {
	t.Helper()
	task, err := entity.NewTask(id, title, nil, nil, pos)
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	if err := repo.Insert(context.Background(), task); err != nil {
		t.Fatalf("Insert(%s): %v", id, err)
	}
	return task
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		in      string
		dialect Dialect
		dsn     string
		wantErr bool
	}{
		{in: "sqlite:///./tasks.db", dialect: DialectSQLite, dsn: "./tasks.db"},
		{in: "sqlite:///tasks.db", dialect: DialectSQLite, dsn: "tasks.db"},
		{in: "sqlite:////var/lib/taskman/tasks.db", dialect: DialectSQLite, dsn: "/var/lib/taskman/tasks.db"},
		{in: "tasks.db", dialect: DialectSQLite, dsn: "tasks.db"},
		{in: "postgres://u:p@localhost/tasks", dialect: DialectPostgres, dsn: "postgres://u:p@localhost/tasks"},
		{in: "postgresql://localhost/tasks", dialect: DialectPostgres, dsn: "postgresql://localhost/tasks"},
		{in: "mysql://localhost/tasks", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			dialect, dsn, err := ParseURL(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dialect != tt.dialect || dsn != tt.dsn {
				t.Errorf("got (%s, %s), want (%s, %s)", dialect, dsn, tt.dialect, tt.dsn)
			}
		})
	}
}

func TestRebind(t *testing.T) {
	pg := &TaskRepository{dialect: DialectPostgres}
	got := pg.rebind("UPDATE tasks SET position = ? WHERE id = ?")
	if got != "UPDATE tasks SET position = $1 WHERE id = $2" {
		t.Errorf("unexpected rebind: %s", got)
	}

	lite := &TaskRepository{dialect: DialectSQLite}
	if q := lite.rebind("SELECT ?"); q != "SELECT ?" {
		t.Errorf("sqlite query should be unchanged, got %s", q)
	}
}

func TestInsertAndFind(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	deadline := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)
	desc := "semi-skimmed"
	task, err := entity.NewTask("id-1", "Buy milk", &desc, &deadline, 1)
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	if err := repo.Insert(ctx, task); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := repo.FindByID(ctx, "id-1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Title() != "Buy milk" || got.Position() != 1 || got.IsComplete() {
		t.Errorf("unexpected task: %s pos=%d complete=%v", got.Title(), got.Position(), got.IsComplete())
	}
	if got.Description() == nil || *got.Description() != desc {
		t.Errorf("description lost: %v", got.Description())
	}
	if got.Deadline() == nil || !got.Deadline().Equal(deadline) {
		t.Errorf("deadline lost: %v", got.Deadline())
	}

	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, entity.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestInsertPositionConflict(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	insertTask(t, repo, "a", "A", 1)

	dup, _ := entity.NewTask("b", "B", nil, nil, 1)
	if err := repo.Insert(ctx, dup); !errors.Is(err, repository.ErrPositionConflict) {
		t.Fatalf("expected ErrPositionConflict, got %v", err)
	}

	maxPos, err := repo.MaxPosition(ctx)
	if err != nil || maxPos != 1 {
		t.Fatalf("MaxPosition = %d, %v", maxPos, err)
	}
}

func TestSaveAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	task := insertTask(t, repo, "a", "A", 1)

	task.SetComplete(true)
	if err := repo.Save(ctx, task); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := repo.FindByID(ctx, "a")
	if !got.IsComplete() {
		t.Error("completion not persisted")
	}

	if err := repo.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, "a"); !errors.Is(err, entity.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if err := repo.Save(ctx, task); !errors.Is(err, entity.ErrTaskNotFound) {
		t.Errorf("saving a deleted task should report not found, got %v", err)
	}
}

func TestDeleteClosesPositionGap(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	insertTask(t, repo, "a", "A", 1)
	insertTask(t, repo, "b", "B", 2)
	insertTask(t, repo, "c", "C", 3)
	insertTask(t, repo, "d", "D", 4)

	if err := repo.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	for i, want := range []string{"a", "c", "d"} {
		if all[i].ID() != want || all[i].Position() != i+1 {
			t.Errorf("index %d: got %s at %d, want %s at %d", i, all[i].ID(), all[i].Position(), want, i+1)
		}
	}

	// the freed tail slot is usable again
	insertTask(t, repo, "e", "E", 4)
}

func TestReorderTwoPass(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	insertTask(t, repo, "a", "A", 1)
	insertTask(t, repo, "b", "B", 2)
	insertTask(t, repo, "c", "C", 3)

	tasks, err := repo.Reorder(ctx, []string{"c", "a", "b"})
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	for i, want := range []string{"c", "a", "b"} {
		if tasks[i].ID() != want || tasks[i].Position() != i+1 {
			t.Errorf("index %d: got %s at %d", i, tasks[i].ID(), tasks[i].Position())
		}
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	for i, want := range []string{"C", "A", "B"} {
		if all[i].Title() != want {
			t.Errorf("FindAll index %d: got %s, want %s", i, all[i].Title(), want)
		}
	}

	if _, err := repo.Reorder(ctx, []string{"c", "a", "nope"}); !errors.Is(err, entity.ErrUnknownTaskIDs) {
		t.Errorf("expected ErrUnknownTaskIDs, got %v", err)
	}
	after, _ := repo.FindAll(ctx)
	if after[0].ID() != "c" {
		t.Error("failed reorder must roll back")
	}
}
