package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"taskman/internal/domain/entity"
	"taskman/internal/domain/repository"
	"taskman/internal/infrastructure/persistence/mapper"
)

const taskColumns = "id, title, description, is_complete, position, deadline, created_at, updated_at"

// TaskRepository implements repository.TaskRepository on database/sql
type TaskRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewTaskRepository creates a repository over an open database
func NewTaskRepository(db *sql.DB, dialect Dialect) *TaskRepository {
	return &TaskRepository{
		db:      db,
		dialect: dialect,
	}
}

// Ping checks the database connection
func (r *TaskRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// FindAll retrieves all tasks ordered by position
func (r *TaskRepository) FindAll(ctx context.Context) ([]*entity.Task, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY position ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*entity.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

// FindByID retrieves a task by its ID
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*entity.Task, error) {
	return r.findByID(ctx, r.db, id)
}

// Count returns the number of stored tasks
func (r *TaskRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// MaxPosition returns the highest position in use, or 0
func (r *TaskRepository) MaxPosition(ctx context.Context) (int, error) {
	var maxPos sql.NullInt64
	if err := r.db.QueryRowContext(ctx, "SELECT MAX(position) FROM tasks").Scan(&maxPos); err != nil {
		return 0, fmt.Errorf("failed to read max position: %w", err)
	}
	return int(maxPos.Int64), nil
}

// Insert persists a new task
func (r *TaskRepository) Insert(ctx context.Context, task *entity.Task) error {
	rec := mapper.TaskToRecord(task)
	_, err := r.db.ExecContext(ctx, r.rebind(
		"INSERT INTO tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)"),
		rec.ID, rec.Title, rec.Description, rec.IsComplete, rec.Position,
		rec.Deadline, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrPositionConflict
		}
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// Save persists changes to an existing task
func (r *TaskRepository) Save(ctx context.Context, task *entity.Task) error {
	rec := mapper.TaskToRecord(task)
	res, err := r.db.ExecContext(ctx, r.rebind(
		`UPDATE tasks SET title = ?, description = ?, is_complete = ?, position = ?,
		deadline = ?, updated_at = ? WHERE id = ?`),
		rec.Title, rec.Description, rec.IsComplete, rec.Position,
		rec.Deadline, rec.UpdatedAt, rec.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrPositionConflict
		}
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireOneRow(res)
}

// Delete removes a task and closes the gap it leaves, in one
// transaction. Later rows are parked on negative positions first, as in
// Reorder, so the unique constraint never sees a collision.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if r.dialect == DialectPostgres {
		if _, err := tx.ExecContext(ctx, "SELECT id FROM tasks FOR UPDATE"); err != nil {
			return fmt.Errorf("failed to lock tasks: %w", err)
		}
	}

	var position int
	err = tx.QueryRowContext(ctx, r.rebind("SELECT position FROM tasks WHERE id = ?"), id).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}

	res, err := tx.ExecContext(ctx, r.rebind("DELETE FROM tasks WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if err := requireOneRow(res); err != nil {
		return err
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, r.rebind(
		"UPDATE tasks SET position = -position, updated_at = ? WHERE position > ?"), now, position); err != nil {
		return fmt.Errorf("failed to stage positions: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE tasks SET position = -position - 1 WHERE position < 0"); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrPositionConflict
		}
		return fmt.Errorf("failed to close position gap: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// Reorder rewrites positions in two passes inside one transaction.
// The first pass moves every row to a negative slot so the unique
// constraint never sees two rows on the same positive position.
func (r *TaskRepository) Reorder(ctx context.Context, ids []string) ([]*entity.Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if r.dialect == DialectPostgres {
		if _, err := tx.ExecContext(ctx, "SELECT id FROM tasks FOR UPDATE"); err != nil {
			return nil, fmt.Errorf("failed to lock tasks: %w", err)
		}
	}

	update := r.rebind("UPDATE tasks SET position = ?, updated_at = ? WHERE id = ?")
	now := time.Now().UTC()

	for i, id := range ids {
		res, err := tx.ExecContext(ctx, update, -(i + 1), now, id)
		if err != nil {
			return nil, fmt.Errorf("failed to stage position for %s: %w", id, err)
		}
		if err := requireOneRow(res); err != nil {
			return nil, entity.ErrUnknownTaskIDs
		}
	}
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, update, i+1, now, id); err != nil {
			if isUniqueViolation(err) {
				return nil, repository.ErrPositionConflict
			}
			return nil, fmt.Errorf("failed to set position for %s: %w", id, err)
		}
	}

	result := make([]*entity.Task, 0, len(ids))
	for _, id := range ids {
		task, err := r.findByID(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, task)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reorder: %w", err)
	}
	return result, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TaskRepository) findByID(ctx context.Context, q queryRower, id string) (*entity.Task, error) {
	row := q.QueryRowContext(ctx, r.rebind("SELECT "+taskColumns+" FROM tasks WHERE id = ?"), id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrTaskNotFound
	}
	return task, err
}

func scanTask(row rowScanner) (*entity.Task, error) {
	var rec mapper.TaskRecord
	err := row.Scan(
		&rec.ID, &rec.Title, &rec.Description, &rec.IsComplete, &rec.Position,
		&rec.Deadline, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	return mapper.RecordToTask(rec), nil
}

// rebind rewrites ? placeholders to $n for Postgres
func (r *TaskRepository) rebind(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func requireOneRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return entity.ErrTaskNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
