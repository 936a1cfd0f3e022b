package todo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

const todoColumns = "id, title, completed, created_at, updated_at"

// Create inserts a new todo record.
func (r *PostgresRepository) Create(ctx context.Context, t *Todo) error {
	query := `
		INSERT INTO catapp.todos (title, completed)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, t.Title, t.Completed).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting todo: %w", err)
	}

	return nil
}

// GetByID retrieves a single todo by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Todo, error) {
	query := fmt.Sprintf(`SELECT %s FROM catapp.todos WHERE id = $1`, todoColumns)
	return r.scanOne(ctx, query, id)
}

// List retrieves a page of todos in stable creation order.
func (r *PostgresRepository) List(ctx context.Context, skip, limit int) ([]Todo, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM catapp.todos
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2`, todoColumns)

	rows, err := r.pool.Query(ctx, query, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	defer rows.Close()

	var todos []Todo
	for rows.Next() {
		var t Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning todo row: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating todo rows: %w", err)
	}

	if todos == nil {
		todos = []Todo{}
	}

	return todos, nil
}

// Update applies the non-nil fields and returns the updated row.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Todo, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if fields.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *fields.Title)
		argIdx++
	}
	if fields.Completed != nil {
		setClauses = append(setClauses, fmt.Sprintf("completed = $%d", argIdx))
		args = append(args, *fields.Completed)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE catapp.todos
		SET %s
		WHERE id = $%d
		RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, todoColumns)

	return r.scanOne(ctx, query, args...)
}

// Delete removes a todo by id.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM catapp.todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*Todo, error) {
	var t Todo
	err := r.pool.QueryRow(ctx, query, args...).
		Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying todo: %w", err)
	}
	return &t, nil
}
