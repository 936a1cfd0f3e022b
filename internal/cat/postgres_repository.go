package cat

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

const catColumns = "id, name, breed, age, color, description, image_urls, user_id, created_at, updated_at"

// Create inserts a new cat record owned by c.UserID.
func (r *PostgresRepository) Create(ctx context.Context, c *Cat) error {
	if c.ImageURLs == nil {
		c.ImageURLs = []string{}
	}

	query := `
		INSERT INTO catapp.cats (name, breed, age, color, description, image_urls, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		c.Name,
		c.Breed,
		c.Age,
		c.Color,
		c.Description,
		c.ImageURLs,
		c.UserID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting cat: %w", err)
	}

	return nil
}

// GetByID retrieves a single cat by id, scoped to its owner.
func (r *PostgresRepository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*Cat, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM catapp.cats
		WHERE id = $1 AND user_id = $2`, catColumns)

	return r.scanOne(ctx, query, id, ownerID)
}

// List retrieves a page of the owner's cats in stable creation order.
func (r *PostgresRepository) List(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]Cat, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM catapp.cats
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3`, catColumns)

	return r.scanMany(ctx, query, ownerID, limit, skip)
}

// ListByBreed retrieves the owner's cats matching a breed exactly.
func (r *PostgresRepository) ListByBreed(ctx context.Context, ownerID uuid.UUID, breed string, skip, limit int) ([]Cat, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM catapp.cats
		WHERE user_id = $1 AND breed = $2
		ORDER BY created_at ASC, id ASC
		LIMIT $3 OFFSET $4`, catColumns)

	return r.scanMany(ctx, query, ownerID, breed, limit, skip)
}

// ListByAgeRange retrieves the owner's cats with an age in [minAge, maxAge].
func (r *PostgresRepository) ListByAgeRange(ctx context.Context, ownerID uuid.UUID, minAge, maxAge, skip, limit int) ([]Cat, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM catapp.cats
		WHERE user_id = $1 AND age >= $2 AND age <= $3
		ORDER BY created_at ASC, id ASC
		LIMIT $4 OFFSET $5`, catColumns)

	return r.scanMany(ctx, query, ownerID, minAge, maxAge, limit, skip)
}

// SearchByDescription retrieves the owner's cats whose description contains
// term, case-sensitively.
func (r *PostgresRepository) SearchByDescription(ctx context.Context, ownerID uuid.UUID, term string, skip, limit int) ([]Cat, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM catapp.cats
		WHERE user_id = $1 AND description LIKE '%%' || $2 || '%%'
		ORDER BY created_at ASC, id ASC
		LIMIT $3 OFFSET $4`, catColumns)

	return r.scanMany(ctx, query, ownerID, term, limit, skip)
}

// Update applies the non-nil fields to the owner's cat and returns the
// updated row.
func (r *PostgresRepository) Update(ctx context.Context, id, ownerID uuid.UUID, fields UpdateFields) (*Cat, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if fields.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *fields.Name)
		argIdx++
	}
	if fields.Breed != nil {
		setClauses = append(setClauses, fmt.Sprintf("breed = $%d", argIdx))
		args = append(args, *fields.Breed)
		argIdx++
	}
	if fields.Age != nil {
		setClauses = append(setClauses, fmt.Sprintf("age = $%d", argIdx))
		args = append(args, *fields.Age)
		argIdx++
	}
	if fields.Color != nil {
		setClauses = append(setClauses, fmt.Sprintf("color = $%d", argIdx))
		args = append(args, *fields.Color)
		argIdx++
	}
	if fields.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *fields.Description)
		argIdx++
	}
	if fields.ImageURLs != nil {
		setClauses = append(setClauses, fmt.Sprintf("image_urls = $%d", argIdx))
		args = append(args, *fields.ImageURLs)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id, ownerID)
	}

	setClauses = append(setClauses, "updated_at = now()")

	args = append(args, id, ownerID)

	query := fmt.Sprintf(`
		UPDATE catapp.cats
		SET %s
		WHERE id = $%d AND user_id = $%d
		RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, argIdx+1, catColumns)

	return r.scanOne(ctx, query, args...)
}

// Delete removes the owner's cat by id.
func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM catapp.cats WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting cat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*Cat, error) {
	var c Cat
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&c.ID, &c.Name, &c.Breed, &c.Age, &c.Color, &c.Description,
		&c.ImageURLs, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying cat: %w", err)
	}
	return &c, nil
}

func (r *PostgresRepository) scanMany(ctx context.Context, query string, args ...any) ([]Cat, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing cats: %w", err)
	}
	defer rows.Close()

	var cats []Cat
	for rows.Next() {
		var c Cat
		err := rows.Scan(
			&c.ID, &c.Name, &c.Breed, &c.Age, &c.Color, &c.Description,
			&c.ImageURLs, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning cat row: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cat rows: %w", err)
	}

	if cats == nil {
		cats = []Cat{}
	}

	return cats, nil
}
