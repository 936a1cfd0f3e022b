package slideshow

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

const slideshowColumns = "id, title, description, image_urls, cat_id, user_id, created_at, updated_at"

// Create inserts a new slideshow record owned by s.UserID.
func (r *PostgresRepository) Create(ctx context.Context, s *Slideshow) error {
	if s.ImageURLs == nil {
		s.ImageURLs = []string{}
	}

	query := `
		INSERT INTO catapp.slideshows (title, description, image_urls, cat_id, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		s.Title,
		s.Description,
		s.ImageURLs,
		s.CatID,
		s.UserID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting slideshow: %w", err)
	}

	return nil
}

// GetByID retrieves a single slideshow by id, scoped to its owner.
func (r *PostgresRepository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*Slideshow, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM catapp.slideshows
		WHERE id = $1 AND user_id = $2`, slideshowColumns)

	return r.scanOne(ctx, query, id, ownerID)
}

// List retrieves a page of the owner's slideshows in stable creation order.
func (r *PostgresRepository) List(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]Slideshow, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM catapp.slideshows
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3`, slideshowColumns)

	return r.scanMany(ctx, query, ownerID, limit, skip)
}

// ListByCat retrieves the owner's slideshows attached to a cat.
func (r *PostgresRepository) ListByCat(ctx context.Context, ownerID, catID uuid.UUID, skip, limit int) ([]Slideshow, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM catapp.slideshows
		WHERE user_id = $1 AND cat_id = $2
		ORDER BY created_at ASC, id ASC
		LIMIT $3 OFFSET $4`, slideshowColumns)

	return r.scanMany(ctx, query, ownerID, catID, limit, skip)
}

// SearchByTitle retrieves the owner's slideshows whose title contains term,
// case-sensitively.
func (r *PostgresRepository) SearchByTitle(ctx context.Context, ownerID uuid.UUID, term string, skip, limit int) ([]Slideshow, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM catapp.slideshows
		WHERE user_id = $1 AND title LIKE '%%' || $2 || '%%'
		ORDER BY created_at ASC, id ASC
		LIMIT $3 OFFSET $4`, slideshowColumns)

	return r.scanMany(ctx, query, ownerID, term, limit, skip)
}

// Update applies the non-nil fields to the owner's slideshow and returns the
// updated row.
func (r *PostgresRepository) Update(ctx context.Context, id, ownerID uuid.UUID, fields UpdateFields) (*Slideshow, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if fields.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *fields.Title)
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
	if fields.CatID != nil {
		setClauses = append(setClauses, fmt.Sprintf("cat_id = $%d", argIdx))
		args = append(args, *fields.CatID)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id, ownerID)
	}

	setClauses = append(setClauses, "updated_at = now()")

	args = append(args, id, ownerID)

	query := fmt.Sprintf(`
		UPDATE catapp.slideshows
		SET %s
		WHERE id = $%d AND user_id = $%d
		RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, argIdx+1, slideshowColumns)

	return r.scanOne(ctx, query, args...)
}

// Delete removes the owner's slideshow by id.
func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM catapp.slideshows WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting slideshow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*Slideshow, error) {
	var s Slideshow
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.Title, &s.Description, &s.ImageURLs,
		&s.CatID, &s.UserID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying slideshow: %w", err)
	}
	return &s, nil
}

func (r *PostgresRepository) scanMany(ctx context.Context, query string, args ...any) ([]Slideshow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing slideshows: %w", err)
	}
	defer rows.Close()

	var shows []Slideshow
	for rows.Next() {
		var s Slideshow
		err := rows.Scan(
			&s.ID, &s.Title, &s.Description, &s.ImageURLs,
			&s.CatID, &s.UserID, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning slideshow row: %w", err)
		}
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slideshow rows: %w", err)
	}

	if shows == nil {
		shows = []Slideshow{}
	}

	return shows, nil
}
