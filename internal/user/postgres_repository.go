package user

import (
	"context"
	"errors"
	"fmt"

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

const userColumns = "id, email, cognito_sub, name, created_at, updated_at"

// GetByEmail retrieves a user by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM catapp.users WHERE email = $1`, userColumns)
	return r.scanOne(ctx, query, email)
}

// GetByCognitoSub retrieves a user by external subject id.
func (r *PostgresRepository) GetByCognitoSub(ctx context.Context, sub string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM catapp.users WHERE cognito_sub = $1`, userColumns)
	return r.scanOne(ctx, query, sub)
}

// UpsertByEmail inserts the user, or on email conflict refreshes the existing
// row with the incoming subject and name. Keying on email rather than
// cognito_sub means two external subjects sharing an email would merge into
// one row; see DESIGN.md.
func (r *PostgresRepository) UpsertByEmail(ctx context.Context, u *User) error {
	query := fmt.Sprintf(`
		INSERT INTO catapp.users (email, cognito_sub, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
		SET cognito_sub = EXCLUDED.cognito_sub,
		    name = EXCLUDED.name,
		    updated_at = now()
		RETURNING %s`, userColumns)

	err := r.pool.QueryRow(ctx, query, u.Email, u.CognitoSub, u.Name).
		Scan(&u.ID, &u.Email, &u.CognitoSub, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}

	return nil
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx, query, args...).
		Scan(&u.ID, &u.Email, &u.CognitoSub, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}
