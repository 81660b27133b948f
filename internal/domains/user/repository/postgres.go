package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bloglist-backend/internal/domains/user"
)

const pgUniqueViolation = "23505"

// postgresRepository implements user.Repository on pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

// ========================================
// WRITES
// ========================================

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	query := `
		INSERT INTO users (id, username, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query, u.ID, u.Username, u.Name, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return user.ErrUsernameTaken.WithCause(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// ========================================
// READS
// ========================================

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := r.findOne(ctx, `WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}

	blogs, err := r.ownedBlogs(ctx, []uuid.UUID{u.ID})
	if err != nil {
		return nil, err
	}
	u.Blogs = blogs[u.ID]
	if u.Blogs == nil {
		u.Blogs = []user.BlogRef{}
	}
	return u, nil
}

func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, `WHERE username = $1`, username)
}

func (r *postgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, name, password_hash, created_at, updated_at
		FROM users
		ORDER BY created_at, username
	`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	blogs, err := r.ownedBlogs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range users {
		users[i].Blogs = blogs[users[i].ID]
		if users[i].Blogs == nil {
			users[i].Blogs = []user.BlogRef{}
		}
	}
	return users, nil
}

// ========================================
// HELPERS
// ========================================

func (r *postgresRepository) findOne(ctx context.Context, where string, arg any) (*user.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, name, password_hash, created_at, updated_at
		FROM users `+where, arg)
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// ownedBlogs loads the owned-blog lists of ids, each in insertion order.
func (r *postgresRepository) ownedBlogs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]user.BlogRef, error) {
	out := make(map[uuid.UUID][]user.BlogRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT ub.user_id, b.id, b.title, b.author, b.url, b.likes
		FROM user_blogs ub
		JOIN blogs b ON b.id = ub.blog_id
		WHERE ub.user_id = ANY($1)
		ORDER BY ub.user_id, ub.position
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("query owned blogs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner uuid.UUID
		var b user.BlogRef
		if err := rows.Scan(&owner, &b.ID, &b.Title, &b.Author, &b.URL, &b.Likes); err != nil {
			return nil, fmt.Errorf("scan owned blog: %w", err)
		}
		out[owner] = append(out[owner], b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owned blogs: %w", err)
	}
	return out, nil
}

func scanUser(row pgx.CollectableRow) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
