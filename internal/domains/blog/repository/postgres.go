package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bloglist-backend/internal/domains/blog"
	"bloglist-backend/pkg/database"
)

const selectBlogs = `
	SELECT b.id, b.title, b.author, b.url, b.likes, b.user_id, b.created_at, b.updated_at,
	       u.username, u.name
	FROM blogs b
	JOIN users u ON u.id = b.user_id
`

// postgresRepository implements blog.Repository on pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) blog.Repository {
	return &postgresRepository{pool: pool}
}

// ========================================
// READS
// ========================================

func (r *postgresRepository) List(ctx context.Context) ([]blog.Blog, error) {
	rows, err := r.pool.Query(ctx, selectBlogs+` ORDER BY b.created_at, b.id`)
	if err != nil {
		return nil, fmt.Errorf("query blogs: %w", err)
	}

	blogs, err := pgx.CollectRows(rows, scanBlog)
	if err != nil {
		return nil, fmt.Errorf("scan blogs: %w", err)
	}
	return blogs, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Blog, error) {
	rows, err := r.pool.Query(ctx, selectBlogs+` WHERE b.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("query blog: %w", err)
	}

	b, err := pgx.CollectExactlyOneRow(rows, scanBlog)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, blog.ErrBlogNotFound
		}
		return nil, fmt.Errorf("scan blog: %w", err)
	}
	return &b, nil
}

// ========================================
// WRITES
// ========================================

func (r *postgresRepository) Create(ctx context.Context, b *blog.Blog) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now

	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// Lock the owner row so concurrent creates append in order.
		var ownerID uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, b.UserID).Scan(&ownerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return blog.ErrOwnerNotFound
			}
			return fmt.Errorf("lock owner: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO blogs (id, title, author, url, likes, user_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, b.ID, b.Title, b.Author, b.URL, b.Likes, b.UserID, b.CreatedAt, b.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert blog: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO user_blogs (user_id, blog_id, position)
			SELECT $1::uuid, $2::uuid, COALESCE(MAX(position), 0) + 1
			FROM user_blogs WHERE user_id = $1
		`, b.UserID, b.ID)
		if err != nil {
			return fmt.Errorf("append owned blog: %w", err)
		}
		return nil
	})
}

func (r *postgresRepository) Update(ctx context.Context, b *blog.Blog) error {
	b.UpdatedAt = time.Now().UTC()

	tag, err := r.pool.Exec(ctx, `
		UPDATE blogs
		SET title = $2, author = $3, url = $4, likes = $5, updated_at = $6
		WHERE id = $1
	`, b.ID, b.Title, b.Author, b.URL, b.Likes, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return blog.ErrBlogNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_blogs WHERE blog_id = $1`, id); err != nil {
			return fmt.Errorf("remove owned blog: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete blog: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return blog.ErrBlogNotFound
		}
		return nil
	})
}

func scanBlog(row pgx.CollectableRow) (blog.Blog, error) {
	var b blog.Blog
	owner := &blog.Owner{}
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &b.UserID, &b.CreatedAt, &b.UpdatedAt,
		&owner.Username, &owner.Name)
	owner.ID = b.UserID
	b.Owner = owner
	return b, err
}
