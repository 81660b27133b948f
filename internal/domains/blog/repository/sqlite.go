package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bloglist-backend/internal/domains/blog"
	"bloglist-backend/internal/infrastructure/sqlstore"
)

const selectSQLiteBlogs = `
SELECT b.id, b.title, b.author, b.url, b.likes, b.user_id, b.created_at, b.updated_at,
       u.username, u.name
FROM blogs b
JOIN users u ON u.id = b.user_id
`

// sqliteRepository implements blog.Repository on the embedded SQLite store.
type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) blog.Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) List(ctx context.Context) ([]blog.Blog, error) {
	rows, err := r.db.QueryContext(ctx, selectSQLiteBlogs+`ORDER BY b.rowid`)
	if err != nil {
		return nil, fmt.Errorf("query blogs: %w", err)
	}
	defer rows.Close()

	blogs := []blog.Blog{}
	for rows.Next() {
		b, err := scanSQLiteBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blogs: %w", err)
	}
	return blogs, nil
}

func (r *sqliteRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Blog, error) {
	row := r.db.QueryRowContext(ctx, selectSQLiteBlogs+`WHERE b.id = ?`, id.String())
	b, err := scanSQLiteBlog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, blog.ErrBlogNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *sqliteRepository) Create(ctx context.Context, b *blog.Blog) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now().UTC().Truncate(time.Second)
	b.CreatedAt, b.UpdatedAt = now, now

	return sqlstore.WithTx(ctx, r.db, func(ctx context.Context, tx sqlstore.DBTX) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE id = ?`, b.UserID.String()).Scan(&n); err != nil {
			return fmt.Errorf("check owner: %w", err)
		}
		if n == 0 {
			return blog.ErrOwnerNotFound
		}

		_, err := tx.ExecContext(ctx, `
INSERT INTO blogs (id, title, author, url, likes, user_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, b.ID.String(), b.Title, b.Author, b.URL, b.Likes, b.UserID.String(), now.Unix(), now.Unix())
		if err != nil {
			return fmt.Errorf("insert blog: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
INSERT INTO user_blogs (user_id, blog_id, position)
SELECT ?, ?, COALESCE(MAX(position), 0) + 1
FROM user_blogs WHERE user_id = ?
`, b.UserID.String(), b.ID.String(), b.UserID.String())
		if err != nil {
			return fmt.Errorf("append owned blog: %w", err)
		}
		return nil
	})
}

func (r *sqliteRepository) Update(ctx context.Context, b *blog.Blog) error {
	b.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	res, err := r.db.ExecContext(ctx, `
UPDATE blogs
SET title = ?, author = ?, url = ?, likes = ?, updated_at = ?
WHERE id = ?
`, b.Title, b.Author, b.URL, b.Likes, b.UpdatedAt.Unix(), b.ID.String())
	if err != nil {
		return fmt.Errorf("update blog: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update blog: %w", err)
	}
	if n == 0 {
		return blog.ErrBlogNotFound
	}
	return nil
}

func (r *sqliteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return sqlstore.WithTx(ctx, r.db, func(ctx context.Context, tx sqlstore.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_blogs WHERE blog_id = ?`, id.String()); err != nil {
			return fmt.Errorf("remove owned blog: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id.String())
		if err != nil {
			return fmt.Errorf("delete blog: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete blog: %w", err)
		}
		if n == 0 {
			return blog.ErrBlogNotFound
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteBlog(row rowScanner) (*blog.Blog, error) {
	var (
		b                blog.Blog
		id, userID       string
		created, updated int64
		owner            blog.Owner
	)
	err := row.Scan(&id, &b.Title, &b.Author, &b.URL, &b.Likes, &userID, &created, &updated,
		&owner.Username, &owner.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan blog: %w", err)
	}

	if b.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse blog id: %w", err)
	}
	if b.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	owner.ID = b.UserID
	b.Owner = &owner
	b.CreatedAt = time.Unix(created, 0).UTC()
	b.UpdatedAt = time.Unix(updated, 0).UTC()
	return &b, nil
}
