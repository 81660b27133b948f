package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bloglist-backend/internal/domains/user"
	"bloglist-backend/internal/infrastructure/sqlstore"
)

// sqliteRepository implements user.Repository on the embedded SQLite store.
type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) user.Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) Create(ctx context.Context, u *user.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC().Truncate(time.Second)
	u.CreatedAt, u.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, username, name, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`, u.ID.String(), u.Username, u.Name, u.PasswordHash, now.Unix(), now.Unix())
	if err != nil {
		if sqlstore.IsUniqueViolation(err) {
			return user.ErrUsernameTaken.WithCause(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *sqliteRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := r.findOne(ctx, `WHERE id = ?`, id.String())
	if err != nil {
		return nil, err
	}

	blogs, err := r.ownedBlogs(ctx, u.ID.String())
	if err != nil {
		return nil, err
	}
	u.Blogs = blogs[u.ID]
	if u.Blogs == nil {
		u.Blogs = []user.BlogRef{}
	}
	return u, nil
}

func (r *sqliteRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, `WHERE username = ?`, username)
}

func (r *sqliteRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE username = ?`, username).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return n > 0, nil
}

func (r *sqliteRepository) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, username, name, password_hash, created_at, updated_at
FROM users
ORDER BY rowid
`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	var users []user.User
	for rows.Next() {
		u, err := scanSQLiteUser(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	// Close before the next query: the store runs on a single connection.
	rows.Close()

	blogs, err := r.ownedBlogs(ctx, "")
	if err != nil {
		return nil, err
	}

	for i := range users {
		users[i].Blogs = blogs[users[i].ID]
		if users[i].Blogs == nil {
			users[i].Blogs = []user.BlogRef{}
		}
	}
	if users == nil {
		users = []user.User{}
	}
	return users, nil
}

func (r *sqliteRepository) findOne(ctx context.Context, where string, arg any) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, username, name, password_hash, created_at, updated_at
FROM users `+where, arg)

	u, err := scanSQLiteUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

// ownedBlogs loads owned-blog lists in insertion order; userID "" loads all.
func (r *sqliteRepository) ownedBlogs(ctx context.Context, userID string) (map[uuid.UUID][]user.BlogRef, error) {
	query := `
SELECT ub.user_id, b.id, b.title, b.author, b.url, b.likes
FROM user_blogs ub
JOIN blogs b ON b.id = ub.blog_id
`
	var args []any
	if userID != "" {
		query += `WHERE ub.user_id = ?
`
		args = append(args, userID)
	}
	query += `ORDER BY ub.user_id, ub.position`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query owned blogs: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]user.BlogRef)
	for rows.Next() {
		var ownerID, blogID string
		var b user.BlogRef
		if err := rows.Scan(&ownerID, &blogID, &b.Title, &b.Author, &b.URL, &b.Likes); err != nil {
			return nil, fmt.Errorf("scan owned blog: %w", err)
		}
		owner, err := uuid.Parse(ownerID)
		if err != nil {
			return nil, fmt.Errorf("parse owner id: %w", err)
		}
		if b.ID, err = uuid.Parse(blogID); err != nil {
			return nil, fmt.Errorf("parse blog id: %w", err)
		}
		out[owner] = append(out[owner], b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owned blogs: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteUser(row rowScanner) (*user.User, error) {
	var (
		u                user.User
		id               string
		created, updated int64
	)
	if err := row.Scan(&id, &u.Username, &u.Name, &u.PasswordHash, &created, &updated); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	u.ID = parsed
	u.CreatedAt = time.Unix(created, 0).UTC()
	u.UpdatedAt = time.Unix(updated, 0).UTC()
	return &u, nil
}
