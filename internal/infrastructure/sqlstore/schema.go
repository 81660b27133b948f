package sqlstore

import (
	"database/sql"
	"fmt"
)

// migrations run exactly once each, tracked by schema_version.
var migrations = []string{
	// 1: users
	`
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username);
`,
	// 2: blogs
	`
CREATE TABLE IF NOT EXISTS blogs (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL CHECK (title <> ''),
	author TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL CHECK (url <> ''),
	likes INTEGER NOT NULL DEFAULT 0 CHECK (likes >= 0),
	user_id TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	FOREIGN KEY(user_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_blogs_user_id ON blogs(user_id);
`,
	// 3: owned-blog list
	`
CREATE TABLE IF NOT EXISTS user_blogs (
	user_id TEXT NOT NULL,
	blog_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (user_id, blog_id),
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
	FOREIGN KEY(blog_id) REFERENCES blogs(id) ON DELETE CASCADE
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_user_blogs_blog_id ON user_blogs(blog_id);
CREATE INDEX IF NOT EXISTS idx_user_blogs_position ON user_blogs(user_id, position);
`,
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration.
func SchemaVersion(db *sql.DB) (int, error) {
	var v int
	err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&v)
	return v, err
}

// LatestVersion is the number of known migrations.
func LatestVersion() int {
	return len(migrations)
}
