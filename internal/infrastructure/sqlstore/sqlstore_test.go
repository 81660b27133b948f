package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenMemory(uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_AppliesSchemaOnce(t *testing.T) {
	db := openTestDB(t)

	v, err := SchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, LatestVersion(), v)

	require.NoError(t, applySchema(db))
	v, err = SchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, LatestVersion(), v)
}

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, "file:blog.db?_pragma=foreign_keys(1)", withForeignKeys("blog.db"))
	assert.Equal(t, "file:x?mode=memory&_pragma=foreign_keys(1)", withForeignKeys("file:x?mode=memory"))
	assert.Equal(t, "file:x?_pragma=foreign_keys(0)", withForeignKeys("file:x?_pragma=foreign_keys(0)"))
}

func TestForeignKeysEnforced(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO blogs (id, title, author, url, likes, user_id, created_at, updated_at)
		VALUES ('b1', 't', 'a', 'u', 0, 'missing', 0, 0)`)
	assert.Error(t, err)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	insert := func(ctx context.Context, tx DBTX, id, username string) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO users (id, username, name, password_hash, created_at, updated_at)
			VALUES (?, ?, '', 'x', 0, 0)`, id, username)
		return err
	}

	boom := errors.New("boom")
	err := WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, insert(ctx, tx, "u1", "root"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM users`).Scan(&n))
	assert.Equal(t, 0, n)

	err = WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		return insert(ctx, tx, "u1", "root")
	})
	require.NoError(t, err)

	err = WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		return insert(ctx, tx, "u2", "root")
	})
	assert.True(t, IsUniqueViolation(err))

	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM users`).Scan(&n))
	assert.Equal(t, 1, n)
}
