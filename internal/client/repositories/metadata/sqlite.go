package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dmitrijs2005/depositkeeper/internal/dbx"
)

const upsertTail = ` ON CONFLICT(key) DO UPDATE SET value = excluded.value`

// SQLiteRepository stores pairs in the metadata table. It runs on a
// *sql.DB or inside a transaction, see dbx.DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) exec(ctx context.Context, what, query string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("metadata %s: %w", what, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("metadata get %q: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	return r.SetMany(ctx, map[string][]byte{key: value})
}

// SetMany is a single multi-row upsert, so it is atomic without a
// transaction.
func (r *SQLiteRepository) SetMany(ctx context.Context, pairs map[string][]byte) error {
	if len(pairs) == 0 {
		return nil
	}
	keys := slices.Sorted(maps.Keys(pairs))
	args := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		v := pairs[k]
		if v == nil {
			v = []byte{}
		}
		args = append(args, k, v)
	}
	q := `INSERT INTO metadata (key, value) VALUES ` + placeholders("(?, ?)", len(keys)) + upsertTail
	return r.exec(ctx, fmt.Sprintf("set %q", keys), q, args...)
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	return r.DeleteKeys(ctx, key)
}

func (r *SQLiteRepository) DeleteKeys(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	q := `DELETE FROM metadata WHERE key IN (` + placeholders("?", len(keys)) + `)`
	return r.exec(ctx, fmt.Sprintf("delete %q", keys), q, args...)
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	return r.exec(ctx, "clear", `DELETE FROM metadata`)
}

func (r *SQLiteRepository) List(ctx context.Context) (map[string][]byte, error) {
	return r.query(ctx, "list", `SELECT key, value FROM metadata`)
}

func (r *SQLiteRepository) ListPrefix(ctx context.Context, prefix string) (map[string][]byte, error) {
	return r.query(ctx, "list "+prefix+"*",
		`SELECT key, value FROM metadata WHERE key LIKE ? ESCAPE '\'`, likePrefix(prefix))
}

func (r *SQLiteRepository) DeletePrefix(ctx context.Context, prefix string) error {
	return r.exec(ctx, "delete "+prefix+"*",
		`DELETE FROM metadata WHERE key LIKE ? ESCAPE '\'`, likePrefix(prefix))
}

func (r *SQLiteRepository) query(ctx context.Context, what, q string, args ...any) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("metadata %s: %w", what, err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var (
			k string
			v []byte
		)
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("metadata %s: %w", what, err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("metadata %s: %w", what, err)
	}
	return out, nil
}

func placeholders(group string, n int) string {
	return strings.TrimSuffix(strings.Repeat(group+", ", n), ", ")
}

// likePrefix escapes LIKE wildcards; room keys are full of underscores.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
