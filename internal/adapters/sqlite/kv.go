package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCorruptValue signale une valeur stockée qui n'est plus du JSON lisible.
var ErrCorruptValue = errors.New("stored value is not valid json")

// jsonTable range des documents JSON sous une clé, dans une table (key, value_json, updated_at).
// table n'est jamais issu d'une entrée utilisateur.
type jsonTable struct {
	db    *sql.DB
	table string
}

// load décode la valeur de key dans v. found vaut false si la clé est absente.
func (t jsonTable) load(ctx context.Context, key string, v any) (found bool, err error) {
	var b []byte
	err = t.db.QueryRowContext(ctx, `SELECT value_json FROM `+t.table+` WHERE key = ?`, key).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return true, fmt.Errorf("%w: %s/%s: %v", ErrCorruptValue, t.table, key, err)
	}
	return true, nil
}

func (t jsonTable) store(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = t.db.ExecContext(ctx, `
		INSERT INTO `+t.table+`(key, value_json, updated_at)
		VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value_json = excluded.value_json, updated_at = excluded.updated_at
	`, key, b, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (t jsonTable) remove(ctx context.Context, key string) error {
	_, err := t.db.ExecContext(ctx, `DELETE FROM `+t.table+` WHERE key = ?`, key)
	return err
}
