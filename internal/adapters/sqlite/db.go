package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	memoryPath  = ":memory:"
	busyTimeout = 5 * time.Second
)

type DB struct {
	SQL    *sql.DB
	logger zerolog.Logger
}

// Open ouvre (ou crée) la base et applique les migrations embarquées.
// Les fichiers sont ouverts en WAL avec un busy_timeout: serveur et client peuvent partager un disque lent.
func Open(ctx context.Context, dbPath string, logger zerolog.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, err
	}

	// Une seule connexion: ":memory:" vit par connexion, et les écritures restent sérialisées.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctxPing, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctxPing); err != nil {
		_ = db.Close()
		return nil, err
	}

	wrapper := &DB{SQL: db, logger: logger}
	if err := wrapper.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return wrapper, nil
}

func dsn(dbPath string) string {
	if dbPath == memoryPath {
		return dbPath
	}
	ms := strconv.Itoa(int(busyTimeout / time.Millisecond))
	return "file:" + dbPath + "?_pragma=busy_timeout(" + ms + ")&_pragma=journal_mode(WAL)"
}

func (d *DB) Close() error {
	return d.SQL.Close()
}

type migration struct {
	version int
	name    string
	up      string
}

func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.SQL.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL);`); err != nil {
		return err
	}

	applied, err := d.appliedVersions(ctx)
	if err != nil {
		return err
	}
	pending, err := loadMigrations()
	if err != nil {
		return err
	}

	for _, m := range pending {
		if applied[m.version] {
			continue
		}
		if err := d.apply(ctx, m); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
		d.logger.Info().Int("version", m.version).Str("migration", m.name).Msg("migration applied")
	}
	return nil
}

func (d *DB) apply(ctx context.Context, m migration) error {
	tx, err := d.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if strings.TrimSpace(m.up) != "" {
		if _, err := tx.ExecContext(ctx, m.up); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations(version, applied_at) VALUES(?, ?)`, m.version, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := d.SQL.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out[v] = true
	}
	return out, rows.Err()
}

// loadMigrations lit migrations/NNNN_nom.sql, triées par version.
func loadMigrations() ([]migration, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, err
	}
	var out []migration
	seen := map[int]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != ".sql" {
			continue
		}
		prefix, _, _ := strings.Cut(name, "_")
		v, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("invalid migration name: %s", name)
		}
		if prev, dup := seen[v]; dup {
			return nil, fmt.Errorf("duplicate migration version %d: %s, %s", v, prev, name)
		}
		seen[v] = name

		b, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return nil, err
		}
		out = append(out, migration{version: v, name: name, up: upSection(string(b))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// upSection garde les lignes entre "-- +migrate Up" et "-- +migrate Down".
func upSection(text string) string {
	var b strings.Builder
	inUp := false
	for _, line := range strings.Split(text, "\n") {
		switch marker := strings.TrimSpace(line); {
		case strings.HasPrefix(marker, "-- +migrate Up"):
			inUp = true
		case strings.HasPrefix(marker, "-- +migrate Down"):
			inUp = false
		case inUp:
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
