package sqlite

import (
	"context"
	"testing"

	"github.com/neotube/neotube/internal/domain"
)

func TestSettingsRepository_DefaultsAndPersist(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(openTestDB(t).SQL)

	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get(default): %v", err)
	}
	if got != domain.DefaultServerSettings() {
		t.Fatalf("expected defaults, got %+v", got)
	}

	updated, err := repo.Put(ctx, domain.ServerSettings{MaxConcurrentStreams: 9})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if updated.MaxConcurrentStreams != 9 {
		t.Fatalf("MaxConcurrentStreams: want 9, got %d", updated.MaxConcurrentStreams)
	}

	got2, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get(after Put): %v", err)
	}
	if got2.MaxConcurrentStreams != 9 {
		t.Fatalf("MaxConcurrentStreams after Put: want 9, got %d", got2.MaxConcurrentStreams)
	}
}

func TestSettingsRepository_UnusableValueFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{nope", `{"maxConcurrentStreams":0}`} {
		db := openTestDB(t)
		if _, err := db.SQL.ExecContext(ctx, `INSERT INTO settings(key, value_json, updated_at) VALUES(?, ?, ?)`, serverSettingsKey, []byte(raw), "2024-01-01T00:00:00Z"); err != nil {
			t.Fatalf("seed: %v", err)
		}
		got, err := NewSettingsRepository(db.SQL).Get(ctx)
		if err != nil {
			t.Fatalf("%s: Get: %v", raw, err)
		}
		if got != domain.DefaultServerSettings() {
			t.Fatalf("%s: expected defaults, got %+v", raw, got)
		}
	}
}
