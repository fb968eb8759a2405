package app

import (
	"context"
	"sync"
	"testing"

	"github.com/neotube/neotube/internal/domain"
)

type memSettingsRepo struct {
	mu sync.Mutex
	s  *domain.ServerSettings
}

func (r *memSettingsRepo) Get(ctx context.Context) (domain.ServerSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.s == nil {
		return domain.DefaultServerSettings(), nil
	}
	return *r.s, nil
}

func (r *memSettingsRepo) Put(ctx context.Context, s domain.ServerSettings) (domain.ServerSettings, error) {
	r.mu.Lock()
	r.s = &s
	r.mu.Unlock()
	return r.Get(ctx)
}

func TestSettingsService_PutValidatesRange(t *testing.T) {
	ctx := context.Background()
	repo := &memSettingsRepo{}
	svc := NewSettingsService(repo)

	for _, n := range []int{0, -3, MaxStreamsCeiling + 1} {
		if _, err := svc.Put(ctx, domain.ServerSettings{MaxConcurrentStreams: n}); ErrorCode(err) != CodeInvalidParams {
			t.Fatalf("%d: expected invalid_params, got %v", n, err)
		}
	}
	if repo.s != nil {
		t.Fatalf("rejected values must not be stored")
	}

	got, err := svc.Put(ctx, domain.ServerSettings{MaxConcurrentStreams: MaxStreamsCeiling})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got.MaxConcurrentStreams != MaxStreamsCeiling {
		t.Fatalf("unexpected settings %+v", got)
	}
}
