package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymflow/portal/internal/domain"
	"github.com/gymflow/portal/internal/observability"
	"github.com/gymflow/portal/internal/session"
)

type noAuth struct{}

func (noAuth) Login(context.Context, string, string) (domain.AuthResult, error) {
	return domain.AuthResult{}, nil
}

func (noAuth) Register(context.Context, domain.Registration) (domain.AuthResult, error) {
	return domain.AuthResult{}, nil
}

func (noAuth) CurrentUser(context.Context, string) (*domain.User, error) {
	return nil, nil
}

func TestSessionSweeperDropsIdleStores(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storages := session.NewMemoryStorages()
	registry := session.NewRegistry(ctx, func(browserID string) *session.Store {
		return session.NewStore(session.Dependencies{Subject: browserID, Auth: noAuth{}, Storage: storages.For(browserID)})
	}, nil)
	store := registry.Get("browser-1")
	<-store.Hydrated()
	require.Equal(t, 1, registry.Len())

	StartSessionSweeper(ctx, registry, 5*time.Millisecond, time.Nanosecond, observability.NewMetrics("sweeper_test"), nil)

	assert.Eventually(t, func() bool { return registry.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestSessionSweeperDisabled(t *testing.T) {
	registry := session.NewRegistry(context.Background(), nil, nil)

	assert.NotPanics(t, func() {
		StartSessionSweeper(context.Background(), registry, 0, time.Minute, nil, nil)
		StartSessionSweeper(context.Background(), nil, time.Second, time.Minute, nil, nil)
	})
}
