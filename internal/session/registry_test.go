package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymflow/portal/internal/domain"
)

func newTestRegistry(auth *fakeAuth, storages *MemoryStorages) *Registry {
	return NewRegistry(context.Background(), func(browserID string) *Store {
		return NewStore(Dependencies{Subject: browserID, Auth: auth, Storage: storages.For(browserID)})
	}, nil)
}

func TestRegistryReturnsSameStorePerBrowser(t *testing.T) {
	registry := newTestRegistry(&fakeAuth{}, NewMemoryStorages())

	a := registry.Get("a")
	assert.Same(t, a, registry.Get("a"))
	assert.NotSame(t, a, registry.Get("b"))
	assert.Equal(t, 2, registry.Len())
}

func TestRegistryHydratesInBackground(t *testing.T) {
	auth := &fakeAuth{identities: map[string]*domain.User{"t1": memberUser()}}
	storages := NewMemoryStorages()
	require.NoError(t, storages.For("a").Set(context.Background(), map[string]string{KeyToken: "t1"}))
	registry := newTestRegistry(auth, storages)

	store := registry.Get("a")
	select {
	case <-store.Hydrated():
	case <-time.After(time.Second):
		t.Fatal("hydration did not finish")
	}
	assert.True(t, store.IsAuthenticated())
}

func TestRegistrySweepKeepsPersistedState(t *testing.T) {
	auth := &fakeAuth{identities: map[string]*domain.User{"t1": memberUser()}}
	storages := NewMemoryStorages()
	require.NoError(t, storages.For("a").Set(context.Background(), map[string]string{KeyToken: "t1"}))
	registry := newTestRegistry(auth, storages)

	now := time.Now()
	registry.now = func() time.Time { return now }
	first := registry.Get("a")
	<-first.Hydrated()

	registry.now = func() time.Time { return now.Add(time.Hour) }
	assert.Equal(t, 1, registry.Sweep(30*time.Minute))
	assert.Zero(t, registry.Len())

	second := registry.Get("a")
	assert.NotSame(t, first, second)
	<-second.Hydrated()
	assert.True(t, second.IsAuthenticated())
	assert.Equal(t, 2, auth.resolveCount())
}

func TestRegistrySweepSkipsRecentAndHydrating(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	auth := &fakeAuth{identities: map[string]*domain.User{}, resolveGate: gate}
	storages := NewMemoryStorages()
	require.NoError(t, storages.For("slow").Set(context.Background(), map[string]string{KeyToken: "t1"}))
	registry := newTestRegistry(auth, storages)

	now := time.Now()
	registry.now = func() time.Time { return now }
	registry.Get("slow")
	require.Eventually(t, func() bool { return auth.resolveCount() == 1 }, time.Second, time.Millisecond)

	registry.now = func() time.Time { return now.Add(time.Hour) }
	registry.Get("fresh")

	assert.Zero(t, registry.Sweep(30*time.Minute))
	assert.Equal(t, 2, registry.Len())
	assert.Zero(t, registry.Sweep(0))
}

func TestRegistrySweepReleasesEmptyStorages(t *testing.T) {
	auth := &fakeAuth{identities: map[string]*domain.User{"t1": memberUser()}}
	storages := NewMemoryStorages()
	require.NoError(t, storages.For("signed-in").Set(context.Background(), map[string]string{KeyToken: "t1"}))
	registry := newTestRegistry(auth, storages)
	registry.OnSweep(storages.Release)

	now := time.Now()
	registry.now = func() time.Time { return now }
	<-registry.Get("signed-in").Hydrated()
	<-registry.Get("anonymous").Hydrated()
	require.Equal(t, 2, storages.Len())

	registry.now = func() time.Time { return now.Add(time.Hour) }
	assert.Equal(t, 2, registry.Sweep(30*time.Minute))

	assert.Equal(t, 1, storages.Len())
	token, err := storages.For("signed-in").Get(context.Background(), KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "t1", token)
}
