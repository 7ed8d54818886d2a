package memory

import (
	"context"
	"testing"

	"market/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStore_LoadSeedsEmptyState(t *testing.T) {
	store := NewSnapshotStore()

	snapshot, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, snapshot.Users)
	assert.Empty(t, snapshot.Stores)
	assert.NotNil(t, snapshot.Products)
	assert.Zero(t, snapshot.Version)
}

func TestSnapshotStore_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore()

	snapshot, err := store.Load(ctx)
	require.NoError(t, err)
	snapshot.Stores = append(snapshot.Stores, entity.Store{ID: 1, Name: "Alpha"})
	require.NoError(t, store.Save(ctx, snapshot))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Stores, 1)
	assert.Equal(t, "Alpha", loaded.Stores[0].Name)
	assert.Equal(t, int64(1), loaded.Version)
}

func TestSnapshotStore_LoadReturnsPrivateCopy(t *testing.T) {
	ctx := context.Background()
	seed := entity.NewSnapshot()
	seed.Stores = []entity.Store{{ID: 1, Name: "Alpha"}}
	store := NewSnapshotStoreWith(seed)

	first, err := store.Load(ctx)
	require.NoError(t, err)
	first.Stores[0].Name = "mutated"

	second, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", second.Stores[0].Name)
}

func TestSnapshotStore_LastSaveWins(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore()

	sessionA, err := store.Load(ctx)
	require.NoError(t, err)
	sessionB, err := store.Load(ctx)
	require.NoError(t, err)

	userA := entity.User{ID: uuid.New(), Email: "a@example.com"}
	userB := entity.User{ID: uuid.New(), Email: "b@example.com"}
	sessionA.Users = append(sessionA.Users, userA)
	sessionB.Users = append(sessionB.Users, userB)

	require.NoError(t, store.Save(ctx, sessionA))
	require.NoError(t, store.Save(ctx, sessionB))

	final, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, final.Users, 1)
	assert.Equal(t, userB.ID, final.Users[0].ID)
	assert.Nil(t, final.FindUser(userA.ID))
}
