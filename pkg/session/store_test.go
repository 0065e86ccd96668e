package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ekurtal/havale/models"
)

func TestCreateAndLookup(t *testing.T) {
	store := NewStore()

	id, err := store.Create("10.0.0.1", "alice", models.RoleCustomer)
	require.NoError(t, err)
	require.Len(t, id, 32) // 16 byte → 32 hex karakteri

	rec, err := store.Lookup(id)
	require.NoError(t, err)
	require.Equal(t, "alice", rec.Principal)
	require.Equal(t, "10.0.0.1", rec.IP)
	require.Equal(t, models.RoleCustomer, rec.Role)
	require.Empty(t, rec.Token) // token AttachToken'a kadar boş
	require.False(t, rec.CreatedAt.IsZero())
}

func TestCreate_UniqueIDs(t *testing.T) {
	store := NewStore()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := store.Create("10.0.0.1", "alice", models.RoleCustomer)
		require.NoError(t, err)
		require.False(t, seen[id], "duplicate session id: %s", id)
		seen[id] = true
	}
}

func TestAttachToken(t *testing.T) {
	store := NewStore()

	id, err := store.Create("10.0.0.1", "alice", models.RoleCustomer)
	require.NoError(t, err)

	require.NoError(t, store.AttachToken(id, "token-1"))

	rec, err := store.Lookup(id)
	require.NoError(t, err)
	require.Equal(t, "token-1", rec.Token)

	// Yeni token öncekini ezer — en son token kazanır
	require.NoError(t, store.AttachToken(id, "token-2"))
	rec, err = store.Lookup(id)
	require.NoError(t, err)
	require.Equal(t, "token-2", rec.Token)
}

func TestAttachToken_MissingSession(t *testing.T) {
	store := NewStore()

	err := store.AttachToken("nonexistent", "token-1")
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 0, store.Len()) // kayıt OLUŞTURULMAMALI
}

func TestLookup_ReturnsCopy(t *testing.T) {
	store := NewStore()

	id, err := store.Create("10.0.0.1", "alice", models.RoleCustomer)
	require.NoError(t, err)

	rec, err := store.Lookup(id)
	require.NoError(t, err)

	// Kopyayı mutate etmek store'u etkilememeli
	rec.Token = "tampered"
	fresh, err := store.Lookup(id)
	require.NoError(t, err)
	require.Empty(t, fresh.Token)
}

func TestInvalidate(t *testing.T) {
	store := NewStore()

	id, err := store.Create("10.0.0.1", "alice", models.RoleCustomer)
	require.NoError(t, err)

	store.Invalidate(id)
	_, err = store.Lookup(id)
	require.ErrorIs(t, err, ErrNotFound)

	// Idempotent — ikinci çağrı panic'lemez, hata üretmez
	store.Invalidate(id)
	store.Invalidate("never-existed")
}
