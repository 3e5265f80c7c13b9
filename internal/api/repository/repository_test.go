package repository

import (
	"context"
	"ctchen222/todo-api/internal/api/models"
	"ctchen222/todo-api/internal/db"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newSQLiteRepositories(t *testing.T) (UserRepository, ItemRepository) {
	t.Helper()
	conn, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewUserRepository(conn), NewItemRepository(conn)
}

func TestSQLiteRepositories(t *testing.T) {
	runRepositoryContract(t, newSQLiteRepositories)
}

// runRepositoryContract exercises the behavior every store backend must share.
func runRepositoryContract(t *testing.T, open func(t *testing.T) (UserRepository, ItemRepository)) {
	ctx := context.Background()

	t.Run("users are created and found", func(t *testing.T) {
		users, _ := open(t)

		alice := &models.User{Username: "alice", Password: "pa55"}
		require.NoError(t, users.CreateUser(ctx, alice))
		assert.Positive(t, alice.ID)

		byID, err := users.GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, alice, byID)

		byName, err := users.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice, byName)
	})

	t.Run("missing users are nil without error", func(t *testing.T) {
		users, _ := open(t)

		u, err := users.GetUserByID(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, u)

		u, err = users.GetUserByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("duplicate usernames resolve to the first registration", func(t *testing.T) {
		users, _ := open(t)

		first := &models.User{Username: "bob", Password: "one"}
		second := &models.User{Username: "bob", Password: "two"}
		require.NoError(t, users.CreateUser(ctx, first))
		require.NoError(t, users.CreateUser(ctx, second))
		assert.NotEqual(t, first.ID, second.ID)

		got, err := users.GetUserByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
	})

	t.Run("credentials select the account with the matching password", func(t *testing.T) {
		users, _ := open(t)

		first := &models.User{Username: "erin", Password: "one"}
		second := &models.User{Username: "erin", Password: "two"}
		require.NoError(t, users.CreateUser(ctx, first))
		require.NoError(t, users.CreateUser(ctx, second))

		got, err := users.GetUserByCredentials(ctx, "erin", "two")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, second.ID, got.ID)

		got, err = users.GetUserByCredentials(ctx, "erin", "one")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, first.ID, got.ID)

		got, err = users.GetUserByCredentials(ctx, "erin", "three")
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = users.GetUserByCredentials(ctx, "frank", "one")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("item lifecycle", func(t *testing.T) {
		users, items := open(t)

		owner := &models.User{Username: "carol", Password: "x"}
		other := &models.User{Username: "dave", Password: "y"}
		require.NoError(t, users.CreateUser(ctx, owner))
		require.NoError(t, users.CreateUser(ctx, other))

		milk := &models.Item{Name: ptr("milk"), IsCompleted: ptr(false), UserID: ptr(owner.ID)}
		eggs := &models.Item{Name: ptr("eggs"), UserID: ptr(owner.ID)}
		theirs := &models.Item{Name: ptr("bread"), IsCompleted: ptr(true), UserID: ptr(other.ID)}
		for _, it := range []*models.Item{milk, eggs, theirs} {
			require.NoError(t, items.CreateItem(ctx, it))
			assert.Positive(t, it.ID)
		}

		got, err := items.GetItemByID(ctx, milk.ID)
		require.NoError(t, err)
		assert.Equal(t, milk, got)

		got, err = items.GetItemByID(ctx, eggs.ID)
		require.NoError(t, err)
		assert.Nil(t, got.IsCompleted, "NULL survives a round trip")

		list, err := items.ListItemsByUser(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, []models.Item{*milk, *eggs}, list)

		milk.IsCompleted = ptr(true)
		require.NoError(t, items.UpdateItem(ctx, milk))
		got, err = items.GetItemByID(ctx, milk.ID)
		require.NoError(t, err)
		assert.Equal(t, ptr(true), got.IsCompleted)
		assert.Equal(t, ptr("milk"), got.Name)

		require.NoError(t, items.DeleteItem(ctx, milk))
		got, err = items.GetItemByID(ctx, milk.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		list, err = items.ListItemsByUser(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, []models.Item{*eggs}, list)

		list, err = items.ListItemsByUser(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, []models.Item{*theirs}, list)
	})

	t.Run("listing for a user without items is empty", func(t *testing.T) {
		_, items := open(t)

		list, err := items.ListItemsByUser(ctx, 7)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})
}

func TestStorageError_MatchesSentinelAndCause(t *testing.T) {
	cause := errors.New("disk full")
	err := storageErr("create item", cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "create item: disk full")

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "create item", se.Op)
}

func TestSQLiteRepositories_ClosedDatabaseIsStorageError(t *testing.T) {
	conn, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	users := NewUserRepository(conn)
	require.NoError(t, conn.Close())

	_, err = users.GetUserByUsername(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrStorage)
}
