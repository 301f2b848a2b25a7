package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/blog-go/internal/store"
	"github.com/olegiv/blog-go/internal/testutil"
)

func newUser(t *testing.T, q *store.Queries, username, email string) store.User {
	t.Helper()
	u, err := q.CreateUser(t.Context(), store.CreateUserParams{
		Username:   username,
		Email:      email,
		Password:   "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		FirstName:  "Test",
		LastName:   "User",
		DateJoined: time.Now(),
	})
	require.NoError(t, err)
	return u
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)

	newUser(t, q, "alice", "alice@example.com")

	_, err := q.CreateUser(t.Context(), store.CreateUserParams{
		Username:   "alice",
		Email:      "other@example.com",
		Password:   "x",
		DateJoined: time.Now(),
	})
	assert.ErrorIs(t, err, store.ErrConflict)

	// the failed insert must not have created a row
	_, err = q.GetUserByNameOrEmail(t.Context(), "other@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)

	newUser(t, q, "alice", "alice@example.com")

	_, err := q.CreateUser(t.Context(), store.CreateUserParams{
		Username:   "bob",
		Email:      "alice@example.com",
		Password:   "x",
		DateJoined: time.Now(),
	})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestGetUserByNameOrEmail(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)

	created := newUser(t, q, "alice", "alice@example.com")

	byName, err := q.GetUserByNameOrEmail(t.Context(), "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := q.GetUserByNameOrEmail(t.Context(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = q.GetUserByNameOrEmail(t.Context(), "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetUserByNameOrEmail_NoSideEffect(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)

	u := newUser(t, q, "alice", "alice@example.com")
	require.False(t, u.LastLogin.Valid, "fresh account should have no last_login")

	// a plain lookup must not stamp last_login
	found, err := q.GetUserByNameOrEmail(t.Context(), "alice")
	require.NoError(t, err)
	assert.False(t, found.LastLogin.Valid)

	// recording a login is an explicit step
	require.NoError(t, q.TouchLastLogin(t.Context(), u.ID))
	found, err = q.GetUserByID(t.Context(), u.ID)
	require.NoError(t, err)
	assert.True(t, found.LastLogin.Valid)
}

func TestGetUserIDByNameOrEmail(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)

	u := newUser(t, q, "alice", "alice@example.com")

	id, err := q.GetUserIDByNameOrEmail(t.Context(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, err = q.GetUserIDByNameOrEmail(t.Context(), "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateUserPassword(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)

	newUser(t, q, "alice", "alice@example.com")

	require.NoError(t, q.UpdateUserPassword(t.Context(), "newhash", "alice"))

	u, err := q.GetUserByNameOrEmail(t.Context(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "newhash", u.Password)

	err = q.UpdateUserPassword(t.Context(), "newhash", "ghost")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}
