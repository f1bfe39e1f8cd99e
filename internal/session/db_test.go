package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugamify/classroom-api/internal/domain"
	"github.com/edugamify/classroom-api/internal/repository/dao"
	"github.com/edugamify/classroom-api/internal/testutil"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newDBStore(t *testing.T) (*DBStore, *clock, *dao.SessionDAO) {
	t.Helper()
	sessionDAO := dao.NewSessionDAO(testutil.DB(t))
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewDBStore(sessionDAO, time.Hour)
	store.now = c.now

	return store, c, sessionDAO
}

func TestDBStore_CreateResolveRevoke(t *testing.T) {
	ctx := context.Background()
	store, _, sessionDAO := newDBStore(t)

	token, sess, err := store.Create(ctx, 7, domain.RoleTeacher)
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Equal(t, uint(7), sess.PersonID)
	assert.Equal(t, domain.RoleTeacher, sess.Role)

	// only the digest is stored
	_, err = sessionDAO.FindByTokenHash(ctx, token)
	assert.ErrorIs(t, err, dao.ErrRecordNotFound)
	_, err = sessionDAO.FindByTokenHash(ctx, HashToken(token))
	require.NoError(t, err)

	resolved, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), resolved.PersonID)

	require.NoError(t, store.Revoke(ctx, token))
	_, err = store.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDBStore_SlidingExpiry(t *testing.T) {
	ctx := context.Background()
	store, c, _ := newDBStore(t)

	token, _, err := store.Create(ctx, 1, domain.RoleStudent)
	require.NoError(t, err)

	// each use pushes expiry another hour out
	for i := 0; i < 3; i++ {
		c.t = c.t.Add(45 * time.Minute)
		sess, err := store.Resolve(ctx, token)
		require.NoError(t, err)
		assert.True(t, sess.ExpiresAt.Equal(c.t.Add(time.Hour)))
	}

	c.t = c.t.Add(time.Hour + time.Second)
	_, err = store.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDBStore_UnknownToken(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newDBStore(t)

	_, err := store.Resolve(ctx, "deadbeef")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Revoke(ctx, ""))
}

func TestDBStore_Purge(t *testing.T) {
	ctx := context.Background()
	store, c, _ := newDBStore(t)

	_, _, err := store.Create(ctx, 1, domain.RoleStudent)
	require.NoError(t, err)
	c.t = c.t.Add(30 * time.Minute)
	fresh, _, err := store.Create(ctx, 2, domain.RoleStudent)
	require.NoError(t, err)

	c.t = c.t.Add(45 * time.Minute)
	n, err := store.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.Resolve(ctx, fresh)
	assert.NoError(t, err)
}

func TestNewToken_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token, err := NewToken()
		require.NoError(t, err)
		require.False(t, seen[token])
		seen[token] = true
	}
}
