package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugamify/classroom-api/internal/domain"
)

func TestGuard_RequireSession(t *testing.T) {
	e := newEnv(t)
	alice := e.person(t, "alice", domain.RoleStudent)

	_, err := e.guard.RequireSession(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = e.guard.RequireSession(WithSessionToken(context.Background(), "forged"))
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	ctx := e.signIn(t, alice)
	got, err := e.guard.RequireSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
}

func TestGuard_RequireRole(t *testing.T) {
	e := newEnv(t)
	alice := e.person(t, "alice", domain.RoleStudent)
	ctx := e.signIn(t, alice)

	_, err := e.guard.RequireRole(ctx, domain.RoleTeacher, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := e.guard.RequireRole(ctx, domain.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
}

func TestGuard_RoleChangeAppliesToOpenSession(t *testing.T) {
	adminCtx := context.Background()
	e := newEnv(t)
	root := e.person(t, "root", domain.RoleAdmin)
	bob := e.person(t, "bob", domain.RoleStudent)
	ctx := e.signIn(t, bob)

	_, err := e.guard.RequireRole(ctx, domain.RoleTeacher)
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.admin.ChangeRole(adminCtx, bob.ID, "teacher")
	require.NoError(t, err)

	got, err := e.guard.RequireRole(ctx, domain.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTeacher, got.Role)

	_, err = e.guard.RequireRole(ctx, domain.RoleStudent)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, e.admin.DeletePerson(adminCtx, root.ID, bob.ID))
	_, err = e.guard.RequireSession(ctx)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
