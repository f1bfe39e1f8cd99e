package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugamify/classroom-api/internal/domain"
)

func TestTrophyEvaluator_Evaluate(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.person(t, "alice", domain.RoleStudent)
	low := e.trophy(t, "Low", 5)
	mid := e.trophy(t, "Mid", 20)
	e.trophy(t, "High", 50)

	alice.Points = 20
	granted, err := e.evaluator.Evaluate(ctx, alice)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{low.ID, mid.ID}, trophyIDs(granted))

	// redundant evaluation grants nothing
	granted, err = e.evaluator.Evaluate(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, granted)
}

// A person owns a trophy exactly when some evaluation saw a balance at or
// above its threshold, and never more than once.
func TestTrophyEvaluator_OwnershipFollowsBalance(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.person(t, "alice", domain.RoleStudent)

	thresholds := []int{0, 7, 10, 25, 26, 60}
	trophies := make([]domain.Trophy, len(thresholds))
	for i, th := range thresholds {
		trophies[i] = e.trophy(t, names(len(thresholds), "T")[i], th)
	}

	balance := 0
	for _, amount := range []int{3, 4, 3, 0, 15, 1, 9} {
		_, err := e.ledger.Credit(ctx, alice.ID, amount)
		require.NoError(t, err)
		balance += amount

		for _, trophy := range trophies {
			want := int64(0)
			if trophy.PointsRequired <= balance {
				want = 1
			}
			assert.Equal(t, want, e.ownershipCount(t, alice.ID, trophy.ID), "trophy %s at balance %d", trophy.Name, balance)
		}
	}
	assert.Equal(t, 35, e.balance(t, alice.ID))
}

func trophyIDs(trophies []domain.Trophy) []uint {
	ids := make([]uint, len(trophies))
	for i, t := range trophies {
		ids[i] = t.ID
	}

	return ids
}
