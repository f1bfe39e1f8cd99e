package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugamify/classroom-api/internal/domain"
)

func newQuiz(t *testing.T, e *env) domain.Activity {
	t.Helper()
	quiz, err := e.admin.CreateActivity(context.Background(), domain.Activity{Name: "quiz-1", PointsPerPlay: 10})
	require.NoError(t, err)

	return quiz
}

func TestActivityService_PlayGrantsStarterOnce(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.person(t, "alice", domain.RoleStudent)
	quiz := newQuiz(t, e)
	starter := e.trophy(t, "Starter", 10)

	first, err := e.activity.Play(ctx, quiz.ID, alice.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 10, first.Credit.Balance)
	require.Len(t, first.Credit.Granted, 1)
	assert.Equal(t, "Starter", first.Credit.Granted[0].Name)

	second, err := e.activity.Play(ctx, quiz.ID, alice.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, 20, second.Credit.Balance)
	assert.Empty(t, second.Credit.Granted)

	assert.Equal(t, int64(1), e.ownershipCount(t, alice.ID, starter.ID))
}

func TestActivityService_ConcurrentPlays(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.person(t, "alice", domain.RoleStudent)
	quiz := newQuiz(t, e)
	starter := e.trophy(t, "Starter", 10)

	const plays = 4
	results := make([]PlayResult, plays)
	errs := make([]error, plays)
	var wg sync.WaitGroup
	for i := 0; i < plays; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.activity.Play(ctx, quiz.ID, alice.ID, i)
		}(i)
	}
	wg.Wait()

	grants := 0
	for i := range results {
		require.NoError(t, errs[i])
		grants += len(results[i].Credit.Granted)
	}
	assert.Equal(t, 1, grants)
	assert.Equal(t, int64(1), e.ownershipCount(t, alice.ID, starter.ID))
	assert.Equal(t, plays*10, e.balance(t, alice.ID))
}

func TestActivityService_PlayErrors(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.person(t, "alice", domain.RoleStudent)
	quiz := newQuiz(t, e)

	_, err := e.activity.Play(ctx, 31, alice.ID, 1)
	assert.ErrorIs(t, err, domain.ErrActivityNotFound)

	_, err = e.activity.Play(ctx, quiz.ID, alice.ID, -5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, e.balance(t, alice.ID))
}

func TestActivityService_List(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	newQuiz(t, e)

	_, err := e.admin.CreateActivity(ctx, domain.Activity{Name: "quiz-1", PointsPerPlay: 3})
	assert.ErrorIs(t, err, domain.ErrActivityExists)

	activities, err := e.activity.List(ctx)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, 10, activities[0].PointsPerPlay)
}
