package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugamify/classroom-api/internal/domain"
)

func TestSubmissionService_DeliverTwice(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	teacher := e.person(t, "mr_smith", domain.RoleTeacher)
	alice := e.person(t, "alice", domain.RoleStudent)
	task := e.task(t, teacher)

	first, err := e.submission.Deliver(ctx, task.ID, alice.ID, "my answer", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionDelivered, first.Submission.Status())
	assert.Nil(t, first.Submission.Grade)
	assert.Equal(t, 10, first.Credit.Balance)

	_, err = e.submission.Deliver(ctx, task.ID, alice.ID, "second try", nil)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrDuplicateSubmission)

	subs, err := e.submission.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "my answer", subs[0].Content)
	// the rejected attempt earned nothing
	assert.Equal(t, 10, e.balance(t, alice.ID))
}

func TestSubmissionService_DeliverRace(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	teacher := e.person(t, "mr_smith", domain.RoleTeacher)
	alice := e.person(t, "alice", domain.RoleStudent)
	task := e.task(t, teacher)

	const attempts = 5
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.submission.Deliver(ctx, task.ID, alice.ID, "answer", nil)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 10, e.balance(t, alice.ID))
}

func TestSubmissionService_DeliverWithFile(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	teacher := e.person(t, "mr_smith", domain.RoleTeacher)
	alice := e.person(t, "alice", domain.RoleStudent)
	task := e.task(t, teacher)

	result, err := e.submission.Deliver(ctx, task.ID, alice.ID, "", &Upload{
		Filename: "answer.txt",
		Body:     strings.NewReader("x = 4"),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Submission.FileRef)
	assert.True(t, strings.HasPrefix(*result.Submission.FileRef, "submission/"))

	rc, err := e.blobs.Open(ctx, *result.Submission.FileRef)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "x = 4", string(body))
}

func TestSubmissionService_DeliverUnknownTask(t *testing.T) {
	e := newEnv(t)
	alice := e.person(t, "alice", domain.RoleStudent)

	_, err := e.submission.Deliver(context.Background(), 404, alice.ID, "answer", nil)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Equal(t, map[string]any{"id": uint(404)}, domain.Details(err))
	assert.Equal(t, 0, e.balance(t, alice.ID))
}

func TestSubmissionService_GradeTwiceRecreditsByDefault(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	teacher := e.person(t, "mr_smith", domain.RoleTeacher)
	alice := e.person(t, "alice", domain.RoleStudent)
	task := e.task(t, teacher)

	delivered, err := e.submission.Deliver(ctx, task.ID, alice.ID, "answer", nil)
	require.NoError(t, err)
	before := e.balance(t, alice.ID)

	first, err := e.submission.Grade(ctx, delivered.Submission.ID, teacher.ID, 85, "good")
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionGraded, first.Submission.Status())
	require.NotNil(t, first.Credit)
	assert.Equal(t, before+85, first.Credit.Balance)

	second, err := e.submission.Grade(ctx, delivered.Submission.ID, teacher.ID, 85, "still good")
	require.NoError(t, err)
	require.NotNil(t, second.Credit)
	assert.Equal(t, before+170, e.balance(t, alice.ID))

	stored, err := e.subs.FindByID(ctx, delivered.Submission.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Grade)
	assert.Equal(t, 85, *stored.Grade)
	assert.Equal(t, "still good", *stored.Feedback)
	assert.Equal(t, teacher.ID, *stored.GraderID)
}

func TestSubmissionService_GradeReconciled(t *testing.T) {
	ctx := context.Background()
	e := newEnvWith(t, SubmissionOptions{DeliveryBonus: 10, ReconcileRegrades: true})
	teacher := e.person(t, "mr_smith", domain.RoleTeacher)
	alice := e.person(t, "alice", domain.RoleStudent)
	task := e.task(t, teacher)

	delivered, err := e.submission.Deliver(ctx, task.ID, alice.ID, "answer", nil)
	require.NoError(t, err)

	steps := []struct {
		grade   int
		balance int
		credit  bool
	}{
		{grade: 85, balance: 95, credit: true},
		{grade: 85, balance: 95},
		{grade: 60, balance: 95},
		{grade: 90, balance: 100, credit: true},
	}
	for _, step := range steps {
		result, err := e.submission.Grade(ctx, delivered.Submission.ID, teacher.ID, step.grade, "")
		require.NoError(t, err)
		assert.Equal(t, step.credit, result.Credit != nil, "grade %d", step.grade)
		assert.Equal(t, step.grade, *result.Submission.Grade)
		assert.Equal(t, step.balance, e.balance(t, alice.ID), "grade %d", step.grade)
	}
}

func TestSubmissionService_GradeZeroCreditsNothing(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	teacher := e.person(t, "mr_smith", domain.RoleTeacher)
	alice := e.person(t, "alice", domain.RoleStudent)
	task := e.task(t, teacher)

	delivered, err := e.submission.Deliver(ctx, task.ID, alice.ID, "answer", nil)
	require.NoError(t, err)

	result, err := e.submission.Grade(ctx, delivered.Submission.ID, teacher.ID, 0, "")
	require.NoError(t, err)
	assert.Nil(t, result.Credit)
	assert.Equal(t, domain.SubmissionGraded, result.Submission.Status())
	assert.Equal(t, 10, e.balance(t, alice.ID))
}

func TestSubmissionService_GradeErrors(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	teacher := e.person(t, "mr_smith", domain.RoleTeacher)

	_, err := e.submission.Grade(ctx, 77, teacher.ID, 50, "")
	assert.ErrorIs(t, err, domain.ErrSubmissionNotFound)

	_, err = e.submission.Grade(ctx, 77, teacher.ID, -3, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, map[string]any{"grade": -3}, domain.Details(err))
}

func TestSubmissionService_GradeUnlocksTrophy(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	teacher := e.person(t, "mr_smith", domain.RoleTeacher)
	alice := e.person(t, "alice", domain.RoleStudent)
	task := e.task(t, teacher)
	scholar := e.trophy(t, "Scholar", 50)

	delivered, err := e.submission.Deliver(ctx, task.ID, alice.ID, "answer", nil)
	require.NoError(t, err)
	assert.Empty(t, delivered.Credit.Granted)

	graded, err := e.submission.Grade(ctx, delivered.Submission.ID, teacher.ID, 40, "")
	require.NoError(t, err)
	require.Len(t, graded.Credit.Granted, 1)
	assert.Equal(t, scholar.ID, graded.Credit.Granted[0].ID)
}
