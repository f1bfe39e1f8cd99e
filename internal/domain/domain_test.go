package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("v1.HandleJoin -> s.repo.Join -> %w", WithDetail(ErrAlreadyJoined, "module_id", uint(4)))

	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "already a member of this module", Message(err))
	assert.Equal(t, map[string]any{"module_id": uint(4)}, Details(err))
}

func TestDetailsOuterWins(t *testing.T) {
	err := WithDetail(WithDetail(WithDetail(ErrTaskNotFound, "task_id", 1), "module_id", 2), "task_id", 3)

	assert.Equal(t, map[string]any{"task_id": 3, "module_id": 2}, Details(err))
	assert.Nil(t, Details(errors.New("plain")))
}

func TestMessageFallback(t *testing.T) {
	assert.Equal(t, "not found", Message(fmt.Errorf("lookup -> %w", ErrNotFound)))
	assert.Equal(t, "boom", Message(errors.New("boom")))
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "admin", want: RoleAdmin},
		{in: " Teacher ", want: RoleTeacher},
		{in: "STUDENT", want: RoleStudent},
		{in: "janitor", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseRole(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidInput)
				assert.Equal(t, "invalid role", Message(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	assert.True(t, RoleTeacher.In(RoleAdmin, RoleTeacher))
	assert.False(t, RoleStudent.In(RoleAdmin, RoleTeacher))
	assert.False(t, RoleStudent.In())
}

func TestSubmissionApplyGrade(t *testing.T) {
	sub := Submission{ID: 1, TaskID: 2, StudentID: 3, DeliveredAt: time.Now()}
	assert.Equal(t, SubmissionDelivered, sub.Status())
	assert.Nil(t, sub.Grade)

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	sub.ApplyGrade(9, 15, "well done", at)
	assert.Equal(t, SubmissionGraded, sub.Status())
	require.NotNil(t, sub.Grade)
	assert.Equal(t, 15, *sub.Grade)
	assert.Equal(t, uint(9), *sub.GraderID)
	assert.Equal(t, at, *sub.GradedAt)
	require.NotNil(t, sub.Feedback)
	assert.Equal(t, "well done", *sub.Feedback)

	sub.ApplyGrade(10, 0, "", at.Add(time.Hour))
	assert.Equal(t, 0, *sub.Grade)
	assert.Equal(t, uint(10), *sub.GraderID)
	assert.Nil(t, sub.Feedback)
}

func TestTrophyEligibleFor(t *testing.T) {
	trophy := Trophy{Name: "Bronze", PointsRequired: 30}

	assert.False(t, trophy.EligibleFor(29))
	assert.True(t, trophy.EligibleFor(30))
	assert.True(t, trophy.EligibleFor(31))
	assert.True(t, Trophy{PointsRequired: 0}.EligibleFor(0))
}
