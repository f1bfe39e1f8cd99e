package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugamify/classroom-api/internal/domain"
)

func TestModuleService_JoinOnce(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	teacher := e.person(t, "mr_smith", domain.RoleTeacher)
	alice := e.person(t, "alice", domain.RoleStudent)
	module, err := e.module.Create(ctx, teacher, NewModule{Title: "Biology"})
	require.NoError(t, err)

	_, err = e.module.Join(ctx, module.ID, alice.ID)
	require.NoError(t, err)

	_, err = e.module.Join(ctx, module.ID, alice.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyJoined)
	assert.ErrorIs(t, err, domain.ErrConflict)

	roster, err := e.module.Roster(ctx, module.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "alice", roster[0].Person.Username)
}

func TestModuleService_JoinUnknownModule(t *testing.T) {
	e := newEnv(t)
	alice := e.person(t, "alice", domain.RoleStudent)

	_, err := e.module.Join(context.Background(), 12, alice.ID)
	assert.ErrorIs(t, err, domain.ErrModuleNotFound)
}

func TestModuleService_Create(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	admin := e.person(t, "root", domain.RoleAdmin)
	teacher := e.person(t, "mr_smith", domain.RoleTeacher)
	alice := e.person(t, "alice", domain.RoleStudent)

	own, err := e.module.Create(ctx, teacher, NewModule{Title: "Chemistry", TeacherID: &alice.ID})
	require.NoError(t, err)
	require.NotNil(t, own.TeacherID)
	assert.Equal(t, teacher.ID, *own.TeacherID)

	assigned, err := e.module.Create(ctx, admin, NewModule{Title: "Physics", TeacherID: &teacher.ID})
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, *assigned.TeacherID)

	orphan, err := e.module.Create(ctx, admin, NewModule{Title: "Art"})
	require.NoError(t, err)
	assert.Nil(t, orphan.TeacherID)

	_, err = e.module.Create(ctx, admin, NewModule{Title: "Music", TeacherID: &alice.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.module.Create(ctx, alice, NewModule{Title: "Hacking"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	modules, err := e.module.List(ctx)
	require.NoError(t, err)
	assert.Len(t, modules, 3)
}

func TestModuleService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	teacher := e.person(t, "mr_smith", domain.RoleTeacher)
	other := e.person(t, "ms_jones", domain.RoleTeacher)
	alice := e.person(t, "alice", domain.RoleStudent)

	module, err := e.module.Create(ctx, teacher, NewModule{Title: "History"})
	require.NoError(t, err)
	_, err = e.module.Join(ctx, module.ID, alice.ID)
	require.NoError(t, err)
	_, err = e.module.CreateResource(ctx, module.ID, NewResource{Title: "Slides"})
	require.NoError(t, err)
	task, err := e.module.CreateTask(ctx, module.ID, NewTask{Title: "Essay", Points: 10})
	require.NoError(t, err)
	_, err = e.submission.Deliver(ctx, task.ID, alice.ID, "essay", nil)
	require.NoError(t, err)

	err = e.module.Delete(ctx, other, module.ID)
	assert.ErrorIs(t, err, domain.ErrNotModuleOwner)

	require.NoError(t, e.module.Delete(ctx, teacher, module.ID))

	_, err = e.module.Roster(ctx, module.ID)
	assert.ErrorIs(t, err, domain.ErrModuleNotFound)
	_, err = e.modules.FindTaskByID(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	for _, table := range []string{"memberships", "resources", "tasks", "submissions"} {
		var count int64
		require.NoError(t, e.db.Table(table).Count(&count).Error)
		assert.Zero(t, count, table)
	}
	// points already earned stay
	assert.Equal(t, 10, e.balance(t, alice.ID))

	err = e.module.Delete(ctx, teacher, module.ID)
	assert.ErrorIs(t, err, domain.ErrModuleNotFound)
}

func TestModuleService_Resources(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	teacher := e.person(t, "mr_smith", domain.RoleTeacher)
	module, err := e.module.Create(ctx, teacher, NewModule{Title: "Geography"})
	require.NoError(t, err)

	withFile, err := e.module.CreateResource(ctx, module.ID, NewResource{
		Title: "Map",
		File:  &Upload{Filename: "world.png", Body: strings.NewReader("png")},
	})
	require.NoError(t, err)
	require.NotNil(t, withFile.FileRef)
	assert.True(t, strings.HasPrefix(*withFile.FileRef, "coursework/"))

	_, err = e.module.CreateResource(ctx, module.ID, NewResource{Title: "Reading list"})
	require.NoError(t, err)

	resources, err := e.module.ListResources(ctx, module.ID)
	require.NoError(t, err)
	require.Len(t, resources, 2)
	assert.Equal(t, "Map", resources[0].Title)

	_, err = e.module.ListResources(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrModuleNotFound)
}

func TestModuleService_CreateTask(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	teacher := e.person(t, "mr_smith", domain.RoleTeacher)
	module, err := e.module.Create(ctx, teacher, NewModule{Title: "Maths"})
	require.NoError(t, err)

	task, err := e.module.CreateTask(ctx, module.ID, NewTask{Title: "Quiz", Points: 5, DueAt: "2026-11-02T09:30"})
	require.NoError(t, err)
	require.NotNil(t, task.DueAt)
	assert.True(t, task.DueAt.Equal(time.Date(2026, 11, 2, 9, 30, 0, 0, time.UTC)))

	_, err = e.module.CreateTask(ctx, module.ID, NewTask{Title: "Bad", DueAt: "next tuesday"})
	assert.ErrorIs(t, err, domain.ErrInvalidDueDate)
	assert.Equal(t, map[string]any{"due_at": "next tuesday"}, domain.Details(err))

	_, err = e.module.CreateTask(ctx, module.ID, NewTask{Title: "Bad", Points: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	tasks, err := e.module.ListTasks(ctx, module.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		in   string
		want *time.Time
		err  bool
	}{
		{in: ""},
		{in: "2026-05-01", want: ptr(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))},
		{in: "2026-05-01T08:15", want: ptr(time.Date(2026, 5, 1, 8, 15, 0, 0, time.UTC))},
		{in: "2026-05-01T08:15:00+02:00", want: ptr(time.Date(2026, 5, 1, 6, 15, 0, 0, time.UTC))},
		{in: "01/05/2026", err: true},
		{in: "2026-13-01", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDueDate(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %v", got)
		})
	}
}

func ptr[T any](v T) *T { return &v }
