package dao_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugamify/classroom-api/internal/repository/dao"
	"github.com/edugamify/classroom-api/internal/testutil"
)

func insertPerson(t *testing.T, persons *dao.PersonDAO, username, role string) dao.Person {
	t.Helper()

	p, err := persons.Insert(context.Background(), dao.Person{
		Username: username,
		Email:    username + "@school.test",
		Password: "hash",
		Role:     role,
	})
	require.NoError(t, err)

	return p
}

func TestPersonDAO_Constraints(t *testing.T) {
	ctx := context.Background()
	persons := dao.NewPersonDAO(testutil.DB(t))
	insertPerson(t, persons, "ada", "student")

	tests := []struct {
		name   string
		person dao.Person
		column string
	}{
		{
			name:   "username",
			person: dao.Person{Username: "ada", Email: "other@school.test", Password: "hash", Role: "student"},
			column: "username",
		},
		{
			name:   "email",
			person: dao.Person{Username: "other", Email: "ada@school.test", Password: "hash", Role: "student"},
			column: "email",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := persons.Insert(ctx, tc.person)
			require.ErrorIs(t, err, dao.ErrConstraintViolation)

			var constraintErr *dao.ConstraintError
			require.ErrorAs(t, err, &constraintErr)
			assert.True(t, constraintErr.Mentions(tc.column), constraintErr.Constraint)
		})
	}
}

func TestPersonDAO_NotFound(t *testing.T) {
	ctx := context.Background()
	persons := dao.NewPersonDAO(testutil.DB(t))

	_, err := persons.FindByID(ctx, 42)
	assert.ErrorIs(t, err, dao.ErrRecordNotFound)

	_, err = persons.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, dao.ErrRecordNotFound)

	assert.ErrorIs(t, persons.UpdateRole(ctx, 42, "teacher"), dao.ErrRecordNotFound)
	assert.ErrorIs(t, persons.Delete(ctx, 42), dao.ErrRecordNotFound)

	_, err = persons.AddPoints(ctx, 42, 5)
	assert.ErrorIs(t, err, dao.ErrRecordNotFound)
}

func TestPersonDAO_AddPointsConcurrently(t *testing.T) {
	ctx := context.Background()
	persons := dao.NewPersonDAO(testutil.DB(t))
	ada := insertPerson(t, persons, "ada", "student")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := persons.AddPoints(ctx, ada.ID, 5)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := persons.FindByID(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Points)
}

func TestPersonDAO_TopByRole(t *testing.T) {
	ctx := context.Background()
	persons := dao.NewPersonDAO(testutil.DB(t))

	for i, name := range []string{"ada", "bob", "cy", "dee"} {
		p := insertPerson(t, persons, name, "student")
		_, err := persons.AddPoints(ctx, p.ID, []int{10, 30, 10, 20}[i])
		require.NoError(t, err)
	}
	teacher := insertPerson(t, persons, "grace", "teacher")
	_, err := persons.AddPoints(ctx, teacher.ID, 100)
	require.NoError(t, err)

	top, err := persons.TopByRole(ctx, "student", 3)
	require.NoError(t, err)

	var names []string
	for _, p := range top {
		names = append(names, p.Username)
	}
	assert.Equal(t, []string{"bob", "dee", "ada"}, names)
}

func TestTrophyDAO_Grant(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	persons := dao.NewPersonDAO(db)
	trophies := dao.NewTrophyDAO(db)

	ada := insertPerson(t, persons, "ada", "student")
	bronze, err := trophies.Insert(ctx, dao.Trophy{Name: "Bronze", PointsRequired: 10})
	require.NoError(t, err)
	silver, err := trophies.Insert(ctx, dao.Trophy{Name: "Silver", PointsRequired: 50})
	require.NoError(t, err)

	_, err = trophies.Insert(ctx, dao.Trophy{Name: "Bronze", PointsRequired: 1})
	require.ErrorIs(t, err, dao.ErrConstraintViolation)

	eligible, err := trophies.ListUnownedWithin(ctx, ada.ID, 20)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, bronze.ID, eligible[0].ID)

	granted, err := trophies.Grant(ctx, ada.ID, bronze.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = trophies.Grant(ctx, ada.ID, bronze.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, granted)

	eligible, err = trophies.ListUnownedWithin(ctx, ada.ID, 100)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, silver.ID, eligible[0].ID)

	n, err := trophies.CountOwnerships(ctx, ada.ID, bronze.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestModuleDAO_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	persons := dao.NewPersonDAO(db)
	modules := dao.NewModuleDAO(db)
	submissions := dao.NewSubmissionDAO(db)

	teacher := insertPerson(t, persons, "grace", "teacher")
	student := insertPerson(t, persons, "ada", "student")

	doomed, err := modules.Insert(ctx, dao.Module{Title: "Algebra", TeacherID: &teacher.ID})
	require.NoError(t, err)
	kept, err := modules.Insert(ctx, dao.Module{Title: "History", TeacherID: &teacher.ID})
	require.NoError(t, err)

	for _, m := range []dao.Module{doomed, kept} {
		task, err := modules.InsertTask(ctx, dao.Task{ModuleID: m.ID, Title: "Homework", Points: 5})
		require.NoError(t, err)
		_, err = submissions.Insert(ctx, dao.Submission{TaskID: task.ID, StudentID: student.ID, DeliveredAt: time.Now()})
		require.NoError(t, err)
		_, err = modules.InsertResource(ctx, dao.Resource{ModuleID: m.ID, Title: "Slides"})
		require.NoError(t, err)
		_, err = modules.InsertMembership(ctx, dao.Membership{ModuleID: m.ID, PersonID: student.ID, JoinedAt: time.Now()})
		require.NoError(t, err)
	}

	_, err = modules.InsertMembership(ctx, dao.Membership{ModuleID: kept.ID, PersonID: student.ID, JoinedAt: time.Now()})
	require.ErrorIs(t, err, dao.ErrConstraintViolation)

	require.NoError(t, modules.Delete(ctx, doomed.ID))
	assert.ErrorIs(t, modules.Delete(ctx, doomed.ID), dao.ErrRecordNotFound)

	count := func(model any) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	assert.EqualValues(t, 1, count(&dao.Module{}))
	assert.EqualValues(t, 1, count(&dao.Task{}))
	assert.EqualValues(t, 1, count(&dao.Submission{}))
	assert.EqualValues(t, 1, count(&dao.Resource{}))
	assert.EqualValues(t, 1, count(&dao.Membership{}))
}

func TestPersonDAO_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	persons := dao.NewPersonDAO(db)
	modules := dao.NewModuleDAO(db)
	submissions := dao.NewSubmissionDAO(db)
	sessions := dao.NewSessionDAO(db)

	teacher := insertPerson(t, persons, "grace", "teacher")
	student := insertPerson(t, persons, "ada", "student")

	module, err := modules.Insert(ctx, dao.Module{Title: "Algebra", TeacherID: &teacher.ID})
	require.NoError(t, err)
	task, err := modules.InsertTask(ctx, dao.Task{ModuleID: module.ID, Title: "Homework"})
	require.NoError(t, err)

	grade := 7
	now := time.Now()
	sub, err := submissions.Insert(ctx, dao.Submission{TaskID: task.ID, StudentID: student.ID, DeliveredAt: now})
	require.NoError(t, err)
	sub.Grade, sub.GraderID, sub.GradedAt = &grade, &teacher.ID, &now
	require.NoError(t, submissions.UpdateGrade(ctx, sub))

	_, err = sessions.Insert(ctx, dao.Session{TokenHash: "h", PersonID: teacher.ID, Role: "teacher", ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)

	require.NoError(t, persons.Delete(ctx, teacher.ID))

	_, err = sessions.FindByTokenHash(ctx, "h")
	assert.ErrorIs(t, err, dao.ErrRecordNotFound)

	gotModule, err := modules.FindByID(ctx, module.ID)
	require.NoError(t, err)
	assert.Nil(t, gotModule.TeacherID)

	gotSub, err := submissions.FindByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Nil(t, gotSub.GraderID)
	require.NotNil(t, gotSub.Grade)
	assert.Equal(t, 7, *gotSub.Grade)
}

func TestTransactor(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	tx := dao.NewTransactor(db)
	persons := dao.NewPersonDAO(db)
	ada := insertPerson(t, persons, "ada", "student")

	errBoom := errors.New("boom")

	t.Run("nested failure rolls back only the savepoint", func(t *testing.T) {
		err := tx.Transact(ctx, func(ctx context.Context) error {
			assert.True(t, dao.InTx(ctx))
			if _, err := persons.AddPoints(ctx, ada.ID, 10); err != nil {
				return err
			}

			nestedErr := tx.Transact(ctx, func(ctx context.Context) error {
				if _, err := persons.AddPoints(ctx, ada.ID, 1000); err != nil {
					return err
				}
				return errBoom
			})
			assert.ErrorIs(t, nestedErr, errBoom)

			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 10, points(t, persons, ada.ID))
	})

	t.Run("outer failure rolls back everything", func(t *testing.T) {
		err := tx.Transact(ctx, func(ctx context.Context) error {
			if _, err := persons.AddPoints(ctx, ada.ID, 5); err != nil {
				return err
			}
			return errBoom
		})
		require.ErrorIs(t, err, errBoom)
		assert.Equal(t, 10, points(t, persons, ada.ID))
	})

	assert.False(t, dao.InTx(ctx))
}

func points(t *testing.T, persons *dao.PersonDAO, id uint) int {
	t.Helper()

	p, err := persons.FindByID(context.Background(), id)
	require.NoError(t, err)

	return p.Points
}
