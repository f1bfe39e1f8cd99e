package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edugamify/classroom-api/internal/blob"
	"github.com/edugamify/classroom-api/internal/domain"
	"github.com/edugamify/classroom-api/internal/repository"
	"github.com/edugamify/classroom-api/internal/repository/dao"
	"github.com/edugamify/classroom-api/internal/session"
	"github.com/edugamify/classroom-api/internal/testutil"
)

type env struct {
	db         *gorm.DB
	tx         *dao.Transactor
	persons    *repository.PersonRepository
	modules    *repository.ModuleRepository
	subs       *repository.SubmissionRepository
	trophies   *repository.TrophyRepository
	activities *repository.ActivityRepository
	sessions   session.Store
	blobs      blob.Store

	evaluator   *TrophyEvaluator
	ledger      *Ledger
	guard       *Guard
	auth        *AuthService
	admin       *AdminService
	module      *ModuleService
	submission  *SubmissionService
	activity    *ActivityService
	leaderboard *LeaderboardService
}

func newEnv(t *testing.T) *env {
	return newEnvWith(t, SubmissionOptions{DeliveryBonus: 10})
}

func newEnvWith(t *testing.T, opts SubmissionOptions) *env {
	t.Helper()

	db := testutil.DB(t)
	blobs, err := blob.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	e := &env{
		db:         db,
		tx:         dao.NewTransactor(db),
		persons:    repository.NewPersonRepository(dao.NewPersonDAO(db)),
		modules:    repository.NewModuleRepository(dao.NewModuleDAO(db)),
		subs:       repository.NewSubmissionRepository(dao.NewSubmissionDAO(db)),
		trophies:   repository.NewTrophyRepository(dao.NewTrophyDAO(db)),
		activities: repository.NewActivityRepository(dao.NewActivityDAO(db)),
		sessions:   session.NewDBStore(dao.NewSessionDAO(db), 0),
		blobs:      blobs,
	}
	e.evaluator = NewTrophyEvaluator(e.trophies)
	e.ledger = NewLedger(e.tx, e.persons, e.evaluator)
	e.guard = NewGuard(e.sessions, e.persons)
	e.auth = NewAuthService(e.persons, e.sessions, e.blobs)
	e.admin = NewAdminService(e.tx, e.persons, e.trophies, e.activities, e.evaluator)
	e.module = NewModuleService(e.tx, e.modules, e.persons, e.blobs)
	e.submission = NewSubmissionService(e.tx, e.modules, e.subs, e.ledger, e.blobs, opts)
	e.activity = NewActivityService(e.tx, e.activities, e.ledger)
	e.leaderboard = NewLeaderboardService(e.persons, e.trophies, e.activities, LeaderboardOptions{})

	return e
}

func (e *env) person(t *testing.T, username string, role domain.Role) domain.Person {
	t.Helper()
	p, err := e.auth.CreateAccount(context.Background(), Account{
		Username: username,
		Email:    username + "@school.test",
		Password: "secret123",
		Role:     role,
	})
	require.NoError(t, err)

	return p
}

func (e *env) signIn(t *testing.T, p domain.Person) context.Context {
	t.Helper()
	token, _, err := e.auth.SignIn(context.Background(), p.Username, "secret123")
	require.NoError(t, err)

	return WithSessionToken(context.Background(), token)
}

func (e *env) task(t *testing.T, teacher domain.Person) domain.Task {
	t.Helper()
	ctx := context.Background()
	module, err := e.module.Create(ctx, teacher, NewModule{Title: "Algebra"})
	require.NoError(t, err)
	task, err := e.module.CreateTask(ctx, module.ID, NewTask{Title: "Homework 1", Points: 20})
	require.NoError(t, err)

	return task
}

func (e *env) trophy(t *testing.T, name string, points int) domain.Trophy {
	t.Helper()
	trophy, err := e.admin.CreateTrophy(context.Background(), domain.Trophy{Name: name, PointsRequired: points})
	require.NoError(t, err)

	return trophy
}

func (e *env) balance(t *testing.T, personID uint) int {
	t.Helper()
	p, err := e.persons.FindByID(context.Background(), personID)
	require.NoError(t, err)

	return p.Points
}

func (e *env) ownershipCount(t *testing.T, personID, trophyID uint) int64 {
	t.Helper()
	n, err := dao.NewTrophyDAO(e.db).CountOwnerships(context.Background(), personID, trophyID)
	require.NoError(t, err)

	return n
}

func names(n int, prefix string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%02d", prefix, i)
	}

	return out
}
