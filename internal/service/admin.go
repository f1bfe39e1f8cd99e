package service

import (
	"context"
	"fmt"

	"github.com/edugamify/classroom-api/internal/domain"
)

type AdminPersonRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Person, error)
	List(ctx context.Context) ([]domain.Person, error)
	UpdateRole(ctx context.Context, id uint, role domain.Role) error
	Delete(ctx context.Context, id uint) error
}

type AdminTrophyRepository interface {
	Create(ctx context.Context, trophy domain.Trophy) (domain.Trophy, error)
}

type AdminActivityRepository interface {
	Create(ctx context.Context, activity domain.Activity) (domain.Activity, error)
}

type AdminService struct {
	tx         Transactor
	persons    AdminPersonRepository
	trophies   AdminTrophyRepository
	activities AdminActivityRepository
	evaluator  Evaluator
}

func NewAdminService(
	tx Transactor,
	persons AdminPersonRepository,
	trophies AdminTrophyRepository,
	activities AdminActivityRepository,
	evaluator Evaluator,
) *AdminService {
	return &AdminService{
		tx:         tx,
		persons:    persons,
		trophies:   trophies,
		activities: activities,
		evaluator:  evaluator,
	}
}

func (s *AdminService) ListPersons(ctx context.Context) ([]domain.Person, error) {
	persons, err := s.persons.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.persons.List -> %w", err)
	}

	return persons, nil
}

func (s *AdminService) DeletePerson(ctx context.Context, actorID, personID uint) error {
	if actorID == personID {
		return domain.WithDetail(domain.ErrSelfDeletion, "id", personID)
	}
	if _, err := s.persons.FindByID(ctx, personID); err != nil {
		return fmt.Errorf("s.persons.FindByID -> %w", err)
	}

	return s.tx.Transact(ctx, func(ctx context.Context) error {
		if err := s.persons.Delete(ctx, personID); err != nil {
			return fmt.Errorf("s.persons.Delete -> %w", err)
		}

		return nil
	})
}

// ChangeRole applies from the person's next request on; open sessions stay
// valid.
func (s *AdminService) ChangeRole(ctx context.Context, personID uint, role string) (domain.Person, error) {
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return domain.Person{}, domain.WithDetail(err, "role", role)
	}
	if err := s.persons.UpdateRole(ctx, personID, parsed); err != nil {
		return domain.Person{}, fmt.Errorf("s.persons.UpdateRole -> %w", err)
	}

	person, err := s.persons.FindByID(ctx, personID)
	if err != nil {
		return domain.Person{}, fmt.Errorf("s.persons.FindByID -> %w", err)
	}

	return person, nil
}

func (s *AdminService) CreateTrophy(ctx context.Context, trophy domain.Trophy) (domain.Trophy, error) {
	if trophy.PointsRequired < 0 {
		return domain.Trophy{}, domain.WithDetail(domain.ErrNegativePoints, "points_required", trophy.PointsRequired)
	}

	created, err := s.trophies.Create(ctx, trophy)
	if err != nil {
		return domain.Trophy{}, fmt.Errorf("s.trophies.Create -> %w", err)
	}

	return created, nil
}

func (s *AdminService) CreateActivity(ctx context.Context, activity domain.Activity) (domain.Activity, error) {
	if activity.PointsPerPlay < 0 {
		return domain.Activity{}, domain.WithDetail(domain.ErrNegativePoints, "points_per_play", activity.PointsPerPlay)
	}

	created, err := s.activities.Create(ctx, activity)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("s.activities.Create -> %w", err)
	}

	return created, nil
}

// EvaluateTrophies re-runs trophy evaluation for one person, picking up
// grants that an earlier failed evaluation or a newly created trophy left
// behind.
func (s *AdminService) EvaluateTrophies(ctx context.Context, personID uint) ([]domain.Trophy, error) {
	var granted []domain.Trophy
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		person, err := s.persons.FindByID(ctx, personID)
		if err != nil {
			return fmt.Errorf("s.persons.FindByID -> %w", err)
		}

		granted, err = s.evaluator.Evaluate(ctx, person)
		if err != nil {
			return fmt.Errorf("s.evaluator.Evaluate -> %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return granted, nil
}
