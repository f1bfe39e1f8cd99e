package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/edugamify/classroom-api/internal/domain"
	"github.com/edugamify/classroom-api/internal/repository/dao"
)

type TrophyDAO interface {
	Insert(ctx context.Context, trophy dao.Trophy) (dao.Trophy, error)
	List(ctx context.Context) ([]dao.Trophy, error)
	ListUnownedWithin(ctx context.Context, personID uint, points int) ([]dao.Trophy, error)
	Grant(ctx context.Context, personID, trophyID uint, at time.Time) (bool, error)
	ListOwned(ctx context.Context, personID uint) ([]dao.OwnedTrophy, error)
}

type TrophyRepository struct {
	dao TrophyDAO
}

func NewTrophyRepository(dao TrophyDAO) *TrophyRepository {
	return &TrophyRepository{
		dao: dao,
	}
}

func (r *TrophyRepository) Create(ctx context.Context, trophy domain.Trophy) (domain.Trophy, error) {
	created, err := r.dao.Insert(ctx, dao.Trophy{
		Name:           trophy.Name,
		Description:    trophy.Description,
		PointsRequired: trophy.PointsRequired,
	})
	if err != nil {
		return domain.Trophy{}, fmt.Errorf("r.dao.Insert -> %w", conflict(err, domain.WithDetail(domain.ErrTrophyExists, "name", trophy.Name)))
	}

	return trophyDaoToDomain(created), nil
}

func (r *TrophyRepository) List(ctx context.Context) ([]domain.Trophy, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	return trophiesDaoToDomain(found), nil
}

// Eligible lists trophies within reach of points that the person does not
// own yet.
func (r *TrophyRepository) Eligible(ctx context.Context, personID uint, points int) ([]domain.Trophy, error) {
	found, err := r.dao.ListUnownedWithin(ctx, personID, points)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListUnownedWithin -> %w", err)
	}

	return trophiesDaoToDomain(found), nil
}

// Grant reports false when the person already owned the trophy.
func (r *TrophyRepository) Grant(ctx context.Context, personID, trophyID uint, at time.Time) (bool, error) {
	granted, err := r.dao.Grant(ctx, personID, trophyID, at)
	if err != nil {
		return false, fmt.Errorf("r.dao.Grant -> %w", err)
	}

	return granted, nil
}

func (r *TrophyRepository) Owned(ctx context.Context, personID uint) ([]domain.EarnedTrophy, error) {
	found, err := r.dao.ListOwned(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListOwned -> %w", err)
	}

	earned := make([]domain.EarnedTrophy, len(found))
	for i, o := range found {
		earned[i] = domain.EarnedTrophy{
			Trophy:   trophyDaoToDomain(o.Trophy),
			EarnedAt: o.EarnedAt,
		}
	}

	return earned, nil
}

func trophyDaoToDomain(t dao.Trophy) domain.Trophy {
	return domain.Trophy{
		ID:             t.ID,
		Name:           t.Name,
		Description:    t.Description,
		PointsRequired: t.PointsRequired,
		CreatedAt:      t.CreatedAt,
	}
}

func trophiesDaoToDomain(trophies []dao.Trophy) []domain.Trophy {
	result := make([]domain.Trophy, len(trophies))
	for i, t := range trophies {
		result[i] = trophyDaoToDomain(t)
	}

	return result
}
