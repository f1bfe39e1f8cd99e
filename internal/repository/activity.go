package repository

import (
	"context"
	"fmt"

	"github.com/edugamify/classroom-api/internal/domain"
	"github.com/edugamify/classroom-api/internal/repository/dao"
)

type ActivityDAO interface {
	Insert(ctx context.Context, activity dao.Activity) (dao.Activity, error)
	FindByID(ctx context.Context, id uint) (dao.Activity, error)
	List(ctx context.Context) ([]dao.Activity, error)
	InsertPlay(ctx context.Context, play dao.PlaySession) (dao.PlaySession, error)
	HighScores(ctx context.Context, activityID uint, limit int) ([]dao.ScoredPlay, error)
}

type ActivityRepository struct {
	dao ActivityDAO
}

func NewActivityRepository(dao ActivityDAO) *ActivityRepository {
	return &ActivityRepository{
		dao: dao,
	}
}

func (r *ActivityRepository) Create(ctx context.Context, activity domain.Activity) (domain.Activity, error) {
	created, err := r.dao.Insert(ctx, dao.Activity{
		Name:          activity.Name,
		Description:   activity.Description,
		PointsPerPlay: activity.PointsPerPlay,
	})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("r.dao.Insert -> %w", conflict(err, domain.WithDetail(domain.ErrActivityExists, "name", activity.Name)))
	}

	return activityDaoToDomain(created), nil
}

func (r *ActivityRepository) FindByID(ctx context.Context, id uint) (domain.Activity, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("r.dao.FindByID -> %w", notFound(err, domain.WithDetail(domain.ErrActivityNotFound, "id", id)))
	}

	return activityDaoToDomain(found), nil
}

func (r *ActivityRepository) List(ctx context.Context) ([]domain.Activity, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	activities := make([]domain.Activity, len(found))
	for i, a := range found {
		activities[i] = activityDaoToDomain(a)
	}

	return activities, nil
}

func (r *ActivityRepository) RecordPlay(ctx context.Context, play domain.PlaySession) (domain.PlaySession, error) {
	created, err := r.dao.InsertPlay(ctx, dao.PlaySession{
		ActivityID: play.ActivityID,
		PersonID:   play.PersonID,
		Score:      play.Score,
		PlayedAt:   play.PlayedAt,
	})
	if err != nil {
		return domain.PlaySession{}, fmt.Errorf("r.dao.InsertPlay -> %w", err)
	}

	return playDaoToDomain(created), nil
}

// HighScores ranks the best plays of an activity starting at 1.
func (r *ActivityRepository) HighScores(ctx context.Context, activityID uint, limit int) ([]domain.HighScore, error) {
	found, err := r.dao.HighScores(ctx, activityID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.HighScores -> %w", err)
	}

	scores := make([]domain.HighScore, len(found))
	for i, s := range found {
		scores[i] = domain.HighScore{
			Rank:     i + 1,
			Username: s.Username,
			Session:  playDaoToDomain(s.Play),
		}
	}

	return scores, nil
}

func activityDaoToDomain(a dao.Activity) domain.Activity {
	return domain.Activity{
		ID:            a.ID,
		Name:          a.Name,
		Description:   a.Description,
		PointsPerPlay: a.PointsPerPlay,
		CreatedAt:     a.CreatedAt,
	}
}

func playDaoToDomain(p dao.PlaySession) domain.PlaySession {
	return domain.PlaySession{
		ID:         p.ID,
		ActivityID: p.ActivityID,
		PersonID:   p.PersonID,
		Score:      p.Score,
		PlayedAt:   p.PlayedAt,
	}
}
