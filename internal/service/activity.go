package service

import (
	"context"
	"fmt"
	"time"

	"github.com/edugamify/classroom-api/internal/domain"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity domain.Activity) (domain.Activity, error)
	FindByID(ctx context.Context, id uint) (domain.Activity, error)
	List(ctx context.Context) ([]domain.Activity, error)
	RecordPlay(ctx context.Context, play domain.PlaySession) (domain.PlaySession, error)
	HighScores(ctx context.Context, activityID uint, limit int) ([]domain.HighScore, error)
}

type PlayResult struct {
	Session domain.PlaySession  `json:"session"`
	Credit  domain.CreditResult `json:"credit"`
}

type ActivityService struct {
	tx         Transactor
	activities ActivityRepository
	ledger     Creditor
	now        func() time.Time
}

func NewActivityService(tx Transactor, activities ActivityRepository, ledger Creditor) *ActivityService {
	return &ActivityService{
		tx:         tx,
		activities: activities,
		ledger:     ledger,
		now:        time.Now,
	}
}

func (s *ActivityService) List(ctx context.Context) ([]domain.Activity, error) {
	activities, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.activities.List -> %w", err)
	}

	return activities, nil
}

// Play records one play and pays the activity's fixed reward, whatever the
// score.
func (s *ActivityService) Play(ctx context.Context, activityID, studentID uint, score int) (PlayResult, error) {
	if score < 0 {
		return PlayResult{}, domain.WithDetail(domain.ErrNegativeScore, "score", score)
	}
	activity, err := s.activities.FindByID(ctx, activityID)
	if err != nil {
		return PlayResult{}, fmt.Errorf("s.activities.FindByID -> %w", err)
	}

	var result PlayResult
	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		play, err := s.activities.RecordPlay(ctx, domain.PlaySession{
			ActivityID: activity.ID,
			PersonID:   studentID,
			Score:      score,
			PlayedAt:   s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("s.activities.RecordPlay -> %w", err)
		}

		credit, err := s.ledger.Credit(ctx, studentID, activity.PointsPerPlay)
		if err != nil {
			return fmt.Errorf("s.ledger.Credit -> %w", err)
		}

		result = PlayResult{Session: play, Credit: credit}
		return nil
	})
	if err != nil {
		return PlayResult{}, err
	}

	return result, nil
}
