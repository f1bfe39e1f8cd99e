package service

import (
	"context"
	"fmt"
	"time"

	"github.com/edugamify/classroom-api/internal/domain"
)

type EvaluatorTrophyRepository interface {
	Eligible(ctx context.Context, personID uint, points int) ([]domain.Trophy, error)
	Grant(ctx context.Context, personID, trophyID uint, at time.Time) (bool, error)
}

type TrophyEvaluator struct {
	trophies EvaluatorTrophyRepository
	now      func() time.Time
}

func NewTrophyEvaluator(trophies EvaluatorTrophyRepository) *TrophyEvaluator {
	return &TrophyEvaluator{
		trophies: trophies,
		now:      time.Now,
	}
}

// Evaluate grants every trophy the person's balance reaches and they do not
// hold yet. Grants lost to a concurrent evaluation are skipped, so the
// result only lists trophies this call actually wrote.
func (e *TrophyEvaluator) Evaluate(ctx context.Context, person domain.Person) ([]domain.Trophy, error) {
	candidates, err := e.trophies.Eligible(ctx, person.ID, person.Points)
	if err != nil {
		return nil, fmt.Errorf("e.trophies.Eligible -> %w", err)
	}

	granted := make([]domain.Trophy, 0, len(candidates))
	at := e.now().UTC()
	for _, trophy := range candidates {
		if !trophy.EligibleFor(person.Points) {
			continue
		}
		ok, err := e.trophies.Grant(ctx, person.ID, trophy.ID, at)
		if err != nil {
			return nil, fmt.Errorf("e.trophies.Grant -> %w", err)
		}
		if ok {
			granted = append(granted, trophy)
		}
	}

	return granted, nil
}
