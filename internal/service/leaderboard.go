package service

import (
	"context"
	"fmt"

	"github.com/edugamify/classroom-api/internal/domain"
)

type LeaderboardPersonRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Person, error)
	TopStudents(ctx context.Context, limit int) ([]domain.Person, error)
}

type LeaderboardTrophyRepository interface {
	List(ctx context.Context) ([]domain.Trophy, error)
	Owned(ctx context.Context, personID uint) ([]domain.EarnedTrophy, error)
}

type LeaderboardActivityRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Activity, error)
	HighScores(ctx context.Context, activityID uint, limit int) ([]domain.HighScore, error)
}

type LeaderboardOptions struct {
	Limit          int
	HighscoreLimit int
}

// LeaderboardService serves the read-only rankings and catalogs.
type LeaderboardService struct {
	persons    LeaderboardPersonRepository
	trophies   LeaderboardTrophyRepository
	activities LeaderboardActivityRepository
	opts       LeaderboardOptions
}

func NewLeaderboardService(
	persons LeaderboardPersonRepository,
	trophies LeaderboardTrophyRepository,
	activities LeaderboardActivityRepository,
	opts LeaderboardOptions,
) *LeaderboardService {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.HighscoreLimit <= 0 {
		opts.HighscoreLimit = 10
	}

	return &LeaderboardService{
		persons:    persons,
		trophies:   trophies,
		activities: activities,
		opts:       opts,
	}
}

func (s *LeaderboardService) TopPerformers(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	students, err := s.persons.TopStudents(ctx, s.opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("s.persons.TopStudents -> %w", err)
	}

	entries := make([]domain.LeaderboardEntry, len(students))
	for i, p := range students {
		entries[i] = domain.LeaderboardEntry{Rank: i + 1, Person: p, Points: p.Points}
	}

	return entries, nil
}

func (s *LeaderboardService) ActivityHighScores(ctx context.Context, activityID uint) ([]domain.HighScore, error) {
	if _, err := s.activities.FindByID(ctx, activityID); err != nil {
		return nil, fmt.Errorf("s.activities.FindByID -> %w", err)
	}

	scores, err := s.activities.HighScores(ctx, activityID, s.opts.HighscoreLimit)
	if err != nil {
		return nil, fmt.Errorf("s.activities.HighScores -> %w", err)
	}

	return scores, nil
}

func (s *LeaderboardService) Trophies(ctx context.Context) ([]domain.Trophy, error) {
	trophies, err := s.trophies.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.trophies.List -> %w", err)
	}

	return trophies, nil
}

func (s *LeaderboardService) MyTrophies(ctx context.Context, personID uint) ([]domain.EarnedTrophy, error) {
	owned, err := s.trophies.Owned(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("s.trophies.Owned -> %w", err)
	}

	return owned, nil
}

// MyAchievements summarises a balance against the trophy catalog. The next
// trophy is the cheapest one above the current balance; trophies already in
// reach but not yet granted are left to the evaluator.
func (s *LeaderboardService) MyAchievements(ctx context.Context, personID uint) (domain.Achievements, error) {
	person, err := s.persons.FindByID(ctx, personID)
	if err != nil {
		return domain.Achievements{}, fmt.Errorf("s.persons.FindByID -> %w", err)
	}
	owned, err := s.trophies.Owned(ctx, personID)
	if err != nil {
		return domain.Achievements{}, fmt.Errorf("s.trophies.Owned -> %w", err)
	}
	catalog, err := s.trophies.List(ctx)
	if err != nil {
		return domain.Achievements{}, fmt.Errorf("s.trophies.List -> %w", err)
	}

	has := make(map[uint]bool, len(owned))
	for _, o := range owned {
		has[o.Trophy.ID] = true
	}

	achievements := domain.Achievements{Points: person.Points, Trophies: owned}
	for _, t := range catalog {
		if has[t.ID] || t.EligibleFor(person.Points) {
			continue
		}
		next := t
		achievements.NextTrophy = &next
		achievements.PointsRemaining = t.PointsRequired - person.Points
		break
	}

	return achievements, nil
}
