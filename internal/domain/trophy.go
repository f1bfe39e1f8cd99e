package domain

import "time"

type Trophy struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	PointsRequired int       `json:"points_required"`
	CreatedAt      time.Time `json:"created_at"`
}

// EligibleFor reports whether a balance reaches the trophy threshold.
func (t Trophy) EligibleFor(points int) bool {
	return t.PointsRequired <= points
}

type TrophyOwnership struct {
	ID       uint      `json:"id"`
	PersonID uint      `json:"person_id"`
	TrophyID uint      `json:"trophy_id"`
	EarnedAt time.Time `json:"earned_at"`
}

type EarnedTrophy struct {
	Trophy   Trophy    `json:"trophy"`
	EarnedAt time.Time `json:"earned_at"`
}

type CreditResult struct {
	PersonID uint     `json:"person_id"`
	Amount   int      `json:"amount"`
	Balance  int      `json:"balance"`
	Granted  []Trophy `json:"new_trophies"`
}

type Achievements struct {
	Points          int            `json:"points"`
	Trophies        []EarnedTrophy `json:"trophies"`
	NextTrophy      *Trophy        `json:"next_trophy,omitempty"`
	PointsRemaining int            `json:"points_remaining"`
}
